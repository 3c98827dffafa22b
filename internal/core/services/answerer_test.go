package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

func scored(texts ...string) []domain.ScoredChunk {
	hits := make([]domain.ScoredChunk, len(texts))
	for i, text := range texts {
		hits[i] = domain.ScoredChunk{
			Chunk: domain.Chunk{Content: text, Metadata: map[string]any{domain.MetadataSource: "notes.pdf"}},
			Score: 1 - float64(i)/10,
		}
	}
	return hits
}

func TestAnswerer_Synthesize(t *testing.T) {
	chat := &mockChat{response: "## Photosynthesis\n**Light** becomes sugar."}
	answerer := NewAnswerer(nil, chat, newMockPromptStore(), AnswerOptions{Temperature: 0.3, MaxTokens: 512})
	hits := scored("first passage", "second passage", "third passage")

	answer, err := answerer.Synthesize(context.Background(), "What is photosynthesis?", hits)

	require.NoError(t, err)
	assert.Equal(t, "## Photosynthesis\n**Light** becomes sugar.", answer.Text)
	assert.Equal(t, "What is photosynthesis?", answer.Question)
	assert.Equal(t, hits, answer.Sources)
	assert.Equal(t, "mock-chat", answer.Model)

	require.Len(t, chat.messages, 2)
	assert.Equal(t, driven.RoleSystem, chat.messages[0].Role)
	assert.Equal(t, "You are a helpful educational assistant.", chat.messages[0].Content)
	assert.Equal(t, driven.RoleUser, chat.messages[1].Role)
	assert.Equal(t,
		"Context:\nfirst passage\n\nsecond passage\n\nthird passage\n\nQuestion: What is photosynthesis?",
		chat.messages[1].Content)
	assert.InDelta(t, 0.3, chat.opts.Temperature, 1e-9)
	assert.Equal(t, 512, chat.opts.MaxTokens)
}

func TestAnswerer_BuildMessages_PlaceholdersInInputStayLiteral(t *testing.T) {
	answerer := NewAnswerer(nil, &mockChat{}, newMockPromptStore(), AnswerOptions{})

	messages, err := answerer.BuildMessages("what does {context} mean?", scored("a {question} in the notes"))

	require.NoError(t, err)
	assert.Equal(t,
		"Context:\na {question} in the notes\n\nQuestion: what does {context} mean?",
		messages[1].Content)
}

func TestAnswerer_BuildMessages_TemplateMissingPlaceholder(t *testing.T) {
	prompts := newMockPromptStore()
	prompts.prompts[driven.PromptAnswerUser] = "Answer the question: {question}"
	answerer := NewAnswerer(nil, &mockChat{}, prompts, AnswerOptions{})

	_, err := answerer.BuildMessages("q", scored("a"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswerer_BuildMessages_PromptStoreFailure(t *testing.T) {
	prompts := newMockPromptStore()
	prompts.err = errors.New("permission denied")
	answerer := NewAnswerer(nil, &mockChat{}, prompts, AnswerOptions{})

	_, err := answerer.BuildMessages("q", scored("a"))

	assert.Error(t, err)
}

func TestAnswerer_Synthesize_CompletionFailure(t *testing.T) {
	chat := &mockChat{err: errProvider}
	answerer := NewAnswerer(nil, chat, newMockPromptStore(), AnswerOptions{})

	answer, err := answerer.Synthesize(context.Background(), "q", scored("a"))

	require.Error(t, err)
	assert.Nil(t, answer)
	assert.ErrorIs(t, err, domain.ErrCompletionUnavailable)
	assert.ErrorIs(t, err, errProvider)
	assert.Equal(t, 1, chat.calls, "no retry")
}

func TestAnswerer_Answer_RetrievesThenSynthesizes(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder()
	index := NewIndexService(embedder, newMockIndexStore(), memoryIndexFactory)
	idx, _, err := index.Build(ctx, testCorpus())
	require.NoError(t, err)

	chat := &mockChat{response: "answer"}
	answerer := NewAnswerer(index, chat, newMockPromptStore(), AnswerOptions{Temperature: 0.3})

	answer, err := answerer.Answer(ctx, "photosynthesis", idx, 2)

	require.NoError(t, err)
	assert.Len(t, answer.Sources, 2)
	assert.Equal(t, 1, embedder.embedCalls)
	assert.Contains(t, chat.messages[1].Content, answer.Sources[0].Chunk.Content+"\n\n"+answer.Sources[1].Chunk.Content)
}

func TestAnswerer_Answer_SearchFailureSkipsChat(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder()
	index := NewIndexService(embedder, newMockIndexStore(), memoryIndexFactory)
	idx, _, err := index.Build(ctx, testCorpus())
	require.NoError(t, err)
	embedder.embedErr = errProvider

	chat := &mockChat{}
	_, err = NewAnswerer(index, chat, newMockPromptStore(), AnswerOptions{}).Answer(ctx, "q", idx, 3)

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Zero(t, chat.calls)
}
