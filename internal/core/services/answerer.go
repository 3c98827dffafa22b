package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Prompt template placeholders.
const (
	placeholderContext  = "{context}"
	placeholderQuestion = "{question}"
)

// contextSeparator joins retrieved passages into one context block.
const contextSeparator = "\n\n"

// AnswerOptions holds the sampling settings sent with every question.
type AnswerOptions struct {
	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens caps the answer length; 0 leaves it to the provider.
	MaxTokens int
}

// Answerer retrieves the passages most relevant to a question and asks the
// chat model to answer from them.
type Answerer struct {
	index   *IndexService
	chat    driven.ChatService
	prompts driven.PromptStore
	opts    AnswerOptions
}

// NewAnswerer creates an answerer.
func NewAnswerer(index *IndexService, chat driven.ChatService, prompts driven.PromptStore, opts AnswerOptions) *Answerer {
	return &Answerer{
		index:   index,
		chat:    chat,
		prompts: prompts,
		opts:    opts,
	}
}

// Answer retrieves the k chunks of idx most similar to question and
// synthesises an answer from them.
func (a *Answerer) Answer(ctx context.Context, question string, idx driven.VectorIndex, k int) (*domain.Answer, error) {
	hits, err := a.index.Search(ctx, idx, question, k)
	if err != nil {
		return nil, err
	}
	return a.Synthesize(ctx, question, hits)
}

// Synthesize sends one chat request built from the retrieved chunks and
// returns the model's text with the chunks as sources.
func (a *Answerer) Synthesize(ctx context.Context, question string, hits []domain.ScoredChunk) (*domain.Answer, error) {
	if a.chat == nil {
		return nil, fmt.Errorf("%w: no chat service configured", domain.ErrCompletionUnavailable)
	}

	messages, err := a.BuildMessages(question, hits)
	if err != nil {
		return nil, err
	}

	logger.Debug("Asking %s with %d context chunks", a.chat.ModelName(), len(hits))
	text, err := a.chat.Chat(ctx, messages, driven.ChatOptions{
		Temperature: a.opts.Temperature,
		MaxTokens:   a.opts.MaxTokens,
	})
	if err != nil {
		return nil, domain.NewCompletionError(a.chat.ProviderName(), err)
	}

	return &domain.Answer{
		Question: question,
		Text:     text,
		Sources:  hits,
		Model:    a.chat.ModelName(),
	}, nil
}

// BuildMessages renders the system message and the user prompt for question.
func (a *Answerer) BuildMessages(question string, hits []domain.ScoredChunk) ([]driven.ChatMessage, error) {
	system, err := a.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return nil, fmt.Errorf("load system prompt: %w", err)
	}
	template, err := a.prompts.Load(driven.PromptAnswerUser)
	if err != nil {
		return nil, fmt.Errorf("load answer prompt: %w", err)
	}
	if !strings.Contains(template, placeholderContext) || !strings.Contains(template, placeholderQuestion) {
		return nil, fmt.Errorf("%w: prompt %q must contain %s and %s",
			domain.ErrInvalidInput, driven.PromptAnswerUser, placeholderContext, placeholderQuestion)
	}

	// A single-pass replacer keeps placeholders inside the passages or the
	// question literal.
	prompt := strings.NewReplacer(
		placeholderContext, buildContext(hits),
		placeholderQuestion, question,
	).Replace(template)

	return []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: prompt},
	}, nil
}

func buildContext(hits []domain.ScoredChunk) string {
	parts := make([]string, len(hits))
	for i := range hits {
		parts[i] = hits[i].Chunk.Content
	}
	return strings.Join(parts, contextSeparator)
}
