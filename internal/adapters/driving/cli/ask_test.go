package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func notesAnswer(question string) *domain.Answer {
	return &domain.Answer{
		Question: question,
		Text:     "## Photosynthesis\n**Light reactions** happen in the thylakoid.",
		Model:    "llama-3.3-70b-versatile",
		Sources: []domain.ScoredChunk{
			{
				Chunk: domain.Chunk{
					Content:  "The light reactions\n\ntake place in the thylakoid membranes.",
					Metadata: map[string]any{domain.MetadataSource: "plants.pdf", domain.MetadataPage: 6},
				},
				Score: 0.92,
			},
			{
				Chunk: domain.Chunk{
					Content:  "Calvin cycle overview.",
					Metadata: map[string]any{domain.MetadataSource: "https://example.com/calvin"},
				},
				Score: 0.75,
			},
		},
	}
}

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute("ask")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_Flags(t *testing.T) {
	k := askCmd.Flags().Lookup("top-k")
	require.NotNil(t, k)
	assert.Equal(t, "k", k.Shorthand)
	assert.Equal(t, "0", k.DefValue)

	j := askCmd.Flags().Lookup("json")
	require.NotNil(t, j)
	assert.Equal(t, "false", j.DefValue)
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	var gotK int
	cleanup := setupTestServicesWith(&mockSessionService{
		status: domain.SessionStatus{Processed: true},
		AskFunc: func(_ context.Context, q string, k int) (*domain.Answer, error) {
			gotK = k
			return notesAnswer(q), nil
		},
	})
	defer cleanup()

	stdout, _, err := execute("ask", "-k", "2", "How does photosynthesis work?")

	require.NoError(t, err)
	assert.Equal(t, 2, gotK)
	assert.Contains(t, stdout, "## Photosynthesis")
	assert.Contains(t, stdout, "Sources:")
	assert.Contains(t, stdout, "[1] plants.pdf (page 7) (0.92)")
	assert.Contains(t, stdout, "[2] https://example.com/calvin (0.75)")
}

func TestAskCmd_LoadsSavedIndex(t *testing.T) {
	session := &mockSessionService{}
	cleanup := setupTestServicesWith(session)
	defer cleanup()

	_, _, err := execute("ask", "question")

	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/studymate-test/index.db"}, session.loadPaths)
}

func TestAskCmd_SkipsLoadWhenProcessed(t *testing.T) {
	session := &mockSessionService{status: domain.SessionStatus{Processed: true}}
	cleanup := setupTestServicesWith(session)
	defer cleanup()

	_, _, err := execute("ask", "question")

	require.NoError(t, err)
	assert.Empty(t, session.loadPaths)
}

func TestAskCmd_NoSavedIndex(t *testing.T) {
	asked := false
	cleanup := setupTestServicesWith(&mockSessionService{
		LoadFunc: func(context.Context, string) (*domain.IndexInfo, error) {
			return nil, domain.ErrNotFound
		},
		AskFunc: func(context.Context, string, int) (*domain.Answer, error) {
			asked = true
			return nil, nil
		},
	})
	defer cleanup()

	_, _, err := execute("ask", "question")

	require.ErrorIs(t, err, domain.ErrNotProcessed)
	assert.Equal(t, domain.NotProcessedMessage, domain.UserMessage(err))
	assert.False(t, asked)
}

func TestAskCmd_CorruptIndex(t *testing.T) {
	cleanup := setupTestServicesWith(&mockSessionService{
		LoadFunc: func(context.Context, string) (*domain.IndexInfo, error) {
			return nil, domain.ErrIndexMismatch
		},
	})
	defer cleanup()

	_, _, err := execute("ask", "question")

	require.ErrorIs(t, err, domain.ErrIndexMismatch)
	assert.Contains(t, err.Error(), "loading index /tmp/studymate-test/index.db")
}

func TestAskCmd_ProviderError(t *testing.T) {
	cleanup := setupTestServicesWith(&mockSessionService{
		status: domain.SessionStatus{Processed: true},
		AskFunc: func(context.Context, string, int) (*domain.Answer, error) {
			return nil, domain.NewCompletionError("groq", errors.New("invalid api key"))
		},
	})
	defer cleanup()

	_, _, err := execute("ask", "question")

	require.ErrorIs(t, err, domain.ErrCompletionUnavailable)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestAskCmd_EmptyQuestion(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute("ask", "   ")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAskCmd_JSON(t *testing.T) {
	cleanup := setupTestServicesWith(&mockSessionService{
		status: domain.SessionStatus{Processed: true},
		AskFunc: func(_ context.Context, q string, _ int) (*domain.Answer, error) {
			return notesAnswer(q), nil
		},
	})
	defer cleanup()

	stdout, _, err := execute("ask", "--json", "What happens in the thylakoid?")
	require.NoError(t, err)

	var out askOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "What happens in the thylakoid?", out.Question)
	assert.Equal(t, "llama-3.3-70b-versatile", out.Model)
	require.Len(t, out.Sources, 2)
	assert.Equal(t, "plants.pdf", out.Sources[0].Source)
	require.NotNil(t, out.Sources[0].Page)
	assert.Equal(t, 7, *out.Sources[0].Page)
	assert.Equal(t, "The light reactions take place in the thylakoid membranes.", out.Sources[0].Excerpt)
	assert.Nil(t, out.Sources[1].Page)
}

func TestPrintAnswer_Styled(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	printAnswer(cmd, notesAnswer("q"), true)

	out := buf.String()
	assert.Contains(t, out, "Photosynthesis")
	assert.NotContains(t, out, "## ")
	assert.NotContains(t, out, "**")
	assert.Contains(t, out, "Light reactions")
}

func TestPrintAnswer_NoSources(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	printAnswer(cmd, &domain.Answer{Text: "plain"}, false)

	assert.Equal(t, "plain\n", buf.String())
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 10, "abc"},
		{"collapses whitespace", "a\n\n b\tc", 10, "a b c"},
		{"cut", "abcdefghij", 4, "abcd..."},
		{"runes", "ééééé", 2, "éé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, excerpt(tt.in, tt.n))
		})
	}
}
