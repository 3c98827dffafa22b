package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNotProcessed", ErrNotProcessed},
		{"ErrNoDocuments", ErrNoDocuments},
		{"ErrIngestion", ErrIngestion},
		{"ErrIndexEmpty", ErrIndexEmpty},
		{"ErrIndexMismatch", ErrIndexMismatch},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrCompletionUnavailable", ErrCompletionUnavailable},
		{"ErrMissingCredentials", ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestIngestionError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewIngestionError(SourceKindPDF, "notes.pdf", cause)

	assert.Equal(t, "error processing PDF notes.pdf: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, ErrIngestion)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEmbeddingUnavailable)

	web := NewIngestionError(SourceKindWebsite, "https://example.com", cause)
	assert.Equal(t, "error processing website https://example.com: unexpected EOF", web.Error())
}

func TestIngestionError_Wrapped(t *testing.T) {
	err := fmt.Errorf("process: %w", NewIngestionError(SourceKindPDF, "a.pdf", errors.New("bad xref")))

	var ingErr *IngestionError
	assert.True(t, errors.As(err, &ingErr))
	assert.Equal(t, "a.pdf", ingErr.Source)
	assert.ErrorIs(t, err, ErrIngestion)
}

func TestProviderError(t *testing.T) {
	cause := errors.New("401 unauthorized")

	embed := NewEmbeddingError("openai", cause)
	assert.Equal(t, "openai embedding request failed: 401 unauthorized", embed.Error())
	assert.ErrorIs(t, embed, ErrEmbeddingUnavailable)
	assert.NotErrorIs(t, embed, ErrCompletionUnavailable)
	assert.ErrorIs(t, embed, cause)

	chat := NewCompletionError("groq", cause)
	assert.Equal(t, "groq completion request failed: 401 unauthorized", chat.Error())
	assert.ErrorIs(t, chat, ErrCompletionUnavailable)
	assert.NotErrorIs(t, chat, ErrEmbeddingUnavailable)
}

func TestProviderError_UnknownKind(t *testing.T) {
	err := &ProviderError{Kind: "other", Provider: "x", Err: errors.New("boom")}
	assert.NotErrorIs(t, err, ErrEmbeddingUnavailable)
	assert.NotErrorIs(t, err, ErrCompletionUnavailable)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, NotProcessedMessage, UserMessage(fmt.Errorf("ask: %w", ErrNotProcessed)))
	assert.Equal(t, NoDocumentsMessage, UserMessage(ErrNoDocuments))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}
