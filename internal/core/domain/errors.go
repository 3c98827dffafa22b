package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates content no normaliser can handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotProcessed is the precondition failure for asking a question
	// before any study materials were processed in the session.
	ErrNotProcessed = errors.New("no study materials have been processed")

	// ErrNoDocuments indicates processing produced zero documents,
	// either because no inputs were given or every source failed.
	ErrNoDocuments = errors.New("no documents to process")

	// ErrIngestion matches any IngestionError via errors.Is.
	ErrIngestion = errors.New("ingestion failed")

	// ErrIndexEmpty indicates an index with no chunks was built or loaded.
	ErrIndexEmpty = errors.New("index is empty")

	// ErrIndexMismatch indicates a saved index was built with a different
	// embedding model or dimensionality than the one configured.
	ErrIndexMismatch = errors.New("index embedding model mismatch")

	// AI Provider Errors.

	// ErrEmbeddingUnavailable indicates an embedding provider failure
	// (auth, rate limit, network, malformed response).
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCompletionUnavailable indicates a chat-completion provider failure.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrMissingCredentials indicates a required API key is not configured.
	ErrMissingCredentials = errors.New("missing credentials")
)

// User-facing messages for the two soft failures of a session.
const (
	// NotProcessedMessage is shown when a question is asked too early.
	NotProcessedMessage = "Please upload and process study materials first."

	// NoDocumentsMessage is shown when processing had nothing to work with.
	NoDocumentsMessage = "Please upload a PDF or enter a valid URL."
)

// IngestionError reports a failure to read one source.
// It carries the offending file name or URL and the underlying cause.
type IngestionError struct {
	// Kind is the kind of source that failed.
	Kind SourceKind

	// Source is the file name or URL.
	Source string

	// Err is the underlying cause.
	Err error
}

// NewIngestionError wraps err for the given source.
func NewIngestionError(kind SourceKind, source string, err error) *IngestionError {
	return &IngestionError{Kind: kind, Source: source, Err: err}
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("error processing %s %s: %v", e.Kind.Label(), e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IngestionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIngestion.
func (e *IngestionError) Is(target error) bool {
	return target == ErrIngestion
}

// ProviderKind identifies which external AI service failed.
type ProviderKind string

const (
	// ProviderKindEmbedding is an embedding provider.
	ProviderKindEmbedding ProviderKind = "embedding"

	// ProviderKindCompletion is a chat-completion provider.
	ProviderKindCompletion ProviderKind = "completion"
)

// ProviderError reports a failed call to an external AI service.
// Provider errors abort the in-flight operation; nothing is retried.
type ProviderError struct {
	// Kind is the kind of service.
	Kind ProviderKind

	// Provider names the backend (e.g., "openai", "groq").
	Provider string

	// Err is the error returned by the provider client.
	Err error
}

// NewEmbeddingError wraps err as an embedding provider failure.
func NewEmbeddingError(provider string, err error) *ProviderError {
	return &ProviderError{Kind: ProviderKindEmbedding, Provider: provider, Err: err}
}

// NewCompletionError wraps err as a chat-completion provider failure.
func NewCompletionError(provider string, err error) *ProviderError {
	return &ProviderError{Kind: ProviderKindCompletion, Provider: provider, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s request failed: %v", e.Provider, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the provider kind.
func (e *ProviderError) Is(target error) bool {
	switch e.Kind {
	case ProviderKindEmbedding:
		return target == ErrEmbeddingUnavailable
	case ProviderKindCompletion:
		return target == ErrCompletionUnavailable
	default:
		return false
	}
}

// UserMessage maps an error to the text shown to the user.
// Precondition failures get their fixed messages; everything else is
// surfaced verbatim.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotProcessed):
		return NotProcessedMessage
	case errors.Is(err, ErrNoDocuments):
		return NoDocumentsMessage
	default:
		return err.Error()
	}
}
