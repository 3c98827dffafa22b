package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// Splitter turns documents into chunks suitable for embedding.
type Splitter interface {
	// Name returns the splitter name for logging and configuration.
	Name() string

	// Split returns the chunks of all documents, in document order and then
	// position order. The same input always yields the same output.
	Split(ctx context.Context, docs []domain.Document) ([]domain.Chunk, error)
}
