package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// Fetcher retrieves remote content for ingestion.
type Fetcher interface {
	// Fetch downloads the resource at url. Non-success responses are errors.
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)
}
