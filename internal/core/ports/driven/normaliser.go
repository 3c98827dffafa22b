package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// Normaliser extracts documents from raw bytes.
// Each normaliser handles specific MIME types (e.g., PDF, HTML).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise extracts one or more documents from the raw input
	// (a PDF yields one document per page). Extractors may set
	// domain.MetadataSource; callers fill it in when they do not.
	Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error)
}
