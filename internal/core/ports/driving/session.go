package driving

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// SessionService is the study session: process materials, then ask questions.
//
// A session starts empty. A successful Process or Load marks it processed;
// Ask is rejected with domain.ErrNotProcessed until then. Operations run
// one at a time and each runs to completion.
type SessionService interface {
	// Process ingests the requested PDFs and website independently, splits and
	// embeds every ingested document, and replaces the session index.
	// Per-source failures are reported in the returned report. When nothing
	// was ingested it returns domain.ErrNoDocuments along with the report and
	// leaves the previous session state unchanged.
	Process(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessReport, error)

	// Ask answers a question from the session index using the k most similar
	// chunks (k <= 0 uses the configured default).
	Ask(ctx context.Context, question string, k int) (*domain.Answer, error)

	// Save persists the session index to path.
	Save(ctx context.Context, path string) (*domain.IndexInfo, error)

	// Load replaces the session index with the one saved at path and marks
	// the session processed.
	Load(ctx context.Context, path string) (*domain.IndexInfo, error)

	// Inspect reads the header of a saved index without loading it.
	Inspect(ctx context.Context, path string) (*domain.IndexInfo, error)

	// Status returns a snapshot of the session state.
	Status() domain.SessionStatus
}
