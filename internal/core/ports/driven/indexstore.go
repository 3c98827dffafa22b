package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// IndexStore persists an index snapshot so it can be restored without
// recomputing embeddings.
type IndexStore interface {
	// Save replaces any snapshot stored at path with the given one.
	// Save is atomic: a failure leaves the previous snapshot intact.
	Save(ctx context.Context, path string, snapshot *IndexSnapshot) error

	// Load restores the snapshot stored at path.
	// Returns domain.ErrNotFound if nothing has been saved there.
	Load(ctx context.Context, path string) (*IndexSnapshot, error)

	// Stat returns the snapshot header without loading chunk data.
	Stat(ctx context.Context, path string) (*domain.IndexInfo, error)
}

// IndexSnapshot is the persisted form of an index.
type IndexSnapshot struct {
	// Info describes the snapshot.
	Info domain.IndexInfo

	// Entries are the stored pairs in index order.
	Entries []VectorEntry
}
