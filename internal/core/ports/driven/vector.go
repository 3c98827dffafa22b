package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// VectorIndex holds (chunk, vector) pairs and answers similarity queries.
// An index is built once per processing run and replaced wholesale.
// It is not safe for concurrent mutation.
type VectorIndex interface {
	// Add inserts chunks with their vectors. len(chunks) must equal len(vectors)
	// and every vector must have the index's dimensionality.
	Add(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error

	// Search returns the k entries most similar to the query vector,
	// most similar first. Fewer than k entries returns all of them.
	// Search never mutates the index.
	Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error)

	// Entries returns every stored pair in insertion order.
	Entries() []VectorEntry

	// Len returns the number of stored chunks.
	Len() int

	// Dimensions returns the vector size, or 0 for an empty index.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// VectorEntry is one stored chunk and its embedding.
type VectorEntry struct {
	// Chunk is the stored passage.
	Chunk domain.Chunk

	// Vector is the chunk's embedding.
	Vector []float32
}
