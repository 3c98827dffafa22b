package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// ErrDimensionMismatch is returned when a vector's size differs from the index's.
var ErrDimensionMismatch = errors.New("memory: vector dimension mismatch")

// VectorIndex is an exact, in-memory vector index using cosine similarity.
// Vectors are copied on insert; the index never aliases caller memory.
type VectorIndex struct {
	mu        sync.RWMutex
	entries   []driven.VectorEntry
	norms     []float64
	dimension int
}

// NewVectorIndex creates an empty index. A dimension of 0 is fixed by the
// first Add.
func NewVectorIndex(dimension int) *VectorIndex {
	return &VectorIndex{dimension: dimension}
}

// Add inserts chunks with their vectors.
func (idx *VectorIndex) Add(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("memory: %d chunks but %d vectors", len(chunks), len(vectors))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	dimension := idx.dimension
	for i, vec := range vectors {
		if len(vec) == 0 {
			return fmt.Errorf("memory: empty vector for chunk %s", chunks[i].ID)
		}
		if dimension == 0 {
			dimension = len(vec)
		}
		if len(vec) != dimension {
			return fmt.Errorf("%w: chunk %s has %d, index has %d", ErrDimensionMismatch, chunks[i].ID, len(vec), dimension)
		}
	}

	idx.dimension = dimension
	for i, vec := range vectors {
		stored := make([]float32, len(vec))
		copy(stored, vec)
		idx.entries = append(idx.entries, driven.VectorEntry{Chunk: chunks[i], Vector: stored})
		idx.norms = append(idx.norms, norm(stored))
	}
	return nil
}

// Search returns the k most similar entries, most similar first.
// Ties keep insertion order.
func (idx *VectorIndex) Search(_ context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if k <= 0 || len(idx.entries) == 0 {
		return nil, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), idx.dimension)
	}

	qnorm := norm(query)
	scored := make([]domain.ScoredChunk, len(idx.entries))
	for i, entry := range idx.entries {
		scored[i] = domain.ScoredChunk{
			Chunk: entry.Chunk,
			Score: cosine(query, qnorm, entry.Vector, idx.norms[i]),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// Entries returns every stored pair in insertion order.
func (idx *VectorIndex) Entries() []driven.VectorEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]driven.VectorEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Len returns the number of stored chunks.
func (idx *VectorIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Dimensions returns the vector size, or 0 for an empty index.
func (idx *VectorIndex) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// Close releases resources.
func (idx *VectorIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = nil
	idx.norms = nil
	return nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine returns 0 when either vector has zero length.
func cosine(a []float32, anorm float64, b []float32, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}
