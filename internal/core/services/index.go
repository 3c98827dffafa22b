package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// IndexFactory creates an empty vector index. A dimension of 0 lets the
// first Add fix it.
type IndexFactory func(dimensions int) driven.VectorIndex

// IndexService embeds chunks into a vector index, searches it, and
// saves or restores it through an IndexStore.
type IndexService struct {
	embedder driven.EmbeddingService
	store    driven.IndexStore
	newIndex IndexFactory
}

// NewIndexService creates an index service. embedder may be nil when only
// Inspect is needed.
func NewIndexService(embedder driven.EmbeddingService, store driven.IndexStore, newIndex IndexFactory) *IndexService {
	return &IndexService{
		embedder: embedder,
		store:    store,
		newIndex: newIndex,
	}
}

// Build embeds every chunk and returns a new index holding them.
// Nothing is returned unless every chunk was embedded.
func (s *IndexService) Build(ctx context.Context, chunks []domain.Chunk) (driven.VectorIndex, *domain.IndexInfo, error) {
	if len(chunks) == 0 {
		return nil, nil, domain.ErrIndexEmpty
	}
	if s.embedder == nil {
		return nil, nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	start := time.Now()
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, domain.NewEmbeddingError(s.embedder.ProviderName(), err)
	}
	if len(vectors) != len(chunks) {
		return nil, nil, domain.NewEmbeddingError(s.embedder.ProviderName(),
			fmt.Errorf("got %d embeddings for %d chunks", len(vectors), len(chunks)))
	}
	logger.Debug("Embedded %d chunks with %s in %s", len(chunks), s.embedder.ModelName(), time.Since(start))

	idx := s.newIndex(len(vectors[0]))
	if err := idx.Add(ctx, chunks, vectors); err != nil {
		_ = idx.Close()
		return nil, nil, fmt.Errorf("build index: %w", err)
	}

	info := &domain.IndexInfo{
		ID:         uuid.New().String(),
		Model:      s.embedder.ModelName(),
		Dimensions: idx.Dimensions(),
		Documents:  countDocuments(chunks),
		Chunks:     idx.Len(),
		CreatedAt:  time.Now().UTC(),
	}
	return idx, info, nil
}

// Search embeds query and returns the k most similar chunks, most similar first.
func (s *IndexService) Search(
	ctx context.Context, idx driven.VectorIndex, query string, k int,
) ([]domain.ScoredChunk, error) {
	if idx == nil || idx.Len() == 0 {
		return nil, domain.ErrIndexEmpty
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, domain.NewEmbeddingError(s.embedder.ProviderName(), err)
	}

	hits, err := idx.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Search returned %d of %d chunks (k=%d)", len(hits), idx.Len(), k)
	return hits, nil
}

// Save persists idx and its header to path, replacing what was there.
func (s *IndexService) Save(ctx context.Context, path string, idx driven.VectorIndex, info *domain.IndexInfo) error {
	if idx == nil || info == nil {
		return domain.ErrIndexEmpty
	}
	snapshot := &driven.IndexSnapshot{
		Info:    *info,
		Entries: idx.Entries(),
	}
	if err := s.store.Save(ctx, path, snapshot); err != nil {
		return fmt.Errorf("save index to %s: %w", path, err)
	}
	logger.Debug("Saved %d chunks to %s", len(snapshot.Entries), path)
	return nil
}

// Load restores the index saved at path. The stored vectors are used as-is;
// an index built with a different embedding model is refused because its
// vectors are not comparable with new query embeddings.
func (s *IndexService) Load(ctx context.Context, path string) (driven.VectorIndex, *domain.IndexInfo, error) {
	if s.embedder == nil {
		return nil, nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	snapshot, err := s.store.Load(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("load index from %s: %w", path, err)
	}
	info := snapshot.Info

	if info.Model != s.embedder.ModelName() || info.Dimensions != s.embedder.Dimensions() {
		return nil, nil, fmt.Errorf("%w: %s was built with %s (%d dimensions), configured model is %s (%d dimensions)",
			domain.ErrIndexMismatch, path, info.Model, info.Dimensions,
			s.embedder.ModelName(), s.embedder.Dimensions())
	}
	if len(snapshot.Entries) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrIndexEmpty, path)
	}

	chunks := make([]domain.Chunk, len(snapshot.Entries))
	vectors := make([][]float32, len(snapshot.Entries))
	for i, e := range snapshot.Entries {
		chunks[i] = e.Chunk
		vectors[i] = e.Vector
	}

	idx := s.newIndex(info.Dimensions)
	if err := idx.Add(ctx, chunks, vectors); err != nil {
		_ = idx.Close()
		return nil, nil, fmt.Errorf("restore index: %w", err)
	}

	info.Chunks = idx.Len()
	logger.Debug("Loaded %d chunks from %s", idx.Len(), path)
	return idx, &info, nil
}

// Inspect returns the header of the index saved at path.
func (s *IndexService) Inspect(ctx context.Context, path string) (*domain.IndexInfo, error) {
	info, err := s.store.Stat(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("inspect index %s: %w", path, err)
	}
	return info, nil
}

func countDocuments(chunks []domain.Chunk) int {
	seen := make(map[string]struct{})
	for i := range chunks {
		seen[chunks[i].DocumentID] = struct{}{}
	}
	return len(seen)
}
