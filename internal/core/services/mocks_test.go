package services

import (
	"context"
	"errors"
	"strings"

	"github.com/custodia-labs/studymate/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

var errProvider = errors.New("401 invalid api key")

// mockNormaliser is a mock implementation of driven.Normaliser.
type mockNormaliser struct {
	normalise func(raw *domain.RawDocument) ([]domain.Document, error)
	calls     []string
}

func (m *mockNormaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf", "text/html"}
}

func (m *mockNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	m.calls = append(m.calls, raw.Name)
	return m.normalise(raw)
}

// pageDocs returns a normaliser func yielding one document per page text.
func pageDocs(pages ...string) func(*domain.RawDocument) ([]domain.Document, error) {
	return func(raw *domain.RawDocument) ([]domain.Document, error) {
		docs := make([]domain.Document, len(pages))
		for i, p := range pages {
			docs[i] = domain.Document{
				ID:       raw.Name + "#" + string(rune('0'+i)),
				Content:  p,
				Metadata: map[string]any{domain.MetadataPage: i},
			}
		}
		return docs, nil
	}
}

// mockFetcher is a mock implementation of driven.Fetcher.
type mockFetcher struct {
	raw   *domain.RawDocument
	err   error
	calls int
}

func (m *mockFetcher) Fetch(_ context.Context, url string) (*domain.RawDocument, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	raw := *m.raw
	if raw.Name == "" {
		raw.Name = url
	}
	return &raw, nil
}

// mockEmbedder is a mock implementation of driven.EmbeddingService.
// Vectors come from the vectors map when present, otherwise from
// letter frequencies so similar texts get similar vectors.
type mockEmbedder struct {
	model      string
	dims       int
	vectors    map[string][]float32
	embedErr   error
	batchErr   error
	embedCalls int
	batchCalls int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{model: "mock-embed", dims: 4}
}

func (m *mockEmbedder) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	v := make([]float32, m.dims)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[int(r-'a')%m.dims]++
		}
	}
	v[0] += 0.5
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int      { return m.dims }
func (m *mockEmbedder) ModelName() string    { return m.model }
func (m *mockEmbedder) ProviderName() string { return "mockembed" }
func (m *mockEmbedder) Close() error         { return nil }

func (m *mockEmbedder) totalCalls() int {
	return m.embedCalls + m.batchCalls
}

// mockChat is a mock implementation of driven.ChatService.
type mockChat struct {
	response string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	calls    int
}

func (m *mockChat) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	m.opts = opts
	return m.response, m.err
}

func (m *mockChat) ModelName() string    { return "mock-chat" }
func (m *mockChat) ProviderName() string { return "mockchat" }
func (m *mockChat) Close() error         { return nil }

// mockPromptStore is a mock implementation of driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptAnswerSystem: "You are a helpful educational assistant.",
		driven.PromptAnswerUser:   "Context:\n{context}\n\nQuestion: {question}",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("unknown prompt")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockIndexStore is an in-memory implementation of driven.IndexStore.
type mockIndexStore struct {
	snapshots map[string]*driven.IndexSnapshot
	saveErr   error
}

func newMockIndexStore() *mockIndexStore {
	return &mockIndexStore{snapshots: make(map[string]*driven.IndexSnapshot)}
}

func (m *mockIndexStore) Save(_ context.Context, path string, snapshot *driven.IndexSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshots[path] = snapshot
	return nil
}

func (m *mockIndexStore) Load(_ context.Context, path string) (*driven.IndexSnapshot, error) {
	s, ok := m.snapshots[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockIndexStore) Stat(_ context.Context, path string) (*domain.IndexInfo, error) {
	s, ok := m.snapshots[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	info := s.Info
	return &info, nil
}

// mockSplitter is a mock implementation of driven.Splitter that makes one
// chunk per document.
type mockSplitter struct {
	err error
}

func (m *mockSplitter) Name() string { return "mock" }

func (m *mockSplitter) Split(_ context.Context, docs []domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	chunks := make([]domain.Chunk, len(docs))
	for i, d := range docs {
		chunks[i] = domain.Chunk{
			ID:         d.ID + "-0",
			DocumentID: d.ID,
			Content:    d.Content,
			Metadata:   domain.CopyMetadata(d.Metadata),
		}
	}
	return chunks, nil
}

func memoryIndexFactory(dimensions int) driven.VectorIndex {
	return memory.NewVectorIndex(dimensions)
}
