package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService owns one study session: the current index, the documents
// it was built from, and whether anything has been processed yet.
// Operations are serialised; each runs to completion before the next starts.
type SessionService struct {
	ingestor *Ingestor
	splitter driven.Splitter
	indexer  *IndexService
	answerer *Answerer
	topK     int

	mu        sync.Mutex
	index     driven.VectorIndex
	info      *domain.IndexInfo
	documents []domain.Document
	processed bool
}

// NewSessionService creates an empty session. topK <= 0 uses domain.DefaultTopK.
func NewSessionService(
	ingestor *Ingestor,
	splitter driven.Splitter,
	indexer *IndexService,
	answerer *Answerer,
	topK int,
) *SessionService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &SessionService{
		ingestor: ingestor,
		splitter: splitter,
		indexer:  indexer,
		answerer: answerer,
		topK:     topK,
	}
}

// Process ingests the PDFs and the website independently, then splits,
// embeds and indexes everything that was ingested.
func (s *SessionService) Process(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Process")
	report := &domain.ProcessReport{}
	var docs []domain.Document

	if req.PDFErr != nil {
		source := domain.SourceKindPDF.Label()
		var ingestErr *domain.IngestionError
		if errors.As(req.PDFErr, &ingestErr) {
			source = ingestErr.Source
		}
		report.Sources = append(report.Sources, domain.SourceResult{
			Kind:   domain.SourceKindPDF,
			Source: source,
			Err:    req.PDFErr,
		})
		logger.Warn("%v", req.PDFErr)
	} else if len(req.PDFs) > 0 {
		names := make([]string, len(req.PDFs))
		for i, f := range req.PDFs {
			names[i] = f.Name
		}
		pdfDocs, err := s.ingestor.IngestPDFs(ctx, req.PDFs)
		report.Sources = append(report.Sources, domain.SourceResult{
			Kind:      domain.SourceKindPDF,
			Source:    strings.Join(names, ", "),
			Documents: len(pdfDocs),
			Err:       err,
		})
		if err != nil {
			logger.Warn("%v", err)
		}
		docs = append(docs, pdfDocs...)
	}

	if url := strings.TrimSpace(req.URL); url != "" {
		webDocs, err := s.ingestor.IngestWebsite(ctx, url)
		report.Sources = append(report.Sources, domain.SourceResult{
			Kind:      domain.SourceKindWebsite,
			Source:    url,
			Documents: len(webDocs),
			Err:       err,
		})
		if err != nil {
			logger.Warn("%v", err)
		}
		docs = append(docs, webDocs...)
	}

	if len(docs) == 0 {
		return report, domain.ErrNoDocuments
	}

	chunks, err := s.splitter.Split(ctx, docs)
	if err != nil {
		return report, fmt.Errorf("split documents: %w", err)
	}
	logger.Debug("Split %d documents into %d chunks with %s", len(docs), len(chunks), s.splitter.Name())

	idx, info, err := s.indexer.Build(ctx, chunks)
	if err != nil {
		return report, err
	}

	s.replace(idx, info, docs)
	report.Documents = len(docs)
	report.Chunks = len(chunks)
	logger.Info("%s", report.Summary())

	if req.SaveTo != "" {
		if err := s.indexer.Save(ctx, req.SaveTo, s.index, s.info); err != nil {
			return report, err
		}
		report.SavedTo = req.SaveTo
	}

	return report, nil
}

// Ask answers question from the current index. It fails with
// domain.ErrNotProcessed before any provider is contacted when nothing has
// been processed or loaded.
func (s *SessionService) Ask(ctx context.Context, question string, k int) (*domain.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.processed {
		return nil, domain.ErrNotProcessed
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = s.topK
	}

	logger.Section("Ask")
	logger.Debug("Question: %q (k=%d)", question, k)
	return s.answerer.Answer(ctx, question, s.index, k)
}

// Save persists the current index to path.
func (s *SessionService) Save(ctx context.Context, path string) (*domain.IndexInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.processed {
		return nil, domain.ErrNotProcessed
	}
	if err := s.indexer.Save(ctx, path, s.index, s.info); err != nil {
		return nil, err
	}
	info := *s.info
	return &info, nil
}

// Load replaces the current index with the one saved at path.
// On failure the session is left unchanged.
func (s *SessionService) Load(ctx context.Context, path string) (*domain.IndexInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, info, err := s.indexer.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	s.replace(idx, info, nil)

	out := *info
	return &out, nil
}

// Inspect reads the header of the index saved at path.
func (s *SessionService) Inspect(ctx context.Context, path string) (*domain.IndexInfo, error) {
	return s.indexer.Inspect(ctx, path)
}

// Status returns a snapshot of the session state.
func (s *SessionService) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := domain.SessionStatus{Processed: s.processed}
	if s.info != nil {
		status.Documents = s.info.Documents
		status.Chunks = s.info.Chunks
		status.EmbeddingModel = s.info.Model
	}
	if s.index != nil {
		seen := make(map[string]bool)
		for _, e := range s.index.Entries() {
			src := e.Chunk.Source()
			if src == "" || seen[src] {
				continue
			}
			seen[src] = true
			status.Sources = append(status.Sources, src)
		}
	}
	return status
}

// Documents returns the documents of the last processing run.
// It is empty after Load, which restores chunks only.
func (s *SessionService) Documents() []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Document(nil), s.documents...)
}

// Close releases the current index.
func (s *SessionService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	s.info = nil
	s.processed = false
	return err
}

// replace swaps in a new index wholesale (caller must hold lock).
func (s *SessionService) replace(idx driven.VectorIndex, info *domain.IndexInfo, docs []domain.Document) {
	if s.index != nil {
		if err := s.index.Close(); err != nil {
			logger.Debug("closing previous index: %v", err)
		}
	}
	s.index = idx
	s.info = info
	s.documents = docs
	s.processed = true
}
