package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

const pdfMIMEType = "application/pdf"

var errNoText = errors.New("no text content found")

// Ingestor turns uploaded PDFs and web pages into documents.
// Every returned document carries a non-empty source.
type Ingestor struct {
	pdf        driven.Normaliser
	fetcher    driven.Fetcher
	normaliser driven.Normaliser
}

// NewIngestor creates an ingestor. pdf extracts uploaded files; fetched
// pages are dispatched to normaliser by MIME type.
func NewIngestor(pdf driven.Normaliser, fetcher driven.Fetcher, normaliser driven.Normaliser) *Ingestor {
	return &Ingestor{
		pdf:        pdf,
		fetcher:    fetcher,
		normaliser: normaliser,
	}
}

// IngestPDFs extracts every file in order. The first file that cannot be
// read fails the whole call with an IngestionError naming that file.
func (i *Ingestor) IngestPDFs(ctx context.Context, files []domain.PDFFile) ([]domain.Document, error) {
	var docs []domain.Document
	for _, f := range files {
		raw := &domain.RawDocument{
			Name:     f.Name,
			URI:      f.Name,
			MIMEType: pdfMIMEType,
			Content:  f.Data,
		}
		extracted, err := i.pdf.Normalise(ctx, raw)
		if err != nil {
			return nil, domain.NewIngestionError(domain.SourceKindPDF, f.Name, err)
		}
		extracted = finishDocuments(extracted, f.Name)
		if len(extracted) == 0 {
			return nil, domain.NewIngestionError(domain.SourceKindPDF, f.Name, errNoText)
		}
		logger.Debug("Ingested %s: %d documents", f.Name, len(extracted))
		docs = append(docs, extracted...)
	}
	return docs, nil
}

// IngestWebsite fetches a single page and extracts its text.
func (i *Ingestor) IngestWebsite(ctx context.Context, url string) ([]domain.Document, error) {
	url = strings.TrimSpace(url)

	raw, err := i.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, domain.NewIngestionError(domain.SourceKindWebsite, url, err)
	}

	docs, err := i.normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, domain.NewIngestionError(domain.SourceKindWebsite, url, err)
	}
	docs = finishDocuments(docs, url)
	if len(docs) == 0 {
		return nil, domain.NewIngestionError(domain.SourceKindWebsite, url, errNoText)
	}

	logger.Debug("Ingested %s: %d documents", url, len(docs))
	return docs, nil
}

// finishDocuments drops empty documents, assigns missing IDs, and fills in
// the source where the extractor did not set one.
func finishDocuments(docs []domain.Document, source string) []domain.Document {
	out := docs[:0]
	for _, d := range docs {
		if strings.TrimSpace(d.Content) == "" {
			continue
		}
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		d.EnsureSource(source)
		out = append(out, d)
	}
	return out
}
