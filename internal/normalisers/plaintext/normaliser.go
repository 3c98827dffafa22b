// Package plaintext handles web resources served as plain text.
package plaintext

import (
	"context"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/x-markdown",
		"text/csv",
	}
}

// Normalise returns the content as a single document.
// Invalid UTF-8 sequences are replaced so downstream splitting is rune-safe.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := string(raw.Content)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "�")
	}

	meta := make(map[string]any, len(raw.Metadata)+3)
	for k, v := range raw.Metadata {
		meta[k] = v
	}
	if raw.URI != "" {
		meta[domain.MetadataSource] = raw.URI
	}
	if _, ok := meta[domain.MetadataTitle]; !ok {
		meta[domain.MetadataTitle] = extractTitle(raw.URI)
	}
	meta["mime_type"] = raw.MIMEType

	return []domain.Document{{
		ID:       uuid.New().String(),
		Content:  strings.TrimSpace(content),
		Metadata: meta,
	}}, nil
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	name := path.Base(strings.TrimRight(uri, "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}
