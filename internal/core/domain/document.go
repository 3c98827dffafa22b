package domain

import (
	"fmt"
	"strings"
)

// Well-known metadata keys.
const (
	// MetadataSource identifies where a document came from (file name or URL).
	// Every ingested document carries a non-empty value.
	MetadataSource = "source"

	// MetadataPage is the zero-based page number of a PDF page document.
	MetadataPage = "page"

	// MetadataTitle is a human-readable title for the document.
	MetadataTitle = "title"

	// MetadataLanguage is the declared language of a web page.
	MetadataLanguage = "language"

	// MetadataStartIndex is the character offset of a chunk within its document.
	MetadataStartIndex = "start_index"
)

// Document is a unit of ingested content.
// Documents are immutable once produced by the ingestor.
type Document struct {
	// ID is a unique identifier (UUID).
	ID string

	// Content is the extracted text.
	Content string

	// Metadata holds extraction-specific key-value pairs.
	// It always contains MetadataSource after ingestion.
	Metadata map[string]any
}

// Source returns the document's source identifier, or "" if unset.
func (d *Document) Source() string {
	return metadataString(d.Metadata, MetadataSource)
}

// Title returns the document title, falling back to the source.
func (d *Document) Title() string {
	if title := metadataString(d.Metadata, MetadataTitle); title != "" {
		return title
	}
	return d.Source()
}

// EnsureSource sets the source metadata if the extractor did not already set one.
// An existing non-empty value is never overwritten.
func (d *Document) EnsureSource(source string) {
	if d.Metadata == nil {
		d.Metadata = make(map[string]any)
	}
	if d.Source() != "" {
		return
	}
	d.Metadata[MetadataSource] = source
}

// Validate checks the invariants of an ingested document.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: document has no content", ErrInvalidInput)
	}
	if d.Source() == "" {
		return fmt.Errorf("%w: document has no source", ErrInvalidInput)
	}
	return nil
}

// Chunk is a contiguous passage of a document's text.
type Chunk struct {
	// ID is a unique identifier, stable for a given document and position.
	ID string

	// DocumentID links to the parent document.
	DocumentID string

	// Content is the chunk text.
	Content string

	// Position is the chunk's order within the parent document.
	Position int

	// Metadata is inherited from the parent document, plus MetadataStartIndex.
	Metadata map[string]any
}

// Source returns the chunk's inherited source identifier.
func (c *Chunk) Source() string {
	return metadataString(c.Metadata, MetadataSource)
}

// Page returns the page number for chunks of PDF pages.
// The second return value is false when the chunk has no page metadata.
func (c *Chunk) Page() (int, bool) {
	return metadataInt(c.Metadata, MetadataPage)
}

// CopyMetadata returns a shallow copy of a metadata map.
func CopyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func metadataString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// metadataInt handles the numeric types metadata picks up after a JSON round trip.
func metadataInt(m map[string]any, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
