package domain

import "fmt"

// SourceKind classifies an ingestion source.
type SourceKind string

const (
	// SourceKindPDF is an uploaded PDF file.
	SourceKindPDF SourceKind = "pdf"

	// SourceKindWebsite is a web page URL.
	SourceKindWebsite SourceKind = "website"
)

// Label returns the display label used in messages.
func (k SourceKind) Label() string {
	switch k {
	case SourceKindPDF:
		return "PDF"
	case SourceKindWebsite:
		return "website"
	default:
		return string(k)
	}
}

// PDFFile is an uploaded PDF blob with its file name.
type PDFFile struct {
	// Name is the original file name, used as the document source.
	Name string

	// Data is the file content.
	Data []byte
}

// ProcessRequest describes the study materials for one processing run.
type ProcessRequest struct {
	// PDFs are zero or more uploaded files.
	PDFs []PDFFile

	// URL is an optional website to ingest.
	URL string

	// PDFErr records that the PDFs could not be read before ingestion.
	// It is reported as the PDF source's failure; the website still runs.
	PDFErr error

	// SaveTo persists the built index to this path when non-empty.
	SaveTo string
}

// IsEmpty returns true if the request names no source at all.
func (r *ProcessRequest) IsEmpty() bool {
	return len(r.PDFs) == 0 && r.URL == "" && r.PDFErr == nil
}

// SourceResult is the outcome of ingesting one independently supplied source group.
type SourceResult struct {
	// Kind is the source kind.
	Kind SourceKind

	// Source names the input (file names or URL).
	Source string

	// Documents is the number of documents ingested.
	Documents int

	// Err is non-nil when ingestion of this source failed.
	Err error
}

// OK returns true if the source was ingested.
func (r SourceResult) OK() bool {
	return r.Err == nil
}

// ProcessReport summarises a processing run.
type ProcessReport struct {
	// Sources holds one result per attempted source group.
	Sources []SourceResult

	// Documents is the number of documents indexed.
	Documents int

	// Chunks is the number of chunks indexed.
	Chunks int

	// SavedTo is the path the index was persisted to, if any.
	SavedTo string
}

// Failures returns the source results that failed.
func (r *ProcessReport) Failures() []SourceResult {
	var failed []SourceResult
	for _, s := range r.Sources {
		if !s.OK() {
			failed = append(failed, s)
		}
	}
	return failed
}

// Summary returns the user-facing success message.
func (r *ProcessReport) Summary() string {
	return fmt.Sprintf("Processed %d documents into %d chunks!", r.Documents, r.Chunks)
}

// SessionStatus is a read-only view of the session state.
type SessionStatus struct {
	// Processed is true once study materials were successfully processed or loaded.
	Processed bool

	// Documents is the number of documents in the current index.
	Documents int

	// Chunks is the number of chunks in the current index.
	Chunks int

	// Sources lists the distinct sources in the current index, in order.
	Sources []string

	// EmbeddingModel is the model the index was built with.
	EmbeddingModel string
}
