package domain

// RawDocument represents opaque bytes before extraction.
// PDF uploads and fetched web pages both arrive in this form.
type RawDocument struct {
	// Name is the display identifier (upload file name or URL).
	Name string

	// URI is the original location of the content.
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains transport-specific key-value pairs.
	Metadata map[string]any
}
