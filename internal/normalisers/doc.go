// Package normalisers provides implementations of the Normaliser interface
// for the formats study materials arrive in. Each normaliser knows how to
// extract text from a specific MIME type.
//
// The Registry selects a normaliser by MIME type; Default registers the
// PDF, HTML and plain text normalisers.
package normalisers
