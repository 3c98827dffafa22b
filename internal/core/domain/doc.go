// Package domain defines the core business entities for studymate.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Opaque bytes read from an upload or fetched from a URL
//   - Document: Extracted text with a mandatory source identifier
//   - Chunk: A bounded passage of a document, the unit of retrieval
//   - ScoredChunk: A chunk returned by similarity search
//   - Answer: A synthesised response together with the chunks it cites
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
