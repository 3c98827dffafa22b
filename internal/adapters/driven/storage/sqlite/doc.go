// Package sqlite persists vector index snapshots in SQLite files.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each index file holds exactly one
// snapshot: a header row in index_meta and one row per chunk in chunks, with
// the chunk's embedding stored as a little-endian float32 blob and its
// metadata as JSON.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the index is stored at ~/.studymate/index.db
//
// # Atomicity
//
// Save replaces the stored snapshot inside a single transaction, so a failed
// save leaves the previous snapshot readable.
package sqlite
