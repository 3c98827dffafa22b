package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/studymate/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// ErrCorruptIndex is returned when a stored snapshot fails consistency checks.
var ErrCorruptIndex = errors.New("sqlite: corrupt index file")

// IndexStore saves and loads index snapshots, one SQLite file per path.
type IndexStore struct {
	open func(path string) (*sql.DB, error)
}

// NewIndexStore creates an index store backed by SQLite files.
func NewIndexStore() *IndexStore {
	return &IndexStore{open: openDB}
}

// openDB opens (creating if needed) the SQLite file at path.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// Save replaces the snapshot stored at path.
func (s *IndexStore) Save(ctx context.Context, path string, snapshot *driven.IndexSnapshot) error {
	if path == "" {
		return fmt.Errorf("%w: index path is empty", domain.ErrInvalidInput)
	}
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	db, err := s.openMigrated(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := saveSnapshot(ctx, db, snapshot); err != nil {
		return err
	}
	logger.Debug("sqlite: saved %d chunks to %s", len(snapshot.Entries), path)
	return nil
}

// Load restores the snapshot stored at path.
func (s *IndexStore) Load(ctx context.Context, path string) (*driven.IndexSnapshot, error) {
	if err := checkExists(path); err != nil {
		return nil, err
	}

	db, err := s.openMigrated(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	snapshot, err := loadSnapshot(ctx, db)
	if err != nil {
		return nil, err
	}
	logger.Debug("sqlite: loaded %d chunks from %s", len(snapshot.Entries), path)
	return snapshot, nil
}

// Stat returns the snapshot header stored at path.
func (s *IndexStore) Stat(ctx context.Context, path string) (*domain.IndexInfo, error) {
	if err := checkExists(path); err != nil {
		return nil, err
	}

	db, err := s.openMigrated(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return loadInfo(ctx, db)
}

func checkExists(path string) error {
	if path == "" {
		return fmt.Errorf("%w: index path is empty", domain.ErrInvalidInput)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: no index at %s", domain.ErrNotFound, path)
		}
		return fmt.Errorf("checking index file: %w", err)
	}
	return nil
}

func (s *IndexStore) openMigrated(ctx context.Context, path string) (*sql.DB, error) {
	db, err := s.open(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// migrate runs all pending migrations.
func migrate(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// saveSnapshot replaces the stored snapshot in one transaction.
func saveSnapshot(ctx context.Context, db *sql.DB, snapshot *driven.IndexSnapshot) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM index_meta"); err != nil {
		return fmt.Errorf("clearing index header: %w", err)
	}

	info := snapshot.Info
	_, err = tx.ExecContext(ctx,
		`INSERT INTO index_meta (id, model, dimensions, documents, chunks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		info.ID, info.Model, info.Dimensions, info.Documents, len(snapshot.Entries),
		info.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting index header: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, index_id, document_id, position, content, metadata, embedding)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range snapshot.Entries {
		if len(entry.Vector) != info.Dimensions {
			err = fmt.Errorf("%w: chunk %s has %d dimensions, index has %d",
				domain.ErrInvalidInput, entry.Chunk.ID, len(entry.Vector), info.Dimensions)
			return err
		}

		metadataJSON, merr := json.Marshal(entry.Chunk.Metadata)
		if merr != nil {
			err = fmt.Errorf("marshalling metadata for chunk %s: %w", entry.Chunk.ID, merr)
			return err
		}

		_, err = stmt.ExecContext(ctx,
			entry.Chunk.ID, info.ID, entry.Chunk.DocumentID, entry.Chunk.Position,
			entry.Chunk.Content, string(metadataJSON), float32SliceToBytes(entry.Vector))
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", entry.Chunk.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// loadInfo reads the snapshot header.
func loadInfo(ctx context.Context, db *sql.DB) (*domain.IndexInfo, error) {
	var info domain.IndexInfo
	var createdAt string

	row := db.QueryRowContext(ctx,
		"SELECT id, model, dimensions, documents, chunks, created_at FROM index_meta LIMIT 1")
	if err := row.Scan(&info.ID, &info.Model, &info.Dimensions, &info.Documents, &info.Chunks, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: index file holds no snapshot", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading index header: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad created_at %q", ErrCorruptIndex, createdAt)
	}
	info.CreatedAt = t
	return &info, nil
}

// loadSnapshot reads the header and every chunk in saved order.
func loadSnapshot(ctx context.Context, db *sql.DB) (*driven.IndexSnapshot, error) {
	info, err := loadInfo(ctx, db)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, document_id, position, content, metadata, embedding
		 FROM chunks WHERE index_id = ? ORDER BY seq`, info.ID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	entries := make([]driven.VectorEntry, 0, info.Chunks)
	for rows.Next() {
		var chunk domain.Chunk
		var metadataJSON string
		var blob []byte

		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position, &chunk.Content, &metadataJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		chunk.Metadata, err = decodeMetadata(metadataJSON)
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %s metadata: %v", ErrCorruptIndex, chunk.ID, err)
		}

		if len(blob) != info.Dimensions*4 {
			return nil, fmt.Errorf("%w: chunk %s embedding has %d bytes, want %d",
				ErrCorruptIndex, chunk.ID, len(blob), info.Dimensions*4)
		}

		entries = append(entries, driven.VectorEntry{Chunk: chunk, Vector: bytesToFloat32Slice(blob)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	if len(entries) != info.Chunks {
		return nil, fmt.Errorf("%w: header lists %d chunks, found %d", ErrCorruptIndex, info.Chunks, len(entries))
	}

	return &driven.IndexSnapshot{Info: *info, Entries: entries}, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// decodeMetadata restores chunk metadata, keeping integral numbers as int.
func decodeMetadata(s string) (map[string]any, error) {
	if s == "" || s == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		n, ok := v.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			raw[k] = int(i)
		} else if f, err := n.Float64(); err == nil {
			raw[k] = f
		}
	}
	return raw, nil
}
