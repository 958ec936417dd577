package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

const memoryPath = ":memory:"

// Store is the SQLite backed build state.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating when needed) the state database at path.
// Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.FileSystemError("failed to create state directory").
				WithCause(err).WithContext("path", path).Build()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryState, "open sqlite database").
			WithContext("path", path).Build()
	}
	// A second pooled connection to :memory: would see an empty database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryState, "initialize schema").
			WithContext("path", path).Build()
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		pages INTEGER NOT NULL DEFAULT 0,
		config_hash TEXT NOT NULL DEFAULT '',
		content_hash TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);

	CREATE TABLE IF NOT EXISTS posts (
		slug TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		file TEXT NOT NULL DEFAULT '',
		build_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_build_id ON events(build_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close state database: %w", err)
	}
	return nil
}
