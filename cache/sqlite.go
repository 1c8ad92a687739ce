package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync/atomic"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// SQLite is a descriptor cache stored in a single SQLite table, one JSON row per
// structure key.
type SQLite struct {
	db   *sql.DB
	path string

	hits   atomic.Int64
	misses atomic.Int64
}

// OpenSQLite opens or creates the cache database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.NewValidationError("cache_path", "must not be empty", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// one writer at a time; descriptor workers share the handle
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS descriptors (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create descriptors table")
	}
	return &SQLite{db: db, path: path}, nil
}

// Get returns the cached row for key.
func (s *SQLite) Get(ctx context.Context, key string) ([]any, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM descriptors WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		s.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "select cached row")
	}
	values, err := decodeRow(payload)
	if err != nil {
		return nil, false, err
	}
	s.hits.Add(1)
	return values, true, nil
}

// Put stores values under key, replacing any previous row.
func (s *SQLite) Put(ctx context.Context, key string, values []any) error {
	payload, err := encodeRow(values)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO descriptors (key, payload) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`, key, payload); err != nil {
		return errors.Wrap(err, "upsert cached row")
	}
	return nil
}

// Len returns the number of cached rows.
func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM descriptors`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count cached rows")
	}
	return n, nil
}

// Stats returns the number of hits and misses since the cache was opened.
func (s *SQLite) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// Path returns the database file.
func (s *SQLite) Path() string { return s.path }

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
