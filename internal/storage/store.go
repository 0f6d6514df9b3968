// Package storage manages the per-shard SQLite stores: opening and
// bootstrapping them, caching one handle per shard key, and running the
// category and transaction queries against a handle.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tally/internal/shard"

	_ "modernc.org/sqlite"
)

// Store is the live handle for one shard. It is created and owned by the
// Registry; callers obtain it through Registry.Get and never close it
// themselves.
type Store struct {
	key  shard.Key
	path string
	db   *sql.DB
}

// openStore opens (creating if absent) the physical store for a shard key
// and bootstraps its schema. A store that fails bootstrap is closed and
// never returned.
func openStore(dataDir string, key shard.Key) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	path := filepath.Join(dataDir, key.Filename())

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := bootstrapSchema(path); err != nil {
		db.Close()
		slog.Error("Shard schema bootstrap failed", "shard", key.String(), "path", path, "error", err)
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	slog.Info("Shard store opened", "shard", key.String(), "path", path)
	return &Store{key: key, path: path, db: db}, nil
}

// Key returns the shard this store belongs to.
func (s *Store) Key() shard.Key {
	return s.key
}

// Path returns the on-disk location of the store file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

var timeNow = time.Now

// parseStoredTime reads the two timestamp layouts present in stores:
// RFC3339 written by this code and SQLite's own "YYYY-MM-DD HH:MM:SS".
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func formatStoredTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
