/*
Package legacydb converts between the JSON tool database and the SQLite
database written by earlier bapanel releases.

The SQLite file holds three tables: tools (one row per tool with its
primary category), dependencies (required and optional, flagged by
is_optional) and tool_categories (every blackarch-* group of a tool).
It uses modernc.org/sqlite, a pure Go, CGo-free implementation.
*/
package legacydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/bapanel/bapanel/internal/catalog"
)

// Store is an open legacy database.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates the database at path and brings its schema up to
// date.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// OpenReadOnly opens an existing database for reading. It never creates
// the file or touches its schema, so a mistyped path fails instead of
// yielding an empty database.
func OpenReadOnly(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &catalog.IOError{Op: "read", Path: path, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &catalog.IOError{Op: "read", Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &catalog.IOError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}

	dsn := (&url.URL{Scheme: "file", Path: abs, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, path: abs, logger: logger}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	return nil
}
