// Package store persists decision trees and the test catalog in SQLite.
// Trees are stored flat: one metadata record plus one row per node, the
// shape internal/decisiontree builds from and flattens to.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle and hands out repositories.
type Store struct {
	db *sql.DB
}

// Open creates a Store connected to the SQLite database at dsn. It applies
// recommended pragmas and creates the schema if missing.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// TreeRepo returns a TreeRepo backed by this store.
func (s *Store) TreeRepo() TreeRepo {
	return &treeRepo{db: s.db}
}

// CatalogRepo returns a CatalogRepo backed by this store.
func (s *Store) CatalogRepo() CatalogRepo {
	return &catalogRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user desktop use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the schema. Statements are idempotent; a single-file
// desktop database carries no versioned migration history.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trees (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL DEFAULT '',
			is_free     INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS tree_nodes (
			id               TEXT NOT NULL,
			tree_id          TEXT NOT NULL REFERENCES trees(id) ON DELETE CASCADE,
			parent_id        TEXT,
			parent_answer_id TEXT,
			node_type        TEXT NOT NULL,
			content          TEXT NOT NULL DEFAULT '',
			test_id          TEXT,
			order_index      INTEGER NOT NULL DEFAULT 0,
			answers_json     TEXT NOT NULL DEFAULT '[]',
			PRIMARY KEY (tree_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tree_nodes_tree ON tree_nodes (tree_id)`,
		`CREATE TABLE IF NOT EXISTS catalog_tests (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			sensitivity REAL NOT NULL DEFAULT -1,
			specificity REAL NOT NULL DEFAULT -1,
			video_url   TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ARBOR_DB environment variable
// 2. $XDG_DATA_HOME/arbor/arbor.db
// 3. ~/.local/share/arbor/arbor.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ARBOR_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "arbor", "arbor.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
