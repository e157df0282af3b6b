// Package store provides the SQLite-backed command index storage.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports a lookup that matched no row.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and applies the
// schema. Path may be ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection keeps session pragmas in force and makes
	// ":memory:" behave as one database instead of one per connection.
	db.SetMaxOpenConns(1)

	// Fail early if connection is bad
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Wait up to 5s on lock instead of failing immediately
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA foreign_keys=ON")

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts a new transaction.
func (s *Store) Begin() (*sql.Tx, error) {
	return s.db.Begin()
}

// The snapshot_* tables mirror the live tables exactly. They hold the
// previous index state while a re-index runs and drive the merge that
// carries user edits forward.
const schema = `
CREATE TABLE IF NOT EXISTS files (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name   TEXT NOT NULL,
	path   TEXT NOT NULL,
	digest TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS categories (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL UNIQUE,
	description        TEXT NOT NULL DEFAULT '',
	code_regex         TEXT NOT NULL DEFAULT '',
	comment_regex      TEXT NOT NULL DEFAULT '',
	command_name_regex TEXT NOT NULL DEFAULT '',
	path_regex         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS commands (
	id                     INTEGER PRIMARY KEY AUTOINCREMENT,
	name                   TEXT NOT NULL,
	code                   TEXT NOT NULL,
	command_type           TEXT NOT NULL,
	description            TEXT NOT NULL DEFAULT '',
	args                   TEXT NOT NULL DEFAULT '',
	hidden                 INTEGER NOT NULL DEFAULT 0,
	has_custom_description INTEGER NOT NULL DEFAULT 0,
	file_id                INTEGER REFERENCES files(id)
);
CREATE INDEX IF NOT EXISTS idx_commands_name ON commands(name);

CREATE TABLE IF NOT EXISTS command_categories (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	command_id  INTEGER NOT NULL REFERENCES commands(id),
	category_id INTEGER NOT NULL REFERENCES categories(id),
	is_custom   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS snapshot_files (
	id     INTEGER PRIMARY KEY,
	name   TEXT NOT NULL,
	path   TEXT NOT NULL,
	digest TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS snapshot_categories (
	id                 INTEGER PRIMARY KEY,
	name               TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	code_regex         TEXT NOT NULL DEFAULT '',
	comment_regex      TEXT NOT NULL DEFAULT '',
	command_name_regex TEXT NOT NULL DEFAULT '',
	path_regex         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS snapshot_commands (
	id                     INTEGER PRIMARY KEY,
	name                   TEXT NOT NULL,
	code                   TEXT NOT NULL,
	command_type           TEXT NOT NULL,
	description            TEXT NOT NULL DEFAULT '',
	args                   TEXT NOT NULL DEFAULT '',
	hidden                 INTEGER NOT NULL DEFAULT 0,
	has_custom_description INTEGER NOT NULL DEFAULT 0,
	file_id                INTEGER
);

CREATE TABLE IF NOT EXISTS snapshot_command_categories (
	id          INTEGER PRIMARY KEY,
	command_id  INTEGER NOT NULL,
	category_id INTEGER NOT NULL,
	is_custom   INTEGER NOT NULL DEFAULT 0
);
`

func (s *Store) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// File is a scanned filesystem path.
type File struct {
	ID     int64
	Name   string
	Path   string
	Digest string
}

// Category is a named command bucket with its matching rules.
type Category struct {
	ID               int64
	Name             string
	Description      string
	CodeRegex        string
	CommentRegex     string
	CommandNameRegex string
	PathRegex        string
}

// Command is one extracted construct occurrence.
type Command struct {
	ID                   int64
	Name                 string
	Code                 string
	Type                 string
	Description          string
	Args                 string
	Hidden               bool
	HasCustomDescription bool
	FileID               sql.NullInt64

	// Joined columns, filled by list queries.
	FilePath   string
	Categories []string
}

// HasCommands reports whether any commands are indexed. An empty store
// promotes an incremental index to a full rebuild.
func (s *Store) HasCommands() (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM commands`).Scan(&n); err != nil {
		return false, fmt.Errorf("counting commands: %w", err)
	}
	return n > 0, nil
}
