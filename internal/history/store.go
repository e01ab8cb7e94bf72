// Package history records completed tool invocations in a local SQLite
// database. Recording is best-effort: a history failure is logged and
// never fails the tool call that produced it.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one recorded tool invocation.
type Entry struct {
	ID         int64  `json:"id"`
	Tool       string `json:"tool"`
	Model      string `json:"model"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// Statuses recorded for an invocation outcome.
const (
	StatusOK           = "ok"
	StatusToolError    = "tool_error"
	StatusAuthError    = "auth_error"
	StatusCommandError = "command_error"
	StatusPathError    = "path_error"
	StatusInternal     = "internal_error"
)

// Store is the invocation log. Safe for concurrent use — database/sql
// serializes access and SQLite runs in WAL mode.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("history: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS invocations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			tool        TEXT NOT NULL,
			model       TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			error       TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_invocations_created
			ON invocations(created_at DESC);
	`); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one entry. CreatedAt is stamped here, in UTC.
func (s *Store) Record(e Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO invocations (tool, model, status, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Tool, e.Model, e.Status, e.Error, e.DurationMS,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, tool, model, status, error, duration_ms, created_at
		 FROM invocations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Tool, &e.Model, &e.Status, &e.Error, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
