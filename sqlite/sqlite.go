// Package sqlite provides a SQLite-backed run ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// MemoryPath opens a private in-memory ledger.
const MemoryPath = ":memory:"

// schema is applied on every Open and must stay idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	origin TEXT NOT NULL,
	seeds TEXT NOT NULL DEFAULT '',
	max_depth INTEGER NOT NULL,
	fetched INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0,
	ignored INTEGER NOT NULL DEFAULT 0,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS pages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	url TEXT NOT NULL,
	depth INTEGER NOT NULL,
	path TEXT NOT NULL DEFAULT '',
	hash TEXT NOT NULL DEFAULT '',
	bytes INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	UNIQUE (run_id, url)
);

CREATE INDEX IF NOT EXISTS idx_pages_run_id ON pages(run_id);
CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
`

type pragma struct {
	stmt     string
	desc     string
	fileOnly bool
}

// pragmas run in order on a fresh connection.
var pragmas = []pragma{
	{stmt: "PRAGMA busy_timeout = 5000", desc: "set busy timeout"},
	{stmt: "PRAGMA journal_mode = WAL", desc: "enable WAL mode", fileOnly: true},
	{stmt: "PRAGMA foreign_keys = ON", desc: "enable foreign keys"},
}

// DB is a ledger database handle.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a handle for the ledger at path. Pass MemoryPath for a
// throwaway ledger.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects, applies pragmas and ensures the runs and pages tables exist.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	// Single writer.
	conn.SetMaxOpenConns(1)

	if err := db.prepare(conn); err != nil {
		conn.Close()
		return err
	}

	db.db = conn
	return nil
}

func (db *DB) prepare(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("failed to connect to ledger: %w", err)
	}

	for _, p := range pragmas {
		if p.fileOnly && db.path == MemoryPath {
			continue
		}
		if _, err := conn.Exec(p.stmt); err != nil {
			return fmt.Errorf("failed to %s: %w", p.desc, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}

// Close closes the connection. It is safe to call on an unopened DB.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

// QueryRowContext runs a query expected to return at most one row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext runs a query returning rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext runs a statement without returning rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}
