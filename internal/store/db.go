// Package store persists analysis run history to sqlite.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite handle for run history.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and runs
// pending migrations. Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// Single writer; sqlite returns SQLITE_BUSY without this under
	// concurrent poll + insert.
	handle.SetMaxOpenConns(1)
	if _, err := handle.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	db := &DB{sql: handle}
	if err := db.migrateUp(); err != nil {
		handle.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying handle.
func (db *DB) Close() error {
	return db.sql.Close()
}
