package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB for the statistics store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. A file that is not a database gets sidelined to <path>.corrupt
// and replaced with a fresh store: an unreadable store means first-run
// semantics, never a fatal error.
func Open(path string) (*DB, error) {
	db, err := open(path)
	if err == nil {
		return db, nil
	}
	if path == ":memory:" || !strings.Contains(err.Error(), "not a database") {
		return nil, err
	}
	if renameErr := os.Rename(path, path+".corrupt"); renameErr != nil {
		return nil, fmt.Errorf("sideline corrupt db: %w", renameErr)
	}
	return open(path)
}

func open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
