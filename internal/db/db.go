package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryDSN is the only data source the workspace uses; state lives for
// the lifetime of the process.
const MemoryDSN = ":memory:"

// OpenDB opens an in-memory SQLite workspace.
// Each connection to ":memory:" is a separate database, so the pool is
// pinned to a single connection.
// Enables foreign keys and runs migrations automatically.
func OpenDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite", MemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
