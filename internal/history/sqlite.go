package history

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore creates a new SQLite store and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{sqlStore{db: db}}
	if err := store.migrate(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		data_type TEXT NOT NULL,
		transform_op TEXT NOT NULL,
		reduce_op TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		strategy TEXT NOT NULL,
		iterations INTEGER NOT NULL,
		size INTEGER NOT NULL,
		seconds REAL NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);`,
}
