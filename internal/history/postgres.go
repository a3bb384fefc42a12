package history

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore creates a new Postgres store and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := newPostgresStore(db)
	if err := store.migrate(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func newPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{sqlStore{db: db, numbered: true}}
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		data_type TEXT NOT NULL,
		transform_op TEXT NOT NULL,
		reduce_op TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS records (
		seq BIGSERIAL PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		strategy TEXT NOT NULL,
		iterations INTEGER NOT NULL,
		size INTEGER NOT NULL,
		seconds DOUBLE PRECISION NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);`,
}
