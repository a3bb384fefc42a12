// Package history persists completed benchmark runs so that later runs can
// be compared against them.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trbench/internal/matrix"
)

// DefaultSQLitePath is used when no DSN is configured for SQLite.
const DefaultSQLitePath = ".trbench.db"

// ErrNotFound is returned by Load for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// StoredRecord is one timing measurement of a stored run.
type StoredRecord struct {
	Strategy   string  `json:"strategy"`
	Iterations int     `json:"iterations"`
	Size       int     `json:"size"`
	Seconds    float64 `json:"seconds"`
}

// Run is one combination's results as persisted.
type Run struct {
	ID        string         `json:"id"`
	StartedAt time.Time      `json:"started_at"`
	DataType  string         `json:"data_type"`
	Transform string         `json:"transform"`
	Reduce    string         `json:"reduce"`
	Records   []StoredRecord `json:"records,omitempty"`
}

// Combination returns the (data type, transform, reduce) of the run.
func (r Run) Combination() matrix.Combination {
	return matrix.Combination{DataType: r.DataType, Transform: r.Transform, Reduce: r.Reduce}
}

// NewRun flattens res into a Run with a fresh ID.
func NewRun(res *matrix.Results, startedAt time.Time) Run {
	run := Run{
		ID:        uuid.NewString(),
		StartedAt: startedAt.UTC(),
		DataType:  res.DataType,
		Transform: res.Transform,
		Reduce:    res.Reduce,
	}
	for _, tbl := range res.Tables {
		for _, rec := range tbl.Records {
			run.Records = append(run.Records, StoredRecord{
				Strategy:   tbl.Strategy.String(),
				Iterations: rec.Iterations,
				Size:       rec.Size,
				Seconds:    rec.Seconds,
			})
		}
	}
	return run
}

// Store persists runs.
type Store interface {
	Save(ctx context.Context, run Run) error
	// List returns the most recent runs, newest first, without records.
	List(ctx context.Context, limit int) ([]Run, error)
	Load(ctx context.Context, id string) (*Run, error)
	Close() error
}

// StoreConfig holds configuration for the storage backend
type StoreConfig struct {
	Type string // "sqlite" or "postgres"
	DSN  string // File path for SQLite, connection string for Postgres
}

// NewStore creates a new Store instance based on the provided configuration
func NewStore(cfg StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return NewPostgresStore(cfg.DSN)
	case "sqlite", "sqlite3", "":
		if cfg.DSN == "" {
			cfg.DSN = DefaultSQLitePath
		}
		return NewSQLiteStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}
