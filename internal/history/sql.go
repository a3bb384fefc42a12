package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// sqlStore holds the queries shared by both backends. Queries are written
// with '?' placeholders and rebound for drivers that number them.
type sqlStore struct {
	db       *sql.DB
	numbered bool
}

func (s *sqlStore) bind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) migrate(statements []string) error {
	for _, q := range statements {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}

// Save writes the run and its records in one transaction.
func (s *sqlStore) Save(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		s.bind(`INSERT INTO runs (id, started_at, data_type, transform_op, reduce_op) VALUES (?, ?, ?, ?, ?)`),
		run.ID, run.StartedAt, run.DataType, run.Transform, run.Reduce)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	insert := s.bind(`INSERT INTO records (run_id, strategy, iterations, size, seconds) VALUES (?, ?, ?, ?, ?)`)
	for _, rec := range run.Records {
		if _, err := tx.ExecContext(ctx, insert, run.ID, rec.Strategy, rec.Iterations, rec.Size, rec.Seconds); err != nil {
			return fmt.Errorf("failed to save record of run %s: %w", run.ID, err)
		}
	}
	return tx.Commit()
}

// List retrieves the most recent runs
func (s *sqlStore) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		s.bind(`SELECT id, started_at, data_type, transform_op, reduce_op FROM runs ORDER BY started_at DESC LIMIT ?`),
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.DataType, &r.Transform, &r.Reduce); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Load retrieves one run with its records.
func (s *sqlStore) Load(ctx context.Context, id string) (*Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx,
		s.bind(`SELECT id, started_at, data_type, transform_op, reduce_op FROM runs WHERE id = ?`), id).
		Scan(&r.ID, &r.StartedAt, &r.DataType, &r.Transform, &r.Reduce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		s.bind(`SELECT strategy, iterations, size, seconds FROM records WHERE run_id = ? ORDER BY seq`), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec StoredRecord
		if err := rows.Scan(&rec.Strategy, &rec.Iterations, &rec.Size, &rec.Seconds); err != nil {
			return nil, err
		}
		r.Records = append(r.Records, rec)
	}
	return &r, rows.Err()
}
