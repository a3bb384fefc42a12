package history

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockStore(t *testing.T, fn func(*PostgresStore, sqlmock.Sqlmock)) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	fn(newPostgresStore(db), mock)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPostgresStore_Mocked(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := Run{
		ID: "run-1", StartedAt: started, DataType: "double", Transform: "multiplication", Reduce: "addition",
		Records: []StoredRecord{{Strategy: "naive", Iterations: 100, Size: 1000, Seconds: 0.5}},
	}

	t.Run("Save Success", func(t *testing.T) {
		withMockStore(t, func(store *PostgresStore, mock sqlmock.Sqlmock) {
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO runs (id, started_at, data_type, transform_op, reduce_op) VALUES ($1, $2, $3, $4, $5)")).
				WithArgs("run-1", started, "double", "multiplication", "addition").
				WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO records")).
				WithArgs("run-1", "naive", 100, 1000, 0.5).
				WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectCommit()

			assert.NoError(t, store.Save(ctx, run))
		})
	})

	t.Run("Save Rolls Back On Error", func(t *testing.T) {
		withMockStore(t, func(store *PostgresStore, mock sqlmock.Sqlmock) {
			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO runs").WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectExec("INSERT INTO records").WillReturnError(errors.New("disk full"))
			mock.ExpectRollback()

			err := store.Save(ctx, run)
			assert.ErrorContains(t, err, "disk full")
		})
	})

	t.Run("List", func(t *testing.T) {
		withMockStore(t, func(store *PostgresStore, mock sqlmock.Sqlmock) {
			rows := sqlmock.NewRows([]string{"id", "started_at", "data_type", "transform_op", "reduce_op"}).
				AddRow("run-2", started.Add(time.Hour), "int", "addition", "maximum").
				AddRow("run-1", started, "double", "multiplication", "addition")
			mock.ExpectQuery(regexp.QuoteMeta("FROM runs ORDER BY started_at DESC LIMIT $1")).
				WithArgs(5).
				WillReturnRows(rows)

			runs, err := store.List(ctx, 5)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "run-2", runs[0].ID)
			assert.Equal(t, "maximum", runs[0].Reduce)
		})
	})

	t.Run("Load", func(t *testing.T) {
		withMockStore(t, func(store *PostgresStore, mock sqlmock.Sqlmock) {
			mock.ExpectQuery(regexp.QuoteMeta("FROM runs WHERE id = $1")).
				WithArgs("run-1").
				WillReturnRows(sqlmock.NewRows([]string{"id", "started_at", "data_type", "transform_op", "reduce_op"}).
					AddRow("run-1", started, "double", "multiplication", "addition"))
			mock.ExpectQuery(regexp.QuoteMeta("FROM records WHERE run_id = $1 ORDER BY seq")).
				WithArgs("run-1").
				WillReturnRows(sqlmock.NewRows([]string{"strategy", "iterations", "size", "seconds"}).
					AddRow("naive", 100, 1000, 0.5))

			loaded, err := store.Load(ctx, "run-1")
			require.NoError(t, err)
			assert.Equal(t, run.Records, loaded.Records)
		})
	})

	t.Run("Load Missing", func(t *testing.T) {
		withMockStore(t, func(store *PostgresStore, mock sqlmock.Sqlmock) {
			mock.ExpectQuery("FROM runs WHERE id").
				WithArgs("nope").
				WillReturnRows(sqlmock.NewRows([]string{"id", "started_at", "data_type", "transform_op", "reduce_op"}))

			_, err := store.Load(ctx, "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	})
}
