package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trbench/internal/matrix"
	"trbench/internal/strategy"
)

var combo = matrix.Combination{DataType: "double", Transform: "addition", Reduce: "addition"}

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	assert.NotNil(t, m.TrialSeconds)
	assert.NotNil(t, m.TrialsTotal)
	assert.NotNil(t, m.OracleFailures)
	assert.NotNil(t, m.ReportsWritten)

	// A second instance must not panic on duplicate registration.
	assert.NotPanics(t, func() { NewMetrics() })
}

func TestObserveRecord(t *testing.T) {
	m := NewMetrics()
	var obs matrix.Observer = m

	obs.ObserveRecord(combo, strategy.ParFused, matrix.Record{Iterations: 10, Size: 5, Seconds: 0.002})
	obs.ObserveRecord(combo, strategy.ParFused, matrix.Record{Iterations: 10, Size: 50, Seconds: 0.004})
	obs.ObserveRecord(combo, strategy.Naive, matrix.Record{Iterations: 10, Size: 5, Seconds: 0.01})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TrialsTotal.WithLabelValues("par_transform_reduce_fused")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrialsTotal.WithLabelValues("naive")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.TrialSeconds))
}

func TestGatherer(t *testing.T) {
	m := NewMetrics()
	m.ObserveRecord(combo, strategy.SeqFused, matrix.Record{Iterations: 1, Size: 5, Seconds: 0.001})
	m.ReportsWritten.Inc()

	count, err := testutil.GatherAndCount(m.Gatherer(), "trbench_trials_total", "trbench_reports_written_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	expected := `
# HELP trbench_reports_written_total Total number of report files written
# TYPE trbench_reports_written_total counter
trbench_reports_written_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected), "trbench_reports_written_total"))
}

func TestObserveOracleFailure(t *testing.T) {
	m := NewMetrics()
	m.ObserveOracleFailure(combo, errors.New("mismatch"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleFailures.WithLabelValues("double", "addition", "addition")))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveRecord(combo, strategy.SeqFused, matrix.Record{Iterations: 1, Size: 1, Seconds: 0.5})
	m.ReportsWritten.Inc()

	path := filepath.Join(t.TempDir(), "trbench.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `trbench_trials_total{strategy="seq_transform_reduce_fused"} 1`)
	assert.Contains(t, string(data), "trbench_reports_written_total 1")
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveRecord(combo, strategy.Naive, matrix.Record{Iterations: 1, Size: 1, Seconds: 0.1})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := w.Body.String()
	assert.Contains(t, response, "trbench_trial_seconds")
	assert.Contains(t, response, "trbench_trials_total")
}
