package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trbench/internal/matrix"
	"trbench/internal/strategy"
)

// Metrics represents the collection of all Prometheus metrics of a run
type Metrics struct {
	registry *prometheus.Registry

	TrialSeconds   *prometheus.HistogramVec
	TrialsTotal    *prometheus.CounterVec
	OracleFailures *prometheus.CounterVec
	ReportsWritten prometheus.Counter
}

// NewMetrics creates all metrics on a private registry so that several
// runs in one process never collide.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.TrialSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trbench_trial_seconds",
			Help:    "Elapsed seconds of one timed trial (all repetitions)",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14),
		},
		[]string{"strategy", "data_type", "transform", "reduce"},
	)

	m.TrialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trbench_trials_total",
			Help: "Total number of timed trials",
		},
		[]string{"strategy"},
	)

	m.OracleFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trbench_oracle_failures_total",
			Help: "Combinations abandoned because strategies disagreed",
		},
		[]string{"data_type", "transform", "reduce"},
	)

	m.ReportsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trbench_reports_written_total",
			Help: "Total number of report files written",
		},
	)

	m.registry.MustRegister(
		m.TrialSeconds,
		m.TrialsTotal,
		m.OracleFailures,
		m.ReportsWritten,
	)

	return m
}

// ObserveRecord implements matrix.Observer.
func (m *Metrics) ObserveRecord(c matrix.Combination, id strategy.ID, rec matrix.Record) {
	m.TrialSeconds.WithLabelValues(id.String(), c.DataType, c.Transform, c.Reduce).Observe(rec.Seconds)
	m.TrialsTotal.WithLabelValues(id.String()).Inc()
}

// ObserveOracleFailure implements matrix.Observer.
func (m *Metrics) ObserveOracleFailure(c matrix.Combination, err error) {
	m.OracleFailures.WithLabelValues(c.DataType, c.Transform, c.Reduce).Inc()
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
