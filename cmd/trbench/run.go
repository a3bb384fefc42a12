package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"trbench/internal/config"
	"trbench/internal/history"
	"trbench/internal/matrix"
	"trbench/internal/metrics"
	"trbench/internal/oracle"
	"trbench/internal/policy"
	"trbench/internal/report"
	"trbench/internal/telemetry"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark matrix and write the reports",
	Long: `Runs every configured (data type, transform, reduce) combination in order.
Flags override the configured matrix; without flags the fixed defaults are
used: iterations 100 and 1000, sizes 100 to 1000000, double, and the pairs
addition/addition and multiplication/addition.`,
	Args: cobra.NoArgs,
	RunE: runBenchmarks,
}

func init() {
	addRunFlags(runCmd.Flags())
	rootCmd.AddCommand(runCmd)
}

func runBenchmarks(cmd *cobra.Command, args []string) error {
	s, err := config.Current()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	d, err := newDriver(s)
	if err != nil {
		return err
	}
	defer d.close()

	return d.run(ctx, cmd.OutOrStdout())
}

// driver runs every combination of one invocation.
type driver struct {
	settings config.Settings
	runner   *matrix.Runner
	metrics  *metrics.Metrics
	server   *telemetry.MetricsServer
	store    history.Store
}

func newDriver(s config.Settings) (*driver, error) {
	m := metrics.NewMetrics()

	r := matrix.NewRunner(s.Matrix)
	r.Executor = policy.Executor{Workers: s.Workers, Grain: s.Grain}
	if s.Tolerance > 0 {
		r.Comparator = oracle.Relative(s.Tolerance)
	}
	r.Seed = s.Seed
	r.Observer = m
	r.Logger = slog.Default()

	d := &driver{settings: s, runner: r, metrics: m}

	if s.MetricsAddr != "" {
		srv, err := telemetry.StartMetricsServer(s.MetricsAddr, m.Handler())
		if err != nil {
			return nil, fmt.Errorf("failed to start metrics server: %w", err)
		}
		d.server = srv
	}

	if s.History.Enabled {
		store, err := history.NewStore(history.StoreConfig{Type: s.History.Type, DSN: s.History.DSN})
		if err != nil {
			d.close()
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		d.store = store
	}
	return d, nil
}

// run executes the combinations sequentially; the first failure aborts the
// remaining ones. The metrics textfile is written either way.
func (d *driver) run(ctx context.Context, out io.Writer) (err error) {
	defer func() {
		if path := d.settings.MetricsTextfile; path != "" {
			if werr := d.metrics.WriteTextfile(path); werr != nil && err == nil {
				err = fmt.Errorf("failed to write metrics textfile: %w", werr)
			}
		}
	}()

	if err := os.MkdirAll(d.settings.OutputDir, 0o755); err != nil {
		return fmt.Errorf("%w %s: %w", report.ErrOpen, d.settings.OutputDir, err)
	}

	combos := d.settings.Combinations()
	telemetry.LogDebug("starting run", "combinations", len(combos), "workers", d.runner.Executor.Workers,
		"grain", d.runner.Executor.Grain, "comparator", d.runner.Comparator.String())
	for _, c := range combos {
		started := time.Now()
		telemetry.LogInfo("running combination", "combination", c.String(), "trials", d.runner.Matrix.Len())

		res, err := d.runner.RunLabels(ctx, c)
		if err != nil {
			telemetry.LogError("combination failed", err, "combination", c.String())
			return err
		}

		path, err := report.WriteFile(d.settings.OutputDir, res)
		if err != nil {
			return err
		}
		d.metrics.ReportsWritten.Inc()

		runID := ""
		if d.store != nil {
			run := history.NewRun(res, started)
			if err := d.store.Save(ctx, run); err != nil {
				return fmt.Errorf("failed to save run history: %w", err)
			}
			runID = run.ID
		}

		telemetry.LogInfo("combination finished", "combination", c.String(), "report", path, "elapsed", time.Since(started))
		renderRunSummary(out, res, path, runID)
	}
	telemetry.LogInfof("wrote %d reports to %s", len(combos), d.settings.OutputDir)
	return nil
}

func (d *driver) close() {
	if d.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.server.Shutdown(ctx); err != nil {
			telemetry.LogError("metrics server shutdown failed", err)
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			telemetry.LogError("history store close failed", err)
		}
	}
}
