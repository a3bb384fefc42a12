// Package matrix runs the correctness check and then every trial of a test
// matrix for one (data type, transform, reduce) combination.
package matrix

import (
	"context"
	"fmt"
	"log/slog"

	"trbench/internal/numeric"
	"trbench/internal/operator"
	"trbench/internal/oracle"
	"trbench/internal/policy"
	"trbench/internal/probe"
	"trbench/internal/sample"
	"trbench/internal/strategy"
)

// Observer is notified of every measurement and of oracle failures.
type Observer interface {
	ObserveRecord(c Combination, id strategy.ID, rec Record)
	ObserveOracleFailure(c Combination, err error)
}

// Runner holds the settings shared by every combination of a run.
type Runner struct {
	Matrix     Matrix
	Executor   policy.Executor
	Comparator oracle.Comparator
	// Seed makes sample generation reproducible when set.
	Seed     *uint64
	Observer Observer
	Logger   *slog.Logger
}

// NewRunner returns a runner with the default executor and exact
// comparison.
func NewRunner(m Matrix) *Runner {
	return &Runner{
		Matrix:     m,
		Executor:   policy.DefaultExecutor(),
		Comparator: oracle.Exact(),
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// RunLabels resolves the combination's labels and runs it.
func (r *Runner) RunLabels(ctx context.Context, c Combination) (*Results, error) {
	if _, err := numeric.Lookup(c.DataType); err != nil {
		return nil, err
	}
	switch c.DataType {
	case numeric.LabelInt:
		return runLabels[int32](ctx, r, c)
	case numeric.LabelLong:
		return runLabels[int64](ctx, r, c)
	case numeric.LabelUint:
		return runLabels[uint32](ctx, r, c)
	case numeric.LabelUlong:
		return runLabels[uint64](ctx, r, c)
	case numeric.LabelFloat:
		return runLabels[float32](ctx, r, c)
	default:
		return runLabels[float64](ctx, r, c)
	}
}

func runLabels[T numeric.Number](ctx context.Context, r *Runner, c Combination) (*Results, error) {
	ops, err := operator.NewPair[T](c.Transform, c.Reduce)
	if err != nil {
		return nil, err
	}
	return Run(ctx, r, ops)
}

// Run checks every strategy on the smallest size and then times every
// strategy on every trial. A failed check aborts the combination before any
// timing is done.
func Run[T numeric.Number](ctx context.Context, r *Runner, ops operator.Pair[T]) (*Results, error) {
	if err := r.Matrix.Validate(); err != nil {
		return nil, err
	}
	combo := Combination{
		DataType:  numeric.Label[T](),
		Transform: ops.TransformLabel,
		Reduce:    ops.ReduceLabel,
	}
	log := r.logger().With("combination", combo.String())
	set := strategy.NewSet(ops, r.Executor)

	if err := check(r, set, combo); err != nil {
		return nil, err
	}
	log.Info("correctness check passed", "size", r.Matrix.Smallest(), "comparator", r.Comparator.String())

	trials := r.Matrix.Trials()
	results := newResults(combo, len(trials))
	for i, trial := range trials {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s interrupted before trial %d: %w", combo, i+1, err)
		}
		p, err := generate[T](r, i+1, trial.Size)
		if err != nil {
			return nil, err
		}
		for k, id := range strategy.All() {
			rec := Record{
				Iterations: trial.Iterations,
				Size:       trial.Size,
				Seconds:    probe.Measure(set.Kernel(id), p, trial.Iterations),
			}
			results.Tables[k].Records = append(results.Tables[k].Records, rec)
			if r.Observer != nil {
				r.Observer.ObserveRecord(combo, id, rec)
			}
			log.Debug("trial measured", "strategy", id.String(), "iterations", rec.Iterations, "size", rec.Size, "seconds", rec.Seconds)
		}
	}
	return results, nil
}

func check[T numeric.Number](r *Runner, set *strategy.Set[T], combo Combination) error {
	p, err := generate[T](r, 0, r.Matrix.Smallest())
	if err != nil {
		return err
	}
	if _, err := oracle.Check(set, p, r.Comparator); err != nil {
		if r.Observer != nil {
			r.Observer.ObserveOracleFailure(combo, err)
		}
		return fmt.Errorf("%s: %w", combo, err)
	}
	return nil
}

// generate builds a fresh sample pair for trial k. With a fixed seed every
// trial gets its own derived seed so trials stay independent.
func generate[T numeric.Number](r *Runner, k, size int) (sample.Pair[T], error) {
	var seed *uint64
	if r.Seed != nil {
		s := *r.Seed + uint64(k)
		seed = &s
	}
	g, err := sample.NewGenerator[T](seed)
	if err != nil {
		return sample.Pair[T]{}, err
	}
	return g.Generate(size)
}
