// Package policy implements the execution policies the strategies are
// measured under: sequential, parallel and parallel-unsequenced.
//
// Parallel policies split their input into chunks of at least Executor.Grain
// elements and fan out over at most Executor.Workers goroutines. The fan-out
// never outlives the call. Inputs that fit in one chunk run sequentially under
// every policy: with DefaultGrain, par and par_unseq take the sequential code
// path for inputs of 4096 elements or fewer, so their timings at those sizes
// are sequential timings. A panic in a worker is re-raised in the caller.
package policy

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"trbench/internal/numeric"
	"trbench/internal/operator"
)

// Policy selects how an operation is executed.
type Policy int

const (
	Sequential Policy = iota
	Parallel
	ParallelUnsequenced
)

// DefaultGrain is the minimum number of elements a parallel chunk holds.
// Inputs no longer than the grain are not split.
const DefaultGrain = 4096

// SequentialBelow reports the input length at or below which the parallel
// policies run on the calling goroutine.
func (e Executor) SequentialBelow() int { return e.normalize().Grain }

func (p Policy) String() string {
	switch p {
	case Sequential:
		return "seq"
	case Parallel:
		return "par"
	case ParallelUnsequenced:
		return "par_unseq"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// Parse converts "seq", "par" or "par_unseq" into a Policy.
func Parse(s string) (Policy, error) {
	for _, p := range []Policy{Sequential, Parallel, ParallelUnsequenced} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown execution policy %q", s)
}

// Executor bounds the fan-out of the parallel policies.
type Executor struct {
	// Workers is the maximum number of concurrent goroutines.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int
	// Grain is the minimum chunk length. Zero means DefaultGrain.
	Grain int
}

// DefaultExecutor returns an executor sized to the machine.
func DefaultExecutor() Executor {
	return Executor{Workers: runtime.GOMAXPROCS(0), Grain: DefaultGrain}
}

func (e Executor) normalize() Executor {
	if e.Workers <= 0 {
		e.Workers = runtime.GOMAXPROCS(0)
	}
	if e.Grain <= 0 {
		e.Grain = DefaultGrain
	}
	return e
}

// chunks splits [0,n) into contiguous non-empty ranges. A single range is
// returned when n does not exceed the grain.
func (e Executor) chunks(n int) [][2]int {
	e = e.normalize()
	if n <= e.Grain {
		return [][2]int{{0, n}}
	}
	size := (n + e.Workers - 1) / e.Workers
	if size < e.Grain {
		size = e.Grain
	}
	bounds := make([][2]int, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		bounds = append(bounds, [2]int{lo, min(lo+size, n)})
	}
	return bounds
}

func (e Executor) fanOut(bounds [][2]int, fn func(i, lo, hi int)) {
	var g errgroup.Group
	g.SetLimit(e.normalize().Workers)
	for i, b := range bounds {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("policy: chunk %d [%d,%d): %v", i, b[0], b[1], r)
				}
			}()
			fn(i, b[0], b[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
}

// Transform writes op(a[i], b[i]) into out[i]. a, b and out must have equal
// length.
func Transform[T numeric.Number](p Policy, e Executor, a, b, out []T, op operator.BinaryOp[T]) {
	n := len(out)
	a, b = a[:n], b[:n]
	if p == Sequential {
		transformRange(a, b, out, op)
		return
	}
	bounds := e.chunks(n)
	if len(bounds) == 1 {
		transformRange(a, b, out, op)
		return
	}
	apply := transformRange[T]
	if p == ParallelUnsequenced {
		apply = transformLanes[T]
	}
	e.fanOut(bounds, func(_, lo, hi int) {
		apply(a[lo:hi], b[lo:hi], out[lo:hi], op)
	})
}

// Reduce folds xs into init with op. The sequential policy is a left fold;
// parallel policies fold each chunk independently and then fold the partial
// results into init in chunk order.
func Reduce[T numeric.Number](p Policy, e Executor, xs []T, init T, op operator.BinaryOp[T]) T {
	if p == Sequential {
		return Accumulate(xs, init, op)
	}
	bounds := e.chunks(len(xs))
	if len(bounds) == 1 {
		return Accumulate(xs, init, op)
	}
	fold := foldRange[T]
	if p == ParallelUnsequenced {
		fold = foldLanes[T]
	}
	partials := make([]T, len(bounds))
	e.fanOut(bounds, func(i, lo, hi int) {
		partials[i] = fold(xs[lo:hi], op)
	})
	return Accumulate(partials, init, op)
}

// TransformReduce computes reduce(init, transform(a[i], b[i])...) in a
// single pass without materialising the transformed sequence.
func TransformReduce[T numeric.Number](p Policy, e Executor, a, b []T, init T, reduce, transform operator.BinaryOp[T]) T {
	n := len(a)
	b = b[:n]
	if p == Sequential {
		return transformAccumulate(a, b, init, reduce, transform)
	}
	bounds := e.chunks(n)
	if len(bounds) == 1 {
		return transformAccumulate(a, b, init, reduce, transform)
	}
	fold := transformFoldRange[T]
	if p == ParallelUnsequenced {
		fold = transformFoldLanes[T]
	}
	partials := make([]T, len(bounds))
	e.fanOut(bounds, func(i, lo, hi int) {
		partials[i] = fold(a[lo:hi], b[lo:hi], reduce, transform)
	})
	return Accumulate(partials, init, reduce)
}

// Accumulate is a strict in-order left fold.
func Accumulate[T numeric.Number](xs []T, init T, op operator.BinaryOp[T]) T {
	acc := init
	for _, x := range xs {
		acc = op(acc, x)
	}
	return acc
}
