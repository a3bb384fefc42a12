// Package oracle checks that every strategy computes the same result before
// any of them is timed.
//
// The default comparison is exact. Parallel floating-point reductions fold
// in a different order than the sequential reference and may legitimately
// round differently once an input spans more than one chunk; Relative exists
// for that case. Integer results are always compared exactly.
package oracle

import (
	"errors"
	"fmt"
	"math"

	"trbench/internal/numeric"
	"trbench/internal/sample"
	"trbench/internal/strategy"
)

// Reference is the strategy every other result is compared against.
const Reference = strategy.SeqTransformAccumulate

// ErrMismatch is wrapped by every disagreement reported by Check.
var ErrMismatch = errors.New("strategies disagree")

// MismatchError describes the first strategy that disagreed with Reference.
type MismatchError struct {
	Strategy strategy.ID
	Size     int
	Want     string
	Got      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("correctness check failed on %d elements: %s returned %s, %s returned %s",
		e.Size, Reference, e.Want, e.Strategy, e.Got)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Comparator decides whether two results agree.
type Comparator struct {
	tolerance float64
}

// Exact requires bit-for-bit equal results.
func Exact() Comparator { return Comparator{} }

// Relative accepts floating-point results within tol of each other,
// relative to the larger magnitude. A non-positive tol is Exact.
func Relative(tol float64) Comparator {
	if tol < 0 {
		tol = 0
	}
	return Comparator{tolerance: tol}
}

// Tolerance returns the relative tolerance, zero for Exact.
func (c Comparator) Tolerance() float64 { return c.tolerance }

func (c Comparator) String() string {
	if c.tolerance == 0 {
		return "exact"
	}
	return fmt.Sprintf("relative(%g)", c.tolerance)
}

// Equal reports whether got agrees with want under c.
func Equal[T numeric.Number](c Comparator, want, got T) bool {
	if want == got {
		return true
	}
	if c.tolerance == 0 || numeric.KindOf[T]() != numeric.Float {
		return false
	}
	w, g := float64(want), float64(got)
	scale := math.Max(math.Abs(w), math.Abs(g))
	return math.Abs(w-g) <= c.tolerance*scale
}

// Check computes every checked strategy on p and returns the reference
// result. The first disagreement is returned as a *MismatchError.
func Check[T numeric.Number](set *strategy.Set[T], p sample.Pair[T], c Comparator) (T, error) {
	want := set.Kernel(Reference)(p.A, p.B)
	for _, id := range strategy.Checked() {
		if id == Reference {
			continue
		}
		got := set.Kernel(id)(p.A, p.B)
		if !Equal(c, want, got) {
			return want, &MismatchError{
				Strategy: id,
				Size:     p.Len(),
				Want:     fmt.Sprint(want),
				Got:      fmt.Sprint(got),
			}
		}
	}
	return want, nil
}
