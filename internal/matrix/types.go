package matrix

import (
	"errors"
	"fmt"
	"slices"

	"trbench/internal/strategy"
)

// ErrInvalidMatrix is returned by Matrix.Validate.
var ErrInvalidMatrix = errors.New("invalid test matrix")

// Matrix is the set of trials of one run: the cartesian product of
// iteration counts and data sizes.
type Matrix struct {
	Iterations []int `json:"iterations" mapstructure:"iterations"`
	Sizes      []int `json:"sizes" mapstructure:"sizes"`
}

// Default returns the matrix the driver uses when nothing is configured.
func Default() Matrix {
	return Matrix{
		Iterations: []int{100, 1000},
		Sizes:      []int{100, 1000, 10000, 100000, 1000000},
	}
}

// Validate checks that both axes are non-empty and strictly positive.
func (m Matrix) Validate() error {
	if len(m.Iterations) == 0 {
		return fmt.Errorf("%w: no iteration counts", ErrInvalidMatrix)
	}
	if len(m.Sizes) == 0 {
		return fmt.Errorf("%w: no data sizes", ErrInvalidMatrix)
	}
	for _, n := range m.Iterations {
		if n <= 0 {
			return fmt.Errorf("%w: iteration count must be positive, got %d", ErrInvalidMatrix, n)
		}
	}
	for _, n := range m.Sizes {
		if n <= 0 {
			return fmt.Errorf("%w: data size must be positive, got %d", ErrInvalidMatrix, n)
		}
	}
	return nil
}

// Trial is one (iteration count, data size) point of the matrix.
type Trial struct {
	Iterations int
	Size       int
}

// Trials returns every trial, iteration counts in the outer loop and sizes
// in the inner loop, both in configured order.
func (m Matrix) Trials() []Trial {
	out := make([]Trial, 0, m.Len())
	for _, it := range m.Iterations {
		for _, sz := range m.Sizes {
			out = append(out, Trial{Iterations: it, Size: sz})
		}
	}
	return out
}

// Len is the number of trials.
func (m Matrix) Len() int { return len(m.Iterations) * len(m.Sizes) }

// Smallest returns the smallest configured data size, or 0 if none.
func (m Matrix) Smallest() int {
	if len(m.Sizes) == 0 {
		return 0
	}
	return slices.Min(m.Sizes)
}

// Combination names one (data type, transform op, reduce op) run.
type Combination struct {
	DataType  string `json:"data_type"`
	Transform string `json:"transform"`
	Reduce    string `json:"reduce"`
}

func (c Combination) String() string {
	return c.DataType + "/" + c.Transform + "/" + c.Reduce
}

// Record is one timing measurement.
type Record struct {
	Iterations int     `json:"iterations"`
	Size       int     `json:"size"`
	Seconds    float64 `json:"seconds"`
}

// Table holds every record of one strategy, in matrix order.
type Table struct {
	Strategy strategy.ID `json:"strategy"`
	Records  []Record    `json:"records"`
}

// Results is the output of running a matrix for one combination.
type Results struct {
	Combination
	Tables []Table `json:"tables"`
}

// Table returns the table of id, or nil.
func (r *Results) Table(id strategy.ID) *Table {
	for i := range r.Tables {
		if r.Tables[i].Strategy == id {
			return &r.Tables[i]
		}
	}
	return nil
}

func newResults(c Combination, trials int) *Results {
	r := &Results{Combination: c}
	for _, id := range strategy.All() {
		r.Tables = append(r.Tables, Table{Strategy: id, Records: make([]Record, 0, trials)})
	}
	return r
}
