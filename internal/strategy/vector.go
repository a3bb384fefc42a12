package strategy

import (
	"trbench/internal/numeric"
	"trbench/internal/operator"
)

// Vector is a value-semantics numeric array. Every operation returns a new
// Vector, which is what makes the naive strategy two-pass and allocating.
type Vector[T numeric.Number] []T

// Apply returns op(v[i], w[i]) for every i. w must be at least as long as v.
func (v Vector[T]) Apply(w Vector[T], op operator.BinaryOp[T]) Vector[T] {
	out := make(Vector[T], len(v))
	for i := range v {
		out[i] = op(v[i], w[i])
	}
	return out
}

// Fold reduces v into init from left to right.
func (v Vector[T]) Fold(init T, op operator.BinaryOp[T]) T {
	acc := init
	for _, x := range v {
		acc = op(acc, x)
	}
	return acc
}
