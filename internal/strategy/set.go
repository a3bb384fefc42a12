package strategy

import (
	"fmt"

	"trbench/internal/numeric"
	"trbench/internal/operator"
	"trbench/internal/policy"
)

// Kernel computes the transform-reduce of a and b.
type Kernel[T numeric.Number] func(a, b []T) T

// Set binds every strategy to one operator pair and executor.
type Set[T numeric.Number] struct {
	ops     operator.Pair[T]
	exec    policy.Executor
	kernels [len(names)]Kernel[T]
}

// NewSet builds the kernel table for ops.
func NewSet[T numeric.Number](ops operator.Pair[T], exec policy.Executor) *Set[T] {
	s := &Set[T]{ops: ops, exec: exec}
	s.kernels = [len(names)]Kernel[T]{
		Naive:                   s.naive,
		SeqTransformAccumulate:  s.transformAccumulate,
		SeqTransformReduce:      s.separated(policy.Sequential),
		SeqFused:                s.fused(policy.Sequential),
		ParTransformReduce:      s.separated(policy.Parallel),
		ParFused:                s.fused(policy.Parallel),
		ParUnseqTransformReduce: s.separated(policy.ParallelUnsequenced),
		ParUnseqFused:           s.fused(policy.ParallelUnsequenced),
	}
	return s
}

// Ops returns the operator pair the set was built for.
func (s *Set[T]) Ops() operator.Pair[T] { return s.ops }

// Kernel returns the kernel for id. It panics on an ID outside the
// enumeration.
func (s *Set[T]) Kernel(id ID) Kernel[T] {
	if !id.valid() {
		panic(fmt.Sprintf("strategy: no kernel for %v", id))
	}
	return s.kernels[id]
}

func (s *Set[T]) naive(a, b []T) T {
	return Vector[T](a).Apply(Vector[T](b), s.ops.Transform).Fold(0, s.ops.Reduce)
}

func (s *Set[T]) transformAccumulate(a, b []T) T {
	c := make([]T, len(a))
	policy.Transform(policy.Sequential, s.exec, a, b, c, s.ops.Transform)
	return policy.Accumulate(c, 0, s.ops.Reduce)
}

func (s *Set[T]) separated(p policy.Policy) Kernel[T] {
	return func(a, b []T) T {
		c := make([]T, len(a))
		policy.Transform(p, s.exec, a, b, c, s.ops.Transform)
		return policy.Reduce(p, s.exec, c, 0, s.ops.Reduce)
	}
}

func (s *Set[T]) fused(p policy.Policy) Kernel[T] {
	return func(a, b []T) T {
		return policy.TransformReduce(p, s.exec, a, b, 0, s.ops.Reduce, s.ops.Transform)
	}
}
