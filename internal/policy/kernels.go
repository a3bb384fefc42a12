package policy

import (
	"trbench/internal/numeric"
	"trbench/internal/operator"
)

// lanes is the number of independent accumulators the unsequenced kernels
// interleave.
const lanes = 4

func transformRange[T numeric.Number](a, b, out []T, op operator.BinaryOp[T]) {
	for i := range out {
		out[i] = op(a[i], b[i])
	}
}

func transformLanes[T numeric.Number](a, b, out []T, op operator.BinaryOp[T]) {
	n := len(out)
	i := 0
	for ; i+lanes <= n; i += lanes {
		out[i] = op(a[i], b[i])
		out[i+1] = op(a[i+1], b[i+1])
		out[i+2] = op(a[i+2], b[i+2])
		out[i+3] = op(a[i+3], b[i+3])
	}
	for ; i < n; i++ {
		out[i] = op(a[i], b[i])
	}
}

// foldRange folds a non-empty chunk starting from its first element.
func foldRange[T numeric.Number](xs []T, op operator.BinaryOp[T]) T {
	return Accumulate(xs[1:], xs[0], op)
}

// foldLanes folds a non-empty chunk with four interleaved accumulators.
func foldLanes[T numeric.Number](xs []T, op operator.BinaryOp[T]) T {
	if len(xs) < 2*lanes {
		return foldRange(xs, op)
	}
	l0, l1, l2, l3 := xs[0], xs[1], xs[2], xs[3]
	i := lanes
	for ; i+lanes <= len(xs); i += lanes {
		l0 = op(l0, xs[i])
		l1 = op(l1, xs[i+1])
		l2 = op(l2, xs[i+2])
		l3 = op(l3, xs[i+3])
	}
	return Accumulate(xs[i:], op(op(l0, l1), op(l2, l3)), op)
}

func transformAccumulate[T numeric.Number](a, b []T, init T, reduce, transform operator.BinaryOp[T]) T {
	acc := init
	for i := range a {
		acc = reduce(acc, transform(a[i], b[i]))
	}
	return acc
}

func transformFoldRange[T numeric.Number](a, b []T, reduce, transform operator.BinaryOp[T]) T {
	return transformAccumulate(a[1:], b[1:], transform(a[0], b[0]), reduce, transform)
}

func transformFoldLanes[T numeric.Number](a, b []T, reduce, transform operator.BinaryOp[T]) T {
	if len(a) < 2*lanes {
		return transformFoldRange(a, b, reduce, transform)
	}
	l0 := transform(a[0], b[0])
	l1 := transform(a[1], b[1])
	l2 := transform(a[2], b[2])
	l3 := transform(a[3], b[3])
	i := lanes
	for ; i+lanes <= len(a); i += lanes {
		l0 = reduce(l0, transform(a[i], b[i]))
		l1 = reduce(l1, transform(a[i+1], b[i+1]))
		l2 = reduce(l2, transform(a[i+2], b[i+2]))
		l3 = reduce(l3, transform(a[i+3], b[i+3]))
	}
	return transformAccumulate(a[i:], b[i:], reduce(reduce(l0, l1), reduce(l2, l3)), reduce, transform)
}
