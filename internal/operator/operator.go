package operator

import (
	"errors"
	"fmt"

	"trbench/internal/numeric"
)

// BinaryOp combines two elements into one.
type BinaryOp[T numeric.Number] func(a, b T) T

// ErrUnknownOperator is returned for operator labels that are not registered.
var ErrUnknownOperator = errors.New("unknown operator")

// Operator labels used in report file names.
const (
	Addition       = "addition"
	Subtraction    = "subtraction"
	Multiplication = "multiplication"
	Maximum        = "maximum"
)

// Pair is a transform operator together with the reduce operator that folds
// its output.
type Pair[T numeric.Number] struct {
	TransformLabel string
	ReduceLabel    string
	Transform      BinaryOp[T]
	Reduce         BinaryOp[T]
}

// NewPair resolves transform and reduce labels into a Pair.
func NewPair[T numeric.Number](transform, reduce string) (Pair[T], error) {
	tf, err := TransformOp[T](transform)
	if err != nil {
		return Pair[T]{}, err
	}
	rf, err := ReduceOp[T](reduce)
	if err != nil {
		return Pair[T]{}, err
	}
	return Pair[T]{
		TransformLabel: transform,
		ReduceLabel:    reduce,
		Transform:      tf,
		Reduce:         rf,
	}, nil
}

// TransformOp returns the elementwise operator registered under label.
func TransformOp[T numeric.Number](label string) (BinaryOp[T], error) {
	switch label {
	case Addition:
		return Add[T], nil
	case Subtraction:
		return Sub[T], nil
	case Multiplication:
		return Mul[T], nil
	}
	return nil, fmt.Errorf("%w: transform %q", ErrUnknownOperator, label)
}

// ReduceOp returns the fold operator registered under label.
// Every reduce operator is associative and commutative for integers.
func ReduceOp[T numeric.Number](label string) (BinaryOp[T], error) {
	switch label {
	case Addition:
		return Add[T], nil
	case Maximum:
		return Max[T], nil
	}
	return nil, fmt.Errorf("%w: reduce %q", ErrUnknownOperator, label)
}

// ValidatePair checks both labels without instantiating a concrete type.
func ValidatePair(transform, reduce string) error {
	_, err := NewPair[float64](transform, reduce)
	return err
}

// TransformLabels lists the registered transform operators.
func TransformLabels() []string {
	return []string{Addition, Subtraction, Multiplication}
}

// ReduceLabels lists the registered reduce operators.
func ReduceLabels() []string {
	return []string{Addition, Maximum}
}

func Add[T numeric.Number](a, b T) T { return a + b }
func Sub[T numeric.Number](a, b T) T { return a - b }
func Mul[T numeric.Number](a, b T) T { return a * b }

func Max[T numeric.Number](a, b T) T {
	if b > a {
		return b
	}
	return a
}
