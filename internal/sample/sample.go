// Package sample generates the random input sequences the strategies are
// timed on.
package sample

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/rand/v2"

	"trbench/internal/numeric"
)

// ErrInvalidLength is returned when a non-positive sample length is requested.
var ErrInvalidLength = errors.New("sample length must be positive")

// Pair holds the two equal-length input sequences of one trial.
// Neither slice is modified after generation.
type Pair[T numeric.Number] struct {
	A []T
	B []T
}

// Len returns the common length of both sequences.
func (p Pair[T]) Len() int { return len(p.A) }

// Generator fills sequences with uniformly distributed values: the full
// range of the type for integers, [0, 1) for floating point.
type Generator[T numeric.Number] struct {
	rng *rand.Rand
}

// NewGenerator returns a generator. A nil seed draws a fresh seed from the
// operating system once; a non-nil seed makes the output reproducible.
func NewGenerator[T numeric.Number](seed *uint64) (*Generator[T], error) {
	if seed != nil {
		return &Generator[T]{rng: rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))}, nil
	}
	var key [32]byte
	if _, err := crand.Read(key[:]); err != nil {
		return nil, fmt.Errorf("failed to read entropy: %w", err)
	}
	return &Generator[T]{rng: rand.New(rand.NewChaCha8(key))}, nil
}

// Generate returns a pair of independently filled sequences of length n.
func (g *Generator[T]) Generate(n int) (Pair[T], error) {
	if n <= 0 {
		return Pair[T]{}, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	a := make([]T, n)
	b := make([]T, n)
	g.fill(a)
	g.fill(b)
	return Pair[T]{A: a, B: b}, nil
}

func (g *Generator[T]) fill(xs []T) {
	var zero T
	switch any(zero).(type) {
	case float32:
		for i := range xs {
			xs[i] = T(g.rng.Float32())
		}
	case float64:
		for i := range xs {
			xs[i] = T(g.rng.Float64())
		}
	default:
		// Truncating 64 uniform bits is uniform over every narrower integer type.
		for i := range xs {
			xs[i] = T(g.rng.Uint64())
		}
	}
}
