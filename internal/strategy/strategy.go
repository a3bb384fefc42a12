// Package strategy defines the closed set of eight ways the harness computes
// a transform-then-reduce.
package strategy

import (
	"fmt"

	"trbench/internal/policy"
)

// ID identifies one strategy. The zero value is the naive strategy.
type ID int

const (
	Naive ID = iota
	SeqTransformAccumulate
	SeqTransformReduce
	SeqFused
	ParTransformReduce
	ParFused
	ParUnseqTransformReduce
	ParUnseqFused
)

var names = [...]string{
	Naive:                   "naive",
	SeqTransformAccumulate:  "seq_transform_accumulate",
	SeqTransformReduce:      "seq_transform_reduce",
	SeqFused:                "seq_transform_reduce_fused",
	ParTransformReduce:      "par_transform_reduce",
	ParFused:                "par_transform_reduce_fused",
	ParUnseqTransformReduce: "par_unseq_transform_reduce",
	ParUnseqFused:           "par_unseq_transform_reduce_fused",
}

// All returns every strategy in report order.
func All() []ID {
	return []ID{
		Naive,
		SeqTransformAccumulate,
		SeqTransformReduce,
		SeqFused,
		ParTransformReduce,
		ParFused,
		ParUnseqTransformReduce,
		ParUnseqFused,
	}
}

// Checked returns the strategies the correctness oracle compares.
func Checked() []ID { return All()[1:] }

func (id ID) valid() bool { return id >= Naive && id <= ParUnseqFused }

func (id ID) String() string {
	if !id.valid() {
		return fmt.Sprintf("strategy(%d)", int(id))
	}
	return names[id]
}

// ParseID converts a strategy name back into its ID.
func ParseID(s string) (ID, error) {
	for _, id := range All() {
		if id.String() == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// Policy returns the execution policy the strategy runs under. The naive
// strategy is sequential.
func (id ID) Policy() policy.Policy {
	switch id {
	case ParTransformReduce, ParFused:
		return policy.Parallel
	case ParUnseqTransformReduce, ParUnseqFused:
		return policy.ParallelUnsequenced
	}
	return policy.Sequential
}

// Fused reports whether the strategy computes transform and reduce in one
// pass without an intermediate sequence.
func (id ID) Fused() bool {
	return id == SeqFused || id == ParFused || id == ParUnseqFused
}

// Technique describes how the strategy is implemented. It is used as the
// section header in reports.
func (id ID) Technique() string {
	switch id {
	case Naive:
		return "Vector.Apply(...) and Vector.Fold(...)"
	case SeqTransformAccumulate:
		return "policy.Transform(seq, ...) and policy.Accumulate(...)"
	case SeqTransformReduce, ParTransformReduce, ParUnseqTransformReduce:
		p := id.Policy()
		return fmt.Sprintf("policy.Transform(%s, ...) and policy.Reduce(%s, ...)", p, p)
	case SeqFused, ParFused, ParUnseqFused:
		return fmt.Sprintf("policy.TransformReduce(%s, ...)", id.Policy())
	}
	return id.String()
}
