package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trbench/internal/operator"
	"trbench/internal/policy"
)

func TestAll(t *testing.T) {
	ids := All()
	require.Len(t, ids, 8)
	assert.Equal(t, Naive, ids[0])
	assert.Equal(t, ParUnseqFused, ids[7])
	assert.Len(t, Checked(), 7)
	assert.NotContains(t, Checked(), Naive)
}

func TestIDMetadata(t *testing.T) {
	tests := []struct {
		id     ID
		policy policy.Policy
		fused  bool
		tech   string
	}{
		{Naive, policy.Sequential, false, "Vector.Apply(...) and Vector.Fold(...)"},
		{SeqTransformAccumulate, policy.Sequential, false, "policy.Transform(seq, ...) and policy.Accumulate(...)"},
		{SeqTransformReduce, policy.Sequential, false, "policy.Transform(seq, ...) and policy.Reduce(seq, ...)"},
		{SeqFused, policy.Sequential, true, "policy.TransformReduce(seq, ...)"},
		{ParTransformReduce, policy.Parallel, false, "policy.Transform(par, ...) and policy.Reduce(par, ...)"},
		{ParFused, policy.Parallel, true, "policy.TransformReduce(par, ...)"},
		{ParUnseqTransformReduce, policy.ParallelUnsequenced, false, "policy.Transform(par_unseq, ...) and policy.Reduce(par_unseq, ...)"},
		{ParUnseqFused, policy.ParallelUnsequenced, true, "policy.TransformReduce(par_unseq, ...)"},
	}
	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			assert.Equal(t, tt.policy, tt.id.Policy())
			assert.Equal(t, tt.fused, tt.id.Fused())
			assert.Equal(t, tt.tech, tt.id.Technique())

			parsed, err := ParseID(tt.id.String())
			require.NoError(t, err)
			assert.Equal(t, tt.id, parsed)
		})
	}
}

func TestParseID_Unknown(t *testing.T) {
	_, err := ParseID("simd")
	assert.Error(t, err)
	assert.Equal(t, "strategy(42)", ID(42).String())
}

func TestSet_KernelsAgree(t *testing.T) {
	ops, err := operator.NewPair[int64](operator.Multiplication, operator.Addition)
	require.NoError(t, err)
	set := NewSet(ops, policy.Executor{Workers: 3, Grain: 4})
	assert.Equal(t, operator.Multiplication, set.Ops().TransformLabel)

	a := make([]int64, 103)
	b := make([]int64, 103)
	var want int64
	for i := range a {
		a[i] = int64(i - 50)
		b[i] = int64(3*i + 1)
		want += a[i] * b[i]
	}
	for _, id := range All() {
		assert.Equal(t, want, set.Kernel(id)(a, b), id.String())
	}
}

func TestSet_KernelPanicsOnUnknownID(t *testing.T) {
	ops, err := operator.NewPair[float64](operator.Addition, operator.Addition)
	require.NoError(t, err)
	set := NewSet(ops, policy.DefaultExecutor())
	assert.Panics(t, func() { set.Kernel(ID(99)) })
}

func TestVector(t *testing.T) {
	v := Vector[float64]{1, 2, 3}
	w := Vector[float64]{4, 5, 6}
	sum := v.Apply(w, operator.Add[float64])
	assert.Equal(t, Vector[float64]{5, 7, 9}, sum)
	assert.Equal(t, Vector[float64]{1, 2, 3}, v)
	assert.Equal(t, 21.0, sum.Fold(0, operator.Add[float64]))
}
