package policy

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trbench/internal/operator"
)

func randomInts(n int, seed uint64) []int64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(rng.Uint64())
	}
	return out
}

func TestPolicyString(t *testing.T) {
	for _, p := range []Policy{Sequential, Parallel, ParallelUnsequenced} {
		got, err := Parse(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := Parse("vectorized")
	assert.Error(t, err)
	assert.Equal(t, "policy(9)", Policy(9).String())
}

func TestChunks(t *testing.T) {
	tests := []struct {
		name string
		exec Executor
		n    int
		want [][2]int
	}{
		{"empty", Executor{Workers: 4, Grain: 2}, 0, [][2]int{{0, 0}}},
		{"below grain", Executor{Workers: 4, Grain: 10}, 10, [][2]int{{0, 10}}},
		{"even split", Executor{Workers: 4, Grain: 2}, 8, [][2]int{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"grain dominates", Executor{Workers: 8, Grain: 4}, 10, [][2]int{{0, 4}, {4, 8}, {8, 10}}},
		{"single worker", Executor{Workers: 1, Grain: 2}, 9, [][2]int{{0, 9}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.exec.chunks(tt.n))
		})
	}
}

func TestChunks_Defaults(t *testing.T) {
	bounds := Executor{}.chunks(DefaultGrain)
	assert.Len(t, bounds, 1)
}

func TestTransform_AllPoliciesAgree(t *testing.T) {
	a, b := randomInts(1001, 1), randomInts(1001, 2)
	exec := Executor{Workers: 4, Grain: 16}

	want := make([]int64, len(a))
	Transform(Sequential, exec, a, b, want, operator.Mul[int64])

	for _, p := range []Policy{Parallel, ParallelUnsequenced} {
		got := make([]int64, len(a))
		Transform(p, exec, a, b, got, operator.Mul[int64])
		assert.Equal(t, want, got, p.String())
	}
}

func TestReduce_InitAppliedOnce(t *testing.T) {
	xs := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	exec := Executor{Workers: 3, Grain: 2}
	for _, p := range []Policy{Sequential, Parallel, ParallelUnsequenced} {
		assert.Equal(t, int64(65), Reduce(p, exec, xs, 10, operator.Add[int64]), p.String())
	}
}

func TestReduce_Empty(t *testing.T) {
	for _, p := range []Policy{Sequential, Parallel, ParallelUnsequenced} {
		assert.Equal(t, 7.0, Reduce(p, Executor{Workers: 2, Grain: 1}, nil, 7.0, operator.Add[float64]))
	}
}

func TestIntegerPoliciesAgree(t *testing.T) {
	exec := Executor{Workers: 4, Grain: 32}
	for _, n := range []int{1, 7, 8, 33, 128, 1000, 4099} {
		a, b := randomInts(n, uint64(n)), randomInts(n, uint64(n)*3)
		tmp := make([]int64, n)
		Transform(Sequential, exec, a, b, tmp, operator.Add[int64])
		want := Accumulate(tmp, 0, operator.Add[int64])

		for _, p := range []Policy{Sequential, Parallel, ParallelUnsequenced} {
			assert.Equal(t, want, Reduce(p, exec, tmp, 0, operator.Add[int64]), "reduce %s n=%d", p, n)
			assert.Equal(t, want, TransformReduce(p, exec, a, b, 0, operator.Add[int64], operator.Add[int64]), "fused %s n=%d", p, n)
		}
	}
}

func TestMaximumPoliciesAgree(t *testing.T) {
	exec := Executor{Workers: 4, Grain: 8}
	a, b := randomInts(500, 11), randomInts(500, 12)
	want := TransformReduce(Sequential, exec, a, b, 0, operator.Max[int64], operator.Sub[int64])
	assert.Equal(t, want, TransformReduce(Parallel, exec, a, b, 0, operator.Max[int64], operator.Sub[int64]))
	assert.Equal(t, want, TransformReduce(ParallelUnsequenced, exec, a, b, 0, operator.Max[int64], operator.Sub[int64]))
}

func TestFloatReorderingIsObservable(t *testing.T) {
	// Large magnitudes cancel only when folded in order.
	xs := []float64{1e16, 1, 1, 1, -1e16, 1, 1, 1}
	exec := Executor{Workers: 4, Grain: 2}

	seq := Reduce(Sequential, exec, xs, 0, operator.Add[float64])
	par := Reduce(Parallel, exec, xs, 0, operator.Add[float64])
	assert.NotEqual(t, seq, par)
}

func TestSmallInputsRunSequentially(t *testing.T) {
	xs := []float64{1e16, 1, 1, 1, -1e16, 1, 1, 1}
	exec := Executor{Workers: 4, Grain: len(xs)}
	seq := Accumulate(xs, 0, operator.Add[float64])
	assert.Equal(t, seq, Reduce(Parallel, exec, xs, 0, operator.Add[float64]))
	assert.Equal(t, seq, Reduce(ParallelUnsequenced, exec, xs, 0, operator.Add[float64]))
}

func TestFanOut_WorkerPanicReachesCaller(t *testing.T) {
	exec := Executor{Workers: 4, Grain: 1}
	visited := make([]bool, 4)
	assert.PanicsWithError(t, "policy: chunk 2 [2,3): boom", func() {
		exec.fanOut(exec.chunks(4), func(i, lo, hi int) {
			if i == 2 {
				panic("boom")
			}
			visited[i] = true
		})
	})
	assert.True(t, visited[0])
}

func TestFanOut_RunsEveryChunk(t *testing.T) {
	exec := Executor{Workers: 3, Grain: 2}
	bounds := exec.chunks(11)
	seen := make([]int, 11)
	exec.fanOut(bounds, func(i, lo, hi int) {
		for j := lo; j < hi; j++ {
			seen[j]++
		}
	})
	for j, n := range seen {
		assert.Equal(t, 1, n, "element %d", j)
	}
}

func TestSequentialBelow(t *testing.T) {
	assert.Equal(t, DefaultGrain, Executor{}.SequentialBelow())
	assert.Equal(t, 64, Executor{Grain: 64}.SequentialBelow())
	assert.Len(t, Executor{Workers: 8}.chunks(DefaultGrain), 1)
	assert.Greater(t, len(Executor{Workers: 8}.chunks(DefaultGrain+1)), 1)
}
