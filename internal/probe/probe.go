// Package probe times repeated executions of a strategy kernel.
package probe

import (
	"sync/atomic"
	"time"

	"trbench/internal/numeric"
	"trbench/internal/sample"
	"trbench/internal/strategy"
)

// sink receives every kernel result so the compiler cannot drop the calls.
var sink atomic.Uint64

// Measure runs kernel reps times back-to-back on p and returns the total
// elapsed wall-clock seconds. The clock is monotonic, so the result is never
// negative.
func Measure[T numeric.Number](kernel strategy.Kernel[T], p sample.Pair[T], reps int) float64 {
	if reps <= 0 {
		return 0
	}
	var acc T
	start := time.Now()
	for range reps {
		acc += kernel(p.A, p.B)
	}
	elapsed := time.Since(start)
	consume(acc)
	if elapsed < 0 {
		return 0
	}
	return elapsed.Seconds()
}

func consume[T numeric.Number](v T) {
	sink.Add(uint64(v))
}
