package calibration

import (
	"context"
	"time"
)

// benchBatch is the number of kernel operations executed between clock reads
// and context checks. Large enough that timing overhead stays negligible,
// small enough that cancellation stays responsive.
const benchBatch = 1 << 13

// benchRunner encapsulates the timed measurement loop shared by all kernels.
type benchRunner struct {
	ctx    context.Context
	window time.Duration
}

// newBenchRunner creates a runner whose samples each last the given window.
func newBenchRunner(ctx context.Context, window time.Duration) *benchRunner {
	if window <= 0 {
		window = DefaultSampleWindow
	}
	return &benchRunner{ctx: ctx, window: window}
}

// measure runs kernel batches until the sample window elapses and returns
// the achieved throughput in operations per second. The kernel receives a
// batch size and returns the number of operations it performed. A canceled
// context yields a zero rate.
//
// Parameters:
//   - kernel: The operation batch to time.
//
// Returns:
//   - float64: Operations per second, or 0 when nothing completed.
func (r *benchRunner) measure(kernel func(batch int) int) float64 {
	var ops int
	start := time.Now()
	deadline := start.Add(r.window)
	for time.Now().Before(deadline) {
		if r.ctx.Err() != nil {
			break
		}
		ops += kernel(benchBatch)
	}
	elapsed := time.Since(start)
	if ops == 0 || elapsed <= 0 {
		return 0
	}
	return float64(ops) / elapsed.Seconds()
}

// bestOf takes several measurement samples and keeps the fastest one. The
// best sample is the least disturbed by scheduling noise, so it is the
// closest estimate of the hardware's true throughput. The spread between the
// slowest and fastest sample feeds the confidence score.
//
// Parameters:
//   - rounds: The number of samples to take (at least 1).
//   - kernel: The operation batch to time.
//
// Returns:
//   - best: The highest rate observed, in operations per second.
//   - spread: (max-min)/max across the samples, 0 when nothing completed.
func (r *benchRunner) bestOf(rounds int, kernel func(batch int) int) (best float64, spread float64) {
	if rounds < 1 {
		rounds = 1
	}
	var min, max float64
	for i := 0; i < rounds; i++ {
		rate := r.measure(kernel)
		if i == 0 || rate < min {
			min = rate
		}
		if rate > max {
			max = rate
		}
	}
	if max <= 0 {
		return 0, 0
	}
	return max, (max - min) / max
}
