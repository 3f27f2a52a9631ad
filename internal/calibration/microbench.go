package calibration

import (
	"context"
	"time"

	"github.com/agbru/primefac/internal/factorint"
)

const (
	// DefaultSampleWindow is the duration of a single measurement sample.
	// Three kernels at three rounds each keep the quick benchmark near
	// 225ms, short enough to run at application startup.
	DefaultSampleWindow = 25 * time.Millisecond

	// DefaultBenchRounds is the number of samples taken per kernel; the
	// fastest round wins.
	DefaultBenchRounds = 3

	// benchModulus is (2^31-1)*(2^31-19), a 62-bit semiprime whose factors
	// sit right at the trial-division horizon. Benchmarking against it
	// exercises the same operand widths as a worst-case factorization.
	benchModulus = uint64(4611685975477714963)

	// benchSpreadTolerance is the relative spread between the fastest and
	// slowest sample below which a kernel measurement counts as stable.
	benchSpreadTolerance = 0.25
)

// benchKernels holds the operand state for the measurement kernels. Every
// benchmark run owns its own instance, so concurrent runs never share state.
// The sink field keeps the compiler from eliding the arithmetic.
type benchKernels struct {
	modulus     uint64
	x, y        uint64 // mulMod operands
	walker      uint64 // rho walk position
	checkpoint  uint64 // rho cycle checkpoint
	trialCursor uint64 // next trial division candidate
	sink        uint64
}

// newBenchKernels seeds the operand state from the same xorshift stream the
// rho engine uses, so measured operands have the bit density of real runs.
func newBenchKernels() *benchKernels {
	g := factorint.NewGenerator(factorint.DefaultSeed)
	return &benchKernels{
		modulus:     benchModulus,
		x:           g.Next()%benchModulus | 1,
		y:           g.Next()%benchModulus | 1,
		walker:      1 + g.Next()%(benchModulus-1),
		checkpoint:  1,
		trialCursor: 3,
	}
}

// mulMod measures raw modular multiplication throughput. The operands stay
// full-width and odd; forcing the low bit keeps the state from collapsing to
// the cheap all-zero fixed point.
func (k *benchKernels) mulMod(batch int) int {
	m := k.modulus
	x, y := k.x, k.y
	for i := 0; i < batch; i++ {
		x = factorint.MulMod(x, y, m) | 1
		y = (y ^ x) | 1
	}
	k.x, k.y = x, y
	k.sink ^= x
	return batch
}

// rhoStep measures the cost of one Pollard walk iteration exactly as the
// engine performs it: a modular squaring, the increment, and a Euclid gcd of
// the distance to the checkpoint against the modulus.
func (k *benchKernels) rhoStep(batch int) int {
	n := k.modulus
	x := k.checkpoint
	y := k.walker
	for i := 0; i < batch; i++ {
		y = factorint.MulMod(y, y, n)
		y = (y + 1) % n

		a := y - x
		if x > y {
			a = x - y
		}
		b := n
		for {
			a %= b
			if a == 0 {
				k.sink ^= b
				break
			}
			b %= a
			if b == 0 {
				k.sink ^= a
				break
			}
		}
	}
	k.walker = y
	return batch
}

// trialDiv measures candidate probe throughput with the same two divisions
// per candidate as the trial engine: the bound check n/d and the probe n%d.
func (k *benchKernels) trialDiv(batch int) int {
	n := k.modulus
	d := k.trialCursor
	hits := uint64(0)
	for i := 0; i < batch; i++ {
		if d > n/d {
			d = 3
		}
		if n%d == 0 {
			hits++
		}
		d += 2
	}
	k.trialCursor = d
	k.sink ^= hits ^ d
	return batch
}

// MicroBenchmark measures kernel throughput with short timed samples.
type MicroBenchmark struct {
	// SampleWindow is the duration of each measurement sample.
	SampleWindow time.Duration
	// Rounds is the number of samples per kernel; the fastest round wins.
	Rounds int
}

// BenchResults holds the measured throughput of the three arithmetic
// kernels.
type BenchResults struct {
	MulModOpsPerSec float64
	RhoStepsPerSec  float64
	TrialDivsPerSec float64
	// Confidence estimates measurement quality from the spread between
	// rounds, from 0.0 (unusable) to 1.0 (stable).
	Confidence float64
	// Duration is the total wall time spent benchmarking.
	Duration time.Duration
}

// NewMicroBenchmark returns a benchmark with the default quick parameters.
func NewMicroBenchmark() *MicroBenchmark {
	return &MicroBenchmark{
		SampleWindow: DefaultSampleWindow,
		Rounds:       DefaultBenchRounds,
	}
}

// Run measures all three kernels and derives a confidence score.
// Cancellation is honored between batches; a canceled run returns partial
// results with zero confidence rather than an error.
func (mb *MicroBenchmark) Run(ctx context.Context) (BenchResults, error) {
	return mb.RunWithProgress(ctx, nil)
}

// RunWithProgress behaves like Run but additionally reports completion after
// each kernel through progressChan, for display during the longer full
// calibration. Sends are non-blocking; a full channel drops the update.
func (mb *MicroBenchmark) RunWithProgress(ctx context.Context, progressChan chan<- factorint.ProgressUpdate) (BenchResults, error) {
	start := time.Now()
	runner := newBenchRunner(ctx, mb.SampleWindow)
	kernels := newBenchKernels()

	var results BenchResults
	steps := []struct {
		kernel func(int) int
		rate   *float64
	}{
		{kernels.mulMod, &results.MulModOpsPerSec},
		{kernels.rhoStep, &results.RhoStepsPerSec},
		{kernels.trialDiv, &results.TrialDivsPerSec},
	}

	stable := 0
	measured := true
	for i, step := range steps {
		rate, spread := runner.bestOf(mb.Rounds, step.kernel)
		*step.rate = rate
		if rate <= 0 {
			measured = false
		}
		if rate > 0 && spread <= benchSpreadTolerance {
			stable++
		}
		reportKernelDone(progressChan, i+1, len(steps))
	}

	results.Duration = time.Since(start)
	results.Confidence = confidenceScore(measured, stable)
	return results, nil
}

// confidenceScore maps measurement quality to a 0..1 score. A run where any
// kernel produced nothing is worthless; beyond that, each kernel whose
// samples agreed within the spread tolerance raises the score.
func confidenceScore(measured bool, stableKernels int) float64 {
	if !measured {
		return 0.0
	}
	score := 0.4 + 0.2*float64(stableKernels)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// reportKernelDone publishes kernel completion as a progress fraction.
func reportKernelDone(progressChan chan<- factorint.ProgressUpdate, done, total int) {
	if progressChan == nil {
		return
	}
	select {
	case progressChan <- factorint.ProgressUpdate{FactorizerIndex: 0, Value: float64(done) / float64(total)}:
	default:
	}
}

// QuickCalibrate runs the default quick benchmark, suitable for application
// startup.
func QuickCalibrate(ctx context.Context) (BenchResults, error) {
	return NewMicroBenchmark().Run(ctx)
}
