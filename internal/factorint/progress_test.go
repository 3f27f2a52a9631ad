package factorint

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

// ─────────────────────────────────────────────────────────────────────────────
// FactorWork Tests
// ─────────────────────────────────────────────────────────────────────────────

// TestFactorWork_KnownValues verifies the work model at exact points.
// Powers of two are exact in float64, so these comparisons need no epsilon.
func TestFactorWork_KnownValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    uint64
		want float64
	}{
		{0, 0},
		{1, 0},
		{2, 1.0},
		{4, 2.0},
		{1024, 10.0},
		{1 << 32, 32.0},
		{1 << 63, 63.0},
	}

	for _, tc := range cases {
		if got := FactorWork(tc.n); got != tc.want {
			t.Errorf("FactorWork(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

// TestFactorWork_LogAdditivity verifies that the work of a product is the sum
// of the work of its parts, which is what lets the tracker charge each
// recorded term independently.
func TestFactorWork_LogAdditivity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b uint64
	}{
		{3, 5},
		{71, 839},
		{65537, 65539},
		{104723, 104729},
	}

	for _, tc := range cases {
		product := tc.a * tc.b
		got := FactorWork(product)
		want := FactorWork(tc.a) + FactorWork(tc.b)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("FactorWork(%d*%d) = %v, want %v (sum of parts)", tc.a, tc.b, got, want)
		}
	}
}

// TestFactorWork_Monotonic verifies that more value means more work.
func TestFactorWork_Monotonic(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	samples := make([]uint64, 500)
	for i := range samples {
		samples[i] = rng.Uint64()
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	for i := 1; i < len(samples); i++ {
		lo, hi := samples[i-1], samples[i]
		if FactorWork(lo) > FactorWork(hi) {
			t.Fatalf("FactorWork not monotone: FactorWork(%d)=%v > FactorWork(%d)=%v",
				lo, FactorWork(lo), hi, FactorWork(hi))
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ProgressTracker Tests
// ─────────────────────────────────────────────────────────────────────────────

// TestProgressTracker_ReportsEachTerm verifies that every recorded term above
// the report threshold produces a report and that the final report is exactly
// complete. Factoring 2^40 term by term keeps all the arithmetic exact.
func TestProgressTracker_ReportsEachTerm(t *testing.T) {
	t.Parallel()

	var reports []float64
	tracker := NewProgressTracker(func(p float64) {
		reports = append(reports, p)
	}, 1<<40)

	for i := 0; i < 40; i++ {
		tracker.Record(2, 1)
	}

	// Each term resolves 1/40 of the work, well above the threshold.
	if len(reports) != 40 {
		t.Fatalf("expected 40 reports, got %d", len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] <= reports[i-1] {
			t.Errorf("reports not strictly increasing: reports[%d]=%v, reports[%d]=%v",
				i-1, reports[i-1], i, reports[i])
		}
	}
	if last := reports[len(reports)-1]; last != 1.0 {
		t.Errorf("final report = %v, want exactly 1.0", last)
	}
}

// TestProgressTracker_SingleTermCompletes verifies that a term resolving all
// the work reports 1.0 in one shot.
func TestProgressTracker_SingleTermCompletes(t *testing.T) {
	t.Parallel()

	var reports []float64
	tracker := NewProgressTracker(func(p float64) {
		reports = append(reports, p)
	}, 1024)

	tracker.Record(2, 10)

	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0] != 1.0 {
		t.Errorf("report = %v, want 1.0", reports[0])
	}
}

// TestProgressTracker_ClampsOvershoot verifies that resolved work beyond the
// total is clamped to 1.0 rather than reported above it.
func TestProgressTracker_ClampsOvershoot(t *testing.T) {
	t.Parallel()

	var reports []float64
	tracker := NewProgressTracker(func(p float64) {
		reports = append(reports, p)
	}, 4)

	tracker.Record(2, 1) // 0.5 of the work
	tracker.Record(2, 2) // 1.5 of the work, clamps

	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0] != 0.5 {
		t.Errorf("first report = %v, want 0.5", reports[0])
	}
	if reports[1] != 1.0 {
		t.Errorf("overshoot report = %v, want clamped 1.0", reports[1])
	}
	if f := tracker.Fraction(); f != 1.0 {
		t.Errorf("Fraction() = %v, want clamped 1.0", f)
	}
}

// TestProgressTracker_SuppressesUnchangedFraction verifies the throttle: a
// record that does not move the fraction by the threshold is not re-reported.
func TestProgressTracker_SuppressesUnchangedFraction(t *testing.T) {
	t.Parallel()

	var reports []float64
	tracker := NewProgressTracker(func(p float64) {
		reports = append(reports, p)
	}, 1<<40)

	tracker.Record(2, 1)
	if len(reports) != 1 {
		t.Fatalf("expected 1 report after first record, got %d", len(reports))
	}

	// A zero-power record resolves nothing; the fraction does not move.
	tracker.Record(3, 0)
	if len(reports) != 1 {
		t.Errorf("expected no report for unchanged fraction, got %d reports", len(reports))
	}
}

// TestProgressTracker_NilReporter verifies that a nil reporter accumulates
// without panicking.
func TestProgressTracker_NilReporter(t *testing.T) {
	t.Parallel()

	tracker := NewProgressTracker(nil, 1024)
	tracker.Record(2, 5)

	if f := tracker.Fraction(); f != 0.5 {
		t.Errorf("Fraction() = %v, want 0.5", f)
	}
}

// TestProgressTracker_ZeroWork verifies behavior for values below 2, whose
// factorization is empty and whose work model is zero.
func TestProgressTracker_ZeroWork(t *testing.T) {
	t.Parallel()

	for _, n := range []uint64{0, 1} {
		tracker := NewProgressTracker(func(p float64) {
			t.Errorf("unexpected report %v for n=%d", p, n)
		}, n)

		tracker.Record(2, 1)

		if f := tracker.Fraction(); f != 0 {
			t.Errorf("Fraction() = %v for n=%d, want 0", f, n)
		}
	}
}

// TestProgressTracker_FractionTracksResolvedShare verifies Fraction against
// exact intermediate states.
func TestProgressTracker_FractionTracksResolvedShare(t *testing.T) {
	t.Parallel()

	tracker := NewProgressTracker(nil, 1<<20)

	if f := tracker.Fraction(); f != 0 {
		t.Errorf("initial Fraction() = %v, want 0", f)
	}

	tracker.Record(2, 5)
	if f := tracker.Fraction(); f != 0.25 {
		t.Errorf("Fraction() after 2^5 = %v, want 0.25", f)
	}

	tracker.Record(2, 10)
	if f := tracker.Fraction(); f != 0.75 {
		t.Errorf("Fraction() after 2^15 = %v, want 0.75", f)
	}

	tracker.Record(2, 5)
	if f := tracker.Fraction(); f != 1.0 {
		t.Errorf("Fraction() after 2^20 = %v, want 1.0", f)
	}
}
