// Package factorint decomposes unsigned 64-bit integers into their prime
// factorizations. This file contains the plain trial-division engine, kept
// as an independent reference implementation.
package factorint

import (
	"context"
	"math/bits"
)

// trialCtxCheckInterval is how many candidate divisors the trial engine
// scans between context checks. Checking every candidate would roughly
// double the cost of the inner loop.
const trialCtxCheckInterval = 1 << 16

// TrialDivisionEngine factors by ascending trial division alone. It shares
// no code with the rho pipeline beyond the Factor type, which makes it
// useful as a disagreement detector: whatever both engines say about an
// input is almost certainly the truth.
//
// Worst-case inputs (a 64-bit prime, or a semiprime with two huge factors)
// need about 2^31 divisions, so runs against unknown inputs should carry a
// context deadline.
type TrialDivisionEngine struct{}

// Name returns the display name of the engine.
func (e *TrialDivisionEngine) Name() string {
	return "Trial Division"
}

// FactorizeCore decomposes n by trial division. The returned terms are
// always in strictly ascending prime order, and every term is exact: the
// candidate loop only ever records divisors that survived division by all
// smaller candidates, which makes them prime.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - reporter: The callback for progress updates.
//   - n: The value to factor.
//   - opts: Present for interface symmetry; the engine has no options.
//
// Returns:
//   - []Factor: The factor terms in ascending order.
//   - error: A context error if the run was canceled.
func (e *TrialDivisionEngine) FactorizeCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) ([]Factor, error) {
	factors := make([]Factor, 0, factorSliceCapacity)
	if n < 2 {
		return factors, nil
	}
	tracker := NewProgressTracker(reporter, n)

	if n&1 == 0 {
		k := uint32(bits.TrailingZeros64(n))
		n >>= k
		factors = record(factors, tracker, 2, k)
	}

	sinceCheck := 0
	for d := uint64(3); d <= n/d; d += 2 {
		sinceCheck++
		if sinceCheck >= trialCtxCheckInterval {
			sinceCheck = 0
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if n%d != 0 {
			continue
		}
		exp := uint32(0)
		for n%d == 0 {
			n /= d
			exp++
		}
		factors = record(factors, tracker, d, exp)
	}

	if n > 1 {
		factors = record(factors, tracker, n, 1)
	}
	return factors, nil
}
