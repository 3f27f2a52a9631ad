package factorint

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
)

// ErrRetriesExhausted is returned when the randomized divisor search fails
// MaxRetries times in a row on the same residual. For genuine composites the
// probability of that is vanishingly small; the error exists so that the
// failure is explicit instead of an unbounded retry loop.
var ErrRetriesExhausted = errors.New("factorint: divisor search retry budget exhausted")

// splitFunc finds a candidate divisor of a composite n, drawing randomness
// from g. Results of 1 or n mean "try again". Production code uses
// pollardRho; tests substitute deterministic functions.
type splitFunc func(n uint64, g *Generator) uint64

// PollardRhoEngine is the primary factorization engine. Powers of two are
// stripped first, odd trial division runs below a bound that refreshes as
// perfect squares are reduced away, and any residual beyond 32 bits is
// broken with Pollard's Rho until the primality test accepts what is left.
type PollardRhoEngine struct {
	// split locates nontrivial divisors during the rho phase. Nil selects
	// pollardRho; tests inject failures through this field.
	split splitFunc
}

// Name returns the display name of the engine.
func (e *PollardRhoEngine) Name() string {
	return "Pollard's Rho"
}

// FactorizeCore decomposes n. The returned terms follow the engine's order
// contract: the factor-of-two term first if present, trial-divided terms in
// ascending order, then rho-discovered terms in discovery order, which is
// not necessarily ascending and for a fixed Options.Seed is reproducible.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - reporter: The callback for progress updates.
//   - n: The value to factor.
//   - opts: Configuration options for the factorization.
//
// Returns:
//   - []Factor: The factor terms, whose product equals n.
//   - error: Context cancellation, or ErrRetriesExhausted (wrapped) when the
//     randomized search gives up.
func (e *PollardRhoEngine) FactorizeCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) ([]Factor, error) {
	opts = normalizeOptions(opts)
	split := e.split
	if split == nil {
		split = pollardRho
	}
	g := NewGenerator(opts.Seed)
	factors := make([]Factor, 0, factorSliceCapacity)

	if n < 4 {
		return append(factors, factorSmall(n)...), nil
	}
	tracker := NewProgressTracker(reporter, n)

	pow := uint32(1)
	if n&1 == 0 {
		k := uint32(bits.TrailingZeros64(n))
		n >>= k
		factors = record(factors, tracker, 2, k)
	}

	if n > 8 {
		var bound uint64
		n, pow, bound = extractSquares(n, pow)

		// Ascending odd trial division. Every hit shrinks n, which may
		// expose a perfect-square residual, so the bound refreshes after
		// each extracted prime.
		for p := uint64(3); p < bound; p += 2 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if n%p != 0 {
				continue
			}
			exp := uint32(0)
			for n%p == 0 {
				n /= p
				exp++
			}
			factors = record(factors, tracker, p, exp*pow)
			n, pow, bound = extractSquares(n, pow)
		}

		// Whatever survives trial division with more than 32 bits is either
		// prime or a product of two or three primes above the trial bound.
		for n>>32 != 0 && !IsPrime(n) {
			x, err := nontrivialDivisor(ctx, split, n, g, opts.MaxRetries)
			if err != nil {
				return nil, err
			}
			n /= x
			if x>>32 != 0 {
				if root := Isqrt(x); root*root == x {
					// The walk surfaced the square of a prime.
					factors = record(factors, tracker, root, 2*pow)
				} else if IsPrime(x) {
					factors = record(factors, tracker, x, pow)
				} else {
					factors, err = e.splitComposite(ctx, split, x, g, opts.MaxRetries, pow, factors, tracker)
					if err != nil {
						return nil, err
					}
				}
			} else if n%x != 0 {
				factors = record(factors, tracker, x, pow)
			} else {
				// x divides the residual a second time.
				n /= x
				factors = record(factors, tracker, x, pow+1)
			}
		}
	}

	if n != 1 {
		factors = record(factors, tracker, n, pow)
	}
	return factors, nil
}

// splitComposite reduces a composite divisor x handed back by the rho phase
// to primes, recording each with the exponent multiplier pow. In practice x
// splits into exactly two primes (the residual entering the rho phase has at
// most three prime factors, all above the trial bound), but every half is
// verified with IsPrime and re-split if composite rather than assumed prime.
func (e *PollardRhoEngine) splitComposite(ctx context.Context, split splitFunc, x uint64, g *Generator, maxRetries int, pow uint32, factors []Factor, tracker *ProgressTracker) ([]Factor, error) {
	y, err := nontrivialDivisor(ctx, split, x, g, maxRetries)
	if err != nil {
		return nil, err
	}
	for _, half := range [2]uint64{x / y, y} {
		if IsPrime(half) {
			factors = record(factors, tracker, half, pow)
			continue
		}
		factors, err = e.splitComposite(ctx, split, half, g, maxRetries, pow, factors, tracker)
		if err != nil {
			return nil, err
		}
	}
	return factors, nil
}

// nontrivialDivisor retries the divisor search until it yields a proper
// divisor of n, failing after maxRetries consecutive rejections. Each retry
// draws a fresh starting point from g, so for a fixed seed the whole retry
// sequence is reproducible.
func nontrivialDivisor(ctx context.Context, split splitFunc, n uint64, g *Generator, maxRetries int) (uint64, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if x := split(n, g); x != 1 && x != n {
			return x, nil
		}
	}
	return 0, fmt.Errorf("%w: no proper divisor of %d in %d attempts", ErrRetriesExhausted, n, maxRetries)
}

// record merges a discovered term into the factor list and feeds the
// progress tracker. Terms are merged by prime rather than blindly appended:
// a handful of rho-phase paths can rediscover a prime that already has a
// term (a prime cube reaching the rho phase, or a composite divisor sharing
// a prime with the remaining residual), and the output contract promises
// pairwise-distinct primes.
func record(factors []Factor, tracker *ProgressTracker, prime uint64, power uint32) []Factor {
	tracker.Record(prime, power)
	for i := range factors {
		if factors[i].Prime == prime {
			factors[i].Power += power
			return factors
		}
	}
	return append(factors, Factor{Prime: prime, Power: power})
}
