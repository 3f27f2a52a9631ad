// Package factorint decomposes unsigned 64-bit integers into their prime
// factorizations.
package factorint

// ─────────────────────────────────────────────────────────────────────────────
// Algorithm Constants
// ─────────────────────────────────────────────────────────────────────────────
//
// These constants are fixed by the correctness arguments of the pipeline, not
// by benchmarks; changing any of them requires re-proving the invariants
// documented alongside.

const (
	// smallPrimeCutoff is 37², one past the square of the largest witness.
	// Any composite below it has a prime factor under 37 and is therefore
	// already caught by witness trial division, so every survivor above 1
	// is prime.
	smallPrimeCutoff = 1369

	// trialCutoff bounds the driver's odd trial division whenever the
	// residual exceeds trialCutoff². 65521 is the largest 16-bit prime;
	// stopping one past it guarantees that after trial division every
	// remaining prime factor is at least 65537, so the smallest composite
	// divisor that could survive is 65537² > 2³², which is what lets the
	// driver treat any 32-bit divisor coming out of Pollard's Rho as prime
	// without testing it.
	trialCutoff = 65522

	// rhoStepExponent caps a single Pollard walk at 2^18 iterations of the
	// quadratic map. A walk that long without a collision is overwhelmingly
	// likely to be a bad starting point; restarting with a fresh one is
	// cheaper than continuing.
	rhoStepExponent = 18

	// DefaultSeed initializes the xorshift generator when Options.Seed is
	// zero. The value is the traditional xorshift64 reference seed.
	DefaultSeed = 88172645463325252

	// DefaultMaxRetries bounds how many failed Pollard walks the driver
	// tolerates before giving up on a residual. Each retry starts from a
	// fresh pseudo-random point, so 64 consecutive failures on a genuine
	// composite are practically impossible; hitting the bound almost
	// certainly indicates a caller bug rather than bad luck.
	DefaultMaxRetries = 64

	// factorSliceCapacity pre-sizes result slices. The product of the first
	// 16 primes exceeds 2^64, so a 64-bit value has at most 15 distinct
	// prime factors; 16 entries cover the worst case with headroom.
	factorSliceCapacity = 16
)

// witnesses is the Miller-Rabin base set. The first witnessCount(n) entries
// give a deterministic verdict for n; the full set covers the entire uint64
// range. The same primes double as the trial divisors of the fast path.
var witnesses = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// ─────────────────────────────────────────────────────────────────────────────
// Progress Reporting Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ProgressReportThreshold is the minimum progress change (0.0 to 1.0)
	// required before a new progress update is sent. This prevents excessive
	// UI updates that could slow down factorizations.
	ProgressReportThreshold = 0.01
)
