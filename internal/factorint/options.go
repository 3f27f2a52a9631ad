// Package factorint decomposes unsigned 64-bit integers into their prime
// factorizations. This file contains configuration options for the engines.
package factorint

// Options configures a factorization run.
type Options struct {
	// Seed initializes the pseudo-random generator driving Pollard's Rho.
	// If 0, DefaultSeed is used. Fixing a seed makes the run reproducible:
	// the same n and seed always yield the same factor discovery order.
	Seed uint64
	// MaxRetries is the number of failed Pollard walks tolerated per
	// residual before the engine reports ErrRetriesExhausted.
	// If 0, DefaultMaxRetries is used.
	MaxRetries int
}

// normalizeOptions returns a copy of opts with default values filled in for
// zero values. This ensures consistent handling across all engine
// implementations.
//
// Parameters:
//   - opts: The options to normalize.
//
// Returns:
//   - Options: A normalized copy of opts with defaults applied.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.Seed == 0 {
		normalized.Seed = DefaultSeed
	}
	if normalized.MaxRetries == 0 {
		normalized.MaxRetries = DefaultMaxRetries
	}
	return normalized
}
