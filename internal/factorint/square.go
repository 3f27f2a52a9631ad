// Package factorint decomposes unsigned 64-bit integers into their prime
// factorizations. This file contains the perfect-square reducer that also
// derives the driver's trial-division bound.
package factorint

// extractSquares strips perfect-square factors from n: while n is a perfect
// square it is replaced by its root and the accumulated exponent multiplier
// pow doubles. It returns the reduced n, the updated pow, and the upper
// bound for the driver's odd trial division:
//
//   - trialCutoff when the reduced n still exceeds trialCutoff²: the
//     reducer cannot promise all small factors are covered, so trial
//     division continues up to the 16-bit-scale cutoff;
//   - Isqrt(n)+1 otherwise: an exact bound, since any composite residual
//     this small must have a factor at or below its own square root.
func extractSquares(n uint64, pow uint32) (uint64, uint32, uint64) {
	root := uint64(1)
	if n > 3 {
		for root = Isqrt(n); n == root*root; root = Isqrt(n) {
			n = root
			pow <<= 1
		}
	}
	if n > trialCutoff*trialCutoff {
		return n, pow, trialCutoff
	}
	return n, pow, root + 1
}
