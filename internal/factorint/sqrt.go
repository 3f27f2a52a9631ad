// Package factorint decomposes unsigned 64-bit integers into their prime
// factorizations. This file contains the integer square root.
package factorint

// Isqrt returns floor(sqrt(n)) using the Babylonian (Newton) iteration:
// starting from a = n/2, refine with b = (a + n/a)/2 until the estimate
// stops decreasing. The iteration converges in O(log n) steps and never
// overflows, since every estimate after the first stays at or below n/2.
// Inputs below 4 are answered directly.
func Isqrt(n uint64) uint64 {
	if n < 4 {
		if n == 0 {
			return 0
		}
		return 1
	}
	a := n >> 1
	b := (a + n/a) >> 1
	for b < a {
		a = b
		b = (a + n/a) >> 1
	}
	return a
}
