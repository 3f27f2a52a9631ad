// Package factorint decomposes unsigned 64-bit integers into their prime
// factorizations. This file contains the deterministic primality test.
package factorint

// IsPrime reports whether n is prime. The test is deterministic for the
// entire uint64 range:
//
//  1. Trial-divide by the fixed witness set {2..37}. If any base divides n,
//     n is prime exactly when it equals that base.
//  2. Below 37*37 nothing composite survives step 1 (its smallest factor
//     would be under 37), so any n > 1 is prime.
//  3. Otherwise run Miller-Rabin against the first witnessCount(n) bases.
//     Those counts are the minimal known deterministic witness numbers for
//     each magnitude threshold.
func IsPrime(n uint64) bool {
	for _, w := range witnesses {
		if n%w == 0 {
			return n == w
		}
	}
	if n < smallPrimeCutoff {
		return n > 1
	}

	// Write n-1 = 2^a * b with b odd.
	b := n - 1
	a := 0
	for b&1 == 0 {
		b >>= 1
		a++
	}

	lim := witnessCount(n)
	for i := 0; i < lim; i++ {
		c := PowMod(witnesses[i], b, n)
		if c == 1 {
			continue
		}
		passed := false
		for d := 0; d < a; d++ {
			if c == n-1 {
				passed = true
				break
			}
			c = MulMod(c, c, n)
		}
		if !passed {
			return false
		}
	}
	return true
}

// witnessCount returns how many leading bases of the witness set suffice for
// a deterministic Miller-Rabin verdict at this magnitude.
func witnessCount(n uint64) int {
	switch {
	case n < 2047:
		return 1
	case n < 1373653:
		return 2
	case n < 25326001:
		return 3
	case n < 3215031751:
		return 4
	case n < 2152302898747:
		return 5
	case n < 3474749660383:
		return 6
	case n < 341550071728321:
		return 7
	case n < 3825123056546413051:
		return 9
	default:
		return 12
	}
}
