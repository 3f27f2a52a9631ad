// Package factorint decomposes unsigned 64-bit integers into their prime
// factorizations. This file contains the overflow-safe modular arithmetic
// primitives underpinning the primality test and Pollard's Rho.
package factorint

// MulMod returns (a*b) mod m without ever forming a product wider than
// 64 bits. It processes the bits of a from least to most significant,
// maintaining a running modular sum and a modular doubling of b; before
// every addition the modulus is conditionally subtracted so that each
// intermediate stays below 2*m and unsigned wraparound yields the exact
// residue.
//
// The modulus must be at least 1; m == 0 panics with the runtime's
// division-by-zero error.
func MulMod(a, b, m uint64) uint64 {
	var res uint64
	b %= m
	for ; a > 0; a >>= 1 {
		if a&1 == 1 {
			if b >= m-res {
				res -= m
			}
			res += b
		}
		d := b
		if d >= m-b {
			d -= m
		}
		b += d
	}
	return res % m
}

// PowMod returns (n^exp) mod m via square-and-multiply, using MulMod as the
// multiplication primitive. An exponent of 0 yields 1 regardless of n.
//
// The modulus must be at least 1; m == 0 panics with the runtime's
// division-by-zero error.
func PowMod(n, exp, m uint64) uint64 {
	res := uint64(1)
	n %= m
	for ; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			res = MulMod(res, n, m)
		}
		n = MulMod(n, n, m)
	}
	return res
}
