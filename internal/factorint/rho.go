package factorint

// pollardRho looks for a nontrivial divisor of n. The caller guarantees n is
// odd, composite, and free of factors below the trial-division bound.
//
// The walk iterates y = (y² + 1) mod n from a starting point drawn from g,
// keeping a checkpoint x that is refreshed at exponentially growing
// intervals (Brent's cycle detection). Each step computes gcd(|y-x|, n) by
// Euclid's algorithm: a result of 1 means keep walking, anything else is
// returned as the candidate divisor. A returned value of n signals failure,
// whether from a degenerate collision or from exhausting the
// 2^rhoStepExponent step budget; the caller retries with the generator
// advanced.
func pollardRho(n uint64, g *Generator) uint64 {
	var (
		x   = uint64(1)
		y   = 1 + g.Next()%(n-1)
		j   = uint64(1)
		gcd = uint64(1)
	)
	for i := uint64(0); gcd == 1; i++ {
		if i == j {
			if j>>rhoStepExponent != 0 {
				return n // step budget exhausted
			}
			j <<= 1
			x = y
		}
		y = MulMod(y, y, n)
		y = (y + 1) % n

		a := y - x
		if x > y {
			a = x - y
		}
		b := n
		for {
			a %= b
			if a == 0 {
				gcd = b
				break
			}
			b %= a
			if b == 0 {
				gcd = a
				break
			}
		}
	}
	return gcd
}
