package factorint

// Generator is a xorshift64 pseudo-random number generator. It is a plain
// value owned by whoever runs a factorization, never package-global state,
// so concurrent factorizations cannot race on it and fixing a seed makes a
// run fully reproducible.
//
// The quality bar here is "decorrelated starting points for Pollard's Rho",
// not cryptographic randomness.
type Generator struct {
	state uint64
}

// NewGenerator returns a generator starting from seed. Zero is the xorshift
// fixed point (it would emit zeros forever), so a zero seed selects
// DefaultSeed instead.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &Generator{state: seed}
}

// Next advances the state with the classic 13/7/17 xorshift triplet and
// returns it. The sequence visits every nonzero 64-bit value before
// repeating.
func (g *Generator) Next() uint64 {
	g.state ^= g.state << 13
	g.state ^= g.state >> 7
	g.state ^= g.state << 17
	return g.state
}
