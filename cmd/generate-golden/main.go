// Command generate-golden regenerates the factorization golden file used by
// the engine tests. Every case is produced by an independent oracle: easy
// targets are factored from scratch with naive trial division, heavy targets
// carry their construction, and every emitted prime is cross-checked with
// math/big's primality test, which is exact below 2^64.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"math/bits"
	"os"
	"path/filepath"
	"sync"

	"github.com/agbru/primefac/internal/parallel"
)

// goldenTerm is one prime-power term of a factorization.
type goldenTerm struct {
	Prime uint64 `json:"prime"`
	Power uint32 `json:"power"`
}

// goldenCase is a single entry in the golden file. Heavy cases have prime
// factors beyond what trial division reaches in test time.
type goldenCase struct {
	N       uint64       `json:"n"`
	Heavy   bool         `json:"heavy,omitempty"`
	Factors []goldenTerm `json:"factors"`
}

// trialTargets are factored from scratch by the oracle. Their largest prime
// factor stays within comfortable trial division range.
var trialTargets = []uint64{
	0, 1, 2, 3, 4, 12, 60, 97, 210, 1024, 65537,
	123456789,
	987654321,
	4294967297,           // F5 = 641 · 6700417
	4294049777,           // 65521 · 65537
	4295229443,           // 65537 · 65539
	600851475143,         // 71 · 839 · 1471 · 6857
	10967535067,          // 104723 · 104729
	439125228929,         // 65537 · 6700417
	281487861809153,      // 65537^3
	281496452005891,      // 65537^2 · 65539
	614889782588491410,   // product of the primes through 47
	1000000000000000000,  // 10^18
	2305843009213693952,  // 2^61
	12157665459056928801, // 3^40
	18446744073709551615, // 2^64 - 1
}

// heavyTargets carry their own factorizations: their prime factors sit far
// beyond trial range, so the construction is the ground truth. Every base
// is still verified before it is written out.
var heavyTargets = []goldenCase{
	{N: 2305843009213693951, Heavy: true,
		Factors: []goldenTerm{{Prime: 2305843009213693951, Power: 1}}}, // 2^61 - 1
	{N: 4611686014132420609, Heavy: true,
		Factors: []goldenTerm{{Prime: 2147483647, Power: 2}}}, // (2^31 - 1)^2
	{N: 9223372036854775783, Heavy: true,
		Factors: []goldenTerm{{Prime: 9223372036854775783, Power: 1}}}, // largest prime below 2^63
	{N: 18446744073709551557, Heavy: true,
		Factors: []goldenTerm{{Prime: 18446744073709551557, Power: 1}}}, // largest prime below 2^64
	{N: 18446744073709551566, Heavy: true,
		Factors: []goldenTerm{{Prime: 2, Power: 1}, {Prime: 9223372036854775783, Power: 1}}},
}

func main() {
	outputDir := flag.String("out", "internal/factorint/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Generating golden data...")

	cases := make([]goldenCase, len(trialTargets)+len(heavyTargets))

	// Each target is independent, so factor them concurrently.
	var ec parallel.ErrorCollector
	var wg sync.WaitGroup
	for i, n := range trialTargets {
		wg.Add(1)
		go func(slot int, n uint64) {
			defer wg.Done()
			factors := factorByTrial(n)
			ec.SetError(verifyCase(n, factors))
			cases[slot] = goldenCase{N: n, Factors: factors}
		}(i, n)
	}
	wg.Wait()

	for i, hc := range heavyTargets {
		ec.SetError(verifyCase(hc.N, hc.Factors))
		cases[len(trialTargets)+i] = hc
	}

	if err := ec.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
		os.Exit(1)
	}

	for _, c := range cases {
		fmt.Printf("  %d: %d distinct prime(s)\n", c.N, len(c.Factors))
	}

	filename := filepath.Join(*outputDir, "factorizations_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cases); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s (%d cases)\n", filename, len(cases))
}

// factorByTrial factors n by trial division. The oracle is deliberately
// naive: correctness is obvious here and speed is irrelevant.
func factorByTrial(n uint64) []goldenTerm {
	factors := []goldenTerm{}
	if n < 2 {
		return factors
	}
	divideOut := func(p uint64) {
		var power uint32
		for n%p == 0 {
			n /= p
			power++
		}
		if power > 0 {
			factors = append(factors, goldenTerm{Prime: p, Power: power})
		}
	}
	divideOut(2)
	for d := uint64(3); d <= n/d; d += 2 {
		divideOut(d)
	}
	if n > 1 {
		factors = append(factors, goldenTerm{Prime: n, Power: 1})
	}
	return factors
}

// verifyCase checks a factorization against n: terms must ascend strictly,
// every base must be prime, and the product must reconstruct n exactly.
func verifyCase(n uint64, factors []goldenTerm) error {
	if n < 2 {
		if len(factors) != 0 {
			return fmt.Errorf("n=%d: expected an empty factorization, got %d terms", n, len(factors))
		}
		return nil
	}

	product := uint64(1)
	prev := uint64(0)
	for _, term := range factors {
		if term.Prime <= prev {
			return fmt.Errorf("n=%d: terms not strictly ascending at prime %d", n, term.Prime)
		}
		prev = term.Prime
		if term.Power == 0 {
			return fmt.Errorf("n=%d: zero power for prime %d", n, term.Prime)
		}
		if !new(big.Int).SetUint64(term.Prime).ProbablyPrime(0) {
			return fmt.Errorf("n=%d: base %d is not prime", n, term.Prime)
		}
		for k := uint32(0); k < term.Power; k++ {
			hi, lo := bits.Mul64(product, term.Prime)
			if hi != 0 {
				return fmt.Errorf("n=%d: factor product overflows uint64", n)
			}
			product = lo
		}
	}
	if product != n {
		return fmt.Errorf("n=%d: factors multiply to %d", n, product)
	}
	return nil
}
