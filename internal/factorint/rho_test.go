package factorint

import "testing"

// TestPollardRho_FindsDivisorOfSemiprime runs the walk against semiprimes
// whose factors sit above the trial-division cutoff, the exact population
// the rho phase exists for. The default seed is fixed, so success within the
// default retry budget is reproducible, not probabilistic.
func TestPollardRho_FindsDivisorOfSemiprime(t *testing.T) {
	t.Parallel()

	semiprimes := []struct {
		n    uint64
		p, q uint64
	}{
		{4295229443, 65537, 65539},
		{10967535067, 104723, 104729},
		{439125228929, 65537, 6700417},
	}

	for _, tc := range semiprimes {
		g := NewGenerator(0)
		found := uint64(0)
		for attempt := 0; attempt < DefaultMaxRetries; attempt++ {
			if x := pollardRho(tc.n, g); x != 1 && x != tc.n {
				found = x
				break
			}
		}
		if found == 0 {
			t.Errorf("pollardRho found no divisor of %d in %d attempts", tc.n, DefaultMaxRetries)
			continue
		}
		if found != tc.p && found != tc.q {
			t.Errorf("pollardRho(%d) = %d, want %d or %d", tc.n, found, tc.p, tc.q)
		}
		if tc.n%found != 0 {
			t.Errorf("pollardRho(%d) = %d, which does not divide it", tc.n, found)
		}
	}
}

// TestPollardRho_PrimeInputReturnsN verifies the failure contract on prime
// inputs: the only divisors are 1 and n, the gcd loop can only ever exit
// with n, and the step budget returns n as well. Either way the caller sees
// n and knows to retry or stop.
func TestPollardRho_PrimeInputReturnsN(t *testing.T) {
	t.Parallel()

	primes := []uint64{65537, 104729, 1000000007, 4294967291}
	for _, p := range primes {
		g := NewGenerator(0)
		for attempt := 0; attempt < 8; attempt++ {
			if x := pollardRho(p, g); x != p {
				t.Fatalf("pollardRho(%d) = %d on attempt %d, want %d", p, x, attempt, p)
			}
		}
	}
}

// TestPollardRho_PrimeInputLargeBudget exercises the step-budget exit with a
// prime big enough that a collision inside the budget is unlikely.
func TestPollardRho_PrimeInputLargeBudget(t *testing.T) {
	t.Parallel()

	const p = 2305843009213693951 // 2^61-1
	g := NewGenerator(0)
	if x := pollardRho(p, g); x != p {
		t.Fatalf("pollardRho(%d) = %d, want %d", p, x, p)
	}
}

// TestPollardRho_DeterministicForSeed verifies that a fixed generator state
// fully determines the walk, including which of the two prime factors it
// surfaces first.
func TestPollardRho_DeterministicForSeed(t *testing.T) {
	t.Parallel()

	const n = 10967535067
	results1 := make([]uint64, 0, 4)
	results2 := make([]uint64, 0, 4)

	g := NewGenerator(7)
	for i := 0; i < 4; i++ {
		results1 = append(results1, pollardRho(n, g))
	}
	g = NewGenerator(7)
	for i := 0; i < 4; i++ {
		results2 = append(results2, pollardRho(n, g))
	}

	for i := range results1 {
		if results1[i] != results2[i] {
			t.Fatalf("call %d: pollardRho diverged for equal seeds: %d != %d", i, results1[i], results2[i])
		}
	}
}

func BenchmarkPollardRho(b *testing.B) {
	benchmarks := []struct {
		name string
		n    uint64
	}{
		{"Semiprime32", 4295229443},
		{"Semiprime34", 10967535067},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			g := NewGenerator(0)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = pollardRho(bm.n, g)
			}
		})
	}
}
