package calibration

import (
	"math"
	"strings"
	"time"

	"github.com/agbru/primefac/internal/factorint"
)

// Rate clamps applied to measured or guessed throughput. Figures outside
// this range indicate a broken measurement rather than exotic hardware.
const (
	minPlausibleRate = 1e3  // ops/s
	maxPlausibleRate = 1e12 // ops/s
)

// rhoStepFactor is the constant in the expected Pollard step count
// ~ rhoStepFactor * n^(1/4). The birthday bound puts a collision for the
// smallest prime factor p at about 1.2*sqrt(p) steps; p can be as large as
// sqrt(n), and retries with fresh walk starting points add headroom.
const rhoStepFactor = 4.0

// FallbackProfile returns a profile with conservative throughput guesses for
// hosts where no measurement is available. The guesses vary with word size
// only: the kernels are single-threaded, so core count does not change their
// rates, but a 32-bit host pays for every 64-bit operation in software.
func FallbackProfile() *Profile {
	p := NewProfile()
	if p.WordSize == 64 {
		p.MulModOpsPerSec = 50e6
		p.RhoStepsPerSec = 10e6
		p.TrialDivsPerSec = 100e6
	} else {
		p.MulModOpsPerSec = 5e6
		p.RhoStepsPerSec = 1e6
		p.TrialDivsPerSec = 10e6
	}
	return p
}

// EstimateTrialDivisions returns the expected number of candidate probes a
// full trial division of n performs: odd candidates up to the integer square
// root.
func EstimateTrialDivisions(n uint64) uint64 {
	if n < 4 {
		return 1
	}
	return factorint.Isqrt(n)/2 + 1
}

// EstimateRhoSteps returns the expected number of Pollard walk iterations to
// fully factor n.
func EstimateRhoSteps(n uint64) uint64 {
	if n < 2 {
		return 1
	}
	quartic := math.Sqrt(math.Sqrt(float64(n)))
	return uint64(rhoStepFactor * quartic)
}

// EstimateDuration predicts how long the given algorithm needs to factor n
// on the hardware described by the profile. It returns 0 (no estimate) when
// the profile is missing or untrusted. The estimate assumes a hard composite
// input, so easy inputs finish well ahead of it; the progress display treats
// it as a pacing hint, not a promise.
//
// Parameters:
//   - p: The throughput profile, may be nil.
//   - algo: The algorithm selector as used by the CLI ("rho", "trial", "all").
//   - n: The value to be factored.
//
// Returns:
//   - time.Duration: The predicted duration, or 0 when unknown.
func EstimateDuration(p *Profile, algo string, n uint64) time.Duration {
	if !p.IsValid() || n < 2 {
		return 0
	}
	switch strings.ToLower(algo) {
	case "trial":
		return rateToDuration(float64(EstimateTrialDivisions(n)), p.TrialDivsPerSec)
	case "all":
		// Comparison mode waits for every engine, so the slowest one paces it.
		trial := rateToDuration(float64(EstimateTrialDivisions(n)), p.TrialDivsPerSec)
		rho := rateToDuration(float64(EstimateRhoSteps(n)), p.RhoStepsPerSec)
		if trial > rho {
			return trial
		}
		return rho
	default:
		return rateToDuration(float64(EstimateRhoSteps(n)), p.RhoStepsPerSec)
	}
}

// rateToDuration converts an operation count and a throughput into time.
func rateToDuration(ops, rate float64) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(ops / rate * float64(time.Second))
}

// FindAlgorithmCrossover returns the approximate input magnitude above which
// the rho engine is expected to beat exhaustive trial division on this
// hardware. Solving sqrt(n)/2/trialRate = rhoStepFactor*n^(1/4)/rhoRate for
// n gives n = (2*rhoStepFactor*trialRate/rhoRate)^4.
func FindAlgorithmCrossover(p *Profile) uint64 {
	if !p.IsValid() {
		return 0
	}
	ratio := 2 * rhoStepFactor * p.TrialDivsPerSec / p.RhoStepsPerSec
	cross := math.Pow(ratio, 4)
	if cross < 4 {
		return 4
	}
	if cross >= float64(math.MaxUint64) {
		return math.MaxUint64
	}
	return uint64(cross)
}

// ValidateRates clamps throughput figures to the plausible range. Zero and
// negative rates stay zero so IsValid keeps rejecting the profile they came
// from.
func ValidateRates(mulMod, rho, trial float64) (float64, float64, float64) {
	return clampRate(mulMod), clampRate(rho), clampRate(trial)
}

func clampRate(r float64) float64 {
	if r <= 0 {
		return 0
	}
	if r < minPlausibleRate {
		return minPlausibleRate
	}
	if r > maxPlausibleRate {
		return maxPlausibleRate
	}
	return r
}
