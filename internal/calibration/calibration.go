// Package calibration measures the throughput of the arithmetic kernels on
// the current hardware and persists the results, so later runs can predict
// factorization times without re-benchmarking.
package calibration

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/agbru/primefac/internal/cli"
	apperrors "github.com/agbru/primefac/internal/errors"
	"github.com/agbru/primefac/internal/factorint"
)

// Full calibration parameters. Longer windows than the quick startup pass
// trade time for tighter measurements.
const (
	fullSampleWindow = 200 * time.Millisecond
	fullBenchRounds  = 5
)

// CalibrationOptions configures the calibration process.
type CalibrationOptions struct {
	// ProfilePath is the path to save/load the calibration profile.
	// If empty, uses the default path.
	ProfilePath string
	// SaveProfile indicates whether to save the calibration results.
	SaveProfile bool
	// LoadProfile indicates whether to try loading an existing profile.
	LoadProfile bool
	// SampleWindow overrides the per-sample measurement window when positive.
	SampleWindow time.Duration
	// Rounds overrides the number of samples per kernel when positive.
	Rounds int
}

// RunCalibration executes the full benchmark suite to measure arithmetic
// kernel throughput on the current hardware.
//
// Three kernels are measured: the modular multiplication underneath every
// engine, the Pollard walk iteration, and the trial division probe. The
// measured rates are printed together with the input magnitude above which
// the rho engine beats trial division, and saved as a calibration profile
// that later runs use to predict factorization times.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - out: The io.Writer to which progress and results will be written.
//
// Returns:
//   - int: The exit code (0 for success, non-zero for errors).
func RunCalibration(ctx context.Context, out io.Writer) int {
	return RunCalibrationWithOptions(ctx, out, CalibrationOptions{
		SaveProfile: true,
		LoadProfile: false, // Full calibration should run fresh
	})
}

// RunCalibrationWithOptions executes calibration with the specified options.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Measuring Arithmetic Kernel Throughput ---\n")

	// Try to load existing profile if requested
	if opts.LoadProfile {
		profile, loaded := LoadOrCreateProfile(opts.ProfilePath)
		if loaded && profile.IsValid() {
			fmt.Fprintf(out, "%sLoaded existing calibration profile from %s%s\n",
				cli.ColorGreen(), profilePathOrDefault(opts.ProfilePath), cli.ColorReset())
			fmt.Fprintf(out, "Profile: %s\n", profile.String())
			fmt.Fprintf(out, "\n%s✅ Using cached calibration: %srho overtakes trial division near n ≈ %d%s\n",
				cli.ColorGreen(), cli.ColorYellow(), FindAlgorithmCrossover(profile), cli.ColorReset())
			return apperrors.ExitSuccess
		}
	}

	mb := NewMicroBenchmark()
	mb.SampleWindow = fullSampleWindow
	mb.Rounds = fullBenchRounds
	if opts.SampleWindow > 0 {
		mb.SampleWindow = opts.SampleWindow
	}
	if opts.Rounds > 0 {
		mb.Rounds = opts.Rounds
	}
	expected := mb.SampleWindow * time.Duration(3*mb.Rounds)
	fmt.Fprintf(out, "%sMeasuring 3 kernels, %d rounds of %v each%s\n",
		cli.ColorCyan(), mb.Rounds, mb.SampleWindow, cli.ColorReset())

	calibrationStart := time.Now()

	var wg sync.WaitGroup
	progressChan := make(chan factorint.ProgressUpdate, 5)
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, 1, expected, out)

	results, err := mb.RunWithProgress(ctx, progressChan)
	close(progressChan)
	wg.Wait()

	if err != nil {
		return apperrors.HandleFactorizationError(err, time.Since(calibrationStart), out, cli.CLIColorProvider{})
	}
	if ctx.Err() != nil {
		fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", cli.ColorYellow(), cli.ColorReset())
		return apperrors.HandleFactorizationError(ctx.Err(), time.Since(calibrationStart), out, cli.CLIColorProvider{})
	}

	mulRate, rhoRate, trialRate := ValidateRates(
		results.MulModOpsPerSec, results.RhoStepsPerSec, results.TrialDivsPerSec)
	if mulRate == 0 || rhoRate == 0 || trialRate == 0 {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", cli.ColorRed(), cli.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	calibrationDuration := time.Since(calibrationStart)

	printCalibrationResults(out, []kernelResult{
		{Name: "MulMod", Unit: "ops/s", Rate: mulRate},
		{Name: "Rho step", Unit: "steps/s", Rate: rhoRate},
		{Name: "Trial probe", Unit: "divs/s", Rate: trialRate},
	})

	profile := NewProfile()
	profile.MulModOpsPerSec = mulRate
	profile.RhoStepsPerSec = rhoRate
	profile.TrialDivsPerSec = trialRate
	profile.CalibrationTime = calibrationDuration.String()

	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s--algo rho for n above ~%d%s\n",
		cli.ColorGreen(), cli.ColorYellow(), FindAlgorithmCrossover(profile), cli.ColorReset())
	fmt.Fprintf(out, "Worst-case 64-bit estimate: trial %s, rho %s\n",
		cli.FormatExecutionDuration(EstimateDuration(profile, "trial", math.MaxUint64)),
		cli.FormatExecutionDuration(EstimateDuration(profile, "rho", math.MaxUint64)))

	// Save profile if requested
	if opts.SaveProfile {
		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n",
				cli.ColorYellow(), err, cli.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n",
				cli.ColorGreen(), profilePathOrDefault(opts.ProfilePath), cli.ColorReset())
		}
	}

	return apperrors.ExitSuccess
}

// AutoCalibrate provides a throughput profile for duration estimates at
// application startup.
//
// It first checks for a cached calibration profile valid for the current
// hardware. Failing that, it runs the quick micro-benchmarks and accepts the
// result when measurement confidence is high enough. As a last resort it
// falls back to conservative built-in rates, so estimation always has
// something to work with.
//
// Parameters:
//   - parentCtx: The context bounding the quick benchmark.
//   - out: The io.Writer for the calibration summary line.
//   - profilePath: The profile location; empty means the default path.
//
// Returns:
//   - *Profile: The profile to use for duration estimates (never nil).
//   - bool: True when the profile was measured (cached or fresh), false when
//     it is the built-in fallback.
func AutoCalibrate(parentCtx context.Context, out io.Writer, profilePath string) (*Profile, bool) {
	// Try to load existing profile first
	if profile, loaded := LoadOrCreateProfile(profilePath); loaded && profile.IsValid() {
		fmt.Fprintf(out, "%sUsing cached calibration%s: %s\n",
			cli.ColorGreen(), cli.ColorReset(), profile.String())
		return profile, true
	}

	// Quick micro-benchmarks (~¼s)
	results, err := QuickCalibrate(parentCtx)
	if err == nil && results.Confidence >= 0.5 {
		profile := NewProfile()
		profile.MulModOpsPerSec, profile.RhoStepsPerSec, profile.TrialDivsPerSec =
			ValidateRates(results.MulModOpsPerSec, results.RhoStepsPerSec, results.TrialDivsPerSec)
		profile.CalibrationTime = results.Duration.String()

		fmt.Fprintf(out, "%sQuick calibration%s (%v): mulmod=%s%s%s, rho=%s%s%s, trial=%s%s%s (confidence: %.0f%%)\n",
			cli.ColorGreen(), cli.ColorReset(),
			results.Duration.Round(time.Millisecond),
			cli.ColorYellow(), formatRate(profile.MulModOpsPerSec), cli.ColorReset(),
			cli.ColorYellow(), formatRate(profile.RhoStepsPerSec), cli.ColorReset(),
			cli.ColorYellow(), formatRate(profile.TrialDivsPerSec), cli.ColorReset(),
			results.Confidence*100)

		saveCalibrationProfile(profile, profilePath, out)
		return profile, true
	}

	// Low confidence or cancellation: estimates still beat nothing.
	return FallbackProfile(), false
}

// LoadCachedCalibration loads the calibration profile at path when it exists
// and is valid for the current hardware. It returns nil when no usable
// profile is available, leaving the caller to choose between benchmarking
// and fallback estimates.
func LoadCachedCalibration(profilePath string) *Profile {
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded || !profile.IsValid() {
		return nil
	}
	return profile
}

// saveCalibrationProfile persists the profile, printing a warning instead of
// failing when the path is not writable.
//
// Parameters:
//   - profile: The profile to save.
//   - profilePath: The path to save the profile.
//   - out: The writer for warning messages.
func saveCalibrationProfile(profile *Profile, profilePath string, out io.Writer) {
	if err := profile.SaveProfile(profilePath); err != nil {
		fmt.Fprintf(out, "%sWarning: could not save calibration profile: %v%s\n",
			cli.ColorYellow(), err, cli.ColorReset())
	}
}

// profilePathOrDefault resolves an empty profile path to the default
// location for display purposes.
func profilePathOrDefault(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}
