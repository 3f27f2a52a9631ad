// The cli package provides functions for building a command-line interface
// (CLI) for the prime factorization application. It handles the asynchronous
// display of factorization progress and formats the results for a clear and
// readable presentation.
package cli

//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

import (
	"fmt"
	"io"
	"math/bits"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/agbru/primefac/internal/factorint"
	"github.com/agbru/primefac/internal/ui"
	"github.com/briandowns/spinner"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
// This approach provides a more human-readable output for short durations.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	// Optimized to 200ms to reduce updates and improve performance.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Color functions return ANSI escape codes from the current theme.
// These provide backward compatibility while allowing theme switching.
// They delegate to the ui package to reduce coupling.

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return ui.GetCurrentTheme().Reset }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return ui.GetCurrentTheme().Error }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return ui.GetCurrentTheme().Success }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return ui.GetCurrentTheme().Warning }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return ui.GetCurrentTheme().Primary }

// ColorMagenta returns the info color from the current theme.
func ColorMagenta() string { return ui.GetCurrentTheme().Info }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return ui.GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return ui.GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code from the current theme.
func ColorUnderline() string { return ui.GetCurrentTheme().Underline }

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the `DisplayProgress` function from a
// specific spinner implementation, facilitating easier testing and maintenance.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface. This adapter allows the `spinner` library to be used
// within the application's CLI framework.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
//
// Parameters:
//   - suffix: The string to display.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressState encapsulates the aggregated progress of concurrent
// factorizations. It maintains the individual progress of each engine and
// computes the average, which is essential for providing a consolidated
// progress view when multiple algorithms are running in parallel.
type ProgressState struct {
	progresses     []float64
	numFactorizers int
}

// NewProgressState creates and initializes a new ProgressState.
// It sets up the internal storage for tracking the progress of a specified
// number of engines.
//
// Parameters:
//   - numFactorizers: The number of engines to track.
//
// Returns:
//   - *ProgressState: A pointer to the new progress state object.
func NewProgressState(numFactorizers int) *ProgressState {
	return &ProgressState{
		progresses:     make([]float64, numFactorizers),
		numFactorizers: numFactorizers,
	}
}

// Update records a new progress value for a specific engine.
// It is designed to be safe for concurrent use, although in the current
// implementation it is called sequentially. The method ensures that updates are
// only applied for valid engine indices.
//
// Parameters:
//   - index: The index of the engine (0 to numFactorizers-1).
//   - value: The progress value (0.0 to 1.0).
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage computes the average progress across all tracked engines.
// This is used to display a single, consolidated progress bar to the user,
// representing the overall progress of the application.
//
// Returns:
//   - float64: The average progress (0.0 to 1.0).
func (ps *ProgressState) CalculateAverage() float64 {
	var totalProgress float64
	for _, p := range ps.progresses {
		totalProgress += p
	}
	if ps.numFactorizers == 0 {
		return 0.0
	}
	return totalProgress / float64(ps.numFactorizers)
}

// progressBar generates a string representing a textual progress bar.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
//   - length: The total character width of the progress bar.
//
// Returns:
//   - string: A string representation of the progress bar.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress manages the asynchronous display of a spinner and progress bar.
// It is designed to run in a dedicated goroutine and orchestrates the UI updates
// for the duration of the factorizations.
//
// The function's responsibilities include:
//   - Receiving progress updates from a channel.
//   - Aggregating these updates to calculate the average progress.
//   - Calculating and displaying the estimated time remaining (ETA).
//   - Periodically refreshing the spinner and progress bar.
//   - Gracefully shutting down when the progress channel is closed.
//
// Parameters:
//   - wg: A WaitGroup to signal when the display routine is complete.
//   - progressChan: The channel receiving progress updates.
//   - numFactorizers: The number of engines contributing to the progress.
//   - expected: An expected total duration used to seed the ETA before any
//     progress has been observed, typically from a calibration profile.
//     Zero means no estimate is available.
//   - out: The io.Writer to which the progress bar is rendered.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan factorint.ProgressUpdate, numFactorizers int, expected time.Duration, out io.Writer) {
	defer wg.Done()
	if numFactorizers <= 0 {
		for range progressChan { // Drain the channel
		}
		return
	}

	state := NewProgressWithETA(numFactorizers)
	if expected > 0 {
		state.SeedExpectedDuration(expected)
	}
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				// Stop the spinner first to free the line
				if !spinnerStopped {
					s.Stop()
					spinnerStopped = true
				}

				// Display final 100% progress permanently by printing directly to output
				bar := progressBar(1.0, ProgressBarWidth)
				label := "Progress"
				if numFactorizers > 1 {
					label = "Avg progress"
				}
				// Print the final progress line with a newline so it persists
				fmt.Fprintf(out, "%s: %6.2f%% [%s] ETA: %s\n", label, 100.0, bar, "< 1s")
				return
			}
			state.UpdateWithETA(update.FactorizerIndex, update.Value)
		case <-ticker.C:
			avgProgress := state.CalculateAverage()
			eta := state.GetETA()
			bar := progressBar(avgProgress, ProgressBarWidth)
			label := "Progress"
			if numFactorizers > 1 {
				label = "Avg progress"
			}
			etaStr := FormatETA(eta)
			s.UpdateSuffix(fmt.Sprintf(" %s: %6.2f%% [%s] ETA: %s", label, avgProgress*100, bar, etaStr))
		}
	}
}

// FormatFactorization renders a factorization as its " · "-separated terms,
// e.g. "2^4 · 3 · 5". Each term follows the Factor.String convention: a bare
// prime when the power is 1, "prime^power" otherwise. The empty factorization
// (inputs 0 and 1) renders as "1", the empty product.
//
// Parameters:
//   - factors: The factor terms, normally in canonical order.
//
// Returns:
//   - string: The rendered product.
func FormatFactorization(factors []factorint.Factor) string {
	if len(factors) == 0 {
		return "1"
	}
	terms := make([]string, len(factors))
	for i, f := range factors {
		terms[i] = f.String()
	}
	return strings.Join(terms, " · ")
}

// FormatFactorizationHex renders a factorization like FormatFactorization but
// with every number in 0x-prefixed hexadecimal, e.g. "0x2^4 · 0x3 · 0x5".
//
// Parameters:
//   - factors: The factor terms, normally in canonical order.
//
// Returns:
//   - string: The rendered product in hexadecimal.
func FormatFactorizationHex(factors []factorint.Factor) string {
	if len(factors) == 0 {
		return "0x1"
	}
	terms := make([]string, len(factors))
	for i, f := range factors {
		if f.Power < 2 {
			terms[i] = "0x" + strconv.FormatUint(f.Prime, 16)
		} else {
			terms[i] = "0x" + strconv.FormatUint(f.Prime, 16) + "^" + strconv.FormatUint(uint64(f.Power), 10)
		}
	}
	return strings.Join(terms, " · ")
}

// totalMultiplicity sums the powers of all factor terms, i.e. the number of
// prime factors counted with multiplicity (the big omega of n).
func totalMultiplicity(factors []factorint.Factor) uint64 {
	var total uint64
	for _, f := range factors {
		total += uint64(f.Power)
	}
	return total
}

// DisplayResult formats and prints the final factorization.
// It always prints the canonical identity line "n = p1^e1 · p2 · ...", and
// provides additional levels of detail based on the verbose and details
// flags: detailed execution metrics, and a per-factor table with primality
// metadata.
//
// Parameters:
//   - factors: The factor terms in canonical order.
//   - n: The input value that was factored.
//   - duration: The time taken for the factorization.
//   - verbose: If true, prints the per-factor table.
//   - details: If true, prints detailed execution metrics.
//   - out: The io.Writer for the output.
func DisplayResult(factors []factorint.Factor, n uint64, duration time.Duration, verbose, details bool, out io.Writer) {
	fmt.Fprintf(out, "\n%s--- Prime factorization ---%s\n", ColorBold(), ColorReset())
	if n == 0 {
		// Zero is divisible by every prime; it has no prime factorization.
		fmt.Fprintf(out, "%s0%s admits no prime factorization.\n", ColorMagenta(), ColorReset())
	} else {
		fmt.Fprintf(out, "%s%d%s = %s%s%s\n",
			ColorMagenta(), n, ColorReset(),
			ColorGreen(), FormatFactorization(factors), ColorReset())
	}

	if details {
		fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", ColorBold(), ColorReset())
		durationStr := FormatExecutionDuration(duration)
		if duration == 0 {
			durationStr = "< 1µs"
		}
		fmt.Fprintf(out, "Factorization time    : %s%s%s\n", ColorGreen(), durationStr, ColorReset())
		fmt.Fprintf(out, "Input binary size     : %s%d%s bits\n", ColorCyan(), bits.Len64(n), ColorReset())
		fmt.Fprintf(out, "Distinct primes       : %s%d%s\n", ColorCyan(), len(factors), ColorReset())
		fmt.Fprintf(out, "Total multiplicity    : %s%d%s\n", ColorCyan(), totalMultiplicity(factors), ColorReset())
		if len(factors) > 0 {
			largest := factors[0].Prime
			for _, f := range factors {
				if f.Prime > largest {
					largest = f.Prime
				}
			}
			fmt.Fprintf(out, "Largest prime factor  : %s%s%s\n", ColorCyan(), formatNumberString(strconv.FormatUint(largest, 10)), ColorReset())
		}
	}

	if verbose && len(factors) > 0 {
		fmt.Fprintf(out, "\n%s--- Factor table ---%s\n", ColorBold(), ColorReset())
		tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintf(tw, "%sPrime%s\t%sPower%s\t%sBits%s\n",
			ColorUnderline(), ColorReset(), ColorUnderline(), ColorReset(), ColorUnderline(), ColorReset())
		for _, f := range factors {
			fmt.Fprintf(tw, "%s%s%s\t%d\t%d\n",
				ColorCyan(), formatNumberString(strconv.FormatUint(f.Prime, 10)), ColorReset(),
				f.Power, bits.Len64(f.Prime))
		}
		if err := tw.Flush(); err != nil {
			fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
		}
	}
}

// formatNumberString inserts thousand separators into a numeric string.
// Optimized to reduce memory allocations
//
// Parameters:
//   - s: The numeric string to format.
//
// Returns:
//   - string: The formatted string with comma separators.
func formatNumberString(s string) string {
	if len(s) == 0 {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	// Precise calculation of the required capacity to avoid reallocations
	numSeparators := (n - 1) / 3
	capacity := len(prefix) + n + numSeparators
	var builder strings.Builder
	builder.Grow(capacity)
	builder.WriteString(prefix)

	firstGroupLen := n % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}
	builder.WriteString(s[:firstGroupLen])

	// Optimized loop with fewer function calls
	for i := firstGroupLen; i < n; i += 3 {
		builder.WriteByte(',')
		builder.WriteString(s[i : i+3])
	}
	return builder.String()
}
