package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/primefac/internal/cli"
	"github.com/agbru/primefac/internal/config"
	apperrors "github.com/agbru/primefac/internal/errors"
	"github.com/agbru/primefac/internal/factorint"
	"github.com/agbru/primefac/internal/ui"
)

// FactorizationResult encapsulates the outcome of a single factorization run.
// It serves as a standardized container for results from different engines,
// facilitating comparison and reporting.
type FactorizationResult struct {
	// Name is the identifier of the engine used (e.g., "Pollard's Rho").
	Name string
	// Factors holds the prime factorization terms. It is nil if an error
	// occurred, and empty (not nil) for the inputs 0 and 1.
	Factors []factorint.Factor
	// Duration is the time taken to complete the factorization.
	Duration time.Duration
	// Err contains any error that occurred during the factorization.
	Err error
}

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking factorization
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteFactorizations orchestrates the concurrent execution of one or more
// factorization engines against the same input.
//
// It manages the lifecycle of the engine goroutines, collects their results,
// and coordinates the display of progress updates. This function is the core
// of the application's concurrency model.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - factorizers: A slice of engines to execute.
//   - cfg: The application configuration (N, seed, retry budget).
//   - etaHint: An expected total duration used to seed the progress display,
//     typically derived from a calibration profile. Zero means unknown.
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []FactorizationResult: A slice containing the result of each engine.
func ExecuteFactorizations(ctx context.Context, factorizers []factorint.Factorizer, cfg config.AppConfig, etaHint time.Duration, out io.Writer) []FactorizationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]FactorizationResult, len(factorizers))
	progressChan := make(chan factorint.ProgressUpdate, len(factorizers)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(factorizers), etaHint, out)

	for i, fac := range factorizers {
		idx, factorizer := i, fac
		g.Go(func() error {
			startTime := time.Now()
			factors, err := factorizer.Factorize(ctx, progressChan, idx, cfg.N, cfg.ToFactorizationOptions())
			results[idx] = FactorizationResult{
				Name: factorizer.Name(), Factors: factors, Duration: time.Since(startTime), Err: err,
			}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults processes the results from multiple engines and
// generates a summary report.
//
// It sorts the results by execution time, validates consistency across
// successful factorizations, and displays a comparative table. Engines may
// report the same factorization with different term orderings (rho emits
// factors in discovery order), so consistency is checked on the canonical
// multiset, never on the raw slices.
//
// Parameters:
//   - results: The slice of factorization results to analyze.
//   - cfg: The application configuration.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []FactorizationResult, cfg config.AppConfig, out io.Writer) int {
	sort.Slice(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	firstValidIdx := -1
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for i, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			successCount++
			if firstValidIdx < 0 {
				firstValidIdx = i
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the factorization.\n")
		return apperrors.HandleFactorizationError(firstError, 0, out, cli.CLIColorProvider{})
	}

	reference := results[firstValidIdx].Factors
	mismatch := false
	for _, res := range results {
		if res.Err == nil && !factorint.EqualFactorizations(res.Factors, reference) {
			mismatch = true
			break
		}
	}
	if mismatch {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the factorizations reported by the algorithms.")
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid factorizations are consistent.")
	cli.DisplayResult(factorint.Canonical(reference), cfg.N, results[firstValidIdx].Duration, cfg.Verbose, cfg.Details, out)
	return apperrors.ExitSuccess
}
