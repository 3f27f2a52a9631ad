// Package app provides the core application structure for the primefac CLI.
// It handles application lifecycle, command dispatching, and version management.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/agbru/primefac/internal/calibration"
	"github.com/agbru/primefac/internal/cli"
	"github.com/agbru/primefac/internal/config"
	apperrors "github.com/agbru/primefac/internal/errors"
	"github.com/agbru/primefac/internal/factorint"
	"github.com/agbru/primefac/internal/orchestration"
	"github.com/agbru/primefac/internal/server"
	"github.com/agbru/primefac/internal/ui"
	"github.com/agbru/primefac/pkg/models"
)

// Application represents the primefac application instance.
// It encapsulates the configuration and provides methods to run
// the application in various modes (CLI, server, REPL).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides access to the registered factorization engines.
	// Uses the interface type for better testability and dependency injection.
	Factory factorint.FactorizerFactory
	// Profile describes the measured arithmetic throughput of this machine.
	// It seeds the progress display's duration estimates and may be nil when
	// no calibration has been recorded yet.
	Profile *calibration.Profile
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := factorint.GlobalFactory()
	availableAlgos := factory.List()

	// args[0] is the program name, args[1:] are the actual arguments.
	programName := "primefac"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableAlgos)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		Profile:   calibration.LoadCachedCalibration(cfg.CalibrationProfile),
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (completion, server, REPL,
// calibration, or the standard factorization run).
//
// Parameters:
//   - ctx: The parent context for cancellation.
//   - out: The writer for standard output.
//
// Returns:
//   - int: The exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Handle completion script generation before any other output.
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Initialize the terminal theme (respects --no-color and NO_COLOR).
	ui.InitTheme(a.Config.NoColor)

	if a.Config.ServerMode {
		return a.runServer()
	}

	if a.Config.Interactive {
		return a.runREPL()
	}

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	a.runAutoCalibrationIfEnabled(ctx, out)

	return a.runFactorize(ctx, out)
}

// runCompletion generates a shell completion script on out.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion script: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP API server and blocks until it shuts down.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Factory, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive read-eval-print loop.
func (a *Application) runREPL() int {
	repl := cli.NewREPL(a.Factory.GetAll(), cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
		Seed:        a.Config.Seed,
		MaxRetries:  a.Config.MaxRetries,
		HexOutput:   a.Config.HexOutput,
	})
	repl.Start()
	return apperrors.ExitSuccess
}

// runCalibration measures the arithmetic kernel throughput of this machine
// and persists the resulting profile.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	return calibration.RunCalibrationWithOptions(ctx, out, calibration.CalibrationOptions{
		ProfilePath: a.Config.CalibrationProfile,
		SaveProfile: true,
	})
}

// runAutoCalibrationIfEnabled refreshes the throughput profile at startup
// when --auto-calibrate is set. The measurement summary is suppressed in
// quiet and JSON modes so it cannot pollute machine-read output. When the
// quick measurement is too noisy the conservative fallback rates are used;
// they still beat estimating blind.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) {
	if !a.Config.AutoCalibrate {
		return
	}
	summaryOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		summaryOut = io.Discard
	}
	profile, _ := calibration.AutoCalibrate(ctx, summaryOut, a.Config.CalibrationProfile)
	a.Profile = profile
}

// runFactorize orchestrates the standard CLI factorization run.
func (a *Application) runFactorize(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signal handling).
	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	factorizersToRun := cli.GetFactorizersToRun(a.Config, a.Factory)

	// Skip banner output in quiet and JSON modes.
	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(factorizersToRun, out)
	}

	// Progress display goes to a discard writer whenever stdout must stay
	// machine-readable.
	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	// A calibration profile, when present, seeds the ETA shown next to the
	// progress bar. Without one the estimate starts at zero and is derived
	// from observed progress instead.
	etaHint := calibration.EstimateDuration(a.Profile, a.Config.Algo, a.Config.N)

	results := orchestration.ExecuteFactorizations(ctx, factorizersToRun, a.Config, etaHint, progressOut)

	if a.Config.JSONOutput {
		return printJSONResults(results, a.Config.N, out)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		HexOutput:  a.Config.HexOutput,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}

	return a.analyzeResultsWithOutput(results, outputCfg, out)
}

// analyzeResultsWithOutput renders the run's outcome and applies the output
// options (quiet display, hexadecimal identity, file export).
func (a *Application) analyzeResultsWithOutput(results []orchestration.FactorizationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	// Quiet mode prints the bare factorization of the fastest successful
	// engine and nothing else. Failures fall through to the standard
	// analysis so they stay visible.
	if outputCfg.Quiet {
		if best := findBestResult(results); best != nil {
			cli.DisplayQuietResult(out, factorint.Canonical(best.Factors), a.Config.N, outputCfg.HexOutput)

			if err := a.saveResultIfNeeded(best, outputCfg); err != nil {
				return apperrors.ExitErrorGeneric
			}
			return apperrors.ExitSuccess
		}
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, a.Config, out)

	// The analysis sorts results in place, so the best result is located
	// after it runs.
	best := findBestResult(results)

	if best != nil && exitCode == apperrors.ExitSuccess {
		a.displayHexIfNeeded(best, outputCfg, out)

		if err := a.saveResultIfNeeded(best, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if outputCfg.OutputFile != "" {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				cli.ColorGreen(), cli.ColorCyan(), outputCfg.OutputFile, cli.ColorReset())
		}
	}

	return exitCode
}

// findBestResult returns the fastest successful result, or nil when every
// engine failed.
func findBestResult(results []orchestration.FactorizationResult) *orchestration.FactorizationResult {
	var best *orchestration.FactorizationResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if best == nil || results[i].Duration < best.Duration {
			best = &results[i]
		}
	}
	return best
}

// displayHexIfNeeded prints the factorization identity in hexadecimal when
// --hex is set.
func (a *Application) displayHexIfNeeded(res *orchestration.FactorizationResult, outputCfg cli.OutputConfig, out io.Writer) {
	if !outputCfg.HexOutput {
		return
	}
	fmt.Fprintf(out, "\n%s--- Hexadecimal Format ---%s\n", cli.ColorBold(), cli.ColorReset())
	fmt.Fprintf(out, "%s%s%s\n", cli.ColorGreen(),
		cli.FormatIdentityLine(factorint.Canonical(res.Factors), a.Config.N, true), cli.ColorReset())
}

// saveResultIfNeeded exports the result to the configured output file.
func (a *Application) saveResultIfNeeded(res *orchestration.FactorizationResult, outputCfg cli.OutputConfig) error {
	if outputCfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(factorint.Canonical(res.Factors), a.Config.N, res.Duration, res.Name, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

// printJSONResults renders the run as an indented JSON array with one
// record per engine.
func printJSONResults(results []orchestration.FactorizationResult, n uint64, out io.Writer) int {
	records := make([]models.Factorization, len(results))
	for i, res := range results {
		record := models.Factorization{
			N:          n,
			Algorithm:  res.Name,
			DurationMS: float64(res.Duration.Microseconds()) / 1000.0,
		}
		if res.Err != nil {
			record.Error = res.Err.Error()
			record.Truncated = errors.Is(res.Err, context.DeadlineExceeded)
		} else {
			// Rho reports factors in discovery order; the wire format is
			// ascending by prime.
			record.Factors = toFactorTerms(factorint.Canonical(res.Factors))
		}
		records[i] = record
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// toFactorTerms converts engine factors to their wire representation.
func toFactorTerms(factors []factorint.Factor) []models.FactorTerm {
	terms := make([]models.FactorTerm, len(factors))
	for i, f := range factors {
		terms[i] = models.FactorTerm{Prime: f.Prime, Power: f.Power}
	}
	return terms
}

// IsHelpError reports whether err came from the -h/--help flag, which is
// not a failure.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
