package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/primefac/internal/config"
	"github.com/agbru/primefac/internal/factorint"
)

// GetFactorizersToRun determines which engines should be executed based on
// the configuration. Returns engines in alphabetically sorted order for
// consistent, reproducible behavior.
//
// Parameters:
//   - cfg: The application configuration containing the algorithm selection.
//   - factory: The engine factory to retrieve implementations from.
//
// Returns:
//   - []factorint.Factorizer: A slice of engines to execute.
func GetFactorizersToRun(cfg config.AppConfig, factory factorint.FactorizerFactory) []factorint.Factorizer {
	if cfg.Algo == "all" {
		keys := factory.List() // List() returns sorted keys
		factorizers := make([]factorint.Factorizer, 0, len(keys))
		for _, k := range keys {
			if fac, err := factory.Get(k); err == nil {
				factorizers = append(factorizers, fac)
			}
		}
		return factorizers
	}
	if fac, err := factory.Get(cfg.Algo); err == nil {
		return []factorint.Factorizer{fac}
	}
	return nil
}

// PrintExecutionConfig displays the current execution configuration to the user.
// It shows the number to factor, timeout, environment details, and the
// parameters of the randomized factor search.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	seed := cfg.Seed
	if seed == 0 {
		seed = factorint.DefaultSeed
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = factorint.DefaultMaxRetries
	}
	writeOut(out, "--- Execution Configuration ---\n")
	writeOut(out, "Factoring %sn = %d%s with a timeout of %s%s%s.\n",
		ColorMagenta(), cfg.N, ColorReset(), ColorYellow(), cfg.Timeout, ColorReset())
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
	writeOut(out, "Rho parameters: seed=%s%d%s, retry budget=%s%d%s.\n",
		ColorCyan(), seed, ColorReset(), ColorCyan(), retries, ColorReset())
}

// PrintExecutionMode displays the execution mode (single algorithm vs comparison).
//
// Parameters:
//   - factorizers: The slice of engines that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(factorizers []factorint.Factorizer, out io.Writer) {
	var modeDesc string
	if len(factorizers) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single factorization with the %s%s%s algorithm",
			ColorGreen(), factorizers[0].Name(), ColorReset())
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

// writeOut writes a formatted string to the output writer.
//
// Parameters:
//   - out: The destination writer.
//   - format: The format string (see fmt.Printf).
//   - a: Arguments for the format string.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
