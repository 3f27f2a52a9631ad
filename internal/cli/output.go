// Package cli provides output utilities for exporting factorization results.
package cli

import (
	"fmt"
	"io"
	"math/bits"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/primefac/internal/factorint"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// HexOutput displays the input and factors in hexadecimal format.
	HexOutput bool
	// Quiet mode suppresses verbose output.
	Quiet bool
	// Verbose shows the per-factor table.
	Verbose bool
}

// FormatIdentityLine renders the full factorization identity, e.g.
// "600851475143 = 71 · 839 · 1471 · 6857" or, in hexadecimal,
// "0x8be589eac7 = 0x47 · 0x347 · 0x5bf · 0x1ac9". Zero has no prime
// factorization and renders bare.
//
// Parameters:
//   - factors: The factor terms in canonical order.
//   - n: The input value.
//   - hexOutput: Whether to render in hexadecimal.
//
// Returns:
//   - string: The rendered identity line.
func FormatIdentityLine(factors []factorint.Factor, n uint64, hexOutput bool) string {
	if hexOutput {
		if n == 0 {
			return "0x0"
		}
		return fmt.Sprintf("0x%x = %s", n, FormatFactorizationHex(factors))
	}
	if n == 0 {
		return "0"
	}
	return fmt.Sprintf("%d = %s", n, FormatFactorization(factors))
}

// WriteResultToFile writes a factorization result to a file.
//
// Parameters:
//   - factors: The factor terms in canonical order.
//   - n: The input value that was factored.
//   - duration: The factorization duration.
//   - algo: The algorithm name used.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(factors []factorint.Factor, n uint64, duration time.Duration, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	// Write header
	fmt.Fprintf(file, "# Prime Factorization Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# N: %d\n", n)
	fmt.Fprintf(file, "# Bits: %d\n", bits.Len64(n))
	fmt.Fprintf(file, "# Distinct primes: %d\n", len(factors))
	fmt.Fprintf(file, "# Total multiplicity: %d\n", totalMultiplicity(factors))
	fmt.Fprintf(file, "\n")

	// Write result
	fmt.Fprintf(file, "%s\n", FormatIdentityLine(factors, n, config.HexOutput))

	return nil
}

// FormatQuietResult formats a factorization for quiet mode output.
// Returns a single-line factor list suitable for scripting, without the
// "n =" prefix, e.g. "2^2 · 3" or "0x2^2 · 0x3".
//
// Parameters:
//   - factors: The factor terms in canonical order.
//   - n: The input value that was factored.
//   - hexOutput: Whether to format as hexadecimal.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(factors []factorint.Factor, n uint64, hexOutput bool) string {
	if n == 0 {
		if hexOutput {
			return "0x0"
		}
		return "0"
	}
	if hexOutput {
		return FormatFactorizationHex(factors)
	}
	return FormatFactorization(factors)
}

// DisplayQuietResult outputs a factorization in quiet mode (minimal output).
//
// Parameters:
//   - out: The output writer.
//   - factors: The factor terms in canonical order.
//   - n: The input value that was factored.
//   - hexOutput: Whether to format as hexadecimal.
func DisplayQuietResult(out io.Writer, factors []factorint.Factor, n uint64, hexOutput bool) {
	fmt.Fprintln(out, FormatQuietResult(factors, n, hexOutput))
}

// DisplayResultWithConfig displays a factorization with the given output
// configuration. This is a unified function that handles all output modes.
//
// Parameters:
//   - out: The output writer.
//   - factors: The factor terms in canonical order.
//   - n: The input value that was factored.
//   - duration: The factorization duration.
//   - algo: The algorithm name.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, factors []factorint.Factor, n uint64, duration time.Duration, algo string, config OutputConfig) error {
	// Handle quiet mode
	if config.Quiet {
		DisplayQuietResult(out, factors, n, config.HexOutput)
	} else {
		// Use standard display
		DisplayResult(factors, n, duration, config.Verbose, true, out)

		// Show hex format if requested
		if config.HexOutput {
			fmt.Fprintf(out, "\n%sHexadecimal format:%s\n", ColorBold(), ColorReset())
			fmt.Fprintf(out, "%s%s%s\n", ColorGreen(), FormatIdentityLine(factors, n, true), ColorReset())
		}
	}

	// Save to file if requested
	if config.OutputFile != "" {
		if err := WriteResultToFile(factors, n, duration, algo, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ColorGreen(), ColorCyan(), config.OutputFile, ColorReset())
		}
	}

	return nil
}
