// Package config provides the configuration management for the primefac application.
// It defines the data structure for the configuration, handles the parsing of
// command-line arguments, and performs validation on the configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/primefac/internal/errors"
	"github.com/agbru/primefac/internal/factorint"
)

const (
	// EnvPrefix is the prefix for all environment variables used by primefac.
	// Environment variables provide an alternative to CLI flags for configuration,
	// following the 12-Factor App methodology.
	EnvPrefix = "PRIMEFAC_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultN is the default number to factor (71 · 839 · 1471 · 6857).
	DefaultN uint64 = 600_851_475_143
	// DefaultTimeout is the default factorization timeout.
	DefaultTimeout = 1 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultAlgo is the default algorithm selection.
	DefaultAlgo = "all"
)

// AppConfig aggregates the application's configuration parameters, parsed from
// command-line flags. It encapsulates all settings that control the execution,
// from the number to factor, to the Pollard rho tuning parameters.
type AppConfig struct {
	// N is the unsigned 64-bit integer to decompose into prime factors.
	N uint64
	// Verbose, if true, instructs the application to display the full factor table.
	Verbose bool
	// Details, if true, provides a detailed report including performance metrics.
	Details bool
	// Timeout sets the maximum duration for the factorization.
	Timeout time.Duration
	// Algo specifies the algorithm to use ("all", "rho", "trial").
	Algo string
	// Seed is the initial state of the xorshift64 generator feeding Pollard's
	// rho. Zero selects the built-in default seed.
	Seed uint64
	// MaxRetries bounds the number of reseeded rho attempts per composite
	// before the factorization is abandoned. Zero selects the default budget.
	MaxRetries int
	// Calibrate, if true, runs the application in calibration mode to measure
	// the arithmetic kernel throughput of the current machine.
	Calibrate bool
	// AutoCalibrate, if true, runs a quick startup benchmark when no cached
	// calibration profile exists, improving duration estimates.
	AutoCalibrate bool
	// CalibrationProfile is the path to a calibration profile file.
	// If set, the application will load/save calibration results from/to this file.
	// If empty, uses the default path (~/.primefac_calibration.json).
	CalibrationProfile string
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool

	// OutputFile, if specified, saves the result to this file path.
	OutputFile string
	// Quiet mode - minimal output for scripting purposes.
	// Suppresses progress bars, banners, and informational messages.
	Quiet bool
	// HexOutput, if true, displays the factors in hexadecimal format.
	HexOutput bool
	// Interactive, if true, starts the application in REPL mode.
	Interactive bool
	// Completion, if set, generates shell completion script for the specified shell.
	// Valid values are: "bash", "zsh", "fish", "powershell".
	Completion string
}

// ToFactorizationOptions converts the application configuration into
// factorint.Options for use by the factorizers.
func (c AppConfig) ToFactorizationOptions() factorint.Options {
	return factorint.Options{
		Seed:       c.Seed,
		MaxRetries: c.MaxRetries,
	}
}

// Validate checks the semantic consistency of the configuration parameters.
// It ensures that numerical values are within valid ranges and that the chosen
// algorithm is supported.
//
// Parameters:
//   - availableAlgos: A slice of strings listing the valid algorithm names
//     (e.g., ["rho", "trial"]).
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.MaxRetries < 0 {
		return apperrors.NewConfigError("retry budget cannot be negative: %d", c.MaxRetries)
	}
	isAlgoAvailable := false
	for _, a := range availableAlgos {
		if a == c.Algo {
			isAlgoAvailable = true
			break
		}
	}
	if c.Algo != "all" && !isAlgoAvailable {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values, and
// handles the parsing process. After parsing, it performs validation on the
// resulting configuration.
//
// The function is designed to be testable by allowing the input arguments and
// output writer to be specified.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//   - availableAlgos: A slice of valid algorithm names for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.Uint64Var(&config.N, "n", DefaultN, "Number to factor, decimal or 0x-prefixed hexadecimal.")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full factor table with primality details.")
	fs.BoolVar(&config.Details, "d", false, "Display performance details and result metadata.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the factorization.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.Uint64Var(&config.Seed, "seed", 0, "Seed for the Pollard rho pseudo-random walk (0 = built-in default).")
	fs.IntVar(&config.MaxRetries, "retries", factorint.DefaultMaxRetries, "Maximum reseeded rho attempts per composite.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Runs calibration mode to measure arithmetic kernel throughput.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Run a quick startup benchmark when no cached calibration profile exists.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to calibration profile file (default: ~/.primefac_calibration.json).")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")

	// CLI enhancement flags
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.HexOutput, "hex", false, "Display factors in hexadecimal format.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
