// Package cli provides the REPL (Read-Eval-Print Loop) functionality
// for interactive prime factorization.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/primefac/internal/factorint"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the default algorithm to use for factorizations.
	DefaultAlgo string
	// Timeout is the maximum duration for each factorization.
	Timeout time.Duration
	// Seed is the xorshift64 state feeding the rho walk (0 = built-in default).
	Seed uint64
	// MaxRetries bounds the reseeded rho attempts per composite (0 = default).
	MaxRetries int
	// HexOutput displays results in hexadecimal format.
	HexOutput bool
}

// REPL represents an interactive factorization session.
type REPL struct {
	config      REPLConfig
	registry    map[string]factorint.Factorizer
	currentAlgo string
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - registry: Map of available engines.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(registry map[string]factorint.Factorizer, config REPLConfig) *REPL {
	currentAlgo := config.DefaultAlgo
	if currentAlgo == "" || currentAlgo == "all" {
		// Pick the first available algorithm as default
		for name := range registry {
			currentAlgo = name
			break
		}
	}

	return &REPL{
		config:      config,
		registry:    registry,
		currentAlgo: currentAlgo,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start begins the interactive REPL session.
// It continuously reads user input and processes commands until
// the user exits or EOF is reached.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ColorGreen()+"factor> "+ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ColorRed(), err, ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(input) {
			return // Exit command received
		}
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s🔢 Prime Factorizer - Interactive Mode%s                %s║%s\n",
		ColorCyan(), ColorReset(), ColorBold(), ColorReset(), ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ColorCyan(), ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  %sfactor <n>%s    - Factor n with current algorithm\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %salgo <name>%s   - Change algorithm (%s)\n", ColorYellow(), ColorReset(), r.getAlgoList())
	fmt.Fprintf(r.out, "  %sseed <value>%s  - Set the rho seed (0 restores the default)\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %scompare <n>%s   - Compare all algorithms on n\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %slist%s          - List available algorithms\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %shex%s           - Toggle hexadecimal display\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s        - Display current configuration\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s          - Display this help\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s  - Exit interactive mode\n", ColorYellow(), ColorReset(), ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "Numbers may be decimal or 0x-prefixed hexadecimal.\n")
}

// getAlgoList returns a comma-separated list of available algorithms.
func (r *REPL) getAlgoList() string {
	algos := make([]string, 0, len(r.registry))
	for name := range r.registry {
		algos = append(algos, name)
	}
	return strings.Join(algos, ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "factor", "f":
		r.cmdFactor(args)
	case "algo", "a":
		r.cmdAlgo(args)
	case "seed":
		r.cmdSeed(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "list", "ls":
		r.cmdList()
	case "hex":
		r.cmdHex()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ColorGreen(), ColorReset())
		return false
	default:
		// Try to interpret as a number for quick factorization
		if n, err := strconv.ParseUint(cmd, 0, 64); err == nil {
			r.factorize(n)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ColorRed(), cmd, ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ColorYellow(), ColorReset())
		}
	}

	return true
}

// cmdFactor handles the "factor" command.
func (r *REPL) cmdFactor(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: factor <n>%s\n", ColorRed(), ColorReset())
		return
	}

	n, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ColorRed(), args[0], ColorReset())
		return
	}

	r.factorize(n)
}

// factorize performs a factorization with the current algorithm.
func (r *REPL) factorize(n uint64) {
	fac, ok := r.registry[r.currentAlgo]
	if !ok {
		fmt.Fprintf(r.out, "%sAlgorithm not found: %s%s\n", ColorRed(), r.currentAlgo, ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Factoring %s%d%s with %s%s%s...\n",
		ColorMagenta(), n, ColorReset(),
		ColorCyan(), fac.Name(), ColorReset())

	opts := factorint.Options{
		Seed:       r.config.Seed,
		MaxRetries: r.config.MaxRetries,
	}

	// Create a progress channel
	progressChan := make(chan factorint.ProgressUpdate, 10)

	// Use DisplayProgress to show a spinner and progress bar
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, 0, r.out)

	start := time.Now()
	factors, err := fac.Factorize(ctx, progressChan, 0, n, opts)
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()

	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ColorRed(), err, ColorReset())
		return
	}

	canonical := factorint.Canonical(factors)
	durationStr := FormatExecutionDuration(duration)

	// Display result
	fmt.Fprintf(r.out, "\n%sResult:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Time: %s%s%s\n", ColorGreen(), durationStr, ColorReset())
	fmt.Fprintf(r.out, "  Bits: %s%d%s\n", ColorCyan(), bits.Len64(n), ColorReset())
	fmt.Fprintf(r.out, "  Distinct primes: %s%d%s\n", ColorCyan(), len(canonical), ColorReset())
	fmt.Fprintf(r.out, "  %s%s%s\n", ColorGreen(), FormatIdentityLine(canonical, n, r.config.HexOutput), ColorReset())
	fmt.Fprintln(r.out)
}

// cmdAlgo handles the "algo" command.
func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ColorRed(), ColorReset())
		fmt.Fprintf(r.out, "Available algorithms: %s\n", r.getAlgoList())
		return
	}

	name := strings.ToLower(args[0])
	if _, ok := r.registry[name]; !ok {
		fmt.Fprintf(r.out, "%sUnknown algorithm: %s%s\n", ColorRed(), name, ColorReset())
		fmt.Fprintf(r.out, "Available algorithms: %s\n", r.getAlgoList())
		return
	}

	r.currentAlgo = name
	fmt.Fprintf(r.out, "Algorithm changed to: %s%s%s\n", ColorGreen(), r.registry[name].Name(), ColorReset())
}

// cmdSeed handles the "seed" command.
func (r *REPL) cmdSeed(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: seed <value>%s\n", ColorRed(), ColorReset())
		return
	}

	seed, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid seed: %s%s\n", ColorRed(), args[0], ColorReset())
		return
	}

	r.config.Seed = seed
	if seed == 0 {
		fmt.Fprintf(r.out, "Rho seed restored to the built-in default.\n")
	} else {
		fmt.Fprintf(r.out, "Rho seed set to: %s%d%s\n", ColorGreen(), seed, ColorReset())
	}
}

// cmdCompare handles the "compare" command. Engines may report the same
// factorization with different term orderings, so results are compared in
// canonical form.
func (r *REPL) cmdCompare(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: compare <n>%s\n", ColorRed(), ColorReset())
		return
	}

	n, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ColorRed(), args[0], ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for %d:%s\n", ColorBold(), n, ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ColorCyan(), ColorReset())

	opts := factorint.Options{
		Seed:       r.config.Seed,
		MaxRetries: r.config.MaxRetries,
	}

	var firstResult string

	for name, fac := range r.registry {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)

		// Create a progress channel for this factorization
		progressChan := make(chan factorint.ProgressUpdate, 10)
		go func() {
			for range progressChan {
				// Discard progress updates
			}
		}()

		start := time.Now()
		factors, err := fac.Factorize(ctx, progressChan, 0, n, opts)
		duration := time.Since(start)
		close(progressChan)
		cancel()

		if err != nil {
			fmt.Fprintf(r.out, "  %s%-20s%s: %sError - %v%s\n",
				ColorYellow(), name, ColorReset(),
				ColorRed(), err, ColorReset())
			continue
		}

		durationStr := FormatExecutionDuration(duration)
		resultStr := FormatFactorization(factorint.Canonical(factors))

		if firstResult == "" {
			firstResult = resultStr
		}

		// Check consistency
		status := ColorGreen() + "✓" + ColorReset()
		if resultStr != firstResult {
			status = ColorRed() + "✗ INCONSISTENT" + ColorReset()
		}

		fmt.Fprintf(r.out, "  %s%-20s%s: %s%12s%s %s %s\n",
			ColorYellow(), name, ColorReset(),
			ColorCyan(), durationStr, ColorReset(),
			status, resultStr)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ColorCyan(), ColorReset())
}

// cmdList handles the "list" command.
func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable algorithms:%s\n", ColorBold(), ColorReset())
	for name, fac := range r.registry {
		marker := "  "
		if name == r.currentAlgo {
			marker = ColorGreen() + "► " + ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ColorYellow(), name, ColorReset(), fac.Name())
	}
	fmt.Fprintln(r.out)
}

// cmdHex toggles hexadecimal output mode.
func (r *REPL) cmdHex() {
	r.config.HexOutput = !r.config.HexOutput
	status := "disabled"
	if r.config.HexOutput {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "Hexadecimal display: %s%s%s\n", ColorGreen(), status, ColorReset())
}

// cmdStatus displays current REPL configuration.
func (r *REPL) cmdStatus() {
	seed := "default"
	if r.config.Seed != 0 {
		seed = strconv.FormatUint(r.config.Seed, 10)
	}
	retries := "default"
	if r.config.MaxRetries > 0 {
		retries = strconv.Itoa(r.config.MaxRetries)
	}
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Algorithm:      %s%s%s\n", ColorCyan(), r.currentAlgo, ColorReset())
	fmt.Fprintf(r.out, "  Timeout:        %s%s%s\n", ColorCyan(), r.config.Timeout, ColorReset())
	fmt.Fprintf(r.out, "  Rho seed:       %s%s%s\n", ColorCyan(), seed, ColorReset())
	fmt.Fprintf(r.out, "  Retry budget:   %s%s%s\n", ColorCyan(), retries, ColorReset())
	hexStatus := "no"
	if r.config.HexOutput {
		hexStatus = "yes"
	}
	fmt.Fprintf(r.out, "  Hexadecimal:    %s%s%s\n", ColorCyan(), hexStatus, ColorReset())
	fmt.Fprintln(r.out)
}
