package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agbru/primefac/internal/factorint"
	"github.com/agbru/primefac/internal/testutil"
)

func TestNewREPL(t *testing.T) {
	t.Parallel()
	registry := map[string]factorint.Factorizer{
		"rho": &factorint.MockFactorizer{},
	}
	config := REPLConfig{
		DefaultAlgo: "rho",
	}

	repl := NewREPL(registry, config)
	if repl == nil {
		t.Fatal("NewREPL returned nil")
	}
	if repl.currentAlgo != "rho" {
		t.Errorf("Expected default algo 'rho', got '%s'", repl.currentAlgo)
	}
}

func TestNewREPL_DefaultAlgo(t *testing.T) {
	t.Parallel()
	registry := map[string]factorint.Factorizer{
		"rho": &factorint.MockFactorizer{},
	}
	config := REPLConfig{
		DefaultAlgo: "", // Empty default
	}

	repl := NewREPL(registry, config)
	if repl.currentAlgo == "" {
		t.Error("Should have picked an available algorithm")
	}
}

func TestProcessCommand(t *testing.T) {
	registry := map[string]factorint.Factorizer{
		"mock": &factorint.MockFactorizer{
			Result: []factorint.Factor{{Prime: 2, Power: 1}, {Prime: 5, Power: 1}},
		},
	}
	config := REPLConfig{
		DefaultAlgo: "mock",
		Timeout:     time.Second,
	}

	repl := NewREPL(registry, config)
	var out bytes.Buffer
	repl.SetOutput(&out)

	// Strip colors for testing
	strip := testutil.StripAnsiCodes

	t.Run("factor", func(t *testing.T) {
		repl.processCommand("factor 10")
		// The mock returns the factorization of 10 regardless of input.
		output := strip(out.String())
		if !strings.Contains(output, "10 = 2 · 5") {
			t.Errorf("Expected factorization output '10 = 2 · 5', got %s", output)
		}
		out.Reset()
	})

	t.Run("factor shorthand", func(t *testing.T) {
		// The static mock always reports the same factors; switch to a
		// dynamic mock so the identity line tracks the requested input.
		dynamicMock := &factorint.MockFactorizer{
			Fn: func(ctx context.Context, n uint64) ([]factorint.Factor, error) {
				return []factorint.Factor{{Prime: n, Power: 1}}, nil
			},
		}
		repl.registry = map[string]factorint.Factorizer{"mock": dynamicMock}

		repl.processCommand("f 5")
		output := strip(out.String())
		if !strings.Contains(output, "5 = 5") {
			t.Errorf("Expected factorization output '5 = 5', got %s", output)
		}
		out.Reset()
	})

	t.Run("algo", func(t *testing.T) {
		repl.processCommand("algo mock")
		if !strings.Contains(out.String(), "Algorithm changed to") {
			t.Error("Expected algorithm change message")
		}
		out.Reset()
	})

	t.Run("seed", func(t *testing.T) {
		repl.processCommand("seed 42")
		if !strings.Contains(out.String(), "Rho seed set to") {
			t.Error("Expected seed change message")
		}
		if repl.config.Seed != 42 {
			t.Errorf("Seed should be 42, got %d", repl.config.Seed)
		}
		out.Reset()

		repl.processCommand("seed 0")
		if !strings.Contains(out.String(), "Rho seed restored") {
			t.Error("Expected seed reset message")
		}
		out.Reset()
	})

	t.Run("list", func(t *testing.T) {
		repl.processCommand("list")
		if !strings.Contains(out.String(), "Available algorithms") {
			t.Error("Expected list output")
		}
		out.Reset()
	})

	t.Run("status", func(t *testing.T) {
		repl.processCommand("status")
		if !strings.Contains(out.String(), "Current configuration") {
			t.Error("Expected status output")
		}
		out.Reset()
	})

	t.Run("hex", func(t *testing.T) {
		repl.config.HexOutput = false // Ensure starts false
		repl.processCommand("hex")
		if !strings.Contains(out.String(), "Hexadecimal display:") {
			t.Error("Expected hex status message")
		}
		if !repl.config.HexOutput {
			t.Error("HexOutput should be true")
		}
		out.Reset()
	})

	t.Run("compare", func(t *testing.T) {
		repl.processCommand("compare 10")
		if !strings.Contains(out.String(), "Comparison for 10") {
			t.Error("Expected comparison output")
		}
		out.Reset()
	})

	t.Run("help", func(t *testing.T) {
		repl.processCommand("help")
		if !strings.Contains(out.String(), "Available commands") {
			t.Error("Expected help output")
		}
		out.Reset()
	})

	t.Run("unknown", func(t *testing.T) {
		repl.processCommand("unknown")
		if !strings.Contains(out.String(), "Unknown command") {
			t.Error("Expected unknown command message")
		}
		out.Reset()
	})

	t.Run("numeric input", func(t *testing.T) {
		// Reset hex output mode which was toggled in previous test
		repl.config.HexOutput = false
		repl.processCommand("20")
		output := strip(out.String())
		if !strings.Contains(output, "20 = 20") {
			t.Errorf("Expected numeric input execution '20 = 20', got %s", output)
		}
		out.Reset()
	})

	t.Run("hex numeric input", func(t *testing.T) {
		// 0x-prefixed numbers go through the same base-0 parsing path
		repl.processCommand("0x14")
		output := strip(out.String())
		if !strings.Contains(output, "20 = 20") {
			t.Errorf("Expected hex input to factor 20, got %s", output)
		}
		out.Reset()
	})

	t.Run("exit", func(t *testing.T) {
		if repl.processCommand("exit") {
			t.Error("Expected exit command to return false")
		}
	})
}

func TestREPLStart(t *testing.T) {
	mock := &factorint.MockFactorizer{
		Fn: func(ctx context.Context, n uint64) ([]factorint.Factor, error) {
			return []factorint.Factor{{Prime: n, Power: 1}}, nil
		},
	}
	registry := map[string]factorint.Factorizer{
		"mock": mock,
	}
	config := REPLConfig{DefaultAlgo: "mock", Timeout: time.Second}
	repl := NewREPL(registry, config)

	// Simulate user input
	input := "factor 5\nexit\n"
	repl.SetInput(strings.NewReader(input))
	var out bytes.Buffer
	repl.SetOutput(&out)

	repl.Start()

	output := testutil.StripAnsiCodes(out.String())
	if !strings.Contains(output, "5 = 5") {
		t.Errorf("Expected factorization output, got %s", output)
	}
	if !strings.Contains(output, "Goodbye!") {
		t.Error("Expected goodbye message")
	}
}
