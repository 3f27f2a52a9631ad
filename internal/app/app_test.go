package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/primefac/internal/calibration"
	"github.com/agbru/primefac/internal/cli"
	"github.com/agbru/primefac/internal/config"
	apperrors "github.com/agbru/primefac/internal/errors"
	"github.com/agbru/primefac/internal/factorint"
	"github.com/agbru/primefac/internal/orchestration"
	"github.com/agbru/primefac/internal/testutil"
)

// Helper to create a test factory with a mocked engine registered under
// both real engine names, so Algo "all" selects two of them.
func createMockFactory(factors []factorint.Factor, err error) *factorint.TestFactory {
	mockFac := &factorint.MockFactorizer{
		Result: factors,
		Err:    err,
	}
	return factorint.NewTestFactory(map[string]factorint.Factorizer{
		"rho":   mockFac,
		"trial": mockFac,
	})
}

// factorsOf55 is the canonical factorization used by the mock engines.
func factorsOf55() []factorint.Factor {
	return []factorint.Factor{{Prime: 5, Power: 1}, {Prime: 11, Power: 1}}
}

// TestNew tests the New function for creating Application instances.
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("Valid args create application", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{"primefac", "-n", "100"}

		app, err := New(args, &errBuf)

		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if app == nil {
			t.Fatal("New() returned nil application")
		}
		if app.Config.N != 100 {
			t.Errorf("Expected N=100, got N=%d", app.Config.N)
		}
		if app.Factory == nil {
			t.Error("Factory should not be nil")
		}
	})

	t.Run("Invalid args return error", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{"primefac", "-invalid-flag"}

		app, err := New(args, &errBuf)

		if err == nil {
			t.Error("New() should return error for invalid args")
		}
		if app != nil {
			t.Error("New() should return nil application on error")
		}
	})

	t.Run("Help flag returns error", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{"primefac", "-h"}

		_, err := New(args, &errBuf)

		if err == nil {
			t.Error("New() should return error for help flag")
		}
		if !IsHelpError(err) {
			t.Error("Error should be a help error")
		}
	})

	t.Run("Empty args slice handled correctly", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{}

		app, err := New(args, &errBuf)

		// Empty args should still work - it will use default program name
		// and empty command args, which should parse to default config
		if err != nil {
			t.Errorf("New() should handle empty args without error, got: %v", err)
		}
		if app == nil {
			t.Fatal("New() should return application even with empty args")
		}
		if app.Config.N != 600_851_475_143 {
			t.Errorf("Expected default N=600851475143, got N=%d", app.Config.N)
		}
	})

	t.Run("Cached calibration profile is loaded", func(t *testing.T) {
		t.Parallel()
		profilePath := filepath.Join(t.TempDir(), "profile.json")
		p := calibration.NewProfile()
		p.MulModOpsPerSec = 100e6
		p.RhoStepsPerSec = 40e6
		p.TrialDivsPerSec = 200e6
		if err := p.SaveProfile(profilePath); err != nil {
			t.Fatalf("SaveProfile failed: %v", err)
		}

		var errBuf bytes.Buffer
		args := []string{"primefac", "-n", "100", "-calibration-profile", profilePath}

		app, err := New(args, &errBuf)
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if app.Profile == nil {
			t.Fatal("Profile should be loaded from the cached file")
		}
		if app.Profile.MulModOpsPerSec != 100e6 {
			t.Errorf("Expected cached MulMod rate 100e6, got %g", app.Profile.MulModOpsPerSec)
		}
	})
}

// TestApplicationRun tests the Application.Run method.
// Optimized to use MockFactorizer via TestFactory.
func TestApplicationRun(t *testing.T) {
	t.Parallel()
	// Reusable factory for success cases
	successFactory := createMockFactory(factorsOf55(), nil)

	t.Run("Simple execution with success", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		app := &Application{
			Config: config.AppConfig{
				N:       55,
				Algo:    "rho",
				Timeout: 1 * time.Minute,
				Details: true,
			},
			Factory:   successFactory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		if !strings.Contains(output, "55 = 5 · 11") {
			t.Errorf("Output should contain '55 = 5 · 11'. Output:\n%s", output)
		}
	})

	t.Run("Parallel comparison with success", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		app := &Application{
			Config: config.AppConfig{
				N:       55,
				Algo:    "all",
				Timeout: 1 * time.Minute,
				Details: true,
			},
			Factory:   successFactory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		if !strings.Contains(output, "Comparison Summary") {
			t.Errorf("Output should contain 'Comparison Summary'. Output:\n%s", output)
		}
		if !strings.Contains(output, "Global Status: Success") {
			t.Errorf("Output should contain 'Global Status: Success'. Output:\n%s", output)
		}
	})

	t.Run("Timeout failure", func(t *testing.T) {
		var outBuf bytes.Buffer

		// Mock blocking engine to respect context timeout
		mockFac := &factorint.MockFactorizer{
			Fn: func(ctx context.Context, n uint64) ([]factorint.Factor, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		factory := factorint.NewTestFactory(map[string]factorint.Factorizer{"rho": mockFac})

		app := &Application{
			Config: config.AppConfig{
				N:       18_446_744_073_709_551_557,
				Algo:    "rho",
				Timeout: 1 * time.Millisecond,
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitErrorTimeout {
			t.Errorf("Expected exit code %d (timeout), got %d", apperrors.ExitErrorTimeout, exitCode)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		if !strings.Contains(output, "Timeout") {
			t.Errorf("Output should mention timeout. Output:\n%s", output)
		}
	})

	t.Run("Context cancellation", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer

		// Mock blocking engine
		mockFac := &factorint.MockFactorizer{
			Fn: func(ctx context.Context, n uint64) ([]factorint.Factor, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		factory := factorint.NewTestFactory(map[string]factorint.Factorizer{"rho": mockFac})

		app := &Application{
			Config: config.AppConfig{
				N:       18_446_744_073_709_551_557,
				Algo:    "rho",
				Timeout: 1 * time.Minute,
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		exitCode := app.Run(ctx, &outBuf)

		if exitCode != apperrors.ExitErrorCanceled {
			t.Errorf("Expected exit code %d (canceled), got %d", apperrors.ExitErrorCanceled, exitCode)
		}
	})

	t.Run("JSON output mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		app := &Application{
			Config: config.AppConfig{
				N:          55,
				Algo:       "rho",
				Timeout:    1 * time.Minute,
				JSONOutput: true,
			},
			Factory:   successFactory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := outBuf.String()
		if !strings.HasPrefix(strings.TrimSpace(output), "[") {
			t.Errorf("JSON mode should emit nothing but the JSON array. Output:\n%s", output)
		}
		if !strings.Contains(output, `"algorithm"`) {
			t.Errorf("JSON output should contain 'algorithm' field. Output:\n%s", output)
		}
		if !strings.Contains(output, `"factors"`) {
			t.Errorf("JSON output should contain 'factors' field. Output:\n%s", output)
		}
	})

	t.Run("Quiet mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		app := &Application{
			Config: config.AppConfig{
				N:       55,
				Algo:    "rho",
				Timeout: 1 * time.Minute,
				Quiet:   true,
			},
			Factory:   successFactory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := outBuf.String()
		// Quiet mode should output just the factor list
		if !strings.Contains(output, "5 · 11") {
			t.Errorf("Quiet output should contain the factors '5 · 11'. Output:\n%s", output)
		}
		if strings.Contains(output, "Execution Configuration") {
			t.Errorf("Quiet output should not contain the banner. Output:\n%s", output)
		}
	})
}

// TestIsHelpError tests the IsHelpError function.
func TestIsHelpError(t *testing.T) {
	t.Parallel()
	var errBuf bytes.Buffer
	args := []string{"primefac", "-h"}

	_, err := New(args, &errBuf)

	if !IsHelpError(err) {
		t.Error("IsHelpError should return true for help flag error")
	}
}

// TestRunCompletion tests the completion script generation.
func TestRunCompletion(t *testing.T) {
	t.Parallel()
	var outBuf bytes.Buffer
	app := &Application{
		Config: config.AppConfig{
			Completion: "bash",
		},
		Factory:   factorint.GlobalFactory(),
		ErrWriter: &bytes.Buffer{},
	}

	exitCode := app.Run(context.Background(), &outBuf)

	if exitCode != apperrors.ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}
	output := outBuf.String()
	if !strings.Contains(output, "bash") && !strings.Contains(output, "complete") {
		t.Errorf("Output should contain bash completion script. Got:\n%s", output)
	}
}

// TestRunCompletionInvalid tests invalid completion shell.
func TestRunCompletionInvalid(t *testing.T) {
	t.Parallel()
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	app := &Application{
		Config: config.AppConfig{
			Completion: "invalid-shell",
		},
		Factory:   factorint.GlobalFactory(),
		ErrWriter: &errBuf,
	}

	exitCode := app.Run(context.Background(), &outBuf)

	if exitCode == apperrors.ExitSuccess {
		t.Error("Expected error exit code for invalid shell")
	}
}

// TestPrintJSONResults tests the JSON output formatting.
func TestPrintJSONResults(t *testing.T) {
	t.Parallel()
	var outBuf bytes.Buffer
	factory := createMockFactory(factorsOf55(), nil)

	app := &Application{
		Config: config.AppConfig{
			N:          55,
			Algo:       "rho",
			Timeout:    1 * time.Minute,
			JSONOutput: true,
		},
		Factory:   factory,
		ErrWriter: &bytes.Buffer{},
	}

	exitCode := app.Run(context.Background(), &outBuf)

	if exitCode != apperrors.ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}

	output := outBuf.String()
	// Verify JSON structure
	if !strings.Contains(output, `"algorithm"`) {
		t.Error("JSON output should contain 'algorithm' field")
	}
	if !strings.Contains(output, `"duration_ms"`) {
		t.Error("JSON output should contain 'duration_ms' field")
	}
	if !strings.Contains(output, `"factors"`) {
		t.Error("JSON output should contain 'factors' field")
	}
	// 55 = 5 · 11
	if !strings.Contains(output, `"prime": 5`) {
		t.Errorf("JSON output should contain the prime 5. Got:\n%s", output)
	}
	if !strings.Contains(output, `"prime": 11`) {
		t.Errorf("JSON output should contain the prime 11. Got:\n%s", output)
	}
}

// TestHexOutput tests hexadecimal output mode.
func TestHexOutput(t *testing.T) {
	t.Parallel()
	var outBuf bytes.Buffer
	factory := createMockFactory(factorsOf55(), nil)

	app := &Application{
		Config: config.AppConfig{
			N:         55,
			Algo:      "rho",
			Timeout:   1 * time.Minute,
			HexOutput: true,
			Details:   true,
		},
		Factory:   factory,
		ErrWriter: &bytes.Buffer{},
	}

	exitCode := app.Run(context.Background(), &outBuf)

	if exitCode != apperrors.ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}

	output := testutil.StripAnsiCodes(outBuf.String())
	if !strings.Contains(output, "Hexadecimal") || !strings.Contains(output, "0x37") {
		t.Errorf("Output should contain hexadecimal format. Got:\n%s", output)
	}
}

// TestRunAutoCalibrationDisabled tests that auto-calibration doesn't run when disabled.
func TestRunAutoCalibrationDisabled(t *testing.T) {
	t.Parallel()
	var outBuf bytes.Buffer
	factory := createMockFactory(factorsOf55(), nil)
	app := &Application{
		Config: config.AppConfig{
			N:             55,
			Algo:          "rho",
			Timeout:       1 * time.Minute,
			AutoCalibrate: false, // Disabled
		},
		Factory:   factory,
		ErrWriter: &bytes.Buffer{},
	}

	exitCode := app.Run(context.Background(), &outBuf)

	if exitCode != apperrors.ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}
	if app.Profile != nil {
		t.Error("Profile should stay nil when auto-calibration is disabled")
	}
}

// TestMultipleAlgorithms tests running all algorithms.
func TestMultipleAlgorithms(t *testing.T) {
	t.Parallel()
	var outBuf bytes.Buffer
	factory := createMockFactory(factorsOf55(), nil)
	app := &Application{
		Config: config.AppConfig{
			N:       55,
			Algo:    "all",
			Timeout: 1 * time.Minute,
			Details: true,
		},
		Factory:   factory,
		ErrWriter: &bytes.Buffer{},
	}

	exitCode := app.Run(context.Background(), &outBuf)

	if exitCode != apperrors.ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}

	output := testutil.StripAnsiCodes(outBuf.String())
	if !strings.Contains(output, "Comparison Summary") {
		t.Errorf("Output should contain comparison summary. Got:\n%s", output)
	}
}

// TestSetupSignals tests the SetupSignals function.
func TestSetupSignals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctxWithSignals, stop := SetupSignals(ctx)
	defer stop()

	// Context should not be nil
	if ctxWithSignals == nil {
		t.Error("Context should not be nil")
	}

	// Stop should not panic
	stop()
}

func TestAnalyzeResultsWithOutputFile(t *testing.T) {
	t.Parallel()
	outputPath := filepath.Join(t.TempDir(), "result.txt")

	app := &Application{
		Config: config.AppConfig{
			N:          55,
			OutputFile: outputPath,
		},
		Factory:   factorint.GlobalFactory(),
		ErrWriter: &bytes.Buffer{},
	}

	results := []orchestration.FactorizationResult{
		{
			Name:     "rho",
			Factors:  factorsOf55(),
			Duration: 1 * time.Millisecond,
			Err:      nil,
		},
	}

	var outBuf bytes.Buffer
	outputCfg := cli.OutputConfig{
		OutputFile: outputPath,
	}

	exitCode := app.analyzeResultsWithOutput(results, outputCfg, &outBuf)
	if exitCode != apperrors.ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}

	// Verify file exists and holds the identity
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Output file %s was not created: %v", outputPath, err)
	}
	if !strings.Contains(string(data), "55 = 5 · 11") {
		t.Errorf("Output file should contain the identity. Got:\n%s", data)
	}
	if !strings.Contains(testutil.StripAnsiCodes(outBuf.String()), "Result saved to") {
		t.Errorf("Output should confirm the file export. Got:\n%s", outBuf.String())
	}
}

func TestAnalyzeResultsWithOutputVariety(t *testing.T) {
	t.Parallel()
	app := &Application{
		Config:    config.AppConfig{N: 55},
		ErrWriter: &bytes.Buffer{},
	}

	// Fresh slice per subtest: the analysis sorts results in place.
	successResults := func() []orchestration.FactorizationResult {
		return []orchestration.FactorizationResult{
			{
				Name:     "rho",
				Factors:  factorsOf55(),
				Duration: 1 * time.Millisecond,
			},
		}
	}

	t.Run("Quiet Mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		outputCfg := cli.OutputConfig{Quiet: true}
		exitCode := app.analyzeResultsWithOutput(successResults(), outputCfg, &outBuf)
		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected success, got %d", exitCode)
		}
		if !strings.Contains(outBuf.String(), "5 · 11") {
			t.Errorf("Expected output '5 · 11', got %s", outBuf.String())
		}
	})

	t.Run("Hex Output", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		outputCfg := cli.OutputConfig{HexOutput: true}
		exitCode := app.analyzeResultsWithOutput(successResults(), outputCfg, &outBuf)
		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected success, got %d", exitCode)
		}
		if !strings.Contains(outBuf.String(), "0x37") { // 55 in hex is 37
			t.Errorf("Expected hex 0x37, got %s", outBuf.String())
		}
	})

	t.Run("No Success Results", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		resultsErr := []orchestration.FactorizationResult{
			{Name: "err", Err: fmt.Errorf("some error")},
		}
		outputCfg := cli.OutputConfig{}
		exitCode := app.analyzeResultsWithOutput(resultsErr, outputCfg, &outBuf)
		if exitCode == apperrors.ExitSuccess {
			t.Error("Expected error exit code")
		}
	})
}

func TestPrintJSONResultsError(t *testing.T) {
	t.Parallel()
	results := []orchestration.FactorizationResult{
		{
			Name: "fail",
			Err:  fmt.Errorf("intentional failure"),
		},
	}
	var outBuf bytes.Buffer
	exitCode := printJSONResults(results, 55, &outBuf)
	if exitCode != apperrors.ExitSuccess {
		t.Errorf("Expected success, got %d", exitCode)
	}
	if !strings.Contains(outBuf.String(), "intentional failure") {
		t.Errorf("Expected error in JSON, got %s", outBuf.String())
	}
}

// TestRunServer tests the runServer method.
func TestRunServer(t *testing.T) {
	t.Parallel()

	t.Run("Server starts successfully", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		factory := createMockFactory(factorsOf55(), nil)

		app := &Application{
			Config: config.AppConfig{
				ServerMode: true,
				Port:       "0", // Use port 0 for automatic port assignment
			},
			Factory:   factory,
			ErrWriter: &errBuf,
		}

		// Start server in a goroutine and stop it quickly
		done := make(chan int, 1)
		go func() {
			done <- app.runServer()
		}()

		// Give server time to start, then signal shutdown
		time.Sleep(50 * time.Millisecond)

		// The server will block waiting for shutdown signal
		// Since we can't easily send signals in tests, we'll just verify
		// that the function doesn't panic and returns eventually
		// In a real scenario, we'd send SIGTERM
		select {
		case exitCode := <-done:
			if exitCode != apperrors.ExitSuccess && exitCode != apperrors.ExitErrorGeneric {
				t.Errorf("Expected exit code %d or %d, got %d",
					apperrors.ExitSuccess, apperrors.ExitErrorGeneric, exitCode)
			}
		case <-time.After(100 * time.Millisecond):
			// Server is running, which is expected behavior
			// We can't easily test graceful shutdown without signals
		}
	})

	// Note: Testing server error handling with invalid port is difficult because
	// the server error path is covered in internal/server package tests.
}

// TestRunREPL tests the runREPL method.
func TestRunREPL(t *testing.T) {
	t.Parallel()

	t.Run("REPL starts successfully", func(t *testing.T) {
		t.Parallel()
		factory := createMockFactory(factorsOf55(), nil)

		app := &Application{
			Config: config.AppConfig{
				Interactive: true,
				Algo:        "rho",
				Timeout:     1 * time.Minute,
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		// Under `go test` stdin reads EOF immediately, so the REPL exits
		// after printing its banner.
		exitCode := app.runREPL()

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
	})
}

// TestRunCalibration tests the runCalibration method.
func TestRunCalibration(t *testing.T) {
	t.Parallel()

	t.Run("Calibration runs successfully", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		factory := createMockFactory(factorsOf55(), nil)

		app := &Application{
			Config: config.AppConfig{
				Calibrate:          true,
				Timeout:            5 * time.Second,
				CalibrationProfile: filepath.Join(t.TempDir(), "profile.json"),
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		exitCode := app.runCalibration(ctx, &outBuf)

		// Calibration may complete or be cut short by the context,
		// both are valid
		if exitCode != apperrors.ExitSuccess &&
			exitCode != apperrors.ExitErrorTimeout &&
			exitCode != apperrors.ExitErrorCanceled {
			t.Errorf("Expected exit code %d, %d, or %d, got %d",
				apperrors.ExitSuccess, apperrors.ExitErrorTimeout,
				apperrors.ExitErrorCanceled, exitCode)
		}
	})

	t.Run("Calibration with context cancellation", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		factory := createMockFactory(factorsOf55(), nil)

		app := &Application{
			Config: config.AppConfig{
				Calibrate:          true,
				Timeout:            1 * time.Minute,
				CalibrationProfile: filepath.Join(t.TempDir(), "profile.json"),
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		exitCode := app.runCalibration(ctx, &outBuf)

		if exitCode != apperrors.ExitErrorCanceled {
			t.Errorf("Expected exit code %d (canceled), got %d",
				apperrors.ExitErrorCanceled, exitCode)
		}
	})
}

// TestRunAutoCalibrationIfEnabled tests the runAutoCalibrationIfEnabled method.
func TestRunAutoCalibrationIfEnabled(t *testing.T) {
	t.Parallel()

	t.Run("Auto-calibration enabled sets a profile", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		factory := createMockFactory(factorsOf55(), nil)

		// Use a temporary profile path to avoid loading existing profiles
		tmpProfile := filepath.Join(t.TempDir(), "profile.json")

		app := &Application{
			Config: config.AppConfig{
				AutoCalibrate:      true,
				Timeout:            5 * time.Second,
				CalibrationProfile: tmpProfile,
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		app.runAutoCalibrationIfEnabled(context.Background(), &outBuf)

		// Either the quick measurement succeeded or the fallback rates
		// were installed; both yield a usable profile.
		if app.Profile == nil {
			t.Fatal("Profile should be set after auto-calibration")
		}
		if !app.Profile.IsValid() {
			t.Error("Auto-calibration should produce a valid profile")
		}
	})

	t.Run("Auto-calibration falls back on canceled context", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		factory := createMockFactory(factorsOf55(), nil)

		tmpProfile := filepath.Join(t.TempDir(), "profile.json")

		app := &Application{
			Config: config.AppConfig{
				AutoCalibrate:      true,
				Timeout:            1 * time.Second,
				CalibrationProfile: tmpProfile,
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		app.runAutoCalibrationIfEnabled(ctx, &outBuf)

		if app.Profile == nil {
			t.Fatal("Fallback profile should be installed when measurement is cut short")
		}
		if !app.Profile.IsValid() {
			t.Error("Fallback profile should be valid")
		}
		if calibration.ProfileExists(tmpProfile) {
			t.Error("Fallback rates should not be persisted")
		}
	})

	t.Run("Auto-calibration disabled leaves profile alone", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		factory := createMockFactory(factorsOf55(), nil)

		sentinel := calibration.FallbackProfile()
		app := &Application{
			Config: config.AppConfig{
				AutoCalibrate: false,
			},
			Factory:   factory,
			Profile:   sentinel,
			ErrWriter: &bytes.Buffer{},
		}

		app.runAutoCalibrationIfEnabled(context.Background(), &outBuf)

		if app.Profile != sentinel {
			t.Error("Profile should remain unchanged when auto-calibration is disabled")
		}
		if outBuf.Len() != 0 {
			t.Errorf("No output expected when auto-calibration is disabled, got %q", outBuf.String())
		}
	})
}

// TestRunAllModes tests the Run method with all different modes.
func TestRunAllModes(t *testing.T) {
	t.Parallel()

	t.Run("Server mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		factory := createMockFactory(factorsOf55(), nil)

		app := &Application{
			Config: config.AppConfig{
				ServerMode: true,
				Port:       "0",
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		done := make(chan int, 1)
		go func() {
			done <- app.Run(context.Background(), &outBuf)
		}()

		select {
		case exitCode := <-done:
			if exitCode != apperrors.ExitSuccess && exitCode != apperrors.ExitErrorGeneric {
				t.Errorf("Expected exit code %d or %d, got %d",
					apperrors.ExitSuccess, apperrors.ExitErrorGeneric, exitCode)
			}
		case <-time.After(100 * time.Millisecond):
			// Server is running, which is expected
		}
	})

	t.Run("REPL mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		factory := createMockFactory(factorsOf55(), nil)

		app := &Application{
			Config: config.AppConfig{
				Interactive: true,
				Algo:        "rho",
				Timeout:     1 * time.Minute,
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
	})

	t.Run("Calibration mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		factory := createMockFactory(factorsOf55(), nil)

		app := &Application{
			Config: config.AppConfig{
				Calibrate:          true,
				Timeout:            2 * time.Second,
				CalibrationProfile: filepath.Join(t.TempDir(), "profile.json"),
			},
			Factory:   factory,
			ErrWriter: &bytes.Buffer{},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		exitCode := app.Run(ctx, &outBuf)

		if exitCode != apperrors.ExitSuccess &&
			exitCode != apperrors.ExitErrorTimeout &&
			exitCode != apperrors.ExitErrorCanceled {
			t.Errorf("Expected exit code %d, %d, or %d, got %d",
				apperrors.ExitSuccess, apperrors.ExitErrorTimeout,
				apperrors.ExitErrorCanceled, exitCode)
		}
	})
}
