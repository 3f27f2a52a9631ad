package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/primefac/internal/factorint"
)

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	// Create temporary directory
	tmpDir := t.TempDir()

	testCases := []struct {
		name        string
		outputFile  string
		hexOutput   bool
		expectError bool
		checkFunc   func(t *testing.T, filePath string)
	}{
		{
			name:        "Write decimal result to file",
			outputFile:  filepath.Join(tmpDir, "result.txt"),
			hexOutput:   false,
			expectError: false,
			checkFunc: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				if err != nil {
					t.Fatalf("Failed to read output file: %v", err)
				}
				contentStr := string(content)
				if !strings.Contains(contentStr, "# Prime Factorization Result") {
					t.Error("File should contain the result header")
				}
				if !strings.Contains(contentStr, "55 = 5 · 11") {
					t.Error("File should contain the identity '55 = 5 · 11'")
				}
				if strings.Contains(contentStr, "0x") {
					t.Error("File should not contain hexadecimal prefix")
				}
			},
		},
		{
			name:        "Write hex result to file",
			outputFile:  filepath.Join(tmpDir, "result_hex.txt"),
			hexOutput:   true,
			expectError: false,
			checkFunc: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				if err != nil {
					t.Fatalf("Failed to read output file: %v", err)
				}
				contentStr := string(content)
				if !strings.Contains(contentStr, "0x37 = 0x5 · 0xb") {
					t.Error("File should contain the hexadecimal identity '0x37 = 0x5 · 0xb'")
				}
			},
		},
		{
			name:        "Empty output file (no write)",
			outputFile:  "",
			hexOutput:   false,
			expectError: false,
			checkFunc:   nil, // No file should be created
		},
		{
			name:        "Create nested directory",
			outputFile:  filepath.Join(tmpDir, "nested", "dir", "result.txt"),
			hexOutput:   false,
			expectError: false,
			checkFunc: func(t *testing.T, filePath string) {
				if _, err := os.Stat(filePath); err != nil {
					t.Errorf("File should exist in nested directory: %v", err)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			factors := []factorint.Factor{{Prime: 5, Power: 1}, {Prime: 11, Power: 1}}
			config := OutputConfig{
				OutputFile: tc.outputFile,
				HexOutput:  tc.hexOutput,
			}

			err := WriteResultToFile(factors, 55, 100*time.Millisecond, "rho", config)

			if tc.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if tc.outputFile != "" && tc.checkFunc != nil {
					tc.checkFunc(t, tc.outputFile)
				}
			}
		})
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	factors := []factorint.Factor{{Prime: 5, Power: 1}, {Prime: 11, Power: 1}}

	t.Run("Decimal format", func(t *testing.T) {
		t.Parallel()
		output := FormatQuietResult(factors, 55, false)
		if output != "5 · 11" {
			t.Errorf("Expected '5 · 11', got '%s'", output)
		}
	})

	t.Run("Hexadecimal format", func(t *testing.T) {
		t.Parallel()
		output := FormatQuietResult(factors, 55, true)
		if !strings.HasPrefix(output, "0x") {
			t.Errorf("Expected hex output to start with '0x', got '%s'", output)
		}
		if output != "0x5 · 0xb" {
			t.Errorf("Expected '0x5 · 0xb', got '%s'", output)
		}
	})

	t.Run("Prime power decimal", func(t *testing.T) {
		t.Parallel()
		powers := []factorint.Factor{{Prime: 2, Power: 4}, {Prime: 3, Power: 1}, {Prime: 5, Power: 1}}
		output := FormatQuietResult(powers, 240, false)
		if output != "2^4 · 3 · 5" {
			t.Errorf("Expected '2^4 · 3 · 5', got '%s'", output)
		}
	})

	t.Run("Zero input", func(t *testing.T) {
		t.Parallel()
		output := FormatQuietResult(nil, 0, false)
		if output != "0" {
			t.Errorf("Expected '0', got '%s'", output)
		}
		output = FormatQuietResult(nil, 0, true)
		if output != "0x0" {
			t.Errorf("Expected '0x0', got '%s'", output)
		}
	})
}

func TestDisplayQuietResult(t *testing.T) {
	t.Parallel()
	factors := []factorint.Factor{{Prime: 5, Power: 1}, {Prime: 11, Power: 1}}

	t.Run("Decimal output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		DisplayQuietResult(&buf, factors, 55, false)
		output := buf.String()
		if !strings.Contains(output, "5 · 11") {
			t.Errorf("Output should contain '5 · 11', got '%s'", output)
		}
		if strings.Contains(output, "0x") {
			t.Error("Decimal output should not contain '0x'")
		}
	})

	t.Run("Hex output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		DisplayQuietResult(&buf, factors, 55, true)
		output := buf.String()
		if !strings.HasPrefix(strings.TrimSpace(output), "0x") {
			t.Errorf("Hex output should start with '0x', got '%s'", output)
		}
	})
}

func TestDisplayResultWithConfig(t *testing.T) {
	t.Parallel()
	factors := []factorint.Factor{{Prime: 5, Power: 1}, {Prime: 11, Power: 1}}
	tmpDir := t.TempDir()

	t.Run("Quiet mode", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		config := OutputConfig{
			Quiet: true,
		}
		err := DisplayResultWithConfig(&buf, factors, 55, 100*time.Millisecond, "rho", config)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "5 · 11") {
			t.Errorf("Quiet output should contain the factor list, got '%s'", output)
		}
	})

	t.Run("Quiet mode with hex", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		config := OutputConfig{
			Quiet:     true,
			HexOutput: true,
		}
		err := DisplayResultWithConfig(&buf, factors, 55, 100*time.Millisecond, "rho", config)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.HasPrefix(strings.TrimSpace(output), "0x") {
			t.Errorf("Quiet hex output should start with '0x', got '%s'", output)
		}
	})

	t.Run("Normal mode with file output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		outputFile := filepath.Join(tmpDir, "test_output.txt")
		config := OutputConfig{
			OutputFile: outputFile,
			Quiet:      false,
		}
		err := DisplayResultWithConfig(&buf, factors, 55, 100*time.Millisecond, "rho", config)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		// Check that file was created
		if _, err := os.Stat(outputFile); err != nil {
			t.Errorf("Output file should exist: %v", err)
		}
		// Check that success message was printed
		output := buf.String()
		if !strings.Contains(output, "Result saved to") {
			t.Errorf("Should show file save message, got '%s'", output)
		}
	})

	t.Run("Quiet mode with file output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		outputFile := filepath.Join(tmpDir, "quiet_output.txt")
		config := OutputConfig{
			OutputFile: outputFile,
			Quiet:      true,
		}
		err := DisplayResultWithConfig(&buf, factors, 55, 100*time.Millisecond, "rho", config)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		// Check that file was created
		if _, err := os.Stat(outputFile); err != nil {
			t.Errorf("Output file should exist: %v", err)
		}
		// In quiet mode, file save message should not appear
		output := buf.String()
		if strings.Contains(output, "Result saved to") {
			t.Error("Quiet mode should not show file save message")
		}
	})

	t.Run("Hex output in normal mode", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		config := OutputConfig{
			HexOutput: true,
			Quiet:     false,
			Verbose:   false,
		}
		err := DisplayResultWithConfig(&buf, factors, 55, 100*time.Millisecond, "rho", config)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "Hexadecimal format") {
			t.Errorf("Should show hex format section, got '%s'", output)
		}
	})
}
