package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/primefac/internal/cli"
)

// kernelResult pairs a kernel name with its measured throughput for display.
type kernelResult struct {
	Name string
	Unit string
	Rate float64
}

// printCalibrationResults formats and prints the measured kernel table.
func printCalibrationResults(out io.Writer, results []kernelResult) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sKernel%s       │ %sThroughput%s\n", cli.ColorUnderline(), cli.ColorReset(), cli.ColorUnderline(), cli.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 25))
	for _, res := range results {
		rateStr := fmt.Sprintf("%sN/A%s", cli.ColorRed(), cli.ColorReset())
		if res.Rate > 0 {
			rateStr = fmt.Sprintf("%s %s", formatRate(res.Rate), res.Unit)
		}
		fmt.Fprintf(tw, "  %s%-12s%s │ %s%s%s\n", cli.ColorCyan(), res.Name, cli.ColorReset(), cli.ColorYellow(), rateStr, cli.ColorReset())
	}
	tw.Flush()
}

// printCalibrationOutput prints a one-line summary of the profile rates.
//
// Parameters:
//   - p: The profile holding the calibration results.
//   - out: The writer for output.
func printCalibrationOutput(p *Profile, out io.Writer) {
	fmt.Fprintf(out, "%sAuto-calibration%s: mulmod=%s%s ops/s%s, rho=%s%s steps/s%s, trial=%s%s divs/s%s\n",
		cli.ColorGreen(), cli.ColorReset(),
		cli.ColorYellow(), formatRate(p.MulModOpsPerSec), cli.ColorReset(),
		cli.ColorYellow(), formatRate(p.RhoStepsPerSec), cli.ColorReset(),
		cli.ColorYellow(), formatRate(p.TrialDivsPerSec), cli.ColorReset())
}

// formatRate renders an operations-per-second figure with a metric suffix.
func formatRate(r float64) string {
	switch {
	case r >= 1e9:
		return fmt.Sprintf("%.2fG", r/1e9)
	case r >= 1e6:
		return fmt.Sprintf("%.1fM", r/1e6)
	case r >= 1e3:
		return fmt.Sprintf("%.1fK", r/1e3)
	default:
		return fmt.Sprintf("%.0f", r)
	}
}
