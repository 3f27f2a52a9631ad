// Command primefac factors 64-bit unsigned integers from the command line.
//
// It compares a deterministic trial division engine against Pollard's rho
// with Brent's cycle detection, verifies that their factorizations agree,
// and reports the fastest one. Run with -h for the full flag reference.
package main

import (
	"context"
	"os"

	"github.com/agbru/primefac/internal/app"
	apperrors "github.com/agbru/primefac/internal/errors"
)

func main() {
	// --version works in any position, before flag parsing can reject
	// the rest of the command line.
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		// ParseConfig already reported the problem on stderr.
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
