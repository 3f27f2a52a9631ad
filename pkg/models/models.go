/*
Package models defines the shared data structures exposed by the
factorization tools.

These models are used for:
- **Machine-readable CLI output**: the --json rendering of a completed run.
- **Downstream consumers**: the types live outside internal/ so scripts and
  services that parse the JSON records never import engine packages.
*/

package models

import (
	"strconv"
	"strings"
)

// FactorTerm is a single term of a prime factorization: Prime raised to
// Power. It mirrors the engine's internal factor type so that consumers of
// the JSON records never depend on internal packages.
type FactorTerm struct {
	Prime uint64 `json:"prime"` // The prime base of the term.
	Power uint32 `json:"power"` // Its exponent, always at least 1.
}

// String renders the term as "prime" when the power is 1 and "prime^power"
// otherwise, e.g. "6857" or "2^10".
func (t FactorTerm) String() string {
	if t.Power < 2 {
		return strconv.FormatUint(t.Prime, 10)
	}
	return strconv.FormatUint(t.Prime, 10) + "^" + strconv.FormatUint(uint64(t.Power), 10)
}

// Factorization is the machine-readable record of one completed run.
// It implements the "Audit Trail" pattern by capturing the input, the full
// result and the run metadata in one immutable record, suitable for logging
// pipelines and API responses alike.
type Factorization struct {
	N          uint64       `json:"n"`                   // The value that was factored.
	Factors    []FactorTerm `json:"factors"`             // The prime factorization, ascending by prime.
	Algorithm  string       `json:"algorithm"`           // Display name of the engine used.
	DurationMS float64      `json:"duration_ms"`         // Wall-clock duration of the run.
	Error      string       `json:"error,omitempty"`     // Failure description, if the run failed.
	Truncated  bool         `json:"truncated,omitempty"` // True when the run was cut short by a timeout.
}

// Verified reports whether the record carries a complete, successful result.
func (f *Factorization) Verified() bool {
	return f.Error == "" && !f.Truncated
}

// String renders the canonical identity of the record, e.g.
// "600851475143 = 71 · 839 · 1471 · 6857". The empty factorization of 1
// renders as "1 = 1"; zero, which no product of primes reaches, renders
// bare. Failed runs render as "n: error".
func (f *Factorization) String() string {
	if f.Error != "" {
		return strconv.FormatUint(f.N, 10) + ": " + f.Error
	}
	if f.N == 0 {
		return "0"
	}
	terms := make([]string, len(f.Factors))
	for i, t := range f.Factors {
		terms[i] = t.String()
	}
	product := "1"
	if len(terms) > 0 {
		product = strings.Join(terms, " · ")
	}
	return strconv.FormatUint(f.N, 10) + " = " + product
}
