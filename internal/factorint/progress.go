// Package factorint decomposes unsigned 64-bit integers into their prime
// factorizations. This file contains progress reporting types and utilities
// used by the engines.
package factorint

import "math"

// ProgressUpdate is a data transfer object (DTO) that encapsulates the
// progress state of a factorization. It is sent over a channel from the
// engine to the user interface to provide asynchronous progress updates.
type ProgressUpdate struct {
	// FactorizerIndex is a unique identifier for the engine instance,
	// allowing the UI to distinguish between multiple concurrent runs.
	FactorizerIndex int
	// Value represents the normalized progress of the run, from 0.0 to 1.0.
	Value float64
}

// ProgressReporter defines the functional type for a progress reporting
// callback. This simplified interface is used by core engines to report
// their progress without being coupled to the channel-based communication
// mechanism of the broader application.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
type ProgressReporter func(progress float64)

// FactorWork models the total work of factoring n as log2(n): each recorded
// term resolves Power·log2(Prime) of it, so the resolved share is a monotone
// fraction that reaches 1.0 exactly when the product of the recorded terms
// reaches n. The model says nothing about how long the unresolved share will
// take (a large prime residual resolves in one Miller-Rabin call while an
// equally large semiprime needs a full rho walk), but it is the only honest
// signal the pipeline has before it finishes.
func FactorWork(n uint64) float64 {
	if n < 2 {
		return 0
	}
	return math.Log2(float64(n))
}

// ProgressTracker accumulates resolved work across recorded factor terms and
// forwards throttled updates to a ProgressReporter. Updates are suppressed
// until the fraction moves by at least ProgressReportThreshold, preventing
// excessive UI traffic from bursts of small factors.
type ProgressTracker struct {
	reporter     ProgressReporter
	total        float64
	resolved     float64
	lastReported float64
}

// NewProgressTracker creates a tracker for factoring n, reporting through
// reporter. A nil reporter yields a tracker that only accumulates.
//
// Parameters:
//   - reporter: The callback to notify; may be nil.
//   - n: The value being factored, fixing the total work.
//
// Returns:
//   - *ProgressTracker: A tracker starting at zero resolved work.
func NewProgressTracker(reporter ProgressReporter, n uint64) *ProgressTracker {
	return &ProgressTracker{
		reporter: reporter,
		total:    FactorWork(n),
	}
}

// Record accounts for a discovered term prime^power and reports the new
// fraction if it moved enough since the last report.
//
// Parameters:
//   - prime: The discovered prime.
//   - power: Its exponent in the factorization.
func (t *ProgressTracker) Record(prime uint64, power uint32) {
	t.resolved += float64(power) * math.Log2(float64(prime))
	if t.reporter == nil || t.total <= 0 {
		return
	}
	fraction := t.resolved / t.total
	if fraction > 1.0 {
		fraction = 1.0
	}
	if fraction-t.lastReported >= ProgressReportThreshold || fraction >= 1.0 {
		t.reporter(fraction)
		t.lastReported = fraction
	}
}

// Fraction returns the resolved share of the total work, clamped to [0, 1].
// It is primarily useful for tests and diagnostics.
func (t *ProgressTracker) Fraction() float64 {
	if t.total <= 0 {
		return 0
	}
	fraction := t.resolved / t.total
	if fraction > 1.0 {
		return 1.0
	}
	return fraction
}
