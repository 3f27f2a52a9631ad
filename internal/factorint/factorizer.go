// Package factorint decomposes unsigned 64-bit integers into their prime
// factorizations. It exposes a `Factorizer` interface that abstracts the
// underlying factoring strategy, allowing different engines (Pollard's Rho
// pipeline, plain trial division) to be used interchangeably. The package
// combines overflow-safe modular arithmetic, a deterministic Miller-Rabin
// primality test, perfect-square reduction and a randomized factor search
// into a driver that is exact across the full uint64 range.
package factorint

//go:generate mockgen -source=factorizer.go -destination=mocks/mock_factorizer.go -package=mocks

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

var (
	factorizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "primefac_factorizations_total",
			Help: "The total number of factorizations processed",
		},
		[]string{"algorithm", "status"},
	)
	factorizationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "primefac_factorization_duration_seconds",
			Help: "The duration of factorizations in seconds",
		},
		[]string{"algorithm"},
	)
)

// Factor is a single term of a prime factorization: Prime raised to Power.
// Invariants: Prime > 1 and Power >= 1. Factors are produced only by the
// factorization engines; callers treat them as read-only values.
type Factor struct {
	Prime uint64 `json:"prime"`
	Power uint32 `json:"power"`
}

// String renders the term the way the CLI prints it: a bare prime when the
// power is 1, otherwise "prime^power".
func (f Factor) String() string {
	if f.Power < 2 {
		return strconv.FormatUint(f.Prime, 10)
	}
	return strconv.FormatUint(f.Prime, 10) + "^" + strconv.FormatUint(uint64(f.Power), 10)
}

// Product multiplies the factorization back together. For any sequence
// produced by an engine in this package the product equals the original
// input, so the multiplication cannot overflow.
func Product(factors []Factor) uint64 {
	n := uint64(1)
	for _, f := range factors {
		for p := uint32(0); p < f.Power; p++ {
			n *= f.Prime
		}
	}
	return n
}

// Canonical returns a copy of factors sorted by ascending prime. Engines emit
// rho-discovered terms in discovery order, so two correct results for the
// same input may disagree on ordering; the canonical form makes them directly
// comparable and keeps rendered output stable across runs.
func Canonical(factors []Factor) []Factor {
	out := make([]Factor, len(factors))
	copy(out, factors)
	sort.Slice(out, func(i, j int) bool { return out[i].Prime < out[j].Prime })
	return out
}

// EqualFactorizations reports whether a and b denote the same factorization
// regardless of term order. Engines guarantee pairwise-distinct primes, so
// multiset equality reduces to equality of the canonical forms.
func EqualFactorizations(a, b []Factor) bool {
	if len(a) != len(b) {
		return false
	}
	ca, cb := Canonical(a), Canonical(b)
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

// Factorizer defines the public interface for a factorization engine.
// It is the primary abstraction used by the application's orchestration layer
// to interact with the different factoring strategies.
type Factorizer interface {
	// Factorize decomposes n into its prime factorization. It is designed
	// for safe concurrent execution and supports cancellation through the
	// provided context. Progress updates are sent asynchronously to the
	// progressChan.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - progressChan: The channel for sending progress updates.
	//   - facIndex: A unique index for the engine instance.
	//   - n: The value to factor.
	//   - opts: Configuration options for the factorization.
	//
	// Returns:
	//   - []Factor: The factor terms in the engine's documented order.
	//   - error: An error if one occurred (context cancellation, or the
	//     randomized search exhausting its retry budget).
	Factorize(ctx context.Context, progressChan chan<- ProgressUpdate, facIndex int, n uint64, opts Options) ([]Factor, error)

	// Name returns the display name of the engine (e.g., "Pollard's Rho").
	Name() string
}

// coreFactorizer defines the internal interface for a pure factoring
// algorithm.
type coreFactorizer interface {
	FactorizeCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) ([]Factor, error)
	Name() string
}

// PrimeFactorizer is an implementation of the Factorizer interface that uses
// the Decorator design pattern.
// It wraps a coreFactorizer to add cross-cutting concerns: the shortcut for
// trivially small inputs, metrics, tracing, and the adaptation of the
// progress reporting mechanism.
type PrimeFactorizer struct {
	core coreFactorizer
}

// NewFactorizer constructs a new PrimeFactorizer around the given core
// engine. It panics if the core engine is nil, ensuring system integrity.
//
// Parameters:
//   - core: The core engine to be wrapped.
//
// Returns:
//   - Factorizer: A new PrimeFactorizer instance implementing the Factorizer interface.
func NewFactorizer(core coreFactorizer) Factorizer {
	if core == nil {
		panic("factorint: the `coreFactorizer` implementation cannot be nil")
	}
	return &PrimeFactorizer{core: core}
}

// Name returns the name of the encapsulated coreFactorizer, fulfilling the
// Factorizer interface by delegating the call.
func (c *PrimeFactorizer) Name() string {
	return c.core.Name()
}

// Factorize orchestrates the factorization process over a progress channel.
//
// This method provides channel-based progress reporting. For more flexible
// observer-based progress reporting, use FactorizeWithObservers.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - progressChan: The channel for sending progress updates.
//   - facIndex: A unique index for the engine instance.
//   - n: The value to factor.
//   - opts: Configuration options for the factorization.
//
// Returns:
//   - []Factor: The factor terms.
//   - error: An error if one occurred.
func (c *PrimeFactorizer) Factorize(ctx context.Context, progressChan chan<- ProgressUpdate, facIndex int, n uint64, opts Options) ([]Factor, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.FactorizeWithObservers(ctx, subject, facIndex, n, opts)
}

// FactorizeWithObservers executes the factorization with observer-based
// progress reporting. This method allows for dynamic registration of multiple
// progress observers, enabling decoupled handling of progress events for UI,
// logging, metrics, etc.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - subject: The progress subject with registered observers. If nil, progress is ignored.
//   - facIndex: A unique index for the engine instance.
//   - n: The value to factor.
//   - opts: Configuration options for the factorization.
//
// Returns:
//   - []Factor: The factor terms.
//   - error: An error if one occurred.
func (c *PrimeFactorizer) FactorizeWithObservers(ctx context.Context, subject *ProgressSubject, facIndex int, n uint64, opts Options) (factors []Factor, err error) {
	tracer := otel.Tracer("factorint")
	ctx, span := tracer.Start(ctx, "Factorize")
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		algoName := c.core.Name()
		factorizationsTotal.WithLabelValues(algoName, status).Inc()
		factorizationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Uint64("n", n).
			Int("factors", len(factors)).
			Float64("duration", duration).
			Str("status", status).
			Msg("factorization completed")
	}()

	var reporter ProgressReporter
	if subject != nil {
		reporter = subject.AsProgressReporter(facIndex)
	} else {
		reporter = func(float64) {} // No-op reporter
	}

	if n < 4 {
		reporter(1.0)
		return factorSmall(n), nil
	}

	factors, err = c.core.FactorizeCore(ctx, reporter, n, opts)
	if err == nil {
		reporter(1.0)
	}
	return factors, err
}

// factorSmall handles the inputs below 4 directly: 0 and 1 have an empty
// factorization, 2 and 3 are prime.
func factorSmall(n uint64) []Factor {
	if n < 2 {
		return []Factor{}
	}
	return []Factor{{Prime: n, Power: 1}}
}
