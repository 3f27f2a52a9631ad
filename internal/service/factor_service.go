package service

//go:generate mockgen -source=factor_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"

	"github.com/agbru/primefac/internal/config"
	"github.com/agbru/primefac/internal/factorint"
)

var (
	// ErrMaxValueExceeded is returned when n exceeds the configured maximum limit.
	ErrMaxValueExceeded = errors.New("maximum n value exceeded")
)

// Service defines the interface for factorization services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// FactorizeNumber decomposes n into prime factors using the named algorithm.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - algoName: The name of the algorithm to use.
	//   - n: The value to factor.
	//   - opts: Per-call engine options. Zero-valued fields fall back to the
	//     service's configured defaults.
	//
	// Returns:
	//   - []factorint.Factor: The prime factorization terms.
	//   - error: An error if validation or factorization fails.
	FactorizeNumber(ctx context.Context, algoName string, n uint64, opts factorint.Options) ([]factorint.Factor, error)

	// AvailableAlgorithms lists the algorithm names the service can run.
	AvailableAlgorithms() []string
}

// FactorService handles the core logic for factoring 64-bit integers.
// It centralizes validation, engine retrieval, and execution options.
// Implements the Service interface.
type FactorService struct {
	factory factorint.FactorizerFactory
	config  config.AppConfig
	maxN    uint64
}

// Ensure FactorService implements Service interface.
var _ Service = (*FactorService)(nil)

// NewFactorService creates a new instance of FactorService.
//
// Parameters:
//   - factory: The factory to retrieve factorization engines from.
//   - cfg: The application configuration.
//   - maxN: The maximum allowed value for n (0 for no limit). Deployments
//     exposing the trial-division engine may want a cap, since its worst
//     case grows with the square root of n.
func NewFactorService(factory factorint.FactorizerFactory, cfg config.AppConfig, maxN uint64) *FactorService {
	return &FactorService{
		factory: factory,
		config:  cfg,
		maxN:    maxN,
	}
}

// FactorizeNumber retrieves the requested engine and executes the
// factorization. Zero-valued option fields are filled from the service's
// configured defaults, so callers only set what they want to override.
// It also performs validation on the input n.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - algoName: The name of the algorithm to use.
//   - n: The value to factor.
//   - opts: Per-call engine options.
//
// Returns:
//   - []factorint.Factor: The prime factorization terms.
//   - error: An error if validation or factorization fails.
func (s *FactorService) FactorizeNumber(ctx context.Context, algoName string, n uint64, opts factorint.Options) ([]factorint.Factor, error) {
	// Validation
	if s.maxN > 0 && n > s.maxN {
		return nil, ErrMaxValueExceeded
	}

	// Retrieve Algorithm
	fac, err := s.factory.Get(algoName)
	if err != nil {
		return nil, err
	}

	// Merge per-call overrides with configured defaults
	if opts.Seed == 0 {
		opts.Seed = s.config.Seed
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = s.config.MaxRetries
	}

	// Note: We pass nil for progressChan as this is intended for synchronous/service usage
	// where progress updates might not be needed or handled differently.
	return fac.Factorize(ctx, nil, 0, n, opts)
}

// AvailableAlgorithms returns the names of the engines registered with the
// underlying factory.
func (s *FactorService) AvailableAlgorithms() []string {
	return s.factory.List()
}
