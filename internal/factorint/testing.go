package factorint

import (
	"context"
)

// MockFactorizer is a mock implementation of the Factorizer interface.
// It is exported to allow external packages (like cmd/primefac) to use it for testing.
type MockFactorizer struct {
	Result []Factor
	Err    error
	Fn     func(ctx context.Context, n uint64) ([]Factor, error)
}

// Name returns the engine name.
func (m *MockFactorizer) Name() string {
	return "mock"
}

// Factorize returns the pre-configured Result and Err, or calls Fn if provided.
func (m *MockFactorizer) Factorize(ctx context.Context, progressChan chan<- ProgressUpdate, facIndex int, n uint64, opts Options) ([]Factor, error) {
	if m.Fn != nil {
		return m.Fn(ctx, n)
	}
	if progressChan != nil {
		progressChan <- ProgressUpdate{FactorizerIndex: facIndex, Value: 1.0}
	}
	return m.Result, m.Err
}

// TestFactory is a FactorizerFactory implementation designed for testing.
// It allows tests in other packages to create factories with mock engines.
type TestFactory struct {
	factorizers map[string]Factorizer
}

// NewTestFactory creates a factory pre-populated with the given engines.
// This is intended for use in tests where mock engines are needed.
//
// Parameters:
//   - factorizers: A map of engine names to Factorizer instances.
//
// Returns:
//   - *TestFactory: A factory that can be used in place of DefaultFactory in tests.
func NewTestFactory(factorizers map[string]Factorizer) *TestFactory {
	if factorizers == nil {
		factorizers = make(map[string]Factorizer)
	}
	return &TestFactory{factorizers: factorizers}
}

// Create returns the engine by name.
func (f *TestFactory) Create(name string) (Factorizer, error) {
	return f.Get(name)
}

// Get returns the engine by name.
func (f *TestFactory) Get(name string) (Factorizer, error) {
	fac, ok := f.factorizers[name]
	if !ok {
		return nil, &UnknownFactorizerError{Name: name}
	}
	return fac, nil
}

// List returns all registered engine names.
func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.factorizers))
	for name := range f.factorizers {
		names = append(names, name)
	}
	return names
}

// Register is a no-op for TestFactory as engines are provided at construction.
func (f *TestFactory) Register(name string, creator func() coreFactorizer) error {
	// No-op: engines are set at construction time
	return nil
}

// GetAll returns all engines.
func (f *TestFactory) GetAll() map[string]Factorizer {
	result := make(map[string]Factorizer, len(f.factorizers))
	for k, v := range f.factorizers {
		result[k] = v
	}
	return result
}

// UnknownFactorizerError is returned when an engine name is not found.
type UnknownFactorizerError struct {
	Name string
}

func (e *UnknownFactorizerError) Error() string {
	return "unknown factorizer: " + e.Name
}
