package factorint

// Note: FactorizerFactory interface is not mockable with mockgen because Register()
// uses the unexported coreFactorizer type. Use DefaultFactory or manual mocks instead.

import (
	"fmt"
	"sort"
	"sync"
)

// FactorizerFactory is an interface for creating Factorizer instances.
// It allows for flexible engine instantiation and registration,
// enabling dependency injection and easier testing.
type FactorizerFactory interface {
	// Create creates a new Factorizer instance by name.
	// Returns an error if the engine type is not registered.
	Create(name string) (Factorizer, error)

	// Get returns an existing Factorizer instance by name.
	// Returns an error if the engine type is not registered.
	Get(name string) (Factorizer, error)

	// List returns a sorted list of registered engine names.
	List() []string

	// Register adds a new engine type to the factory.
	Register(name string, creator func() coreFactorizer) error

	// GetAll returns a map of all registered engines.
	GetAll() map[string]Factorizer
}

// DefaultFactory is the default implementation of FactorizerFactory.
// It maintains a thread-safe registry of engine creators and caches
// Factorizer instances for reuse.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreFactorizer
	factorizers map[string]Factorizer
}

// NewDefaultFactory creates a new DefaultFactory with the standard engines
// pre-registered.
//
// Pre-registered engines:
//   - "rho": PollardRhoEngine (trial division + square reduction + Pollard's Rho)
//   - "trial": TrialDivisionEngine (plain ascending trial division, reference)
//
// Returns:
//   - *DefaultFactory: A new factory with the default engines registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreFactorizer),
		factorizers: make(map[string]Factorizer),
	}

	// Register the default engines
	_ = f.Register("rho", func() coreFactorizer { return &PollardRhoEngine{} })
	_ = f.Register("trial", func() coreFactorizer { return &TrialDivisionEngine{} })

	return f
}

// Register adds a new engine type to the factory.
// The creator function is called lazily when the engine is first requested.
// If an engine with the same name already exists, it will be replaced.
//
// Parameters:
//   - name: The unique identifier for the engine type.
//   - creator: A function that creates a new coreFactorizer instance.
func (f *DefaultFactory) Register(name string, creator func() coreFactorizer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	// Clear cached instance if it exists, so it will be recreated with the new creator
	delete(f.factorizers, name)
	return nil
}

// Create creates a new Factorizer instance by name.
// Unlike Get(), this always creates a fresh instance without caching.
//
// Parameters:
//   - name: The name of the engine type to create.
//
// Returns:
//   - Factorizer: A new Factorizer instance.
//   - error: An error if the engine type is not registered.
func (f *DefaultFactory) Create(name string) (Factorizer, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown factorizer: %s", name)
	}
	return NewFactorizer(creator()), nil
}

// Get returns a Factorizer instance by name.
// Instances are cached and reused for subsequent calls with the same name.
// This is the preferred method for most use cases.
//
// Parameters:
//   - name: The name of the engine to retrieve.
//
// Returns:
//   - Factorizer: The Factorizer instance.
//   - error: An error if the engine type is not registered.
func (f *DefaultFactory) Get(name string) (Factorizer, error) {
	// Check cache first with read lock
	f.mu.RLock()
	if fac, exists := f.factorizers[name]; exists {
		f.mu.RUnlock()
		return fac, nil
	}
	f.mu.RUnlock()

	// Create new instance with write lock
	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if fac, exists := f.factorizers[name]; exists {
		return fac, nil
	}

	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown factorizer: %s", name)
	}

	fac := NewFactorizer(creator())
	f.factorizers[name] = fac
	return fac, nil
}

// List returns a sorted list of all registered engine names.
// The list is sorted alphabetically for consistent ordering.
//
// Returns:
//   - []string: A sorted slice of engine names.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a map of all registered engines.
// This method lazily initializes any engine that hasn't been created yet.
//
// Returns:
//   - map[string]Factorizer: A map of engine names to Factorizer instances.
func (f *DefaultFactory) GetAll() map[string]Factorizer {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Ensure all engines are initialized
	for name, creator := range f.creators {
		if _, exists := f.factorizers[name]; !exists {
			f.factorizers[name] = NewFactorizer(creator())
		}
	}

	// Return a copy to prevent external modifications
	result := make(map[string]Factorizer, len(f.factorizers))
	for name, fac := range f.factorizers {
		result[name] = fac
	}
	return result
}

// MustGet is like Get but panics if the engine is not found.
// This is useful in initialization code where missing engines should be
// considered a programming error.
//
// Parameters:
//   - name: The name of the engine to retrieve.
//
// Returns:
//   - Factorizer: The Factorizer instance.
//
// Panics:
//   - If the engine type is not registered.
func (f *DefaultFactory) MustGet(name string) Factorizer {
	fac, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("factorint: required factorizer not found: %s", name))
	}
	return fac
}

// Has checks if an engine with the given name is registered.
//
// Parameters:
//   - name: The name of the engine to check.
//
// Returns:
//   - bool: true if the engine is registered, false otherwise.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

// globalFactory is the default global factory instance.
var globalFactory = NewDefaultFactory()

// GlobalFactory returns the global factory instance.
// This is a convenience for applications that don't need multiple factory
// instances.
//
// Returns:
//   - *DefaultFactory: The global factory instance.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterFactorizer registers an engine in the global factory.
// This is a convenience function for adding custom engines.
//
// Parameters:
//   - name: The unique identifier for the engine type.
//   - creator: A function that creates a new coreFactorizer instance.
func RegisterFactorizer(name string, creator func() coreFactorizer) error {
	return globalFactory.Register(name, creator)
}
