// Package strategies provides the framework strategies the loader uses to
// turn a registered test file into declared suites and tests. Each framework
// (mocha-style JS/TS, Go testing) has its own strategy and its own rule for
// composing full titles.
package strategies

import (
	"context"
	"sort"
	"sync"

	"github.com/specvital/suite-harness/pkg/domain"
)

// DefaultPriority is the default priority for strategies.
// Higher priority strategies are checked first.
const DefaultPriority = 100

var defaultRegistry = &Registry{}

// Strategy defines the interface for test framework-specific loaders.
type Strategy interface {
	// Name returns the strategy identifier (e.g., "mocha", "go-testing").
	Name() string
	// Priority returns the strategy priority (higher = checked first).
	Priority() int
	// Languages returns the languages this strategy supports.
	Languages() []domain.Language
	// CanHandle returns true if this strategy can load the given file.
	CanHandle(filename string, content []byte) bool
	// Parse parses the source code and extracts its declared suites and tests.
	Parse(ctx context.Context, source []byte, filename string) (*domain.TestFile, error)
	// FullTitle composes the qualified title of a child from its parent's
	// qualified title. parent is empty for children of the root suite.
	FullTitle(parent, title string) string
}

// Registry manages registered strategies.
type Registry struct {
	mu         sync.RWMutex
	strategies []Strategy
}

// NewRegistry creates a new empty strategy registry.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a strategy to the default registry.
func Register(s Strategy) {
	defaultRegistry.Register(s)
}

// Register adds a strategy to the registry. A strategy with the same name
// replaces the earlier one.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.strategies {
		if existing.Name() == s.Name() {
			r.strategies[i] = s
			r.sortByPriority()
			return
		}
	}
	r.strategies = append(r.strategies, s)
	r.sortByPriority()
}

func (r *Registry) sortByPriority() {
	sort.SliceStable(r.strategies, func(i, j int) bool {
		return r.strategies[i].Priority() > r.strategies[j].Priority()
	})
}

// GetStrategies returns a copy of all registered strategies.
func (r *Registry) GetStrategies() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Strategy, len(r.strategies))
	copy(result, r.strategies)
	return result
}

// Names returns the registered strategy names in priority order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name())
	}
	return names
}

// FindStrategy returns the first strategy that can handle the given file.
func (r *Registry) FindStrategy(filename string, content []byte) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.strategies {
		if s.CanHandle(filename, content) {
			return s
		}
	}
	return nil
}

// FindByName returns the strategy with the given name.
func (r *Registry) FindByName(name string) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.strategies {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Clear removes all registered strategies.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = nil
}
