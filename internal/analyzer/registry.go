package analyzer

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages analyzer registration. Unlike a scheduler registry it
// holds no execution state: the pipeline is a pure transformation, so the
// registry only guarantees uniqueness and a deterministic iteration order.
type Registry struct {
	mu        sync.RWMutex
	analyzers map[string]Analyzer
}

// NewRegistry creates an empty analyzer registry.
func NewRegistry() *Registry {
	return &Registry{
		analyzers: make(map[string]Analyzer),
	}
}

// DefaultRegistry returns a registry with the three standard analyzers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range []Analyzer{
		NewMaintenanceAnalyzer(),
		NewDocsAnalyzer(),
		NewRefactoringAnalyzer(),
	} {
		// Built-in types are unique; Register cannot fail here.
		_ = r.Register(a)
	}
	return r
}

// Register adds an analyzer to the registry.
func (r *Registry) Register(a Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Type()
	if _, exists := r.analyzers[name]; exists {
		return fmt.Errorf("analyzer %q already registered", name)
	}

	r.analyzers[name] = a
	return nil
}

// Get returns a registered analyzer by type tag.
func (r *Registry) Get(name string) (Analyzer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.analyzers[name]
	return a, exists
}

// List returns all registered type tags in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered analyzer, sorted by type tag so callers
// iterate in a stable order.
func (r *Registry) All() []Analyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)

	all := make([]Analyzer, 0, len(names))
	for _, name := range names {
		all = append(all, r.analyzers[name])
	}
	return all
}

// Resolve returns the analyzers for the given type tags, in the given
// order. Unknown tags are an error: a config typo should fail loudly
// rather than silently skip an analyzer.
func (r *Registry) Resolve(names []string) ([]Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resolved := make([]Analyzer, 0, len(names))
	for _, name := range names {
		a, exists := r.analyzers[name]
		if !exists {
			return nil, fmt.Errorf("analyzer %q not registered", name)
		}
		resolved = append(resolved, a)
	}
	return resolved, nil
}
