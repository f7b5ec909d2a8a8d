package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/opacbridge/config"
)

// Backend describes a registered backend.
type Backend struct {
	Name        string
	Description string
	Factory     Factory
}

// Registry holds registered backends.
type Registry struct {
	backends map[string]Backend
}

// DefaultRegistry is the global backend registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register adds a backend to the registry.
func (r *Registry) Register(b Backend) {
	r.backends[strings.ToLower(b.Name)] = b
}

// Get retrieves a backend by name.
func (r *Registry) Get(name string) (Backend, bool) {
	b, ok := r.backends[strings.ToLower(name)]
	return b, ok
}

// Open creates the source serving catalogue c.
func (r *Registry) Open(ctx context.Context, c *config.Catalogue) (Source, error) {
	b, ok := r.Get(c.Backend)
	if !ok {
		return nil, fmt.Errorf("unknown backend: %s", c.Backend)
	}
	s, err := b.Factory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("opening %s backend for %s: %w", b.Name, c.Name, err)
	}
	return s, nil
}

// List returns all registered backend names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a backend to the default registry.
func Register(b Backend) {
	DefaultRegistry.Register(b)
}

// Get retrieves a backend from the default registry.
func Get(name string) (Backend, bool) {
	return DefaultRegistry.Get(name)
}

// Open creates a source using the default registry.
func Open(ctx context.Context, c *config.Catalogue) (Source, error) {
	return DefaultRegistry.Open(ctx, c)
}
