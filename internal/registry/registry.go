package registry

import (
	"fmt"
	"sort"

	"github.com/vk/bigantr/internal/grid"
)

// Module is the interface that all grid modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// GridConstructor builds a grid from configuration arguments.
type GridConstructor func(args Args) (grid.Grid, error)

// Registry holds the grid constructors for a single application instance.
type Registry struct {
	GridConstructors map[string]GridConstructor
}

// New creates a registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{
		GridConstructors: make(map[string]GridConstructor),
	}
	for _, mod := range modules {
		mod.Register(r)
	}
	return r
}

// RegisterGrid adds a constructor for the named grid class. Registering the
// same name twice is a programming error and panics.
func (r *Registry) RegisterGrid(name string, ctor GridConstructor) {
	if _, exists := r.GridConstructors[name]; exists {
		panic(fmt.Sprintf("registry: grid class %q registered twice", name))
	}
	r.GridConstructors[name] = ctor
}

// NewGrid builds a grid of the named class.
func (r *Registry) NewGrid(name string, args Args) (grid.Grid, error) {
	ctor, ok := r.GridConstructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown grid class %q (known: %v)", grid.ErrInvalidArgument, name, r.GridKinds())
	}
	g, err := ctor(args)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	return g, nil
}

// GridKinds returns the registered class names in sorted order.
func (r *Registry) GridKinds() []string {
	kinds := make([]string, 0, len(r.GridConstructors))
	for k := range r.GridConstructors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
