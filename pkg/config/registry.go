package config

import (
	"fmt"
	"sort"

	"github.com/stackform/stackform/pkg/construct"
)

// BuilderFunc constructs a resource of one type under the given parent
// from its manifest declaration.
type BuilderFunc func(parent *construct.Construct, cfg ResourceConfig) (*construct.Resource, error)

// TypeRegistry maps resource type names to their builders. Resource-type
// packages register themselves here; the registry is the only coupling
// between the manifest front-end and concrete resource shapes.
type TypeRegistry struct {
	builders map[string]BuilderFunc
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a builder for a resource type name. Registering the same
// name twice is an error.
func (r *TypeRegistry) Register(typeName string, builder BuilderFunc) error {
	if typeName == "" {
		return fmt.Errorf("resource type name cannot be empty")
	}
	if builder == nil {
		return fmt.Errorf("builder for %s cannot be nil", typeName)
	}
	if _, exists := r.builders[typeName]; exists {
		return fmt.Errorf("resource type %s is already registered", typeName)
	}
	r.builders[typeName] = builder
	return nil
}

// Builder returns the builder for a type name.
func (r *TypeRegistry) Builder(typeName string) (BuilderFunc, error) {
	b, ok := r.builders[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown resource type %s (registered: %v)", typeName, r.Types())
	}
	return b, nil
}

// Types returns the registered type names, sorted.
func (r *TypeRegistry) Types() []string {
	out := make([]string, 0, len(r.builders))
	for name := range r.builders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
