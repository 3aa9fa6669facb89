package hostfuncs

import (
	"fmt"

	domainerrors "github.com/reglet-dev/envnative/domain/errors"
	"github.com/reglet-dev/envnative/domain/ports"
)

// Registry is an immutable, ordered collection of native function descriptors.
// Once created via NewRegistry it cannot change, so it is safe to share
// between goroutines without locking.
type Registry struct {
	functions []UserFunction
	byName    map[string]uint32
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	functions []UserFunction
	shadowing bool
	errors    []error
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*registryBuilder)

// NewRegistry creates an immutable Registry from the given options.
// Descriptors keep the order in which they were added.
// A duplicate name is an error unless WithShadowing(true) is given, in which
// case the later descriptor takes over the name.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithFunction(Static("add", []entities.ValueType{entities.ValueTypeI32, entities.ValueTypeI32}, entities.ResultOf(entities.ValueTypeI32))),
//	    WithBundle(DebugBundle(logger)),
//	)
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{}
	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	byName := make(map[string]uint32, len(b.functions))
	for i, fn := range b.functions {
		if fn.name == "" {
			return nil, fmt.Errorf("native function name cannot be empty (position %d)", i)
		}
		if _, exists := byName[fn.name]; exists && !b.shadowing {
			return nil, &domainerrors.DuplicateFunctionError{Name: fn.name}
		}
		byName[fn.name] = uint32(i) //nolint:gosec // G115: registry size is far below 2^32
	}

	return &Registry{
		functions: b.functions,
		byName:    byName,
	}, nil
}

// Lookup returns the position of the function registered under name.
func (r *Registry) Lookup(name string) (uint32, bool) {
	pos, ok := r.byName[name]
	return pos, ok
}

// Get returns the descriptor at position.
func (r *Registry) Get(position uint32) (UserFunction, bool) {
	if int64(position) >= int64(len(r.functions)) {
		return UserFunction{}, false
	}
	return r.functions[position], true
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.functions)
}

// Functions returns the descriptors in registration order.
func (r *Registry) Functions() []UserFunction {
	result := make([]UserFunction, len(r.functions))
	copy(result, r.functions)
	return result
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.functions))
	for i, fn := range r.functions {
		names[i] = fn.name
	}
	return names
}

// WithFunction appends a descriptor.
func WithFunction(fn UserFunction) RegistryOption {
	return func(b *registryBuilder) {
		b.functions = append(b.functions, fn)
	}
}

// WithFunctions appends descriptors in order.
func WithFunctions(fns ...UserFunction) RegistryOption {
	return func(b *registryBuilder) {
		b.functions = append(b.functions, fns...)
	}
}

// WithSpecs appends descriptors decoded from configuration.
func WithSpecs(specs ...ports.FunctionSpec) RegistryOption {
	return func(b *registryBuilder) {
		for _, spec := range specs {
			sig, err := spec.Signature()
			if err != nil {
				b.errors = append(b.errors, &domainerrors.ConfigError{Field: spec.Name, Err: err})
				continue
			}
			b.functions = append(b.functions, Heap(spec.Name, sig.Params, sig.Result))
		}
	}
}

// WithShadowing lets a later descriptor take over the name of an earlier one
// instead of failing. The shadowed descriptor keeps its position but can no
// longer be resolved by name.
func WithShadowing(enabled bool) RegistryOption {
	return func(b *registryBuilder) {
		b.shadowing = enabled
	}
}

