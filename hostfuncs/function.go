package hostfuncs

import (
	"slices"

	"github.com/reglet-dev/envnative/domain/entities"
)

// UserFunction describes one native function's call signature.
type UserFunction struct {
	name   string
	params []entities.ValueType
	result *entities.ValueType
}

// Static creates a descriptor for a signature known at build time.
// The params slice is shared, not copied, and must not be modified afterwards.
func Static(name string, params []entities.ValueType, result *entities.ValueType) UserFunction {
	return UserFunction{name: name, params: params, result: copyResult(result)}
}

// Heap creates a descriptor for a signature built at run time, e.g. from
// configuration. The params slice is copied.
func Heap(name string, params []entities.ValueType, result *entities.ValueType) UserFunction {
	return UserFunction{name: name, params: slices.Clone(params), result: copyResult(result)}
}

// Name returns the function name.
func (f UserFunction) Name() string { return f.name }

// Params returns a copy of the parameter types.
func (f UserFunction) Params() []entities.ValueType { return slices.Clone(f.params) }

// Result returns the result type and whether there is one.
func (f UserFunction) Result() (entities.ValueType, bool) {
	if f.result == nil {
		return 0, false
	}
	return *f.result, true
}

// Type returns the function signature.
func (f UserFunction) Type() entities.FunctionType {
	return entities.NewFunctionType(f.params, f.result)
}

func copyResult(r *entities.ValueType) *entities.ValueType {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}
