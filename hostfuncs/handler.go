package hostfuncs

import (
	"context"

	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/ports"
)

// NativeHandler implements one native function.
// A nil value means the function returns nothing.
type NativeHandler func(ctx context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error)

// ExecutorFunc adapts a plain function to ports.UserFunctionExecutor.
type ExecutorFunc func(ctx context.Context, name string, caller ports.CallerContext) (*entities.RuntimeValue, error)

// Execute implements ports.UserFunctionExecutor.
func (f ExecutorFunc) Execute(ctx context.Context, name string, caller ports.CallerContext) (*entities.RuntimeValue, error) {
	return f(ctx, name, caller)
}

// NativeFunction pairs a descriptor with its implementation.
type NativeFunction struct {
	Descriptor UserFunction
	Handler    NativeHandler
}

// UserFunctions is the set of native functions handed to a native module:
// the descriptors and the executor that runs them.
type UserFunctions struct {
	Functions *Registry
	Executor  ports.UserFunctionExecutor
}

// Returning wraps v so handlers can write `return Returning(entities.I32(x)), nil`.
func Returning(v entities.RuntimeValue) *entities.RuntimeValue {
	return &v
}
