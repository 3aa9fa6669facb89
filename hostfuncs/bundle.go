package hostfuncs

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/envnative/domain/entities"
	domainerrors "github.com/reglet-dev/envnative/domain/errors"
	"github.com/reglet-dev/envnative/domain/ports"
)

// Bundle is a pre-configured, ordered set of native functions.
type Bundle interface {
	Functions() []NativeFunction
}

type staticBundle struct {
	functions []NativeFunction
}

func (b *staticBundle) Functions() []NativeFunction {
	return b.functions
}

// NewBundle creates a Bundle from the given functions, in order.
func NewBundle(fns ...NativeFunction) Bundle {
	return &staticBundle{functions: fns}
}

var (
	debugI32Params = []entities.ValueType{entities.ValueTypeI32}
	debugI64Params = []entities.ValueType{entities.ValueTypeI64}
	debugF32Params = []entities.ValueType{entities.ValueTypeF32}
	debugF64Params = []entities.ValueType{entities.ValueTypeF64}
)

// DebugBundle returns debug_i32, debug_i64, debug_f32 and debug_f64.
// Each takes one value, logs it at debug level and returns nothing.
func DebugBundle(logger *slog.Logger) Bundle {
	if logger == nil {
		logger = slog.Default()
	}
	debug := func(ctx context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
		name, _ := FunctionNameFrom(ctx)
		if len(caller.Args) != 1 {
			return nil, &domainerrors.ArgumentError{Function: name, Reason: "expected exactly one argument"}
		}
		logger.DebugContext(ctx, "guest debug", "function", name, "value", caller.Args[0].String())
		return nil, nil
	}
	return &staticBundle{
		functions: []NativeFunction{
			{Descriptor: Static("debug_i32", debugI32Params, nil), Handler: debug},
			{Descriptor: Static("debug_i64", debugI64Params, nil), Handler: debug},
			{Descriptor: Static("debug_f32", debugF32Params, nil), Handler: debug},
			{Descriptor: Static("debug_f64", debugF64Params, nil), Handler: debug},
		},
	}
}

type compositeBundle struct {
	bundles []Bundle
}

func (b *compositeBundle) Functions() []NativeFunction {
	var result []NativeFunction
	for _, bundle := range b.bundles {
		result = append(result, bundle.Functions()...)
	}
	return result
}

// CompositeBundle concatenates bundles, keeping their order.
func CompositeBundle(bundles ...Bundle) Bundle {
	return &compositeBundle{bundles: bundles}
}

// WithBundle appends the descriptors of every function in bundle.
func WithBundle(bundle Bundle) RegistryOption {
	return func(b *registryBuilder) {
		for _, fn := range bundle.Functions() {
			b.functions = append(b.functions, fn.Descriptor)
		}
	}
}

// WithBundleHandlers registers the handler of every function in bundle.
func WithBundleHandlers(bundle Bundle) ExecutorOption {
	return func(b *executorBuilder) {
		for _, fn := range bundle.Functions() {
			if err := b.addHandler(fn.Descriptor.Name(), fn.Handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// NewUserFunctions builds both halves of a native function set from one
// bundle: the descriptor registry and a HandlerExecutor running the bundle's
// handlers through mw.
func NewUserFunctions(bundle Bundle, mw ...Middleware) (UserFunctions, error) {
	reg, err := NewRegistry(WithBundle(bundle))
	if err != nil {
		return UserFunctions{}, err
	}
	exec, err := NewHandlerExecutor(WithMiddleware(mw...), WithBundleHandlers(bundle))
	if err != nil {
		return UserFunctions{}, err
	}
	return UserFunctions{Functions: reg, Executor: exec}, nil
}
