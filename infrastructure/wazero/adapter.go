package wazero

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// ModuleName is the host module name guests import from (default: "env").
	ModuleName string

	// Logger receives call failures. Defaults to slog.Default().
	Logger *slog.Logger

	// CustomHandlers allows adding wazero-specific functions that are not
	// resolved through the module instance.
	CustomHandlers []CustomHandler
}

// CustomHandler is a raw wazero host function exported next to the module's
// functions.
type CustomHandler struct {
	// Name is the exported function name.
	Name string

	// Handler is the wazero GoModuleFunc implementation.
	Handler api.GoModuleFunc

	// ParamTypes are the WASM parameter types.
	ParamTypes []api.ValueType

	// ResultTypes are the WASM result types.
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name (default: "env").
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithAdapterLogger sets the logger for call failures.
func WithAdapterLogger(logger *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithCustomHandler adds a custom wazero handler.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName: "env",
		Logger:     slog.Default(),
	}
}

// export is a function export resolved against a module instance.
type export struct {
	name  string
	index uint32
	sig   entities.FunctionType
}

// RegisterNativeModule publishes the named function exports of mod as a
// wazero host module, so guests can import them.
//
// Each name is resolved with ExportEntry and its signature with FunctionType.
// A guest call decodes the wazero stack into runtime values and dispatches
// through mod.CallInternalFunction with the calling api.Module as the caller
// frame (see CallerModule). A failed call is logged and raised as a panic,
// which wazero reports as the error of the guest's outermost call.
//
// Example:
//
//	native, _ := host.EnvNativeModule(env, functions)
//	_, err := wazero.RegisterNativeModule(ctx, runtime, native, functions.Functions.Names())
func RegisterNativeModule(ctx context.Context, runtime wazero.Runtime, mod ports.ModuleInstance, names []string, opts ...AdapterOption) (api.Module, error) {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	exports, err := resolveExports(mod, names)
	if err != nil {
		return nil, err
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)

	for _, e := range exports {
		params, results := toAPIValueTypes(e.sig)
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, caller api.Module, stack []uint64) {
				handleCall(ctx, caller, stack, mod, e, cfg.Logger)
			}), params, results).
			WithName(e.name).
			Export(e.name)
	}

	for _, ch := range cfg.CustomHandlers {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	return builder.Instantiate(ctx)
}

func resolveExports(mod ports.ModuleInstance, names []string) ([]export, error) {
	exports := make([]export, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		internal, err := mod.ExportEntry(name, nil, entities.AnyExport())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve export %q: %w", name, err)
		}
		if internal.Kind != entities.ExternalFunction {
			return nil, fmt.Errorf("export %q is a %s, not a function", name, internal.Kind)
		}
		sig, err := mod.FunctionType(entities.IndexSpace(internal.Index), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve type of export %q: %w", name, err)
		}
		exports = append(exports, export{name: name, index: internal.Index, sig: sig})
	}
	return exports, nil
}

// handleCall relays one guest call into the module instance.
func handleCall(ctx context.Context, caller api.Module, stack []uint64, mod ports.ModuleInstance, e export, logger *slog.Logger) {
	args := decodeArgs(stack, e.sig.Params)

	result, err := mod.CallInternalFunction(ctx, ports.CallerContext{Args: args, Frame: caller}, e.index, &e.sig)
	if err == nil {
		err = checkResult(e, result)
	}
	if err != nil {
		logger.ErrorContext(ctx, "wazero: native call failed", "function", e.name, "index", e.index, "error", err)
		panic(err)
	}

	if e.sig.Result != nil {
		stack[0] = result.Bits()
	}
}

func checkResult(e export, result *entities.RuntimeValue) error {
	switch {
	case e.sig.Result == nil:
		return nil
	case result == nil:
		return fmt.Errorf("function %s returned no value, expected %s", e.name, *e.sig.Result)
	case result.Type != *e.sig.Result:
		return fmt.Errorf("function %s returned %s, expected %s", e.name, result.Type, *e.sig.Result)
	}
	return nil
}
