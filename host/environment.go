package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/reglet-dev/envnative/hostfuncs"
	adapter "github.com/reglet-dev/envnative/infrastructure/wazero"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Environment is a wazero runtime whose import module (default "env")
// exposes native functions composed with an optional base module.
//
// Guests import native functions and base module exports by name from the
// import module. Native names take precedence over base exports.
type Environment struct {
	runtime wazero.Runtime
	base    *adapter.Module
	native  *NativeModule
	host    api.Module
	logger  *slog.Logger
}

// NewEnvironment creates the runtime and publishes the import module.
func NewEnvironment(ctx context.Context, opts ...Option) (*Environment, error) {
	cfg := defaultEnvConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	functions, err := cfg.userFunctions()
	if err != nil {
		return nil, err
	}

	var rt wazero.Runtime
	if cfg.runtimeConfig != nil {
		rt = wazero.NewRuntimeWithConfig(ctx, cfg.runtimeConfig)
	} else {
		rt = wazero.NewRuntime(ctx)
	}

	env, err := newEnvironment(ctx, rt, cfg, functions)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	return env, nil
}

func newEnvironment(ctx context.Context, rt wazero.Runtime, cfg envConfig, functions hostfuncs.UserFunctions) (*Environment, error) {
	if cfg.wasi {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
			return nil, fmt.Errorf("failed to instantiate wasi: %w", err)
		}
	}

	baseMod, err := instantiateBase(ctx, rt, cfg)
	if err != nil {
		return nil, err
	}
	base := adapter.NewModule(baseMod, adapter.WithGlobalExports(cfg.baseGlobals...))

	nativeOpts := append([]NativeOption{WithLogger(cfg.logger)}, cfg.nativeOpts...)
	native, err := NewNativeModule(base, functions, nativeOpts...)
	if err != nil {
		return nil, err
	}

	names := append(functions.Functions.Names(), base.ExportedFunctionNames()...)
	hostMod, err := adapter.RegisterNativeModule(ctx, rt, native, names,
		adapter.WithModuleName(cfg.importName),
		adapter.WithAdapterLogger(cfg.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s module: %w", cfg.importName, err)
	}

	cfg.logger.DebugContext(ctx, "environment ready",
		"import", cfg.importName, "natives", functions.Functions.Len(), "exports", len(names))

	return &Environment{
		runtime: rt,
		base:    base,
		native:  native,
		host:    hostMod,
		logger:  cfg.logger,
	}, nil
}

func (c envConfig) userFunctions() (hostfuncs.UserFunctions, error) {
	if c.functions != nil {
		return *c.functions, nil
	}
	reg, err := hostfuncs.NewRegistry()
	if err != nil {
		return hostfuncs.UserFunctions{}, fmt.Errorf("failed to create default registry: %w", err)
	}
	exec, err := hostfuncs.NewHandlerExecutor()
	if err != nil {
		return hostfuncs.UserFunctions{}, err
	}
	return hostfuncs.UserFunctions{Functions: reg, Executor: exec}, nil
}

func instantiateBase(ctx context.Context, rt wazero.Runtime, cfg envConfig) (api.Module, error) {
	if cfg.baseModule == nil {
		mod, err := rt.NewHostModuleBuilder(cfg.baseModuleName).Instantiate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create empty base module: %w", err)
		}
		return mod, nil
	}
	mod, err := rt.InstantiateWithConfig(ctx, cfg.baseModule, wazero.NewModuleConfig().WithName(cfg.baseModuleName))
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate base module: %w", err)
	}
	return mod, nil
}

// LoadGuest instantiates a guest module against the environment and runs its
// "_initialize" export when present.
func (e *Environment) LoadGuest(ctx context.Context, wasm []byte) (*adapter.Module, error) {
	mod, err := e.runtime.Instantiate(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	guest := adapter.NewModule(mod)
	if err := guest.Instantiate(ctx, true, nil); err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}
	return guest, nil
}

// Call invokes an export of a guest loaded with LoadGuest.
func (e *Environment) Call(ctx context.Context, guest *adapter.Module, export string, args ...entities.RuntimeValue) (*entities.RuntimeValue, error) {
	result, err := guest.ExecuteExport(ctx, export, ports.ExecutionParams{Args: args})
	if err != nil {
		e.logger.DebugContext(ctx, "guest call failed", "export", export, "error", err)
		return nil, err
	}
	return result, nil
}

// Native returns the composed module behind the import module.
func (e *Environment) Native() *NativeModule { return e.native }

// Base returns the base module adapter.
func (e *Environment) Base() *adapter.Module { return e.base }

// ImportModule returns the wazero host module guests import from.
func (e *Environment) ImportModule() api.Module { return e.host }

// Runtime returns the underlying wazero runtime.
func (e *Environment) Runtime() wazero.Runtime { return e.runtime }

// Close releases the runtime and every module in it.
func (e *Environment) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
