package host

import (
	"log/slog"

	"github.com/reglet-dev/envnative/hostfuncs"
	"github.com/tetratelabs/wazero"
)

// nativeConfig holds configuration for a NativeModule.
type nativeConfig struct {
	logger    *slog.Logger
	typeCheck bool
}

func defaultNativeConfig() nativeConfig {
	return nativeConfig{
		logger:    slog.Default(),
		typeCheck: true,
	}
}

// NativeOption configures a NativeModule.
type NativeOption func(*nativeConfig)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) NativeOption {
	return func(c *nativeConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTypeCheck enables or disables checking the caller's expected function
// type against the native descriptor before dispatch. Enabled by default.
// When disabled the expected type is accepted and ignored.
func WithTypeCheck(enabled bool) NativeOption {
	return func(c *nativeConfig) {
		c.typeCheck = enabled
	}
}

// envConfig holds configuration for an Environment.
type envConfig struct {
	runtimeConfig  wazero.RuntimeConfig
	functions      *hostfuncs.UserFunctions
	baseModule     []byte
	baseModuleName string
	importName     string
	baseGlobals    []string
	wasi           bool
	logger         *slog.Logger
	nativeOpts     []NativeOption
}

func defaultEnvConfig() envConfig {
	return envConfig{
		baseModuleName: "env_base",
		importName:     "env",
		wasi:           true,
		logger:         slog.Default(),
	}
}

// Option configures an Environment.
type Option func(*envConfig)

// WithUserFunctions sets the native functions exposed to guests.
func WithUserFunctions(functions hostfuncs.UserFunctions) Option {
	return func(c *envConfig) {
		c.functions = &functions
	}
}

// WithBaseModule sets the wasm binary of the module the native functions are
// composed with. Its exported functions are re-exported next to the natives.
// Without it an empty module is used.
func WithBaseModule(wasm []byte) Option {
	return func(c *envConfig) {
		c.baseModule = wasm
	}
}

// WithBaseModuleName sets the instance name of the base module (default: "env_base").
func WithBaseModuleName(name string) Option {
	return func(c *envConfig) {
		c.baseModuleName = name
	}
}

// WithBaseGlobals makes the named exported globals of the base module
// addressable through the native module's Global operation.
func WithBaseGlobals(names ...string) Option {
	return func(c *envConfig) {
		c.baseGlobals = append(c.baseGlobals, names...)
	}
}

// WithWASI enables or disables instantiating wasi_snapshot_preview1 in the
// runtime. Enabled by default.
func WithWASI(enabled bool) Option {
	return func(c *envConfig) {
		c.wasi = enabled
	}
}

// WithImportName sets the module name guests import from (default: "env").
func WithImportName(name string) Option {
	return func(c *envConfig) {
		c.importName = name
	}
}

// WithRuntimeConfig sets the wazero runtime configuration.
func WithRuntimeConfig(cfg wazero.RuntimeConfig) Option {
	return func(c *envConfig) {
		c.runtimeConfig = cfg
	}
}

// WithEnvLogger sets the logger for the environment and its native module.
func WithEnvLogger(logger *slog.Logger) Option {
	return func(c *envConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNativeOptions passes options through to the NativeModule.
func WithNativeOptions(opts ...NativeOption) Option {
	return func(c *envConfig) {
		c.nativeOpts = append(c.nativeOpts, opts...)
	}
}
