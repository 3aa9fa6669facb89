package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reglet-dev/envnative/domain/entities"
	domainerrors "github.com/reglet-dev/envnative/domain/errors"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/reglet-dev/envnative/hostfuncs"
)

// NativeIndexFuncMin is the first function index of the native range.
// A function index i >= NativeIndexFuncMin denotes the native function at
// registry position i - NativeIndexFuncMin. Embedders hard-code this value.
const NativeIndexFuncMin uint32 = 10001

// NativeModule is a ports.ModuleInstance that exposes native functions on top
// of a wrapped module.
//
// The registry is read-only and the wrapped module is shared, so a
// NativeModule may be used from several goroutines. Native calls are
// serialized on the executor: only one executor call runs at a time.
type NativeModule struct {
	env       ports.ModuleInstance
	functions *hostfuncs.Registry
	logger    *slog.Logger

	mu       sync.Mutex
	executor ports.UserFunctionExecutor

	typeCheck bool
}

var _ ports.ModuleInstance = (*NativeModule)(nil)

// NewNativeModule wraps env with the given native functions.
func NewNativeModule(env ports.ModuleInstance, functions hostfuncs.UserFunctions, opts ...NativeOption) (*NativeModule, error) {
	if env == nil {
		return nil, fmt.Errorf("native module requires a wrapped module")
	}
	if functions.Functions == nil {
		return nil, fmt.Errorf("native module requires a function registry")
	}
	if functions.Executor == nil {
		return nil, fmt.Errorf("native module requires an executor")
	}

	cfg := defaultNativeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &NativeModule{
		env:       env,
		functions: functions.Functions,
		executor:  functions.Executor,
		logger:    cfg.logger,
		typeCheck: cfg.typeCheck,
	}, nil
}

// EnvNativeModule wraps an "env" module with native functions using default options.
func EnvNativeModule(env ports.ModuleInstance, functions hostfuncs.UserFunctions) (*NativeModule, error) {
	return NewNativeModule(env, functions)
}

// Env returns the wrapped module.
func (m *NativeModule) Env() ports.ModuleInstance { return m.env }

// Functions returns the native function registry.
func (m *NativeModule) Functions() *hostfuncs.Registry { return m.functions }

// NativeIndex returns the function index of the native function name.
func (m *NativeModule) NativeIndex(name string) (uint32, bool) {
	pos, ok := m.functions.Lookup(name)
	if !ok {
		return 0, false
	}
	return NativeIndexFuncMin + pos, true
}

// IsNativeIndex reports whether index falls in the native range.
func IsNativeIndex(index uint32) bool {
	return index >= NativeIndexFuncMin
}

func (m *NativeModule) Instantiate(ctx context.Context, isUserModule bool, externals ports.Externals) error {
	return m.env.Instantiate(ctx, isUserModule, externals)
}

func (m *NativeModule) ExecuteIndex(ctx context.Context, index uint32, params ports.ExecutionParams) (*entities.RuntimeValue, error) {
	return m.env.ExecuteIndex(ctx, index, params)
}

func (m *NativeModule) ExecuteExport(ctx context.Context, name string, params ports.ExecutionParams) (*entities.RuntimeValue, error) {
	return m.env.ExecuteExport(ctx, name, params)
}

// ExportEntry resolves native functions by name before asking the wrapped
// module. A native function is always reported as a function, whatever
// requiredType asks for; callers that need another kind check the result.
func (m *NativeModule) ExportEntry(name string, externals ports.Externals, requiredType entities.ExportEntryType) (entities.Internal, error) {
	if index, ok := m.NativeIndex(name); ok {
		return entities.FunctionRef(index), nil
	}
	return m.env.ExportEntry(name, externals, requiredType)
}

// FunctionType returns the signature of the function at index.
// It panics on an External index: functions exported by this module are never
// addressed through the import space.
func (m *NativeModule) FunctionType(index entities.ItemIndex, externals ports.Externals) (entities.FunctionType, error) {
	if index.Kind == entities.IndexKindExternal {
		panic(fmt.Sprintf("native module: function type requested for external index %d", index.Index))
	}

	if !IsNativeIndex(index.Index) {
		return m.env.FunctionType(index, externals)
	}

	fn, err := m.native(context.Background(), index.Index, "function_type")
	if err != nil {
		return entities.FunctionType{}, err
	}
	return fn.Type(), nil
}

func (m *NativeModule) Table(index entities.ItemIndex) (ports.TableInstance, error) {
	return m.env.Table(index)
}

func (m *NativeModule) Memory(index entities.ItemIndex) (ports.MemoryInstance, error) {
	return m.env.Memory(index)
}

func (m *NativeModule) Global(index entities.ItemIndex, globalType *entities.GlobalType) (ports.GlobalInstance, error) {
	return m.env.Global(index, globalType)
}

func (m *NativeModule) CallFunction(ctx context.Context, caller ports.CallerContext, index entities.ItemIndex, fnType *entities.FunctionType) (*entities.RuntimeValue, error) {
	return m.env.CallFunction(ctx, caller, index, fnType)
}

func (m *NativeModule) CallFunctionIndirect(ctx context.Context, caller ports.CallerContext, tableIndex entities.ItemIndex, typeIndex, funcIndex uint32) (*entities.RuntimeValue, error) {
	return m.env.CallFunctionIndirect(ctx, caller, tableIndex, typeIndex, funcIndex)
}

// CallInternalFunction dispatches native indices to the executor and forwards
// everything else to the wrapped module.
//
// The executor lock is held for the duration of the executor call. An executor
// must not call back into a native function of the same module.
func (m *NativeModule) CallInternalFunction(ctx context.Context, caller ports.CallerContext, index uint32, fnType *entities.FunctionType) (*entities.RuntimeValue, error) {
	if !IsNativeIndex(index) {
		return m.env.CallInternalFunction(ctx, caller, index, fnType)
	}

	fn, err := m.native(ctx, index, "call")
	if err != nil {
		return nil, err
	}

	if m.typeCheck && fnType != nil {
		if actual := fn.Type(); !actual.Equal(*fnType) {
			m.logger.WarnContext(ctx, "native function type mismatch",
				"function", fn.Name(), "index", index, "expected", fnType.String(), "actual", actual.String())
			return nil, &domainerrors.FunctionTypeMismatchError{
				Name:     fn.Name(),
				Index:    index,
				Expected: *fnType,
				Actual:   actual,
			}
		}
	}

	m.logger.DebugContext(ctx, "dispatching native function", "function", fn.Name(), "index", index)

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.executor.Execute(ctx, fn.Name(), caller)
}

// native resolves a native-range index to its descriptor.
func (m *NativeModule) native(ctx context.Context, index uint32, op string) (hostfuncs.UserFunction, error) {
	fn, ok := m.functions.Get(index - NativeIndexFuncMin)
	if !ok {
		m.logger.WarnContext(ctx, "missing native function", "index", index, "op", op, "registered", m.functions.Len())
		return hostfuncs.UserFunction{}, &domainerrors.MissingNativeFunctionError{Op: op, Index: index}
	}
	return fn, nil
}
