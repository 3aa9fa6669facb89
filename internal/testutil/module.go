package testutil

import (
	"context"
	"sync"

	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/errors"
	"github.com/reglet-dev/envnative/domain/ports"
)

// Call is one operation recorded by FakeModule.
type Call struct {
	Op           string
	Index        uint32
	Kind         entities.IndexKind
	Name         string
	Args         []entities.RuntimeValue
	Caller       ports.CallerContext
	Externals    ports.Externals
	IsUserModule bool
	TableIndex   uint32
	TypeIndex    uint32
	Expected     *entities.FunctionType
	GlobalType   *entities.GlobalType
}

// FakeFunction is a function of a FakeModule.
type FakeFunction struct {
	Type entities.FunctionType
	Fn   func(ctx context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error)
}

// FakeModule is an in-memory ports.ModuleInstance that records every call.
// Functions are addressed by index, in any index kind. Exports map names to
// function indices. Err, when set, is returned by every operation.
type FakeModule struct {
	Functions map[uint32]FakeFunction
	Exports   map[string]uint32
	Err       error

	mu    sync.Mutex
	calls []Call
}

var _ ports.ModuleInstance = (*FakeModule)(nil)

// NewFakeModule creates an empty fake module.
func NewFakeModule() *FakeModule {
	return &FakeModule{
		Functions: make(map[uint32]FakeFunction),
		Exports:   make(map[string]uint32),
	}
}

// WithFunction adds a function at index and exports it under name when name
// is not empty.
func (m *FakeModule) WithFunction(index uint32, name string, ft entities.FunctionType, fn func(context.Context, ports.CallerContext) (*entities.RuntimeValue, error)) *FakeModule {
	m.Functions[index] = FakeFunction{Type: ft, Fn: fn}
	if name != "" {
		m.Exports[name] = index
	}
	return m
}

// Calls returns a copy of the recorded calls.
func (m *FakeModule) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

func (m *FakeModule) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *FakeModule) Instantiate(_ context.Context, isUserModule bool, externals ports.Externals) error {
	m.record(Call{Op: "Instantiate", Externals: externals, IsUserModule: isUserModule})
	return m.Err
}

func (m *FakeModule) ExecuteIndex(ctx context.Context, index uint32, params ports.ExecutionParams) (*entities.RuntimeValue, error) {
	m.record(Call{Op: "ExecuteIndex", Index: index, Args: params.Args, Externals: params.Externals})
	return m.invoke(ctx, index, ports.CallerContext{Args: params.Args, Externals: params.Externals})
}

func (m *FakeModule) ExecuteExport(ctx context.Context, name string, params ports.ExecutionParams) (*entities.RuntimeValue, error) {
	m.record(Call{Op: "ExecuteExport", Name: name, Args: params.Args, Externals: params.Externals})
	if m.Err != nil {
		return nil, m.Err
	}
	index, ok := m.Exports[name]
	if !ok {
		return nil, &errors.ItemNotFoundError{Kind: "export", Name: name}
	}
	return m.invoke(ctx, index, ports.CallerContext{Args: params.Args, Externals: params.Externals})
}

func (m *FakeModule) ExportEntry(name string, externals ports.Externals, _ entities.ExportEntryType) (entities.Internal, error) {
	m.record(Call{Op: "ExportEntry", Name: name, Externals: externals})
	if m.Err != nil {
		return entities.Internal{}, m.Err
	}
	index, ok := m.Exports[name]
	if !ok {
		return entities.Internal{}, &errors.ItemNotFoundError{Kind: "export", Name: name}
	}
	return entities.FunctionRef(index), nil
}

func (m *FakeModule) FunctionType(index entities.ItemIndex, externals ports.Externals) (entities.FunctionType, error) {
	m.record(Call{Op: "FunctionType", Index: index.Index, Kind: index.Kind, Externals: externals})
	if m.Err != nil {
		return entities.FunctionType{}, m.Err
	}
	fn, ok := m.Functions[index.Index]
	if !ok {
		return entities.FunctionType{}, &errors.ItemNotFoundError{Kind: "function", Index: index.Index}
	}
	return fn.Type, nil
}

func (m *FakeModule) Table(index entities.ItemIndex) (ports.TableInstance, error) {
	m.record(Call{Op: "Table", Index: index.Index, Kind: index.Kind})
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, &errors.ItemNotFoundError{Kind: "table", Index: index.Index}
}

func (m *FakeModule) Memory(index entities.ItemIndex) (ports.MemoryInstance, error) {
	m.record(Call{Op: "Memory", Index: index.Index, Kind: index.Kind})
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, &errors.ItemNotFoundError{Kind: "memory", Index: index.Index}
}

func (m *FakeModule) Global(index entities.ItemIndex, globalType *entities.GlobalType) (ports.GlobalInstance, error) {
	m.record(Call{Op: "Global", Index: index.Index, Kind: index.Kind, GlobalType: globalType})
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, &errors.ItemNotFoundError{Kind: "global", Index: index.Index}
}

func (m *FakeModule) CallFunction(ctx context.Context, caller ports.CallerContext, index entities.ItemIndex, fnType *entities.FunctionType) (*entities.RuntimeValue, error) {
	m.record(Call{Op: "CallFunction", Index: index.Index, Kind: index.Kind, Caller: caller, Expected: fnType})
	return m.invoke(ctx, index.Index, caller)
}

func (m *FakeModule) CallFunctionIndirect(_ context.Context, caller ports.CallerContext, tableIndex entities.ItemIndex, typeIndex, funcIndex uint32) (*entities.RuntimeValue, error) {
	m.record(Call{Op: "CallFunctionIndirect", Index: funcIndex, Kind: tableIndex.Kind, Caller: caller, TableIndex: tableIndex.Index, TypeIndex: typeIndex})
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, &errors.ItemNotFoundError{Kind: "table", Index: tableIndex.Index}
}

func (m *FakeModule) CallInternalFunction(ctx context.Context, caller ports.CallerContext, index uint32, fnType *entities.FunctionType) (*entities.RuntimeValue, error) {
	m.record(Call{Op: "CallInternalFunction", Index: index, Caller: caller, Expected: fnType})
	return m.invoke(ctx, index, caller)
}

func (m *FakeModule) invoke(ctx context.Context, index uint32, caller ports.CallerContext) (*entities.RuntimeValue, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	fn, ok := m.Functions[index]
	if !ok {
		return nil, &errors.ItemNotFoundError{Kind: "function", Index: index}
	}
	if fn.Fn == nil {
		return nil, nil
	}
	return fn.Fn(ctx, caller)
}
