package wazero

import (
	"context"
	"fmt"
	"sort"

	"github.com/reglet-dev/envnative/domain/entities"
	domainerrors "github.com/reglet-dev/envnative/domain/errors"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/tetratelabs/wazero/api"
)

// Module adapts an instantiated wazero module to ports.ModuleInstance so it
// can be wrapped by a native module.
//
// wazero only exposes exported items, so only exported functions are
// addressable by index (their index in the module's function index space).
// Tables are not reachable through the wazero API; table operations fail with
// *errors.UnsupportedError. Globals are addressable when listed with
// WithGlobalExports, in the order given.
type Module struct {
	mod       api.Module
	functions map[string]api.FunctionDefinition
	byIndex   map[uint32]api.FunctionDefinition
	globals   []string
	initFunc  string
}

var _ ports.ModuleInstance = (*Module)(nil)

// ModuleOption configures a Module adapter.
type ModuleOption func(*Module)

// WithGlobalExports makes the named exported globals addressable by index,
// in the order given. Names the module does not export are skipped.
func WithGlobalExports(names ...string) ModuleOption {
	return func(m *Module) {
		for _, name := range names {
			if m.mod.ExportedGlobal(name) != nil {
				m.globals = append(m.globals, name)
			}
		}
	}
}

// WithInitFunction sets the export called by Instantiate for user modules
// (default: "_initialize"). An empty name disables the call.
func WithInitFunction(name string) ModuleOption {
	return func(m *Module) {
		m.initFunc = name
	}
}

// NewModule wraps mod.
func NewModule(mod api.Module, opts ...ModuleOption) *Module {
	defs := mod.ExportedFunctionDefinitions()
	m := &Module{
		mod:       mod,
		functions: defs,
		byIndex:   make(map[uint32]api.FunctionDefinition, len(defs)),
		initFunc:  "_initialize",
	}
	for _, def := range defs {
		m.byIndex[def.Index()] = def
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// API returns the underlying wazero module.
func (m *Module) API() api.Module { return m.mod }

// Name returns the wazero instance name.
func (m *Module) Name() string { return m.mod.Name() }

// ExportedFunctionNames returns the sorted names of exported functions.
func (m *Module) ExportedFunctionNames() []string {
	names := make([]string, 0, len(m.functions))
	for name := range m.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate calls the init export of user modules when present. wazero has
// already run the start function during instantiation.
func (m *Module) Instantiate(ctx context.Context, isUserModule bool, _ ports.Externals) error {
	if !isUserModule || m.initFunc == "" {
		return nil
	}
	init := m.mod.ExportedFunction(m.initFunc)
	if init == nil {
		return nil
	}
	if _, err := init.Call(ctx); err != nil {
		return fmt.Errorf("failed to call %s: %w", m.initFunc, err)
	}
	return nil
}

func (m *Module) ExecuteIndex(ctx context.Context, index uint32, params ports.ExecutionParams) (*entities.RuntimeValue, error) {
	def, ok := m.byIndex[index]
	if !ok {
		return nil, &domainerrors.ItemNotFoundError{Kind: "function", Index: index}
	}
	return m.call(ctx, def, params.Args)
}

func (m *Module) ExecuteExport(ctx context.Context, name string, params ports.ExecutionParams) (*entities.RuntimeValue, error) {
	def, ok := m.functions[name]
	if !ok {
		return nil, &domainerrors.ItemNotFoundError{Kind: "export", Name: name}
	}
	return m.call(ctx, def, params.Args)
}

// ExportEntry resolves function, memory and listed global exports.
func (m *Module) ExportEntry(name string, _ ports.Externals, requiredType entities.ExportEntryType) (entities.Internal, error) {
	if def, ok := m.functions[name]; ok {
		if requiredType.Kind == entities.ExportEntryGlobal {
			return entities.Internal{}, fmt.Errorf("export %q is a function, expected a global", name)
		}
		if requiredType.Function != nil {
			ft, err := functionTypeOf(def)
			if err != nil {
				return entities.Internal{}, err
			}
			if !ft.Equal(*requiredType.Function) {
				return entities.Internal{}, fmt.Errorf("export %q has type %s, expected %s", name, ft, requiredType.Function)
			}
		}
		return entities.FunctionRef(def.Index()), nil
	}

	if requiredType.Kind == entities.ExportEntryAny {
		if def, ok := m.mod.ExportedMemoryDefinitions()[name]; ok {
			return entities.Internal{Kind: entities.ExternalMemory, Index: def.Index()}, nil
		}
	}

	if requiredType.Kind != entities.ExportEntryFunction {
		for i, g := range m.globals {
			if g == name {
				return entities.Internal{Kind: entities.ExternalGlobal, Index: uint32(i)}, nil //nolint:gosec // G115: bounded by export count
			}
		}
	}

	return entities.Internal{}, &domainerrors.ItemNotFoundError{Kind: "export", Name: name}
}

func (m *Module) FunctionType(index entities.ItemIndex, _ ports.Externals) (entities.FunctionType, error) {
	def, err := m.function(index)
	if err != nil {
		return entities.FunctionType{}, err
	}
	return functionTypeOf(def)
}

func (m *Module) Table(entities.ItemIndex) (ports.TableInstance, error) {
	return nil, &domainerrors.UnsupportedError{Op: "table", Reason: "wazero does not expose tables"}
}

func (m *Module) Memory(index entities.ItemIndex) (ports.MemoryInstance, error) {
	mem, ok := moduleMemory(m.mod)
	if index.Index != 0 || !ok {
		return nil, &domainerrors.ItemNotFoundError{Kind: "memory", Index: index.Index}
	}
	return memory{mem}, nil
}

func (m *Module) Global(index entities.ItemIndex, globalType *entities.GlobalType) (ports.GlobalInstance, error) {
	if int64(index.Index) >= int64(len(m.globals)) {
		return nil, &domainerrors.ItemNotFoundError{Kind: "global", Index: index.Index}
	}
	g, err := newGlobal(m.mod.ExportedGlobal(m.globals[index.Index]))
	if err != nil {
		return nil, err
	}
	if globalType != nil && g.Type() != *globalType {
		return nil, fmt.Errorf("global %q has type %v, expected %v", m.globals[index.Index], g.Type(), *globalType)
	}
	return g, nil
}

func (m *Module) CallFunction(ctx context.Context, caller ports.CallerContext, index entities.ItemIndex, fnType *entities.FunctionType) (*entities.RuntimeValue, error) {
	def, err := m.function(index)
	if err != nil {
		return nil, err
	}
	if err := checkType(def, fnType); err != nil {
		return nil, err
	}
	return m.call(ctx, def, caller.Args)
}

func (m *Module) CallFunctionIndirect(context.Context, ports.CallerContext, entities.ItemIndex, uint32, uint32) (*entities.RuntimeValue, error) {
	return nil, &domainerrors.UnsupportedError{Op: "indirect call", Reason: "wazero does not expose tables"}
}

func (m *Module) CallInternalFunction(ctx context.Context, caller ports.CallerContext, index uint32, fnType *entities.FunctionType) (*entities.RuntimeValue, error) {
	return m.CallFunction(ctx, caller, entities.InternalIndex(index), fnType)
}

func (m *Module) function(index entities.ItemIndex) (api.FunctionDefinition, error) {
	if index.Kind == entities.IndexKindExternal {
		return nil, &domainerrors.UnsupportedError{Op: "external function index", Reason: "imports are resolved by wazero"}
	}
	def, ok := m.byIndex[index.Index]
	if !ok {
		return nil, &domainerrors.ItemNotFoundError{Kind: "function", Index: index.Index}
	}
	return def, nil
}

func (m *Module) call(ctx context.Context, def api.FunctionDefinition, args []entities.RuntimeValue) (*entities.RuntimeValue, error) {
	ft, err := functionTypeOf(def)
	if err != nil {
		return nil, err
	}
	name := def.ExportNames()[0]
	fn := m.mod.ExportedFunction(name)
	if fn == nil {
		return nil, &domainerrors.ItemNotFoundError{Kind: "export", Name: name}
	}

	results, err := fn.Call(ctx, encodeArgs(args)...)
	if err != nil {
		return nil, err
	}
	if ft.Result == nil || len(results) == 0 {
		return nil, nil
	}
	v := entities.FromBits(*ft.Result, results[0])
	return &v, nil
}

func checkType(def api.FunctionDefinition, fnType *entities.FunctionType) error {
	if fnType == nil {
		return nil
	}
	ft, err := functionTypeOf(def)
	if err != nil {
		return err
	}
	if !ft.Equal(*fnType) {
		return fmt.Errorf("function %s has type %s, expected %s", def.DebugName(), ft, fnType)
	}
	return nil
}

type memory struct {
	mem api.Memory
}

func (m memory) Size() uint32 { return m.mem.Size() }

func (m memory) Read(offset, byteCount uint32) ([]byte, bool) {
	return m.mem.Read(offset, byteCount)
}

func (m memory) Write(offset uint32, data []byte) bool {
	return m.mem.Write(offset, data)
}

type global struct {
	g  api.Global
	vt entities.ValueType
}

func newGlobal(g api.Global) (global, error) {
	vt, err := fromAPIValueType(g.Type())
	if err != nil {
		return global{}, err
	}
	return global{g: g, vt: vt}, nil
}

func (g global) Type() entities.GlobalType {
	_, mutable := g.g.(api.MutableGlobal)
	return entities.GlobalType{ValueType: g.vt, Mutable: mutable}
}

func (g global) Get() entities.RuntimeValue {
	return entities.FromBits(g.vt, g.g.Get())
}

func (g global) Set(v entities.RuntimeValue) error {
	mg, ok := g.g.(api.MutableGlobal)
	if !ok {
		return fmt.Errorf("global is immutable")
	}
	if v.Type != g.vt {
		return fmt.Errorf("cannot set %s global to %s", g.vt, v.Type)
	}
	mg.Set(v.Bits())
	return nil
}
