package ports

import (
	"context"

	"github.com/reglet-dev/envnative/domain/entities"
)

// Externals maps module names to instances used to resolve cross-module imports.
// A nil map means no externals are available.
type Externals map[string]ModuleInstance

// ExecutionParams holds the arguments of a top-level execution.
type ExecutionParams struct {
	Args      []entities.RuntimeValue
	Externals Externals
}

// CallerContext is the caller-side state handed to a callee.
// Implementations relay it unchanged; only the final callee interprets it.
type CallerContext struct {
	// Args are the call arguments, in parameter order.
	Args []entities.RuntimeValue

	// Frame is engine-defined access to the caller's frame (locals, value stack).
	Frame any

	// Externals resolves imports for calls made while servicing this one.
	Externals Externals
}

// ModuleInstance is the contract every executable unit implements.
// Implementations may wrap each other, forming a composition chain.
type ModuleInstance interface {
	// Instantiate runs instantiation steps (start function, segment initialization).
	Instantiate(ctx context.Context, isUserModule bool, externals Externals) error

	// ExecuteIndex runs the function at index with the given params.
	ExecuteIndex(ctx context.Context, index uint32, params ExecutionParams) (*entities.RuntimeValue, error)

	// ExecuteExport runs the exported function with the given name.
	ExecuteExport(ctx context.Context, name string, params ExecutionParams) (*entities.RuntimeValue, error)

	// ExportEntry resolves an export by name.
	ExportEntry(name string, externals Externals, requiredType entities.ExportEntryType) (entities.Internal, error)

	// FunctionType returns the signature of the function at index.
	FunctionType(index entities.ItemIndex, externals Externals) (entities.FunctionType, error)

	Table(index entities.ItemIndex) (TableInstance, error)
	Memory(index entities.ItemIndex) (MemoryInstance, error)

	// Global returns the global at index. A non-nil globalType requests a type check.
	Global(index entities.ItemIndex, globalType *entities.GlobalType) (GlobalInstance, error)

	// CallFunction calls the function at index directly.
	CallFunction(ctx context.Context, caller CallerContext, index entities.ItemIndex, fnType *entities.FunctionType) (*entities.RuntimeValue, error)

	// CallFunctionIndirect calls the function stored at funcIndex in the table,
	// checking it against the type at typeIndex.
	CallFunctionIndirect(ctx context.Context, caller CallerContext, tableIndex entities.ItemIndex, typeIndex, funcIndex uint32) (*entities.RuntimeValue, error)

	// CallInternalFunction calls a function by internal index, bypassing
	// re-export indirection.
	CallInternalFunction(ctx context.Context, caller CallerContext, index uint32, fnType *entities.FunctionType) (*entities.RuntimeValue, error)
}

// TableInstance is a function table owned by a module.
type TableInstance interface {
	// Len returns the number of elements.
	Len() uint32
	// Get returns the function index stored at offset.
	Get(offset uint32) (uint32, bool)
}

// MemoryInstance is a linear memory owned by a module.
type MemoryInstance interface {
	// Size returns the size in bytes.
	Size() uint32
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, data []byte) bool
}

// GlobalInstance is a global variable owned by a module.
type GlobalInstance interface {
	Type() entities.GlobalType
	Get() entities.RuntimeValue
	// Set fails for immutable globals.
	Set(v entities.RuntimeValue) error
}
