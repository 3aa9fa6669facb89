package entities

import "fmt"

// IndexKind says which index space an ItemIndex refers to.
type IndexKind int

const (
	// IndexKindIndexSpace is an index into the combined (imports + internal) space.
	IndexKindIndexSpace IndexKind = iota
	// IndexKindInternal is an index into the module's own items.
	IndexKindInternal
	// IndexKindExternal is an index into the module's imports.
	IndexKindExternal
)

func (k IndexKind) String() string {
	switch k {
	case IndexKindIndexSpace:
		return "index_space"
	case IndexKindInternal:
		return "internal"
	case IndexKindExternal:
		return "external"
	}
	return fmt.Sprintf("IndexKind(%d)", int(k))
}

// ItemIndex addresses a function, table, memory or global of a module.
type ItemIndex struct {
	Kind  IndexKind
	Index uint32
}

// IndexSpace creates an ItemIndex into the combined index space.
func IndexSpace(i uint32) ItemIndex { return ItemIndex{Kind: IndexKindIndexSpace, Index: i} }

// InternalIndex creates an ItemIndex into the module's own items.
func InternalIndex(i uint32) ItemIndex { return ItemIndex{Kind: IndexKindInternal, Index: i} }

// ExternalIndex creates an ItemIndex into the module's imports.
func ExternalIndex(i uint32) ItemIndex { return ItemIndex{Kind: IndexKindExternal, Index: i} }

func (i ItemIndex) String() string {
	return fmt.Sprintf("%s:%d", i.Kind, i.Index)
}

// ExternalKind classifies an export.
type ExternalKind byte

const (
	ExternalFunction ExternalKind = iota
	ExternalTable
	ExternalMemory
	ExternalGlobal
)

func (k ExternalKind) String() string {
	switch k {
	case ExternalFunction:
		return "func"
	case ExternalTable:
		return "table"
	case ExternalMemory:
		return "memory"
	case ExternalGlobal:
		return "global"
	}
	return fmt.Sprintf("%#x", byte(k))
}

// Internal is a resolved export: the kind of item and its index inside the
// exporting module.
type Internal struct {
	Kind  ExternalKind
	Index uint32
}

// FunctionRef is shorthand for an Internal function reference.
func FunctionRef(index uint32) Internal {
	return Internal{Kind: ExternalFunction, Index: index}
}

// ExportEntryType constrains export resolution. The zero value accepts any export.
type ExportEntryType struct {
	Kind ExportEntryKind
	// Function is set when Kind is ExportEntryFunction.
	Function *FunctionType
	// Global is set when Kind is ExportEntryGlobal.
	Global *GlobalType
}

// ExportEntryKind is the constraint applied by an ExportEntryType.
type ExportEntryKind int

const (
	ExportEntryAny ExportEntryKind = iota
	ExportEntryFunction
	ExportEntryGlobal
)

// AnyExport accepts an export of any kind.
func AnyExport() ExportEntryType { return ExportEntryType{} }

// FunctionExport requires a function export with the given signature.
func FunctionExport(ft FunctionType) ExportEntryType {
	return ExportEntryType{Kind: ExportEntryFunction, Function: &ft}
}

// GlobalExport requires a global export of the given type.
func GlobalExport(gt GlobalType) ExportEntryType {
	return ExportEntryType{Kind: ExportEntryGlobal, Global: &gt}
}

// GlobalType describes a global variable.
type GlobalType struct {
	ValueType ValueType
	Mutable   bool
}
