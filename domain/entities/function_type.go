package entities

import "slices"

// FunctionType is a function signature: ordered parameters and at most one result.
type FunctionType struct {
	Params []ValueType
	// Result is nil for functions that return nothing.
	Result *ValueType
}

// NewFunctionType creates a FunctionType. The params slice is copied.
func NewFunctionType(params []ValueType, result *ValueType) FunctionType {
	ft := FunctionType{Params: slices.Clone(params)}
	if result != nil {
		r := *result
		ft.Result = &r
	}
	return ft
}

// Equal reports whether both signatures have the same params and result.
func (t FunctionType) Equal(other FunctionType) bool {
	if !slices.Equal(t.Params, other.Params) {
		return false
	}
	if t.Result == nil || other.Result == nil {
		return t.Result == nil && other.Result == nil
	}
	return *t.Result == *other.Result
}

// String renders the signature in the compact "i32i32_i32" form, using "null"
// for an empty side.
func (t FunctionType) String() string {
	var ret string
	for _, p := range t.Params {
		ret += p.String()
	}
	if len(t.Params) == 0 {
		ret += "null"
	}
	ret += "_"
	if t.Result != nil {
		ret += t.Result.String()
	} else {
		ret += "null"
	}
	return ret
}

// ResultOf returns a pointer to t, for building FunctionType literals inline.
func ResultOf(t ValueType) *ValueType {
	return &t
}
