package wazero

import (
	"github.com/reglet-dev/envnative/domain/entities"
	domainerrors "github.com/reglet-dev/envnative/domain/errors"
	"github.com/tetratelabs/wazero/api"
)

// toAPIValueType converts a value type to wazero's encoding.
// Both use the WebAssembly binary codes.
func toAPIValueType(t entities.ValueType) api.ValueType {
	return api.ValueType(t)
}

// fromAPIValueType converts a wazero value type, rejecting types the native
// layer cannot carry (v128, reference types).
func fromAPIValueType(t api.ValueType) (entities.ValueType, error) {
	switch t {
	case api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64:
		return entities.ValueType(t), nil
	}
	return 0, &domainerrors.UnsupportedError{Op: "value type " + api.ValueTypeName(t)}
}

// toAPIValueTypes converts a function signature to wazero params and results.
func toAPIValueTypes(ft entities.FunctionType) (params, results []api.ValueType) {
	params = make([]api.ValueType, len(ft.Params))
	for i, p := range ft.Params {
		params[i] = toAPIValueType(p)
	}
	if ft.Result != nil {
		results = []api.ValueType{toAPIValueType(*ft.Result)}
	} else {
		results = []api.ValueType{}
	}
	return params, results
}

// functionTypeOf converts a wazero function definition's signature.
func functionTypeOf(def api.FunctionDefinition) (entities.FunctionType, error) {
	ft := entities.FunctionType{Params: make([]entities.ValueType, 0, len(def.ParamTypes()))}
	for _, p := range def.ParamTypes() {
		vt, err := fromAPIValueType(p)
		if err != nil {
			return entities.FunctionType{}, err
		}
		ft.Params = append(ft.Params, vt)
	}
	switch results := def.ResultTypes(); len(results) {
	case 0:
	case 1:
		rt, err := fromAPIValueType(results[0])
		if err != nil {
			return entities.FunctionType{}, err
		}
		ft.Result = &rt
	default:
		return entities.FunctionType{}, &domainerrors.UnsupportedError{
			Op:     "function " + def.DebugName(),
			Reason: "multiple results",
		}
	}
	return ft, nil
}

// encodeArgs flattens runtime values to wazero's uint64 stack representation.
func encodeArgs(args []entities.RuntimeValue) []uint64 {
	stack := make([]uint64, len(args))
	for i, a := range args {
		stack[i] = a.Bits()
	}
	return stack
}

// decodeArgs reads len(params) values off a wazero stack.
func decodeArgs(stack []uint64, params []entities.ValueType) []entities.RuntimeValue {
	args := make([]entities.RuntimeValue, len(params))
	for i, p := range params {
		args[i] = entities.FromBits(p, stack[i])
	}
	return args
}
