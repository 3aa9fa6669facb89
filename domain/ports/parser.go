package ports

import "github.com/reglet-dev/envnative/domain/entities"

// FunctionSpec is the decoded form of one native function declaration in a
// configuration file.
type FunctionSpec struct {
	Name   string   `json:"name" yaml:"name" validate:"required" jsonschema:"minLength=1"`
	Params []string `json:"params,omitempty" yaml:"params" validate:"dive,oneof=i32 i64 f32 f64"`
	Result string   `json:"result,omitempty" yaml:"result" validate:"omitempty,oneof=i32 i64 f32 f64" jsonschema:"enum=i32,enum=i64,enum=f32,enum=f64"`
}

// FunctionsFile is the root of a native function configuration file.
type FunctionsFile struct {
	Functions []FunctionSpec `json:"functions,omitempty" yaml:"functions" validate:"dive"`
}

// FunctionParser decodes a native function configuration document.
type FunctionParser interface {
	Parse(data []byte) (*FunctionsFile, error)
}

// Signature converts the textual value types into a FunctionType.
func (s FunctionSpec) Signature() (entities.FunctionType, error) {
	params := make([]entities.ValueType, 0, len(s.Params))
	for _, p := range s.Params {
		vt, err := entities.ParseValueType(p)
		if err != nil {
			return entities.FunctionType{}, err
		}
		params = append(params, vt)
	}
	if s.Result == "" {
		return entities.FunctionType{Params: params}, nil
	}
	rt, err := entities.ParseValueType(s.Result)
	if err != nil {
		return entities.FunctionType{}, err
	}
	return entities.FunctionType{Params: params, Result: &rt}, nil
}
