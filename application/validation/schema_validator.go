package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/reglet-dev/envnative/application/schema"
	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidator implements FunctionValidator against the published JSON
// schema of the functions file, so files accepted here are also accepted by
// editors and tools working from the schema.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the functions file schema.
func NewSchemaValidator() (ports.FunctionValidator, error) {
	raw, err := schema.FunctionsSchema()
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schema.FunctionsSchemaID, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add functions schema: %w", err)
	}
	sch, err := compiler.Compile(schema.FunctionsSchemaID)
	if err != nil {
		return nil, fmt.Errorf("invalid functions schema: %w", err)
	}
	return &SchemaValidator{schema: sch}, nil
}

// Validate checks file against the schema.
func (v *SchemaValidator) Validate(file *ports.FunctionsFile) (*entities.ValidationResult, error) {
	if file == nil {
		return nil, fmt.Errorf("functions file is nil")
	}

	b, err := json.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}

	result := &entities.ValidationResult{Valid: true}
	err = v.schema.Validate(obj)
	if err == nil {
		return result, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	result.Valid = false
	for _, leaf := range leaves(ve) {
		result.Errors = append(result.Errors, entities.ValidationError{
			Field:   leaf.InstanceLocation,
			Message: leaf.Message,
		})
	}
	return result, nil
}

// leaves flattens a validation error tree to its most specific causes.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}
