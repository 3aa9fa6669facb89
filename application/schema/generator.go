// Package schema provides JSON schema generation for native function files.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/envnative/domain/ports"
)

// FunctionsSchemaID is the $id of the functions file schema.
const FunctionsSchemaID = "https://reglet.dev/schemas/envnative/functions.json"

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	return generate(v, "")
}

// FunctionsSchema returns the JSON schema of a native function file.
func FunctionsSchema() ([]byte, error) {
	return generate(&ports.FunctionsFile{}, FunctionsSchemaID)
}

func generate(v interface{}, id jsonschema.ID) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(v)
	if id != "" {
		schema.ID = id
	}

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}
