package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema_RequiredFields(t *testing.T) {
	type SignatureConfig struct {
		Name   string   `json:"name"`
		Params []string `json:"params,omitempty"`
	}

	schema, err := GenerateSchema(SignatureConfig{})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(schema, &decoded))

	properties, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok, "properties should be a map")
	assert.Len(t, properties, 2)

	required, ok := decoded["required"].([]interface{})
	require.True(t, ok, "required should be an array")
	assert.Equal(t, []interface{}{"name"}, required)
}

func TestFunctionsSchema(t *testing.T) {
	schema, err := FunctionsSchema()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(schema, &decoded))

	assert.Equal(t, FunctionsSchemaID, decoded["$id"])
	properties, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, properties, "functions")

	schemaStr := string(schema)
	assert.Contains(t, schemaStr, `"result"`)
	assert.Contains(t, schemaStr, `"f64"`)
	assert.Contains(t, schemaStr, `"minLength": 1`)
}
