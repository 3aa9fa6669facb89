package parser_test

import (
	"testing"

	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/reglet-dev/envnative/infrastructure/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantFunctions = []ports.FunctionSpec{
	{Name: "add", Params: []string{"i32", "i32"}, Result: "i32"},
	{Name: "tick"},
}

func TestYamlFunctionParser_Parse(t *testing.T) {
	p := parser.NewYamlFunctionParser()

	t.Run("Valid document", func(t *testing.T) {
		file, err := p.Parse([]byte(`
functions:
  - name: add
    params: [i32, i32]
    result: i32
  - name: tick
`))
		require.NoError(t, err)
		assert.Equal(t, wantFunctions, file.Functions)
	})

	t.Run("Empty document", func(t *testing.T) {
		file, err := p.Parse(nil)
		require.NoError(t, err)
		assert.Empty(t, file.Functions)
	})

	t.Run("Unknown field", func(t *testing.T) {
		_, err := p.Parse([]byte("functions:\n  - name: add\n    returns: i32\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse functions yaml")
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := p.Parse([]byte("functions: [unclosed"))
		assert.Error(t, err)
	})
}

func TestHclFunctionParser_Parse(t *testing.T) {
	p := parser.NewHclFunctionParser(parser.WithFilename("natives.hcl"))

	t.Run("Valid document", func(t *testing.T) {
		file, err := p.Parse([]byte(`
function "add" {
  params = ["i32", "i32"]
  result = "i32"
}

function "tick" {}
`))
		require.NoError(t, err)
		require.Len(t, file.Functions, 2)
		assert.Equal(t, "add", file.Functions[0].Name)
		assert.Equal(t, []string{"i32", "i32"}, file.Functions[0].Params)
		assert.Equal(t, "i32", file.Functions[0].Result)
		assert.Equal(t, "tick", file.Functions[1].Name)
		assert.Empty(t, file.Functions[1].Params)
		assert.Empty(t, file.Functions[1].Result)
	})

	t.Run("Empty document", func(t *testing.T) {
		file, err := p.Parse([]byte(""))
		require.NoError(t, err)
		assert.Empty(t, file.Functions)
	})

	t.Run("Syntax error", func(t *testing.T) {
		_, err := p.Parse([]byte(`function "add" {`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "natives.hcl")
	})

	t.Run("Unknown attribute", func(t *testing.T) {
		_, err := p.Parse([]byte(`
function "add" {
  returns = "i32"
}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode functions hcl")
	})

	t.Run("Missing label", func(t *testing.T) {
		_, err := p.Parse([]byte(`function {}`))
		assert.Error(t, err)
	})
}
