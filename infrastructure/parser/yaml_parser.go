package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/reglet-dev/envnative/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlFunctionParser implements FunctionParser for YAML.
//
//	functions:
//	  - name: add
//	    params: [i32, i32]
//	    result: i32
type YamlFunctionParser struct{}

// NewYamlFunctionParser creates a new YamlFunctionParser.
func NewYamlFunctionParser() ports.FunctionParser {
	return &YamlFunctionParser{}
}

// Parse decodes YAML bytes into a FunctionsFile. Unknown keys are rejected
// and an empty document yields an empty file.
func (p *YamlFunctionParser) Parse(data []byte) (*ports.FunctionsFile, error) {
	var file ports.FunctionsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse functions yaml: %w", err)
	}
	return &file, nil
}
