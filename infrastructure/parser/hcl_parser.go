package parser

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/reglet-dev/envnative/domain/ports"
)

// hclFunctionsFile is the top-level structure of an HCL functions file.
type hclFunctionsFile struct {
	Functions []*hclFunction `hcl:"function,block"`
}

type hclFunction struct {
	Name   string   `hcl:"name,label"`
	Params []string `hcl:"params,optional"`
	Result string   `hcl:"result,optional"`
}

// HclFunctionParser implements FunctionParser for HCL.
//
//	function "add" {
//	  params = ["i32", "i32"]
//	  result = "i32"
//	}
type HclFunctionParser struct {
	filename string
}

// HclOption configures an HclFunctionParser.
type HclOption func(*HclFunctionParser)

// WithFilename sets the file name reported in diagnostics (default: "functions.hcl").
func WithFilename(name string) HclOption {
	return func(p *HclFunctionParser) {
		p.filename = name
	}
}

// NewHclFunctionParser creates a new HclFunctionParser.
func NewHclFunctionParser(opts ...HclOption) ports.FunctionParser {
	p := &HclFunctionParser{filename: "functions.hcl"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes HCL bytes into a FunctionsFile.
func (p *HclFunctionParser) Parse(data []byte) (*ports.FunctionsFile, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(data, p.filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse functions hcl %s: %w", p.filename, diags)
	}

	var parsed hclFunctionsFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode functions hcl %s: %w", p.filename, diags)
	}

	file := &ports.FunctionsFile{Functions: make([]ports.FunctionSpec, 0, len(parsed.Functions))}
	for _, fn := range parsed.Functions {
		file.Functions = append(file.Functions, ports.FunctionSpec{
			Name:   fn.Name,
			Params: fn.Params,
			Result: fn.Result,
		})
	}
	return file, nil
}
