// Package template renders native function files with host-supplied values
// before they are parsed.
package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/reglet-dev/envnative/domain/ports"
)

type templateConfig struct {
	strict bool // Fail on missing keys
	left   string
	right  string
}

func defaultTemplateConfig() templateConfig {
	return templateConfig{
		strict: true,
		left:   "{{",
		right:  "}}",
	}
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict enables/disables strict mode for missing keys.
// When enabled (default), rendering fails if a referenced key is missing.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// WithDelims sets the action delimiters. HCL files use "${" interpolation,
// so alternate delimiters keep both readable.
func WithDelims(left, right string) TemplateOption {
	return func(c *templateConfig) {
		c.left, c.right = left, right
	}
}

// GoTemplateEngine implements TemplateEngine using standard text/template.
type GoTemplateEngine struct {
	config templateConfig
}

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) ports.TemplateEngine {
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{config: cfg}
}

// Render executes raw as a template with values available under .config.
func (e *GoTemplateEngine) Render(raw []byte, values map[string]interface{}) ([]byte, error) {
	tmpl := template.New("functions").Delims(e.config.left, e.config.right)
	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse functions template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}{"config": values}); err != nil {
		return nil, fmt.Errorf("failed to execute functions template: %w", err)
	}
	return buf.Bytes(), nil
}
