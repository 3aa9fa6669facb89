package host

import (
	"fmt"

	apptemplate "github.com/reglet-dev/envnative/application/template"
	"github.com/reglet-dev/envnative/application/validation"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/reglet-dev/envnative/hostfuncs"
	"github.com/reglet-dev/envnative/infrastructure/parser"
)

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	parser          ports.FunctionParser
	validator       ports.FunctionValidator
	templateEngine  ports.TemplateEngine
	strictTemplates bool // Fail on missing template keys
	render          bool
	registryOpts    []hostfuncs.RegistryOption
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		parser:          parser.NewYamlFunctionParser(),
		validator:       validation.NewFunctionValidator(),
		strictTemplates: true,
		render:          true,
	}
}

// Loader turns native function files into registries: render, parse,
// validate, build.
type Loader struct {
	config loaderConfig
}

// LoaderOption configures the Loader.
type LoaderOption func(*loaderConfig)

// WithParser sets the function file parser (default: YAML).
func WithParser(p ports.FunctionParser) LoaderOption {
	return func(c *loaderConfig) {
		c.parser = p
	}
}

// WithValidator sets the function file validator. A nil validator disables
// validation.
func WithValidator(v ports.FunctionValidator) LoaderOption {
	return func(c *loaderConfig) {
		c.validator = v
	}
}

// WithTemplateEngine sets a template engine.
func WithTemplateEngine(t ports.TemplateEngine) LoaderOption {
	return func(c *loaderConfig) {
		c.templateEngine = t
	}
}

// WithStrictTemplates enables/disables strict template mode for the default
// engine. When enabled (default), rendering fails if a referenced key is missing.
func WithStrictTemplates(enabled bool) LoaderOption {
	return func(c *loaderConfig) {
		c.strictTemplates = enabled
	}
}

// WithoutTemplates parses files as-is.
func WithoutTemplates() LoaderOption {
	return func(c *loaderConfig) {
		c.render = false
	}
}

// WithRegistryOptions adds options applied when LoadRegistry builds a registry,
// after the file's functions.
func WithRegistryOptions(opts ...hostfuncs.RegistryOption) LoaderOption {
	return func(c *loaderConfig) {
		c.registryOpts = append(c.registryOpts, opts...)
	}
}

// NewLoader creates a new Loader with defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.render && cfg.templateEngine == nil {
		cfg.templateEngine = apptemplate.NewGoTemplateEngine(
			apptemplate.WithStrict(cfg.strictTemplates),
		)
	}
	if !cfg.render {
		cfg.templateEngine = nil
	}

	return &Loader{config: cfg}
}

// LoadFunctions renders, parses and validates a native function file.
func (l *Loader) LoadFunctions(raw []byte, values map[string]interface{}) (*ports.FunctionsFile, error) {
	data := raw

	if l.config.templateEngine != nil {
		var err error
		data, err = l.config.templateEngine.Render(raw, values)
		if err != nil {
			return nil, fmt.Errorf("failed to render functions: %w", err)
		}
	}

	file, err := l.config.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse functions: %w", err)
	}

	if l.config.validator != nil {
		res, err := l.config.validator.Validate(file)
		if err != nil {
			return nil, fmt.Errorf("validation error: %w", err)
		}
		if !res.Valid {
			msg := "functions validation failed:"
			for _, e := range res.Errors {
				msg += fmt.Sprintf("\n- %s: %s", e.Field, e.Message)
			}
			return nil, fmt.Errorf("%s", msg)
		}
	}

	return file, nil
}

// LoadRegistry loads a native function file and builds its registry.
func (l *Loader) LoadRegistry(raw []byte, values map[string]interface{}) (*hostfuncs.Registry, error) {
	file, err := l.LoadFunctions(raw, values)
	if err != nil {
		return nil, err
	}
	opts := append([]hostfuncs.RegistryOption{hostfuncs.WithSpecs(file.Functions...)}, l.config.registryOpts...)
	return hostfuncs.NewRegistry(opts...)
}
