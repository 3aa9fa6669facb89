// Package log provides a host-side slog handler that tags records emitted
// during a native call with the native function's name.
package log

import (
	"context"
	"io"
	"log/slog"

	"github.com/reglet-dev/envnative/hostfuncs"
)

// FunctionKey is the default attribute key carrying the native function name.
const FunctionKey = "native_function"

// Handler implements slog.Handler on top of a text or JSON handler.
type Handler struct {
	inner slog.Handler
	opts  handlerConfig
}

// HandlerOption configures the Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level       slog.Leveler
	addSource   bool
	json        bool
	functionKey string
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level:       slog.LevelInfo,
		functionKey: FunctionKey,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithJSON switches the output from logfmt text to JSON.
func WithJSON(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.json = enabled
	}
}

// WithFunctionKey sets the attribute key of the function name. An empty key
// disables tagging.
func WithFunctionKey(key string) HandlerOption {
	return func(c *handlerConfig) {
		c.functionKey = key
	}
}

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer, opts ...HandlerOption) *Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	hopts := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}
	var inner slog.Handler
	if cfg.json {
		inner = slog.NewJSONHandler(w, hopts)
	} else {
		inner = slog.NewTextHandler(w, hopts)
	}
	return &Handler{inner: inner, opts: cfg}
}

// New returns a logger backed by a new Handler.
func New(w io.Writer, opts ...HandlerOption) *slog.Logger {
	return slog.New(NewHandler(w, opts...))
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds the native function name from ctx, if any, and writes the record.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if h.opts.functionKey != "" {
		if name, ok := hostfuncs.FunctionNameFrom(ctx); ok {
			record = record.Clone()
			record.AddAttrs(slog.String(h.opts.functionKey, name))
		}
	}
	return h.inner.Handle(ctx, record)
}

// WithAttrs returns a new Handler that includes the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs), opts: h.opts}
}

// WithGroup returns a new Handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), opts: h.opts}
}
