package hostfuncs

import (
	"context"
	"fmt"
	"sort"

	"github.com/reglet-dev/envnative/domain/entities"
	domainerrors "github.com/reglet-dev/envnative/domain/errors"
	"github.com/reglet-dev/envnative/domain/ports"
)

// HandlerExecutor is a ports.UserFunctionExecutor that dispatches by name to
// NativeHandlers. Like Registry it is immutable once built; handlers that keep
// state across calls rely on the caller (the native module) serializing access.
type HandlerExecutor struct {
	handlers map[string]NativeHandler
	names    []string
}

type executorBuilder struct {
	handlers   map[string]NativeHandler
	middleware []Middleware
	errors     []error
}

// ExecutorOption is a functional option for configuring a HandlerExecutor.
type ExecutorOption func(*executorBuilder)

// NewHandlerExecutor creates a HandlerExecutor.
// Returns an error if any handler name is registered twice.
//
// Example usage:
//
//	executor, err := NewHandlerExecutor(
//	    WithMiddleware(PanicRecoveryMiddleware()),
//	    WithHandler("add", addHandler),
//	)
func NewHandlerExecutor(opts ...ExecutorOption) (*HandlerExecutor, error) {
	b := &executorBuilder{
		handlers: make(map[string]NativeHandler),
	}
	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.handlers))
	wrapped := make(map[string]NativeHandler, len(b.handlers))
	for name, handler := range b.handlers {
		names = append(names, name)
		h := handler
		// reverse order so the first middleware wraps outermost
		for i := len(b.middleware) - 1; i >= 0; i-- {
			h = b.middleware[i](h)
		}
		wrapped[name] = h
	}
	sort.Strings(names)

	return &HandlerExecutor{
		handlers: wrapped,
		names:    names,
	}, nil
}

// Execute implements ports.UserFunctionExecutor.
func (e *HandlerExecutor) Execute(ctx context.Context, name string, caller ports.CallerContext) (*entities.RuntimeValue, error) {
	handler, ok := e.handlers[name]
	if !ok {
		return nil, &domainerrors.UnknownFunctionError{Name: name}
	}
	return handler(HostContextFrom(ctx, name), caller)
}

// Has reports whether a handler is registered under name.
func (e *HandlerExecutor) Has(name string) bool {
	_, ok := e.handlers[name]
	return ok
}

// Names returns the sorted handler names.
func (e *HandlerExecutor) Names() []string {
	result := make([]string, len(e.names))
	copy(result, e.names)
	return result
}

func (b *executorBuilder) addHandler(name string, handler NativeHandler) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler %q is nil", name)
	}
	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("duplicate handler name: %q", name)
	}
	b.handlers[name] = handler
	return nil
}

// WithHandler registers handler under name.
func WithHandler(name string, handler NativeHandler) ExecutorOption {
	return func(b *executorBuilder) {
		if err := b.addHandler(name, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithMiddleware adds middleware applied to every handler.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) ExecutorOption {
	return func(b *executorBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
