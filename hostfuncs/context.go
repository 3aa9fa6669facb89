package hostfuncs

import (
	"context"
)

// HostContext wraps a context.Context with native-call helpers.
// It carries the invoked function name and lets middleware share
// call-scoped values without nesting context.WithValue.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the native function being invoked.
	FunctionName() string

	// SetValue stores a call-scoped value on this context.
	SetValue(key, value any)

	// GetValue retrieves a value stored with SetValue.
	GetValue(key any) (value any, ok bool)
}

type hostContext struct {
	context.Context
	values   map[any]any
	funcName string
}

// NewHostContext creates a HostContext for a call to funcName.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	return &hostContext{
		Context:  ctx,
		funcName: funcName,
		values:   make(map[any]any),
	}
}

func (c *hostContext) FunctionName() string {
	return c.funcName
}

func (c *hostContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *hostContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// HostContextFrom returns ctx itself when it is already a HostContext for
// funcName, and a fresh HostContext wrapping ctx otherwise.
func HostContextFrom(ctx context.Context, funcName string) HostContext {
	if hc, ok := ctx.(HostContext); ok && hc.FunctionName() == funcName {
		return hc
	}
	return NewHostContext(ctx, funcName)
}

// FunctionNameFrom returns the native function name carried by ctx, if any.
func FunctionNameFrom(ctx context.Context) (string, bool) {
	if hc, ok := ctx.(HostContext); ok {
		return hc.FunctionName(), true
	}
	return "", false
}
