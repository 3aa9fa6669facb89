package hostfuncs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reglet-dev/envnative/domain/entities"
	domainerrors "github.com/reglet-dev/envnative/domain/errors"
	"github.com/reglet-dev/envnative/domain/ports"
)

// Middleware wraps a NativeHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps outermost).
type Middleware func(next NativeHandler) NativeHandler

// PanicRecoveryMiddleware converts a panic inside a handler into a
// *errors.PanicError instead of unwinding through the guest engine.
func PanicRecoveryMiddleware() Middleware {
	return func(next NativeHandler) NativeHandler {
		return func(ctx context.Context, caller ports.CallerContext) (v *entities.RuntimeValue, err error) {
			defer func() {
				if r := recover(); r != nil {
					name, _ := FunctionNameFrom(ctx)
					v = nil
					err = &domainerrors.PanicError{Function: name, Value: r}
				}
			}()
			return next(ctx, caller)
		}
	}
}

// LoggingMiddleware logs every native call at debug level and failures at error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next NativeHandler) NativeHandler {
		return func(ctx context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
			funcName, ok := FunctionNameFrom(ctx)
			if !ok {
				funcName = "unknown"
			}
			start := time.Now()
			v, err := next(ctx, caller)
			if err != nil {
				logger.ErrorContext(ctx, "native function failed", "function", funcName, "error", err)
				return v, err
			}
			logger.DebugContext(ctx, "native function completed",
				"function", funcName, "args", len(caller.Args), "duration", time.Since(start))
			return v, nil
		}
	}
}

// SignatureMiddleware checks caller arguments against the descriptor
// registered in reg before invoking the handler.
func SignatureMiddleware(reg *Registry) Middleware {
	return func(next NativeHandler) NativeHandler {
		return func(ctx context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
			funcName, ok := FunctionNameFrom(ctx)
			if !ok {
				return next(ctx, caller)
			}
			pos, ok := reg.Lookup(funcName)
			if !ok {
				return next(ctx, caller)
			}
			fn, _ := reg.Get(pos)
			if err := checkArgs(fn, caller.Args); err != nil {
				return nil, err
			}
			return next(ctx, caller)
		}
	}
}

func checkArgs(fn UserFunction, args []entities.RuntimeValue) error {
	if len(args) != len(fn.params) {
		return &domainerrors.ArgumentError{
			Function: fn.name,
			Reason:   fmt.Sprintf("expected %d arguments, got %d", len(fn.params), len(args)),
		}
	}
	for i, want := range fn.params {
		if args[i].Type != want {
			return &domainerrors.ArgumentError{
				Function: fn.name,
				Reason:   fmt.Sprintf("argument %d is %s, expected %s", i, args[i].Type, want),
			}
		}
	}
	return nil
}
