package ports

import (
	"context"

	"github.com/reglet-dev/envnative/domain/entities"
)

// UserFunctionExecutor performs native function calls.
// Implementations may keep mutable state across calls; callers serialize access.
type UserFunctionExecutor interface {
	// Execute runs the native function registered under name.
	// A nil value means the function returns nothing.
	Execute(ctx context.Context, name string, caller CallerContext) (*entities.RuntimeValue, error)
}
