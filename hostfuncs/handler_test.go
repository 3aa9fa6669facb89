package hostfuncs

import (
	"context"
	"errors"
	"testing"

	"github.com/reglet-dev/envnative/domain/entities"
	domainerrors "github.com/reglet-dev/envnative/domain/errors"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addHandler(_ context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
	return Returning(entities.I32(caller.Args[0].AsI32() + caller.Args[1].AsI32())), nil
}

func TestExecutorFunc(t *testing.T) {
	var gotName string
	exec := ExecutorFunc(func(_ context.Context, name string, _ ports.CallerContext) (*entities.RuntimeValue, error) {
		gotName = name
		return nil, nil
	})

	v, err := exec.Execute(context.Background(), "noop", ports.CallerContext{})
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, "noop", gotName)
}

func TestNewHandlerExecutor_Empty(t *testing.T) {
	exec, err := NewHandlerExecutor()
	require.NoError(t, err)
	assert.Empty(t, exec.Names())
}

func TestHandlerExecutor_Execute(t *testing.T) {
	exec, err := NewHandlerExecutor(WithHandler("add", addHandler))
	require.NoError(t, err)

	t.Run("found handler", func(t *testing.T) {
		v, err := exec.Execute(context.Background(), "add", ports.CallerContext{
			Args: []entities.RuntimeValue{entities.I32(2), entities.I32(3)},
		})
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, int32(5), v.AsI32())
	})

	t.Run("unknown handler", func(t *testing.T) {
		_, err := exec.Execute(context.Background(), "mul", ports.CallerContext{})
		require.Error(t, err)

		var unknown *domainerrors.UnknownFunctionError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "mul", unknown.Name)
	})
}

func TestNewHandlerExecutor_DuplicateHandler(t *testing.T) {
	_, err := NewHandlerExecutor(
		WithHandler("add", addHandler),
		WithHandler("add", addHandler),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate handler name")
}

func TestNewHandlerExecutor_InvalidHandler(t *testing.T) {
	_, err := NewHandlerExecutor(WithHandler("", addHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	_, err = NewHandlerExecutor(WithHandler("nil", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is nil")
}

func TestHandlerExecutor_Names_Sorted(t *testing.T) {
	exec, err := NewHandlerExecutor(
		WithHandler("zebra", addHandler),
		WithHandler("alpha", addHandler),
		WithHandler("middle", addHandler),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "middle", "zebra"}, exec.Names())
	assert.True(t, exec.Has("alpha"))
	assert.False(t, exec.Has("beta"))
}

func TestHandlerExecutor_SetsHostContext(t *testing.T) {
	var captured string
	exec, err := NewHandlerExecutor(WithHandler("probe", func(ctx context.Context, _ ports.CallerContext) (*entities.RuntimeValue, error) {
		captured, _ = FunctionNameFrom(ctx)
		return nil, nil
	}))
	require.NoError(t, err)

	_, err = exec.Execute(context.Background(), "probe", ports.CallerContext{})
	require.NoError(t, err)
	assert.Equal(t, "probe", captured)
}

func TestHandlerExecutor_PassesCallerThrough(t *testing.T) {
	frame := &struct{ locals []int }{locals: []int{1, 2}}
	var got ports.CallerContext
	exec, err := NewHandlerExecutor(WithHandler("probe", func(_ context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
		got = caller
		return nil, nil
	}))
	require.NoError(t, err)

	caller := ports.CallerContext{Args: []entities.RuntimeValue{entities.I64(9)}, Frame: frame}
	_, err = exec.Execute(context.Background(), "probe", caller)
	require.NoError(t, err)
	assert.Same(t, frame, got.Frame)
	assert.Equal(t, caller.Args, got.Args)
}
