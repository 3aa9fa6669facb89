package wazero

import (
	"context"
	"fmt"
	"testing"

	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/reglet-dev/envnative/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var addType = entities.NewFunctionType([]entities.ValueType{entities.ValueTypeI32, entities.ValueTypeI32}, entities.ResultOf(entities.ValueTypeI32))

func addFunc(_ context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
	v := entities.I32(caller.Args[0].AsI32() + caller.Args[1].AsI32())
	return &v, nil
}

func TestDefaultAdapterConfig(t *testing.T) {
	cfg := defaultAdapterConfig()
	assert.Equal(t, "env", cfg.ModuleName)
	assert.NotNil(t, cfg.Logger)
	assert.Empty(t, cfg.CustomHandlers)
}

func TestAdapterOptions(t *testing.T) {
	cfg := defaultAdapterConfig()
	WithModuleName("custom_env")(&cfg)
	WithAdapterLogger(nil)(&cfg)
	WithCustomHandler(CustomHandler{Name: "abort"})(&cfg)

	assert.Equal(t, "custom_env", cfg.ModuleName)
	assert.NotNil(t, cfg.Logger)
	require.Len(t, cfg.CustomHandlers, 1)
	assert.Equal(t, "abort", cfg.CustomHandlers[0].Name)
}

func TestRegisterNativeModule_GuestCall(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	var frame any
	fake := testutil.NewFakeModule().WithFunction(10001, "add", addType,
		func(ctx context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
			frame = caller.Frame
			return addFunc(ctx, caller)
		})

	_, err := RegisterNativeModule(ctx, rt, fake, []string{"add"})
	require.NoError(t, err)

	guest, err := rt.Instantiate(ctx, testutil.AddGuestWasm)
	require.NoError(t, err)

	results, err := guest.ExportedFunction("run").Call(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{5}, results)

	mod, ok := CallerModule(ports.CallerContext{Frame: frame})
	require.True(t, ok)
	assert.Equal(t, guest.Name(), mod.Name())

	var dispatched []testutil.Call
	for _, c := range fake.Calls() {
		if c.Op == "CallInternalFunction" {
			dispatched = append(dispatched, c)
		}
	}
	require.Len(t, dispatched, 1)
	assert.Equal(t, uint32(10001), dispatched[0].Index)
	assert.Equal(t, []entities.RuntimeValue{entities.I32(2), entities.I32(3)}, dispatched[0].Caller.Args)
}

func TestRegisterNativeModule_CallError(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	fake := testutil.NewFakeModule().WithFunction(10001, "add", addType,
		func(context.Context, ports.CallerContext) (*entities.RuntimeValue, error) {
			return nil, fmt.Errorf("add exploded")
		})

	_, err := RegisterNativeModule(ctx, rt, fake, []string{"add"})
	require.NoError(t, err)

	guest, err := rt.Instantiate(ctx, testutil.AddGuestWasm)
	require.NoError(t, err)

	_, err = guest.ExportedFunction("run").Call(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add exploded")
}

func TestRegisterNativeModule_ResultChecked(t *testing.T) {
	tests := []struct {
		name   string
		result *entities.RuntimeValue
		want   string
	}{
		{name: "missing result", result: nil, want: "returned no value"},
		{name: "wrong type", result: func() *entities.RuntimeValue { v := entities.I64(5); return &v }(), want: "returned i64, expected i32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			rt := wazero.NewRuntime(ctx)
			defer rt.Close(ctx)

			fake := testutil.NewFakeModule().WithFunction(10001, "add", addType,
				func(context.Context, ports.CallerContext) (*entities.RuntimeValue, error) {
					return tt.result, nil
				})
			_, err := RegisterNativeModule(ctx, rt, fake, []string{"add"})
			require.NoError(t, err)

			guest, err := rt.Instantiate(ctx, testutil.AddGuestWasm)
			require.NoError(t, err)

			_, err = guest.ExportedFunction("run").Call(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRegisterNativeModule_UnknownExport(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	_, err := RegisterNativeModule(ctx, rt, testutil.NewFakeModule(), []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to resolve export "nope"`)
}

func TestRegisterNativeModule_CustomHandler(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	host, err := RegisterNativeModule(ctx, rt, testutil.NewFakeModule(), nil,
		WithModuleName("env"),
		WithCustomHandler(CustomHandler{
			Name: "add",
			Handler: api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(uint32(api.DecodeI32(stack[0]) * api.DecodeI32(stack[1])))
			}),
			ParamTypes:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			ResultTypes: []api.ValueType{api.ValueTypeI32},
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "env", host.Name())

	guest, err := rt.Instantiate(ctx, testutil.AddGuestWasm)
	require.NoError(t, err)

	results, err := guest.ExportedFunction("run").Call(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{6}, results)
}
