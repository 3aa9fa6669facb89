package host_test

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/reglet-dev/envnative/host"
	"github.com/reglet-dev/envnative/hostfuncs"
	adapter "github.com/reglet-dev/envnative/infrastructure/wazero"
	"github.com/reglet-dev/envnative/internal/testutil"
	"github.com/stretchr/testify/suite"
)

// EnvironmentSuite runs guests against a real wazero runtime.
type EnvironmentSuite struct {
	suite.Suite
	ctx context.Context
}

func TestEnvironmentSuite(t *testing.T) {
	suite.Run(t, new(EnvironmentSuite))
}

func (s *EnvironmentSuite) SetupTest() {
	s.ctx = context.Background()
}

func addHandler(_ context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
	return hostfuncs.Returning(entities.I32(caller.Args[0].AsI32() + caller.Args[1].AsI32())), nil
}

func (s *EnvironmentSuite) newEnvironment(bundle hostfuncs.Bundle, opts ...host.Option) *host.Environment {
	functions, err := hostfuncs.NewUserFunctions(bundle, hostfuncs.PanicRecoveryMiddleware())
	s.Require().NoError(err)

	env, err := host.NewEnvironment(s.ctx, append([]host.Option{host.WithUserFunctions(functions)}, opts...)...)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = env.Close(s.ctx) })
	return env
}

func (s *EnvironmentSuite) TestNativeAndBaseImports() {
	env := s.newEnvironment(hostfuncs.NewBundle(hostfuncs.NativeFunction{
		Descriptor: hostfuncs.Static("add", []entities.ValueType{i32, i32}, entities.ResultOf(i32)),
		Handler:    addHandler,
	}), host.WithBaseModule(testutil.BaseWasm))

	guest, err := env.LoadGuest(s.ctx, testutil.AddDoubleGuestWasm)
	s.Require().NoError(err)

	result, err := env.Call(s.ctx, guest, "run")
	s.Require().NoError(err)
	testutil.RequireValue(s.T(), entities.I32(10), result)

	index, ok := env.Native().NativeIndex("add")
	s.True(ok)
	s.Equal(host.NativeIndexFuncMin, index)
	s.Equal("env", env.ImportModule().Name())
	s.Equal([]string{"_initialize", "double"}, env.Base().ExportedFunctionNames())
	s.NotNil(env.Runtime())
}

func (s *EnvironmentSuite) TestNativeShadowsBaseExport() {
	triple := func(_ context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
		return hostfuncs.Returning(entities.I32(caller.Args[0].AsI32() * 3)), nil
	}
	env := s.newEnvironment(hostfuncs.NewBundle(
		hostfuncs.NativeFunction{
			Descriptor: hostfuncs.Static("add", []entities.ValueType{i32, i32}, entities.ResultOf(i32)),
			Handler:    addHandler,
		},
		hostfuncs.NativeFunction{
			Descriptor: hostfuncs.Static("double", []entities.ValueType{i32}, entities.ResultOf(i32)),
			Handler:    triple,
		},
	), host.WithBaseModule(testutil.BaseWasm))

	guest, err := env.LoadGuest(s.ctx, testutil.AddDoubleGuestWasm)
	s.Require().NoError(err)

	result, err := env.Call(s.ctx, guest, "run")
	s.Require().NoError(err)
	testutil.RequireValue(s.T(), entities.I32(15), result)
}

func (s *EnvironmentSuite) TestHandlerSeesCallerModule() {
	var sawMemory bool
	env := s.newEnvironment(hostfuncs.NewBundle(hostfuncs.NativeFunction{
		Descriptor: hostfuncs.Static("add", []entities.ValueType{i32, i32}, entities.ResultOf(i32)),
		Handler: func(ctx context.Context, caller ports.CallerContext) (*entities.RuntimeValue, error) {
			_, ok := adapter.CallerModule(caller)
			s.True(ok)
			_, sawMemory = adapter.CallerMemory(caller)
			return addHandler(ctx, caller)
		},
	}), host.WithWASI(false))

	guest, err := env.LoadGuest(s.ctx, testutil.AddGuestWasm)
	s.Require().NoError(err)

	result, err := env.Call(s.ctx, guest, "run")
	s.Require().NoError(err)
	testutil.RequireValue(s.T(), entities.I32(5), result)
	s.False(sawMemory, "guest declares no memory")
}

func (s *EnvironmentSuite) TestHandlerErrorReachesCaller() {
	boom := stdErrors.New("native failure")
	env := s.newEnvironment(hostfuncs.NewBundle(hostfuncs.NativeFunction{
		Descriptor: hostfuncs.Static("add", []entities.ValueType{i32, i32}, entities.ResultOf(i32)),
		Handler: func(context.Context, ports.CallerContext) (*entities.RuntimeValue, error) {
			return nil, boom
		},
	}))

	guest, err := env.LoadGuest(s.ctx, testutil.AddGuestWasm)
	s.Require().NoError(err)

	_, err = env.Call(s.ctx, guest, "run")
	s.ErrorIs(err, boom)
}

func (s *EnvironmentSuite) TestMissingImport() {
	env := s.newEnvironment(hostfuncs.DebugBundle(nil))

	_, err := env.LoadGuest(s.ctx, testutil.AddGuestWasm)
	s.Error(err)
}

func (s *EnvironmentSuite) TestBaseGlobals() {
	env := s.newEnvironment(hostfuncs.DebugBundle(nil),
		host.WithBaseModule(testutil.BaseWasm),
		host.WithBaseGlobals("counter"),
		host.WithImportName("natives"),
		host.WithBaseModuleName("base"),
	)

	g, err := env.Native().Global(entities.IndexSpace(0), nil)
	s.Require().NoError(err)
	s.Equal(int32(7), g.Get().AsI32())
	s.Equal("natives", env.ImportModule().Name())
	s.Equal("base", env.Base().Name())
}

func (s *EnvironmentSuite) TestDefaultFunctions() {
	env, err := host.NewEnvironment(s.ctx)
	s.Require().NoError(err)
	defer env.Close(s.ctx)

	s.Equal(0, env.Native().Functions().Len())
}
