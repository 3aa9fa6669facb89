package wazero

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/errors"
	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/reglet-dev/envnative/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tetratelabs/wazero"
)

var doubleType = entities.NewFunctionType([]entities.ValueType{entities.ValueTypeI32}, entities.ResultOf(entities.ValueTypeI32))

type ModuleSuite struct {
	suite.Suite
	ctx context.Context
	rt  wazero.Runtime
	mod *Module
}

func TestModuleSuite(t *testing.T) {
	suite.Run(t, new(ModuleSuite))
}

func (s *ModuleSuite) SetupTest() {
	s.ctx = context.Background()
	s.rt = wazero.NewRuntime(s.ctx)
	base, err := s.rt.InstantiateWithConfig(s.ctx, testutil.BaseWasm, wazero.NewModuleConfig().WithName("env_base"))
	s.Require().NoError(err)
	s.mod = NewModule(base, WithGlobalExports("counter", "missing"))
}

func (s *ModuleSuite) TearDownTest() {
	s.Require().NoError(s.rt.Close(s.ctx))
}

func (s *ModuleSuite) counter() int32 {
	g, err := s.mod.Global(entities.IndexSpace(0), nil)
	s.Require().NoError(err)
	return g.Get().AsI32()
}

func (s *ModuleSuite) TestExportedFunctionNames() {
	s.Equal([]string{"_initialize", "double"}, s.mod.ExportedFunctionNames())
	s.Equal("env_base", s.mod.Name())
	s.NotNil(s.mod.API())
}

func (s *ModuleSuite) TestExportEntry() {
	internal, err := s.mod.ExportEntry("double", nil, entities.AnyExport())
	s.Require().NoError(err)
	s.Equal(entities.FunctionRef(0), internal)

	internal, err = s.mod.ExportEntry("double", nil, entities.FunctionExport(doubleType))
	s.Require().NoError(err)
	s.Equal(entities.FunctionRef(0), internal)

	internal, err = s.mod.ExportEntry("memory", nil, entities.AnyExport())
	s.Require().NoError(err)
	s.Equal(entities.Internal{Kind: entities.ExternalMemory, Index: 0}, internal)

	internal, err = s.mod.ExportEntry("counter", nil, entities.GlobalExport(entities.GlobalType{ValueType: entities.ValueTypeI32, Mutable: true}))
	s.Require().NoError(err)
	s.Equal(entities.Internal{Kind: entities.ExternalGlobal, Index: 0}, internal)
}

func (s *ModuleSuite) TestExportEntry_Errors() {
	_, err := s.mod.ExportEntry("double", nil, entities.FunctionExport(entities.NewFunctionType(nil, nil)))
	s.ErrorContains(err, `export "double" has type i32_i32, expected null`)

	_, err = s.mod.ExportEntry("double", nil, entities.GlobalExport(entities.GlobalType{ValueType: entities.ValueTypeI32}))
	s.ErrorContains(err, "expected a global")

	_, err = s.mod.ExportEntry("nope", nil, entities.AnyExport())
	var notFound *errors.ItemNotFoundError
	s.True(stdErrors.As(err, &notFound))
}

func (s *ModuleSuite) TestFunctionType() {
	ft, err := s.mod.FunctionType(entities.IndexSpace(0), nil)
	s.Require().NoError(err)
	s.True(ft.Equal(doubleType))

	ft, err = s.mod.FunctionType(entities.InternalIndex(1), nil)
	s.Require().NoError(err)
	s.Equal("null_null", ft.String())

	_, err = s.mod.FunctionType(entities.IndexSpace(9), nil)
	s.Error(err)

	_, err = s.mod.FunctionType(entities.ExternalIndex(0), nil)
	var unsupported *errors.UnsupportedError
	s.True(stdErrors.As(err, &unsupported))
}

func (s *ModuleSuite) TestExecute() {
	result, err := s.mod.ExecuteExport(s.ctx, "double", ports.ExecutionParams{Args: []entities.RuntimeValue{entities.I32(21)}})
	s.Require().NoError(err)
	testutil.RequireValue(s.T(), entities.I32(42), result)

	result, err = s.mod.ExecuteIndex(s.ctx, 0, ports.ExecutionParams{Args: []entities.RuntimeValue{entities.I32(-4)}})
	s.Require().NoError(err)
	testutil.RequireValue(s.T(), entities.I32(-8), result)

	result, err = s.mod.ExecuteIndex(s.ctx, 1, ports.ExecutionParams{})
	s.Require().NoError(err)
	s.Nil(result)

	_, err = s.mod.ExecuteExport(s.ctx, "nope", ports.ExecutionParams{})
	s.Error(err)
}

func (s *ModuleSuite) TestCallFunction() {
	caller := ports.CallerContext{Args: []entities.RuntimeValue{entities.I32(5)}}

	result, err := s.mod.CallInternalFunction(s.ctx, caller, 0, &doubleType)
	s.Require().NoError(err)
	testutil.RequireValue(s.T(), entities.I32(10), result)

	result, err = s.mod.CallFunction(s.ctx, caller, entities.IndexSpace(0), nil)
	s.Require().NoError(err)
	testutil.RequireValue(s.T(), entities.I32(10), result)

	wrong := entities.NewFunctionType(nil, entities.ResultOf(entities.ValueTypeI64))
	_, err = s.mod.CallInternalFunction(s.ctx, caller, 0, &wrong)
	s.ErrorContains(err, "has type i32_i32, expected null_i64")

	_, err = s.mod.CallFunctionIndirect(s.ctx, caller, entities.IndexSpace(0), 0, 0)
	var unsupported *errors.UnsupportedError
	s.True(stdErrors.As(err, &unsupported))
}

func (s *ModuleSuite) TestInstantiate() {
	s.Equal(int32(7), s.counter())

	s.Require().NoError(s.mod.Instantiate(s.ctx, false, nil))
	s.Equal(int32(7), s.counter())

	s.Require().NoError(s.mod.Instantiate(s.ctx, true, nil))
	s.Equal(int32(8), s.counter())

	noInit := NewModule(s.mod.API(), WithInitFunction(""), WithGlobalExports("counter"))
	s.Require().NoError(noInit.Instantiate(s.ctx, true, nil))
	s.Equal(int32(8), s.counter())
}

func (s *ModuleSuite) TestGlobal() {
	g, err := s.mod.Global(entities.IndexSpace(0), &entities.GlobalType{ValueType: entities.ValueTypeI32, Mutable: true})
	s.Require().NoError(err)
	s.Equal(entities.GlobalType{ValueType: entities.ValueTypeI32, Mutable: true}, g.Type())

	s.Require().NoError(g.Set(entities.I32(99)))
	s.Equal(int32(99), s.counter())

	s.Error(g.Set(entities.I64(1)))

	_, err = s.mod.Global(entities.IndexSpace(0), &entities.GlobalType{ValueType: entities.ValueTypeI64})
	s.Error(err)

	_, err = s.mod.Global(entities.IndexSpace(1), nil)
	s.Error(err, "unexported globals are skipped")
}

func (s *ModuleSuite) TestMemoryAndTable() {
	mem, err := s.mod.Memory(entities.IndexSpace(0))
	s.Require().NoError(err)
	s.Equal(uint32(65536), mem.Size())
	s.True(mem.Write(8, []byte("hi")))
	data, ok := mem.Read(8, 2)
	s.True(ok)
	s.Equal([]byte("hi"), data)

	_, err = s.mod.Memory(entities.IndexSpace(1))
	s.Error(err)

	_, err = s.mod.Table(entities.IndexSpace(0))
	s.Error(err)
}

func TestFunctionTypeOf_Unsupported(t *testing.T) {
	_, err := fromAPIValueType(0x7b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not supported")
}

func TestEncodeDecodeArgs(t *testing.T) {
	args := []entities.RuntimeValue{entities.I32(-1), entities.I64(-2), entities.F32(1.5), entities.F64(-0.25)}
	stack := encodeArgs(args)
	assert.Equal(t, uint64(0xffffffff), stack[0])

	decoded := decodeArgs(stack, []entities.ValueType{entities.ValueTypeI32, entities.ValueTypeI64, entities.ValueTypeF32, entities.ValueTypeF64})
	assert.Equal(t, args, decoded)
}
