package entities

import (
	"fmt"
	"math"
)

// ValueType is the tag of a value passed between guest and host.
// The numeric values match the WebAssembly binary encoding.
type ValueType byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)

// String returns the text format name of the type (e.g. "i32").
func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	}
	return fmt.Sprintf("unknown(%#x)", byte(t))
}

// ParseValueType converts a text format name back into a ValueType.
func ParseValueType(name string) (ValueType, error) {
	switch name {
	case "i32":
		return ValueTypeI32, nil
	case "i64":
		return ValueTypeI64, nil
	case "f32":
		return ValueTypeF32, nil
	case "f64":
		return ValueTypeF64, nil
	}
	return 0, fmt.Errorf("unknown value type %q", name)
}

// RuntimeValue is a typed value on the guest value stack.
// The payload is kept as raw bits so it round-trips through engines that
// represent every value as uint64.
type RuntimeValue struct {
	Type ValueType
	bits uint64
}

// I32 creates an i32 runtime value.
func I32(v int32) RuntimeValue {
	return RuntimeValue{Type: ValueTypeI32, bits: uint64(uint32(v))}
}

// I64 creates an i64 runtime value.
func I64(v int64) RuntimeValue {
	return RuntimeValue{Type: ValueTypeI64, bits: uint64(v)}
}

// F32 creates an f32 runtime value.
func F32(v float32) RuntimeValue {
	return RuntimeValue{Type: ValueTypeF32, bits: uint64(math.Float32bits(v))}
}

// F64 creates an f64 runtime value.
func F64(v float64) RuntimeValue {
	return RuntimeValue{Type: ValueTypeF64, bits: math.Float64bits(v)}
}

// FromBits creates a runtime value of the given type from its raw encoding.
func FromBits(t ValueType, bits uint64) RuntimeValue {
	if t == ValueTypeI32 || t == ValueTypeF32 {
		bits &= 0xFFFFFFFF
	}
	return RuntimeValue{Type: t, bits: bits}
}

// Bits returns the raw encoding of the value.
func (v RuntimeValue) Bits() uint64 { return v.bits }

// AsI32 returns the value as int32. It does not check the type tag.
func (v RuntimeValue) AsI32() int32 { return int32(uint32(v.bits)) }

// AsI64 returns the value as int64.
func (v RuntimeValue) AsI64() int64 { return int64(v.bits) }

// AsF32 returns the value as float32.
func (v RuntimeValue) AsF32() float32 { return math.Float32frombits(uint32(v.bits)) }

// AsF64 returns the value as float64.
func (v RuntimeValue) AsF64() float64 { return math.Float64frombits(v.bits) }

func (v RuntimeValue) String() string {
	switch v.Type {
	case ValueTypeI32:
		return fmt.Sprintf("i32(%d)", v.AsI32())
	case ValueTypeI64:
		return fmt.Sprintf("i64(%d)", v.AsI64())
	case ValueTypeF32:
		return fmt.Sprintf("f32(%g)", v.AsF32())
	case ValueTypeF64:
		return fmt.Sprintf("f64(%g)", v.AsF64())
	}
	return fmt.Sprintf("%s(%#x)", v.Type, v.bits)
}
