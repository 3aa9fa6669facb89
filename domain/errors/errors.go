// Package errors provides the error types reported by native module composition.
// All error types support unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/envnative/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by error types that can describe themselves as
// a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// MissingNativeFunctionError reports an index in the native range with no
// registered descriptor. It is not retryable.
type MissingNativeFunctionError struct {
	// Op is the operation that hit the gap: "function_type" or "call".
	Op    string
	Index uint32
}

func (e *MissingNativeFunctionError) Error() string {
	return fmt.Sprintf("missing native function at index %d", e.Index)
}

// ToErrorDetail implements DetailedError.
func (e *MissingNativeFunctionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "native", Code: e.Op, IsNotFound: true}
}

// FunctionTypeMismatchError reports a call whose expected signature differs
// from the registered one.
type FunctionTypeMismatchError struct {
	Name     string
	Expected entities.FunctionType
	Actual   entities.FunctionType
	Index    uint32
}

func (e *FunctionTypeMismatchError) Error() string {
	return fmt.Sprintf("native function %q at index %d has type %s, caller expected %s",
		e.Name, e.Index, e.Actual, e.Expected)
}

// ToErrorDetail implements DetailedError.
func (e *FunctionTypeMismatchError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "signature", Code: e.Name}
}

// DuplicateFunctionError reports a native function name registered twice.
type DuplicateFunctionError struct {
	Name string
}

func (e *DuplicateFunctionError) Error() string {
	return fmt.Sprintf("duplicate native function name: %q", e.Name)
}

// ToErrorDetail implements DetailedError.
func (e *DuplicateFunctionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: "duplicate"}
}

// UnknownFunctionError reports an executor asked to run a name it has no handler for.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return "unknown native function: " + e.Name
}

// ToErrorDetail implements DetailedError.
func (e *UnknownFunctionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "native", Code: e.Name, IsNotFound: true}
}

// ArgumentError reports call arguments that do not match a native function's parameters.
type ArgumentError struct {
	Function string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for native function %s: %s", e.Function, e.Reason)
}

// ToErrorDetail implements DetailedError.
func (e *ArgumentError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "signature", Code: e.Function}
}

// ItemNotFoundError reports a function, table, memory, global or export that a
// module does not have.
type ItemNotFoundError struct {
	Kind string
	Name string
	// Index is meaningful when Name is empty.
	Index uint32
}

func (e *ItemNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s at index %d not found", e.Kind, e.Index)
}

// ToErrorDetail implements DetailedError.
func (e *ItemNotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: e.Kind, IsNotFound: true}
}

// UnsupportedError reports an operation a module implementation cannot serve.
type UnsupportedError struct {
	Op     string
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s is not supported: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s is not supported", e.Op)
}

// ToErrorDetail implements DetailedError.
func (e *UnsupportedError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: e.Op}
}

// PanicError reports a panic recovered inside a native handler.
type PanicError struct {
	Value    any
	Function string
}

func (e *PanicError) Error() string {
	var msg string
	switch v := e.Value.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("native function %s panicked: %s", e.Function, msg)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ToErrorDetail implements DetailedError.
func (e *PanicError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "panic", Code: e.Function}
}

// ConfigError represents a native function configuration error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}
