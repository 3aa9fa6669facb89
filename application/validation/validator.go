// Package validation checks decoded native function files before they are
// turned into a registry.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/ports"
)

// StructValidator implements FunctionValidator with go-playground/validator
// struct tags.
type StructValidator struct {
	validate *validator.Validate
}

// NewFunctionValidator creates a validator reporting fields by their JSON names.
func NewFunctionValidator() ports.FunctionValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &StructValidator{validate: v}
}

// Validate checks the declared names and value types.
func (v *StructValidator) Validate(file *ports.FunctionsFile) (*entities.ValidationResult, error) {
	if file == nil {
		return nil, fmt.Errorf("functions file is nil")
	}

	result := &entities.ValidationResult{Valid: true}

	err := v.validate.Struct(file)
	if err == nil {
		return result, nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	result.Valid = false
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, entities.ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return result, nil
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
