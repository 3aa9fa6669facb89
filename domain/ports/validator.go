package ports

import "github.com/reglet-dev/envnative/domain/entities"

// FunctionValidator validates decoded native function declarations.
type FunctionValidator interface {
	Validate(file *FunctionsFile) (*entities.ValidationResult, error)
}
