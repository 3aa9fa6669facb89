package entities

// ValidationResult is the outcome of validating a native function declaration file.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError is one failed rule.
type ValidationError struct {
	// Field is the namespaced field path, e.g. "functions[0].name".
	Field   string
	Message string
}
