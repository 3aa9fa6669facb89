// Package host composes native (host-implemented) functions into a module instance.
//
// NativeModule wraps any ports.ModuleInstance and merges a hostfuncs.Registry
// into its function index space: indices at or above NativeIndexFuncMin
// address native functions, everything below is forwarded unchanged to the
// wrapped module. Exports are resolved against the registry first.
//
// Environment wires the composition into a wazero runtime, registering the
// native functions as an import module guest code can call.
//
// Loader builds a hostfuncs.Registry from a YAML or HCL functions file,
// rendering it as a template and validating it first.
package host
