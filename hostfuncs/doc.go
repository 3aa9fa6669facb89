// Package hostfuncs describes and implements native functions.
//
// A Registry is the ordered, immutable set of native function descriptors a host
// exposes; a descriptor's position in the registry is its offset inside the
// native function index range. HandlerExecutor is a ready-made
// ports.UserFunctionExecutor that dispatches by name to NativeHandlers through
// a middleware chain.
//
// Nothing in this package depends on a WASM runtime.
package hostfuncs
