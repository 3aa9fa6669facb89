// Package ports defines the interfaces this library both implements and consumes.
// ModuleInstance is the module-interface contract shared by every executable unit;
// UserFunctionExecutor is the host-supplied capability that runs native functions.
// Concrete engines and test doubles implement these ports in infrastructure/ and internal/.
package ports
