// Package wazero connects native modules to the wazero runtime.
//
// It works in both directions:
//
//   - Module adapts an instantiated wazero api.Module to ports.ModuleInstance,
//     so a wasm module can be the wrapped module of a host.NativeModule.
//   - RegisterNativeModule publishes the function exports of any
//     ports.ModuleInstance as a wazero host module, so guests can import
//     native functions like any other function.
//
// # Basic Usage
//
//	runtime := wazero.NewRuntime(ctx)
//
//	base, _ := runtime.InstantiateWithConfig(ctx, baseWasm, wazero.NewModuleConfig().WithName("env_base"))
//	env := adapter.NewModule(base)
//
//	native, err := host.EnvNativeModule(env, functions)
//	if err != nil {
//	    return err
//	}
//
//	names := append(functions.Functions.Names(), env.ExportedFunctionNames()...)
//	_, err = adapter.RegisterNativeModule(ctx, runtime, native, names,
//	    adapter.WithModuleName("env"),
//	)
//
// # Custom Handlers
//
// Raw wazero functions can be exported from the same host module:
//
//	adapter.RegisterNativeModule(ctx, runtime, native, names,
//	    adapter.WithCustomHandler(adapter.CustomHandler{
//	        Name:        "abort",
//	        Handler:     abortHandler,
//	        ParamTypes:  []api.ValueType{api.ValueTypeI32},
//	        ResultTypes: []api.ValueType{},
//	    }),
//	)
package wazero
