package wazero

import (
	"reflect"

	"github.com/reglet-dev/envnative/domain/ports"
	"github.com/tetratelabs/wazero/api"
)

// CallerModule returns the guest module that made a native call, when the
// call came in through a host module registered by RegisterNativeModule.
// Native handlers use it to reach the caller's memory.
func CallerModule(caller ports.CallerContext) (api.Module, bool) {
	mod, ok := caller.Frame.(api.Module)
	return mod, ok && mod != nil
}

// CallerMemory returns the caller's default memory, if it has one.
func CallerMemory(caller ports.CallerContext) (api.Memory, bool) {
	mod, ok := CallerModule(caller)
	if !ok {
		return nil, false
	}
	return moduleMemory(mod)
}

// moduleMemory returns mod's memory. wazero reports a module without memory
// as a typed nil inside a non-nil interface.
func moduleMemory(mod api.Module) (api.Memory, bool) {
	mem := mod.Memory()
	if mem == nil {
		return nil, false
	}
	if v := reflect.ValueOf(mem); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil, false
	}
	return mem, true
}
