package realm

import "github.com/cwbudde/goecma/internal/runtime"

// bootstrapProxy wires %Proxy% (spec §4.2 "Proxy Exotic Objects") onto in.
// Unlike every other constructor bootstrap builds, Proxy has no
// `.prototype`: `new Proxy(target, handler)` just returns the exotic
// object runtime.NewProxy builds, and calling it without `new` is a
// TypeError rather than falling back to Construct the way Object/Array do.
func bootstrapProxy(in Intrinsics) {
	objectProto := in["%Object.prototype%"]
	funcProto := in["%Function.prototype%"]

	proxyCtor := runtime.NewOrdinaryObject(funcProto)
	proxyCtor.Kind = runtime.KindFunction
	proxyCtor.Call = func(runtime.Value, []runtime.Value) runtime.Completion {
		return runtime.Throw(runtime.NewTypeError("Constructor Proxy requires 'new'"))
	}
	proxyCtor.Construct = func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
		target, handler, c := toProxyArgs(args)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(runtime.NewProxy(target, handler))
	}
	proxyCtor.RawDefineOwnProperty(runtime.NewString("length"), runtime.NewDataDescriptor(runtime.Number(2), false, false, true))
	proxyCtor.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString("Proxy"), false, false, true))
	in["%Proxy%"] = proxyCtor

	installMethod(proxyCtor, "revocable", 2, func(_ runtime.Value, args []runtime.Value) runtime.Completion {
		target, handler, c := toProxyArgs(args)
		if c.IsAbrupt() {
			return c
		}
		p := runtime.NewProxy(target, handler)
		revoke := runtime.NewOrdinaryObject(funcProto)
		revoke.Kind = runtime.KindFunction
		revoke.Call = func(runtime.Value, []runtime.Value) runtime.Completion {
			runtime.RevokeProxy(p)
			return runtime.NormalCompletion(runtime.Undefined)
		}
		result := runtime.NewOrdinaryObject(objectProto)
		result.RawDefineOwnProperty(runtime.NewString("proxy"), runtime.NewDataDescriptor(p, true, true, true))
		result.RawDefineOwnProperty(runtime.NewString("revoke"), runtime.NewDataDescriptor(revoke, true, true, true))
		return runtime.NormalCompletion(result)
	})
}

func toProxyArgs(args []runtime.Value) (*runtime.Object, *runtime.Object, runtime.Completion) {
	if len(args) < 2 {
		return nil, nil, runtime.Throw(runtime.NewTypeError("Proxy requires a target and a handler"))
	}
	target, ok := args[0].(*runtime.Object)
	if !ok {
		return nil, nil, runtime.Throw(runtime.NewTypeError("Proxy target must be an object"))
	}
	handler, ok := args[1].(*runtime.Object)
	if !ok {
		return nil, nil, runtime.Throw(runtime.NewTypeError("Proxy handler must be an object"))
	}
	return target, handler, runtime.Completion{}
}
