package realm

import (
	"math"

	"github.com/cwbudde/goecma/internal/runtime"
)

// Realm is the GLOSSARY's "Realm": one global object, one global
// environment, and one intrinsics table, paired 1:1 with the agent that
// owns its execution contexts (spec §4.4 "Realm bootstrap").
type Realm struct {
	Intrinsics  Intrinsics
	GlobalObject *runtime.Object
	GlobalEnv   *runtime.GlobalEnvironment
	HostDefined any

	Agent *Agent
}

// NewRealm builds a fresh realm: bootstraps the intrinsics table (spec
// §4.4 ordering), creates a global object whose prototype is
// %Object.prototype%, and wires a GlobalEnvironment over it. The agent
// must already exist so enqueued jobs and pushed contexts can find their
// way back to it.
func NewRealm(agent *Agent) *Realm {
	r := &Realm{Agent: agent}
	r.Intrinsics = bootstrap()
	r.bootstrapPromise()
	r.GlobalObject = runtime.NewOrdinaryObject(r.Intrinsics["%Object.prototype%"])
	r.GlobalEnv = runtime.NewGlobalEnvironment(r.GlobalObject, r.GlobalObject)
	r.installGlobalBindings()
	return r
}

// installGlobalBindings exposes the bootstrapped constructors as own
// properties of the global object (spec §4.4 step 4's effective
// consumer): `Object`, `Array`, `Error` and its native subtypes, `Promise`,
// `Proxy`, the ArrayBuffer/DataView pair, and one constructor per typed
// array kind are the bindings a realm this scoped down needs before the
// evaluator can run user code that references them.
func (r *Realm) installGlobalBindings() {
	bind := func(name string, key string) {
		if v, ok := r.Intrinsics[key]; ok {
			r.GlobalObject.RawDefineOwnProperty(runtime.NewString(name), runtime.NewDataDescriptor(v, true, false, true))
		}
	}
	bind("Object", "%Object%")
	bind("Array", "%Array%")
	bind("Error", "%Error%")
	bind("Promise", "%Promise%")
	bind("Proxy", "%Proxy%")
	bind("ArrayBuffer", "%ArrayBuffer%")
	bind("DataView", "%DataView%")
	for _, kind := range []string{"TypeError", "RangeError", "SyntaxError", "ReferenceError", "URIError", "AggregateError"} {
		bind(kind, "%"+kind+"%")
	}
	for _, kind := range typedArrayKinds {
		name := string(kind) + "Array"
		bind(name, "%"+name+"%")
	}
	r.GlobalObject.RawDefineOwnProperty(runtime.NewString("undefined"), runtime.NewDataDescriptor(runtime.Undefined, false, false, false))
	r.GlobalObject.RawDefineOwnProperty(runtime.NewString("NaN"), runtime.NewDataDescriptor(runtime.Number(math.NaN()), false, false, false))
	r.GlobalObject.RawDefineOwnProperty(runtime.NewString("Infinity"), runtime.NewDataDescriptor(runtime.Number(math.Inf(1)), false, false, false))
}

// Intrinsic fetches a bootstrapped intrinsic by its percent-delimited
// name, returning (nil, false) if it was never bootstrapped (spec §4.4
// intrinsics referenced by built-ins not wired in this realm's scope).
func (r *Realm) Intrinsic(key string) (*runtime.Object, bool) {
	v, ok := r.Intrinsics[key]
	return v, ok
}

// ToObject is the realm-aware half of ToObject (spec abstract operation):
// wrapping a primitive picks the prototype from THIS realm's intrinsics
// table, where runtime.ToObjectValue, which has no realm to consult,
// throws a TypeError for every primitive.
func (r *Realm) ToObject(v runtime.Value) (*runtime.Object, runtime.Completion) {
	if o, ok := v.(*runtime.Object); ok {
		return o, runtime.Completion{}
	}
	if runtime.IsNullOrUndefined(v) {
		return nil, runtime.Throw(runtime.NewTypeError("cannot convert null or undefined to object"))
	}
	wrapper := runtime.NewOrdinaryObject(r.Intrinsics["%Object.prototype%"])
	wrapper.SetSlot("PrimitiveValue", v)
	return wrapper, runtime.Completion{}
}

// NewExecutionContext builds a script/module-level execution context
// rooted at this realm's global environment (spec §4.4 "the running
// execution context's LexicalEnvironment/VariableEnvironment are the
// global environment at the top of a script").
func (r *Realm) NewExecutionContext() *ExecutionContext {
	return &ExecutionContext{
		Realm:               r,
		LexicalEnvironment:  r.GlobalEnv,
		VariableEnvironment: r.GlobalEnv,
	}
}
