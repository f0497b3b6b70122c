package realm

import (
	"strconv"

	"github.com/cwbudde/goecma/internal/runtime"
)

// Intrinsics is the realm's table of canonical percent-delimited built-ins
// (GLOSSARY "Intrinsics"), keyed the way the specification itself names
// them (`%Object.prototype%`, `%Array%`, ...).
type Intrinsics map[string]*runtime.Object

// bootstrapConstructorSpec describes one constructor: its own key, the
// prototype it is wired to (spec §4.4 step 3: ".prototype" non-writable
// non-configurable, ".constructor" back-reference), and its Call/Construct
// behavior.
type bootstrapConstructorSpec struct {
	key         string
	protoKey    string
	funcProtoKey string
	length      int
	call        runtime.CallHandler
	construct   runtime.ConstructHandler
}

// bootstrap builds the realm's intrinsics table in the order spec §4.4
// mandates: %Object.prototype% and %Function.prototype% before anything
// else, %ThrowTypeError% once %Function.prototype% exists, then every
// other prototype/constructor pair. Concrete library surface (Math, Date,
// RegExp, String methods beyond the identity minimum) is out of scope
// (spec §1 "concrete wiring of every built-in library"); this bootstrap
// wires the structural skeleton and the handful of methods the evaluator
// itself depends on (Function.prototype.call/apply/bind for the `super(...)`
// / `Reflect`-free call forms, Object.prototype basics for the property
// model's own bookkeeping).
func bootstrap() Intrinsics {
	in := make(Intrinsics)

	objectProto := runtime.NewOrdinaryObject(nil)
	in["%Object.prototype%"] = objectProto
	runtime.DefaultObjectPrototype = objectProto

	funcProto := runtime.NewOrdinaryObject(objectProto)
	funcProto.Kind = runtime.KindFunction
	funcProto.Call = func(runtime.Value, []runtime.Value) runtime.Completion { return runtime.NormalCompletion(runtime.Undefined) }
	in["%Function.prototype%"] = funcProto

	throwTypeError := runtime.NewOrdinaryObject(funcProto)
	throwTypeError.Kind = runtime.KindFunction
	throwTypeError.Call = func(runtime.Value, []runtime.Value) runtime.Completion {
		return runtime.Throw(runtime.NewTypeError("%ThrowTypeError% invoked: restricted property access"))
	}
	throwTypeError.RawSetExtensible(false)
	in["%ThrowTypeError%"] = throwTypeError

	installMethod(funcProto, "call", 1, funcProtoCall)
	installMethod(funcProto, "apply", 2, funcProtoApply)
	installMethod(funcProto, "bind", 1, funcProtoBind)

	installMethod(objectProto, "hasOwnProperty", 1, objectProtoHasOwnProperty)
	installMethod(objectProto, "isPrototypeOf", 1, objectProtoIsPrototypeOf)
	installMethod(objectProto, "toString", 0, objectProtoToString)
	installMethod(objectProto, "valueOf", 0, objectProtoValueOf)

	iteratorProto := runtime.NewOrdinaryObject(objectProto)
	selfIterator := runtime.NewOrdinaryObject(funcProto)
	selfIterator.Kind = runtime.KindFunction
	selfIterator.Call = func(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
		return runtime.NormalCompletion(thisArg)
	}
	iteratorProto.RawDefineOwnProperty(runtime.SymbolIterator, runtime.NewDataDescriptor(selfIterator, true, false, true))
	in["%IteratorPrototype%"] = iteratorProto

	// %GeneratorPrototype% only needs to chain to %IteratorPrototype% here
	// (for-of over a generator resolves Symbol.iterator through it); the
	// evaluator installs next/return/throw per instance when it builds a
	// generator object, since their behavior is tied to that generator's
	// own coroutine.
	in["%GeneratorPrototype%"] = runtime.NewOrdinaryObject(iteratorProto)

	arrayProto := runtime.NewArray(objectProto, 0)
	in["%Array.prototype%"] = arrayProto

	errorProto := runtime.NewOrdinaryObject(objectProto)
	installMethod(errorProto, "toString", 0, errorProtoToString)
	errorProto.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString("Error"), true, false, true))
	errorProto.RawDefineOwnProperty(runtime.NewString("message"), runtime.NewDataDescriptor(runtime.NewString(""), true, false, true))
	in["%Error.prototype%"] = errorProto

	for _, kind := range []string{"TypeError", "RangeError", "SyntaxError", "ReferenceError", "URIError", "AggregateError"} {
		sub := runtime.NewOrdinaryObject(errorProto)
		sub.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString(kind), true, false, true))
		in["%"+kind+".prototype%"] = sub
	}

	objectCtor := buildConstructor(in, bootstrapConstructorSpec{
		key: "%Object%", protoKey: "%Object.prototype%", funcProtoKey: "%Function.prototype%", length: 1,
		construct: func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
			return runtime.NormalCompletion(runtime.NewOrdinaryObject(objectProto))
		},
	})
	wireConstructorPrototype(objectCtor, objectProto)

	arrayCtor := buildConstructor(in, bootstrapConstructorSpec{
		key: "%Array%", protoKey: "%Array.prototype%", funcProtoKey: "%Function.prototype%", length: 1,
		construct: func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
			return runtime.NormalCompletion(runtime.NewArray(arrayProto, 0))
		},
	})
	wireConstructorPrototype(arrayCtor, arrayProto)

	errorCtor := buildConstructor(in, bootstrapConstructorSpec{
		key: "%Error%", protoKey: "%Error.prototype%", funcProtoKey: "%Function.prototype%", length: 1,
		construct: func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
			return runtime.NormalCompletion(newErrorObject(errorProto, args))
		},
	})
	wireConstructorPrototype(errorCtor, errorProto)

	for _, kind := range []string{"TypeError", "RangeError", "SyntaxError", "ReferenceError", "URIError", "AggregateError"} {
		proto := in["%"+kind+".prototype%"]
		ctor := buildConstructor(in, bootstrapConstructorSpec{
			key: "%" + kind + "%", protoKey: "%" + kind + ".prototype%", funcProtoKey: "%Function.prototype%", length: 1,
			construct: func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
				return runtime.NormalCompletion(newErrorObject(proto, args))
			},
		})
		wireConstructorPrototype(ctor, proto)
	}

	bootstrapProxy(in)
	bootstrapBuffers(in)

	return in
}

func installMethod(o *runtime.Object, name string, length int, fn runtime.CallHandler) {
	method := runtime.NewOrdinaryObject(nil)
	method.Kind = runtime.KindFunction
	method.Call = fn
	method.RawDefineOwnProperty(runtime.NewString("length"), runtime.NewDataDescriptor(runtime.Number(length), false, false, true))
	method.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString(name), false, false, true))
	o.RawDefineOwnProperty(runtime.NewString(name), runtime.NewDataDescriptor(method, true, false, true))
}

// installAccessor attaches a getter-only accessor property (spec §4.2
// "accessor property descriptor"): no setter, non-enumerable, configurable.
func installAccessor(o *runtime.Object, name string, getter runtime.CallHandler) {
	fn := runtime.NewOrdinaryObject(nil)
	fn.Kind = runtime.KindFunction
	fn.Call = getter
	fn.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString("get "+name), false, false, true))
	o.RawDefineOwnProperty(runtime.NewString(name), runtime.NewAccessorDescriptor(fn, nil, false, true))
}

// buildConstructor implements the generic half of bootstrapConstructor
// (spec §4.4 step 3): allocate the callable object and register it.
func buildConstructor(in Intrinsics, spec bootstrapConstructorSpec) *runtime.Object {
	ctor := runtime.NewOrdinaryObject(in[spec.funcProtoKey])
	ctor.Kind = runtime.KindFunction
	ctor.Construct = spec.construct
	if spec.call != nil {
		ctor.Call = spec.call
	} else {
		ctor.Call = func(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
			return spec.construct(args, ctor)
		}
	}
	ctor.RawDefineOwnProperty(runtime.NewString("length"), runtime.NewDataDescriptor(runtime.Number(spec.length), false, false, true))
	ctor.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString(trimPercent(spec.key)), false, false, true))
	in[spec.key] = ctor
	return ctor
}

// wireConstructorPrototype installs the ".prototype" <-> ".constructor"
// cross-links with the exact attributes spec §4.4 step 3 mandates:
// ".prototype" is {writable:false, enumerable:false, configurable:false}.
func wireConstructorPrototype(ctor, proto *runtime.Object) {
	ctor.RawDefineOwnProperty(runtime.NewString("prototype"), runtime.NewDataDescriptor(proto, false, false, false))
	proto.RawDefineOwnProperty(runtime.NewString("constructor"), runtime.NewDataDescriptor(ctor, true, false, true))
}

func trimPercent(key string) string {
	s := key
	if len(s) > 0 && s[0] == '%' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '%' {
		s = s[:len(s)-1]
	}
	return s
}

func newErrorObject(proto *runtime.Object, args []runtime.Value) *runtime.Object {
	o := runtime.NewOrdinaryObject(proto)
	o.Kind = runtime.KindError
	if len(args) > 0 && !runtime.IsUndefined(args[0]) {
		s, _ := runtime.ToStringValue(args[0])
		o.RawDefineOwnProperty(runtime.NewString("message"), runtime.NewDataDescriptor(s, true, false, true))
	}
	return o
}

func objectProtoHasOwnProperty(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
	o, c := runtime.ToObjectValue(thisArg)
	if c.IsAbrupt() {
		return c
	}
	var keyArg runtime.Value = runtime.Undefined
	if len(args) > 0 {
		keyArg = args[0]
	}
	key, c := runtime.ToPropertyKey(keyArg)
	if c.IsAbrupt() {
		return c
	}
	desc, c := o.GetOwnProperty(key)
	if c.IsAbrupt() {
		return c
	}
	return runtime.NormalCompletion(runtime.Boolean(desc != nil))
}

func objectProtoIsPrototypeOf(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
	if len(args) == 0 {
		return runtime.NormalCompletion(runtime.False)
	}
	target, ok := args[0].(*runtime.Object)
	if !ok {
		return runtime.NormalCompletion(runtime.False)
	}
	o, c := runtime.ToObjectValue(thisArg)
	if c.IsAbrupt() {
		return c
	}
	for {
		proto, c := target.GetPrototypeOf()
		if c.IsAbrupt() {
			return c
		}
		if proto == nil {
			return runtime.NormalCompletion(runtime.False)
		}
		if proto == o {
			return runtime.NormalCompletion(runtime.True)
		}
		target = proto
	}
}

func objectProtoToString(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
	if runtime.IsUndefined(thisArg) {
		return runtime.NormalCompletion(runtime.NewString("[object Undefined]"))
	}
	if runtime.IsNull(thisArg) {
		return runtime.NormalCompletion(runtime.NewString("[object Null]"))
	}
	o, c := runtime.ToObjectValue(thisArg)
	if c.IsAbrupt() {
		return c
	}
	tag := string(o.Kind)
	if tag == "" {
		tag = "Object"
	}
	return runtime.NormalCompletion(runtime.NewString("[object " + tag + "]"))
}

func objectProtoValueOf(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
	o, c := runtime.ToObjectValue(thisArg)
	if c.IsAbrupt() {
		return c
	}
	return runtime.NormalCompletion(o)
}

func errorProtoToString(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
	o, ok := thisArg.(*runtime.Object)
	if !ok {
		return runtime.Throw(runtime.NewTypeError("Error.prototype.toString requires an object"))
	}
	name := "Error"
	if v, c := o.Get_(runtime.NewString("name"), o); !c.IsAbrupt() && !runtime.IsUndefined(v) {
		if s, c := runtime.ToStringValue(v); !c.IsAbrupt() {
			name = s.GoString()
		}
	}
	msg := ""
	if v, c := o.Get_(runtime.NewString("message"), o); !c.IsAbrupt() && !runtime.IsUndefined(v) {
		if s, c := runtime.ToStringValue(v); !c.IsAbrupt() {
			msg = s.GoString()
		}
	}
	if msg == "" {
		return runtime.NormalCompletion(runtime.NewString(name))
	}
	if name == "" {
		return runtime.NormalCompletion(runtime.NewString(msg))
	}
	return runtime.NormalCompletion(runtime.NewString(name + ": " + msg))
}

func funcProtoCall(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
	fn, ok := thisArg.(*runtime.Object)
	if !ok || !fn.IsCallable() {
		return runtime.Throw(runtime.NewTypeError("Function.prototype.call target is not callable"))
	}
	var callThis runtime.Value = runtime.Undefined
	var rest []runtime.Value
	if len(args) > 0 {
		callThis = args[0]
		rest = args[1:]
	}
	return fn.Call(callThis, rest)
}

func funcProtoApply(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
	fn, ok := thisArg.(*runtime.Object)
	if !ok || !fn.IsCallable() {
		return runtime.Throw(runtime.NewTypeError("Function.prototype.apply target is not callable"))
	}
	var callThis runtime.Value = runtime.Undefined
	if len(args) > 0 {
		callThis = args[0]
	}
	var argList []runtime.Value
	if len(args) > 1 && !runtime.IsNullOrUndefined(args[1]) {
		list, c := createListFromArrayLike(args[1])
		if c.IsAbrupt() {
			return c
		}
		argList = list
	}
	return fn.Call(callThis, argList)
}

// createListFromArrayLike reads "length" then each integer-indexed own
// property of v in order (spec-standard CreateListFromArrayLike, used by
// Function.prototype.apply's second argument).
func createListFromArrayLike(v runtime.Value) ([]runtime.Value, runtime.Completion) {
	o, c := runtime.ToObjectValue(v)
	if c.IsAbrupt() {
		return nil, c
	}
	lengthVal, c := o.Get_(runtime.NewString("length"), o)
	if c.IsAbrupt() {
		return nil, c
	}
	length, c := runtime.ToIntegerOrInfinity(lengthVal)
	if c.IsAbrupt() {
		return nil, c
	}
	if length < 0 {
		length = 0
	}
	list := make([]runtime.Value, 0, int(length))
	for i := 0; i < int(length); i++ {
		v, c := o.Get_(runtime.NewString(strconv.Itoa(i)), o)
		if c.IsAbrupt() {
			return nil, c
		}
		list = append(list, v)
	}
	return list, runtime.Completion{}
}

func funcProtoBind(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
	target, ok := thisArg.(*runtime.Object)
	if !ok || !target.IsCallable() {
		return runtime.Throw(runtime.NewTypeError("Function.prototype.bind target is not callable"))
	}
	var boundThis runtime.Value = runtime.Undefined
	var boundArgs []runtime.Value
	if len(args) > 0 {
		boundThis = args[0]
		boundArgs = append([]runtime.Value(nil), args[1:]...)
	}
	proto, _ := target.GetPrototypeOf()
	bound := runtime.NewOrdinaryObject(proto)
	bound.Kind = runtime.KindBoundFunction
	bound.SetSlot("BoundTargetFunction", target)
	bound.Call = func(_ runtime.Value, callArgs []runtime.Value) runtime.Completion {
		return target.Call(boundThis, append(append([]runtime.Value(nil), boundArgs...), callArgs...))
	}
	if target.IsConstructor() {
		bound.Construct = func(callArgs []runtime.Value, newTarget *runtime.Object) runtime.Completion {
			return target.Construct(append(append([]runtime.Value(nil), boundArgs...), callArgs...), newTarget)
		}
	}
	return runtime.NormalCompletion(bound)
}
