package runtime

// OrdinaryMethods returns the Methods vtable shared by every ordinary
// object (spec §4.2 "ordinary internal methods"). Exotic objects (array.go,
// arguments.go, proxy.go, modulenamespace.go, typedarray.go) start from this
// table and override only the entries their exotic behavior changes.
func OrdinaryMethods() Methods {
	return Methods{
		GetPrototypeOf:    OrdinaryGetPrototypeOf,
		SetPrototypeOf:    OrdinarySetPrototypeOf,
		IsExtensible:      OrdinaryIsExtensible,
		PreventExtensions: OrdinaryPreventExtensions,
		GetOwnProperty:    OrdinaryGetOwnProperty,
		DefineOwnProperty: OrdinaryDefineOwnProperty,
		HasProperty:       OrdinaryHasProperty,
		Get:               OrdinaryGet,
		Set:               OrdinarySet,
		Delete:            OrdinaryDelete,
		OwnPropertyKeys:   OrdinaryOwnPropertyKeys,
	}
}

// OrdinaryGetPrototypeOf implements [[GetPrototypeOf]] for ordinary objects.
func OrdinaryGetPrototypeOf(o *Object) (*Object, Completion) {
	return o.RawPrototype(), Completion{}
}

// OrdinarySetPrototypeOf implements [[SetPrototypeOf]], including the
// prototype-chain cycle check (spec §4.2).
func OrdinarySetPrototypeOf(o *Object, proto *Object) (bool, Completion) {
	current := o.RawPrototype()
	if proto == current {
		return true, Completion{}
	}
	if !o.RawExtensible() {
		return false, Completion{}
	}
	p := proto
	for p != nil {
		if p == o {
			return false, Completion{}
		}
		if p.Kind != KindOrdinary && p.Kind != KindArray && p.Kind != KindArguments {
			// A non-ordinary [[GetPrototypeOf]] further up the chain may not
			// be a simple data walk (e.g. a Proxy); stop the cycle search,
			// spec §4.2 allows either behavior here, so we accept.
			break
		}
		p = p.RawPrototype()
	}
	o.RawSetPrototype(proto)
	return true, Completion{}
}

// OrdinaryIsExtensible implements [[IsExtensible]].
func OrdinaryIsExtensible(o *Object) (bool, Completion) { return o.RawExtensible(), Completion{} }

// OrdinaryPreventExtensions implements [[PreventExtensions]].
func OrdinaryPreventExtensions(o *Object) (bool, Completion) {
	o.RawSetExtensible(false)
	return true, Completion{}
}

// OrdinaryGetOwnProperty implements [[GetOwnProperty]]: a direct lookup in
// the object's own property store, returning a defensive copy so callers
// cannot mutate stored state through the returned descriptor.
func OrdinaryGetOwnProperty(o *Object, key PropertyKey) (*PropertyDescriptor, Completion) {
	d, ok := o.RawGetOwnProperty(key)
	if !ok {
		return nil, Completion{}
	}
	copied := *d
	return &copied, Completion{}
}

// OrdinaryDefineOwnProperty implements [[DefineOwnProperty]] by delegating
// to ValidateAndApplyPropertyDescriptor against the object's own store
// (spec §4.2).
func OrdinaryDefineOwnProperty(o *Object, key PropertyKey, desc *PropertyDescriptor) (bool, Completion) {
	current, _ := o.RawGetOwnProperty(key)
	ok := ValidateAndApplyPropertyDescriptor(func(final *PropertyDescriptor) {
		o.RawDefineOwnProperty(key, final)
	}, o.RawExtensible(), desc, current)
	return ok, Completion{}
}

// OrdinaryHasProperty implements [[HasProperty]], walking the prototype
// chain via the (possibly exotic) [[GetPrototypeOf]] of each ancestor.
func OrdinaryHasProperty(o *Object, key PropertyKey) (bool, Completion) {
	if _, ok := o.RawGetOwnProperty(key); ok {
		return true, Completion{}
	}
	proto, c := o.GetPrototypeOf()
	if c.IsAbrupt() {
		return false, c
	}
	if proto == nil {
		return false, Completion{}
	}
	return proto.HasProperty(key)
}

// OrdinaryGet implements [[Get]]: own data property, own accessor property
// (invoking the getter via Call), or delegation to the prototype chain
// (spec §4.2).
func OrdinaryGet(o *Object, key PropertyKey, receiver Value) (Value, Completion) {
	desc, ok := o.RawGetOwnProperty(key)
	if !ok {
		proto, c := o.GetPrototypeOf()
		if c.IsAbrupt() {
			return nil, c
		}
		if proto == nil {
			return Undefined, Completion{}
		}
		return proto.Get_(key, receiver)
	}
	if desc.IsDataDescriptor() {
		return desc.Value, Completion{}
	}
	Assert(desc.IsAccessorDescriptor(), "OrdinaryGet: descriptor must be data or accessor")
	getter := desc.Get
	if getter == nil || getter == Undefined {
		return Undefined, Completion{}
	}
	fn, isObj := getter.(*Object)
	if !isObj || !fn.IsCallable() {
		return nil, Throw(NewTypeError("getter is not callable"))
	}
	return callValue(fn, receiver, nil)
}

// OrdinarySet implements [[Set]] via the spec's OrdinarySetWithOwnDescriptor
// path: resolve the owning descriptor (own or inherited), then either write
// through (data property on a compatible receiver) or invoke the setter.
func OrdinarySet(o *Object, key PropertyKey, value Value, receiver Value) (bool, Completion) {
	own, ok := o.RawGetOwnProperty(key)
	if !ok {
		proto, c := o.GetPrototypeOf()
		if c.IsAbrupt() {
			return false, c
		}
		if proto != nil {
			return proto.Set_(key, value, receiver)
		}
		own = NewDataDescriptor(Undefined, true, true, true)
	}
	if own.IsDataDescriptor() {
		if !own.Writable {
			return false, Completion{}
		}
		recvObj, isObj := receiver.(*Object)
		if !isObj {
			return false, Completion{}
		}
		if recvObj == o {
			existing, _ := recvObj.RawGetOwnProperty(key)
			if existing != nil {
				if !existing.IsDataDescriptor() {
					return false, Completion{}
				}
				return recvObj.DefineOwnProperty(key, &PropertyDescriptor{Value: value, HasValue: true})
			}
			return recvObj.DefineOwnProperty(key, NewDataDescriptor(value, true, true, true))
		}
		existing, hasExisting := recvObj.RawGetOwnProperty(key)
		if hasExisting {
			if !existing.IsDataDescriptor() || !existing.Writable {
				return false, Completion{}
			}
			return recvObj.DefineOwnProperty(key, &PropertyDescriptor{Value: value, HasValue: true})
		}
		return recvObj.DefineOwnProperty(key, NewDataDescriptor(value, true, true, true))
	}
	Assert(own.IsAccessorDescriptor(), "OrdinarySet: descriptor must be data or accessor")
	setter := own.Set
	if setter == nil || setter == Undefined {
		return false, Completion{}
	}
	fn, isObj := setter.(*Object)
	if !isObj || !fn.IsCallable() {
		return false, Throw(NewTypeError("setter is not callable"))
	}
	_, c := callValue(fn, receiver, []Value{value})
	if c.IsAbrupt() {
		return false, c
	}
	return true, Completion{}
}

// OrdinaryDelete implements [[Delete]].
func OrdinaryDelete(o *Object, key PropertyKey) (bool, Completion) {
	desc, ok := o.RawGetOwnProperty(key)
	if !ok {
		return true, Completion{}
	}
	if !desc.Configurable {
		return false, Completion{}
	}
	o.RawDelete(key)
	return true, Completion{}
}

// OrdinaryOwnPropertyKeys implements [[OwnPropertyKeys]] in spec §8
// invariant 3 order.
func OrdinaryOwnPropertyKeys(o *Object) ([]PropertyKey, Completion) {
	return o.RawOwnPropertyKeys(), Completion{}
}

// callValue invokes a callable object, normalizing its CallHandler result
// into the (Value, Completion) shape [[Get]]/[[Set]] need: a Normal
// completion yields (value, Completion{}), any abrupt completion is passed
// through untouched.
func callValue(fn *Object, thisArg Value, args []Value) (Value, Completion) {
	c := fn.Call(thisArg, args)
	if c.IsAbrupt() {
		return nil, c
	}
	return c.Value, Completion{}
}
