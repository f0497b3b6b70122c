package runtime

// NewProxy builds a Proxy exotic object (spec §4.2 "Proxy Exotic Objects"):
// every internal method forwards to the corresponding trap on handler, if
// present, falling back to the identical operation on target otherwise.
// Traps are themselves ordinary Call invocations, so a throwing trap
// propagates as an abrupt Completion exactly like any other user call.
func NewProxy(target, handler *Object) *Object {
	o := &Object{Kind: KindProxy, props: newOrderedProps(), slots: make(map[string]any)}
	o.SetSlot("ProxyTarget", target)
	o.SetSlot("ProxyHandler", handler)
	o.Methods = Methods{
		GetPrototypeOf:    proxyGetPrototypeOf,
		SetPrototypeOf:    proxySetPrototypeOf,
		IsExtensible:      proxyIsExtensible,
		PreventExtensions: proxyPreventExtensions,
		GetOwnProperty:    proxyGetOwnProperty,
		DefineOwnProperty: proxyDefineOwnProperty,
		HasProperty:       proxyHasProperty,
		Get:               proxyGet,
		Set:               proxySet,
		Delete:            proxyDelete,
		OwnPropertyKeys:   proxyOwnPropertyKeys,
	}
	if target.IsCallable() {
		o.Call = func(thisArg Value, args []Value) Completion {
			t, h, c := proxyEssentials(o)
			if c.IsAbrupt() {
				return c
			}
			trap, c := proxyTrap(h, "apply")
			if c.IsAbrupt() {
				return c
			}
			if trap == nil {
				return t.Call(thisArg, args)
			}
			return trap.Call(h, []Value{t, thisArg, newArgumentsArray(args)})
		}
	}
	if target.IsConstructor() {
		o.Construct = func(args []Value, newTarget *Object) Completion {
			t, h, c := proxyEssentials(o)
			if c.IsAbrupt() {
				return c
			}
			trap, c := proxyTrap(h, "construct")
			if c.IsAbrupt() {
				return c
			}
			if trap == nil {
				return t.Construct(args, newTarget)
			}
			result := trap.Call(h, []Value{t, newArgumentsArray(args), newTarget})
			if result.IsAbrupt() {
				return result
			}
			if _, ok := result.Value.(*Object); !ok {
				return Throw(NewTypeError("proxy construct trap must return an object"))
			}
			return result
		}
	}
	return o
}

// RevokeProxy disables every trap permanently (spec §4.2 "Proxy
// revocation"): subsequent operations on a revoked proxy always throw
// TypeError regardless of target/handler state.
func RevokeProxy(o *Object) {
	o.SetSlot("ProxyRevoked", true)
}

func proxyEssentials(o *Object) (*Object, *Object, Completion) {
	if revoked, ok := o.Slot("ProxyRevoked"); ok && revoked.(bool) {
		return nil, nil, Throw(NewTypeError("cannot perform operation on a revoked proxy"))
	}
	t, _ := o.Slot("ProxyTarget")
	h, _ := o.Slot("ProxyHandler")
	return t.(*Object), h.(*Object), Completion{}
}

func proxyTrap(handler *Object, name string) (*Object, Completion) {
	v, c := handler.Get_(NewString(name), handler)
	if c.IsAbrupt() {
		return nil, c
	}
	if IsUndefined(v) || IsNull(v) {
		return nil, Completion{}
	}
	fn, ok := v.(*Object)
	if !ok || !fn.IsCallable() {
		return nil, Throw(NewTypeError("proxy trap %q is not callable", name))
	}
	return fn, Completion{}
}

func newArgumentsArray(args []Value) *Object {
	// A plain dense array standing in for the trap's argument list; traps
	// never need the mapped-arguments behavior.
	a := NewArray(nil, uint32(len(args)))
	for i, v := range args {
		a.RawDefineOwnProperty(NewString(uint32ToString(uint32(i))), NewDataDescriptor(v, true, true, true))
	}
	a.RawDefineOwnProperty(lengthKey, NewDataDescriptor(Number(len(args)), true, false, false))
	return a
}

func proxyGetPrototypeOf(o *Object) (*Object, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return nil, c
	}
	trap, c := proxyTrap(h, "getPrototypeOf")
	if c.IsAbrupt() {
		return nil, c
	}
	if trap == nil {
		return t.GetPrototypeOf()
	}
	result := trap.Call(h, []Value{t})
	if result.IsAbrupt() {
		return nil, result
	}
	if IsNull(result.Value) {
		return nil, Completion{}
	}
	proto, ok := result.Value.(*Object)
	if !ok {
		return nil, Throw(NewTypeError("getPrototypeOf trap must return an object or null"))
	}
	targetExtensible, c := t.IsExtensible()
	if c.IsAbrupt() {
		return nil, c
	}
	if targetExtensible {
		return proto, Completion{}
	}
	targetProto, c := t.GetPrototypeOf()
	if c.IsAbrupt() {
		return nil, c
	}
	if proto != targetProto {
		return nil, Throw(NewTypeError("getPrototypeOf invariant violated: non-extensible target"))
	}
	return proto, Completion{}
}

func proxySetPrototypeOf(o *Object, proto *Object) (bool, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return false, c
	}
	trap, c := proxyTrap(h, "setPrototypeOf")
	if c.IsAbrupt() {
		return false, c
	}
	var protoVal Value = Null
	if proto != nil {
		protoVal = proto
	}
	if trap == nil {
		return t.SetPrototypeOf(proto)
	}
	result := trap.Call(h, []Value{t, protoVal})
	if result.IsAbrupt() {
		return false, result
	}
	if !ToBoolean(result.Value) {
		return false, Completion{}
	}
	targetExtensible, c := t.IsExtensible()
	if c.IsAbrupt() {
		return false, c
	}
	if targetExtensible {
		return true, Completion{}
	}
	targetProto, c := t.GetPrototypeOf()
	if c.IsAbrupt() {
		return false, c
	}
	if proto != targetProto {
		return false, Throw(NewTypeError("setPrototypeOf invariant violated: non-extensible target"))
	}
	return true, Completion{}
}

func proxyIsExtensible(o *Object) (bool, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return false, c
	}
	trap, c := proxyTrap(h, "isExtensible")
	if c.IsAbrupt() {
		return false, c
	}
	if trap == nil {
		return t.IsExtensible()
	}
	result := trap.Call(h, []Value{t})
	if result.IsAbrupt() {
		return false, result
	}
	booleanResult := ToBoolean(result.Value)
	targetResult, c := t.IsExtensible()
	if c.IsAbrupt() {
		return false, c
	}
	if bool(booleanResult) != targetResult {
		return false, Throw(NewTypeError("isExtensible invariant violated"))
	}
	return bool(booleanResult), Completion{}
}

func proxyPreventExtensions(o *Object) (bool, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return false, c
	}
	trap, c := proxyTrap(h, "preventExtensions")
	if c.IsAbrupt() {
		return false, c
	}
	if trap == nil {
		return t.PreventExtensions()
	}
	result := trap.Call(h, []Value{t})
	if result.IsAbrupt() {
		return false, result
	}
	if !ToBoolean(result.Value) {
		return false, Completion{}
	}
	targetExtensible, c := t.IsExtensible()
	if c.IsAbrupt() {
		return false, c
	}
	if targetExtensible {
		return false, Throw(NewTypeError("preventExtensions invariant violated: target still extensible"))
	}
	return true, Completion{}
}

func proxyGetOwnProperty(o *Object, key PropertyKey) (*PropertyDescriptor, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return nil, c
	}
	trap, c := proxyTrap(h, "getOwnPropertyDescriptor")
	if c.IsAbrupt() {
		return nil, c
	}
	if trap == nil {
		return t.GetOwnProperty(key)
	}
	result := trap.Call(h, []Value{t, key.(Value)})
	if result.IsAbrupt() {
		return nil, result
	}
	targetDesc, c := t.GetOwnProperty(key)
	if c.IsAbrupt() {
		return nil, c
	}
	if IsUndefined(result.Value) {
		if targetDesc == nil {
			return nil, Completion{}
		}
		if !targetDesc.Configurable {
			return nil, Throw(NewTypeError("getOwnPropertyDescriptor invariant violated: non-configurable own property reported absent"))
		}
		targetExtensible, c := t.IsExtensible()
		if c.IsAbrupt() {
			return nil, c
		}
		if !targetExtensible {
			return nil, Throw(NewTypeError("getOwnPropertyDescriptor invariant violated: non-extensible target"))
		}
		return nil, Completion{}
	}
	descObj, ok := result.Value.(*Object)
	if !ok {
		return nil, Throw(NewTypeError("getOwnPropertyDescriptor trap must return an object or undefined"))
	}
	desc, c := ToPropertyDescriptor(descObj)
	if c.IsAbrupt() {
		return nil, c
	}
	desc = completeDescriptor(desc)
	return desc, Completion{}
}

func proxyDefineOwnProperty(o *Object, key PropertyKey, desc *PropertyDescriptor) (bool, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return false, c
	}
	trap, c := proxyTrap(h, "defineProperty")
	if c.IsAbrupt() {
		return false, c
	}
	if trap == nil {
		return t.DefineOwnProperty(key, desc)
	}
	descObj := FromPropertyDescriptor(desc)
	result := trap.Call(h, []Value{t, key.(Value), descObj})
	if result.IsAbrupt() {
		return false, result
	}
	return bool(ToBoolean(result.Value)), Completion{}
}

func proxyHasProperty(o *Object, key PropertyKey) (bool, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return false, c
	}
	trap, c := proxyTrap(h, "has")
	if c.IsAbrupt() {
		return false, c
	}
	if trap == nil {
		return t.HasProperty(key)
	}
	result := trap.Call(h, []Value{t, key.(Value)})
	if result.IsAbrupt() {
		return false, result
	}
	if ToBoolean(result.Value) {
		return true, Completion{}
	}
	targetDesc, c := t.GetOwnProperty(key)
	if c.IsAbrupt() {
		return false, c
	}
	if targetDesc != nil && !targetDesc.Configurable {
		return false, Throw(NewTypeError("has invariant violated: non-configurable own property reported absent"))
	}
	return false, Completion{}
}

func proxyGet(o *Object, key PropertyKey, receiver Value) (Value, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return nil, c
	}
	trap, c := proxyTrap(h, "get")
	if c.IsAbrupt() {
		return nil, c
	}
	if trap == nil {
		return t.Get_(key, receiver)
	}
	result := trap.Call(h, []Value{t, key.(Value), receiver})
	if result.IsAbrupt() {
		return nil, result
	}
	targetDesc, c := t.GetOwnProperty(key)
	if c.IsAbrupt() {
		return nil, c
	}
	if targetDesc != nil && !targetDesc.Configurable {
		if targetDesc.IsDataDescriptor() && !targetDesc.Writable && !SameValue(result.Value, targetDesc.Value) {
			return nil, Throw(NewTypeError("get invariant violated: non-configurable, non-writable property"))
		}
		if targetDesc.IsAccessorDescriptor() && IsUndefined(targetDesc.Get) && !IsUndefined(result.Value) {
			return nil, Throw(NewTypeError("get invariant violated: accessor with no getter"))
		}
	}
	return result.Value, Completion{}
}

func proxySet(o *Object, key PropertyKey, value Value, receiver Value) (bool, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return false, c
	}
	trap, c := proxyTrap(h, "set")
	if c.IsAbrupt() {
		return false, c
	}
	if trap == nil {
		return t.Set_(key, value, receiver)
	}
	result := trap.Call(h, []Value{t, key.(Value), value, receiver})
	if result.IsAbrupt() {
		return false, result
	}
	if !ToBoolean(result.Value) {
		return false, Completion{}
	}
	targetDesc, c := t.GetOwnProperty(key)
	if c.IsAbrupt() {
		return false, c
	}
	if targetDesc != nil && !targetDesc.Configurable {
		if targetDesc.IsDataDescriptor() && !targetDesc.Writable && !SameValue(value, targetDesc.Value) {
			return false, Throw(NewTypeError("set invariant violated: non-configurable, non-writable property"))
		}
		if targetDesc.IsAccessorDescriptor() && IsUndefined(targetDesc.Set) {
			return false, Throw(NewTypeError("set invariant violated: accessor with no setter"))
		}
	}
	return true, Completion{}
}

func proxyDelete(o *Object, key PropertyKey) (bool, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return false, c
	}
	trap, c := proxyTrap(h, "deleteProperty")
	if c.IsAbrupt() {
		return false, c
	}
	if trap == nil {
		return t.Delete_(key)
	}
	result := trap.Call(h, []Value{t, key.(Value)})
	if result.IsAbrupt() {
		return false, result
	}
	if !ToBoolean(result.Value) {
		return false, Completion{}
	}
	targetDesc, c := t.GetOwnProperty(key)
	if c.IsAbrupt() {
		return false, c
	}
	if targetDesc == nil {
		return true, Completion{}
	}
	if !targetDesc.Configurable {
		return false, Throw(NewTypeError("deleteProperty invariant violated: non-configurable own property"))
	}
	return true, Completion{}
}

func proxyOwnPropertyKeys(o *Object) ([]PropertyKey, Completion) {
	t, h, c := proxyEssentials(o)
	if c.IsAbrupt() {
		return nil, c
	}
	trap, c := proxyTrap(h, "ownKeys")
	if c.IsAbrupt() {
		return nil, c
	}
	if trap == nil {
		return t.OwnPropertyKeys()
	}
	result := trap.Call(h, []Value{t})
	if result.IsAbrupt() {
		return nil, result
	}
	arr, ok := result.Value.(*Object)
	if !ok {
		return nil, Throw(NewTypeError("ownKeys trap must return an object"))
	}
	keys, c := propertyKeysFromArrayLike(arr)
	if c.IsAbrupt() {
		return nil, c
	}
	targetExtensible, c := t.IsExtensible()
	if c.IsAbrupt() {
		return nil, c
	}
	targetKeys, c := t.OwnPropertyKeys()
	if c.IsAbrupt() {
		return nil, c
	}
	if !targetExtensible {
		if !sameKeySet(keys, targetKeys) {
			return nil, Throw(NewTypeError("ownKeys invariant violated: non-extensible target"))
		}
		return keys, Completion{}
	}
	for _, k := range targetKeys {
		desc, c := t.GetOwnProperty(k)
		if c.IsAbrupt() {
			return nil, c
		}
		if desc != nil && !desc.Configurable && !containsKey(keys, k) {
			return nil, Throw(NewTypeError("ownKeys invariant violated: missing non-configurable key"))
		}
	}
	return keys, Completion{}
}

func propertyKeysFromArrayLike(arr *Object) ([]PropertyKey, Completion) {
	lengthVal, c := arr.Get_(lengthKey, arr)
	if c.IsAbrupt() {
		return nil, c
	}
	length, c := ToUint32(lengthVal)
	if c.IsAbrupt() {
		return nil, c
	}
	out := make([]PropertyKey, 0, length)
	seen := make(map[PropertyKey]bool)
	for i := uint32(0); i < length; i++ {
		v, c := arr.Get_(NewString(uint32ToString(i)), arr)
		if c.IsAbrupt() {
			return nil, c
		}
		s, isStr := v.(String)
		sym, isSym := v.(*Symbol)
		if !isStr && !isSym {
			return nil, Throw(NewTypeError("ownKeys trap result must contain only strings and symbols"))
		}
		var key PropertyKey
		if isStr {
			key = s
		} else {
			key = sym
		}
		if seen[key] {
			return nil, Throw(NewTypeError("ownKeys trap result contains a duplicate key"))
		}
		seen[key] = true
		out = append(out, key)
	}
	return out, Completion{}
}

func sameKeySet(a, b []PropertyKey) bool {
	if len(a) != len(b) {
		return false
	}
	return containsAll(a, b) && containsAll(b, a)
}

func containsAll(a, b []PropertyKey) bool {
	for _, k := range a {
		if !containsKey(b, k) {
			return false
		}
	}
	return true
}

func containsKey(keys []PropertyKey, k PropertyKey) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}
