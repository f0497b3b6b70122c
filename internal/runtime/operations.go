package runtime

// Call implements the Call abstract operation (spec §4.2): dispatch through
// the target's [[Call]] internal method after verifying it is callable.
func Call(fn Value, thisArg Value, args []Value) Completion {
	obj, ok := fn.(*Object)
	if !ok || !obj.IsCallable() {
		return Throw(NewTypeError("value is not callable"))
	}
	return obj.Call(thisArg, args)
}

// Construct implements the Construct abstract operation (spec §4.2),
// defaulting newTarget to the constructor itself as the specification's
// EvaluateNew does for a bare `new F()`.
func Construct(ctor *Object, args []Value, newTarget *Object) Completion {
	if !ctor.IsConstructor() {
		return Throw(NewTypeError("value is not a constructor"))
	}
	if newTarget == nil {
		newTarget = ctor
	}
	return ctor.Construct(args, newTarget)
}

// GetMethod implements GetMethod (spec §4.2): looks up key on v and returns
// Undefined (not the looked-up value) when the result is Null or Undefined,
// TypeError if the result exists but is not callable.
func GetMethod(v Value, key PropertyKey) (Value, Completion) {
	o, c := ToObjectValue(v)
	if c.IsAbrupt() {
		return nil, c
	}
	fn, c := o.Get_(key, v)
	if c.IsAbrupt() {
		return nil, c
	}
	if IsNullOrUndefined(fn) {
		return Undefined, Completion{}
	}
	obj, ok := fn.(*Object)
	if !ok || !obj.IsCallable() {
		return nil, Throw(NewTypeError("property is not a function"))
	}
	return obj, Completion{}
}

// ToObjectValue is the realm-free part of ToObject for call sites
// (GetMethod, iteration) that need an *Object to call [[Get]] on: it
// returns an object unchanged and throws a TypeError for every primitive,
// since boxing one needs a realm's wrapper prototypes. realm.ToObject is
// the full abstract operation, boxing primitives.
func ToObjectValue(v Value) (*Object, Completion) {
	if o, ok := v.(*Object); ok {
		return o, Completion{}
	}
	if IsNullOrUndefined(v) {
		return nil, Throw(NewTypeError("cannot convert null or undefined to object"))
	}
	return nil, Throw(NewTypeError("value has no object wrapper available outside a realm"))
}

// Iterator bundles an iterator object with the hint used to obtain it, so
// IteratorClose knows whether to ignore a close-time throw (spec §4.2
// "GetIterator"/"IteratorClose").
type Iterator struct {
	Object *Object
	Sync   bool
}

// GetIterator implements GetIterator (spec §4.2): sync uses @@iterator,
// async uses @@asyncIterator.
func GetIterator(v Value, sync bool) (*Iterator, Completion) {
	var key PropertyKey = SymbolIterator
	if !sync {
		key = SymbolAsyncIterator
	}
	method, c := GetMethod(v, key)
	if c.IsAbrupt() {
		return nil, c
	}
	if IsUndefined(method) {
		return nil, Throw(NewTypeError("value is not iterable"))
	}
	result := Call(method, v, nil)
	if result.IsAbrupt() {
		return nil, result
	}
	obj, ok := result.Value.(*Object)
	if !ok {
		return nil, Throw(NewTypeError("iterator method did not return an object"))
	}
	return &Iterator{Object: obj, Sync: sync}, Completion{}
}

// IteratorNext implements IteratorNext (spec §4.2): calls `next`, validates
// the result is an object.
func IteratorNext(it *Iterator, value Value) (*Object, Completion) {
	nextMethod, c := it.Object.Get_(NewString("next"), it.Object)
	if c.IsAbrupt() {
		return nil, c
	}
	var args []Value
	if value != nil {
		args = []Value{value}
	}
	result := Call(nextMethod, it.Object, args)
	if result.IsAbrupt() {
		return nil, result
	}
	obj, ok := result.Value.(*Object)
	if !ok {
		return nil, Throw(NewTypeError("iterator result is not an object"))
	}
	return obj, Completion{}
}

// IteratorComplete reads the `done` property of an iterator result object.
func IteratorComplete(result *Object) (bool, Completion) {
	v, c := result.Get_(NewString("done"), result)
	if c.IsAbrupt() {
		return false, c
	}
	return bool(ToBoolean(v)), Completion{}
}

// IteratorValue reads the `value` property of an iterator result object.
func IteratorValue(result *Object) (Value, Completion) {
	return result.Get_(NewString("value"), result)
}

// IteratorStep implements IteratorStep (spec §4.2): next() then check done,
// returning nil when the iterator is exhausted.
func IteratorStep(it *Iterator, value Value) (*Object, Completion) {
	result, c := IteratorNext(it, value)
	if c.IsAbrupt() {
		return nil, c
	}
	done, c := IteratorComplete(result)
	if c.IsAbrupt() {
		return nil, c
	}
	if done {
		return nil, Completion{}
	}
	return result, Completion{}
}

// IteratorClose implements IteratorClose (spec §4.2): calls `return` if
// present, swallowing completion per the specification's rule that
// `completion` (the reason iteration is closing) takes priority over any
// new abrupt completion from `return` itself — unless completion was
// Normal, in which case return's throw propagates.
func IteratorClose(it *Iterator, completion Completion) Completion {
	returnMethod, c := it.Object.Get_(NewString("return"), it.Object)
	if c.IsAbrupt() {
		if completion.IsAbrupt() {
			return completion
		}
		return c
	}
	if IsUndefined(returnMethod) {
		return completion
	}
	innerResult := Call(returnMethod, it.Object, nil)
	if completion.IsAbrupt() {
		return completion
	}
	if innerResult.IsAbrupt() {
		return innerResult
	}
	if _, ok := innerResult.Value.(*Object); !ok {
		return Throw(NewTypeError("iterator close result is not an object"))
	}
	return completion
}

// AsyncIteratorClose implements AsyncIteratorClose (spec §4.2): like
// IteratorClose but the caller must await the `return` call's promise
// before inspecting it; the evaluator drives that suspension, so this
// helper only issues the call and leaves awaiting to the caller.
func AsyncIteratorClose(it *Iterator, completion Completion) (Value, Completion) {
	returnMethod, c := it.Object.Get_(NewString("return"), it.Object)
	if c.IsAbrupt() {
		return nil, c
	}
	if IsUndefined(returnMethod) {
		return Undefined, completion
	}
	result := Call(returnMethod, it.Object, nil)
	if result.IsAbrupt() {
		return nil, result
	}
	return result.Value, completion
}

// CreateArrayFromList implements CreateArrayFromList (spec §4.2): builds a
// dense array with a nil prototype (no realm-specific prototype is
// available here; NewArray takes the prototype explicitly when a realm's
// %Array.prototype% matters).
func CreateArrayFromList(elements []Value) *Object {
	arr := NewArray(nil, uint32(len(elements)))
	for i, v := range elements {
		arr.RawDefineOwnProperty(NewString(uint32ToString(uint32(i))), NewDataDescriptor(v, true, true, true))
	}
	return arr
}

// IterableToList implements IterableToList (spec §4.2): drains a
// synchronous iterable into a Go slice.
func IterableToList(v Value) ([]Value, Completion) {
	it, c := GetIterator(v, true)
	if c.IsAbrupt() {
		return nil, c
	}
	var out []Value
	for {
		result, c := IteratorStep(it, nil)
		if c.IsAbrupt() {
			return nil, c
		}
		if result == nil {
			return out, Completion{}
		}
		val, c := IteratorValue(result)
		if c.IsAbrupt() {
			return nil, IteratorClose(it, c)
		}
		out = append(out, val)
	}
}
