package runtime

// orderedProps is an insertion-ordered property store: integer-index keys
// are reported first in ascending numeric order, then string keys in
// insertion order, then symbol keys in insertion order (spec §3, §8
// invariant 3). This is the case-sensitive, reference-identity-for-symbols
// analogue of the teacher's ident.Map case-insensitive ordered store.
type orderedProps struct {
	keys  []PropertyKey
	index map[PropertyKey]*PropertyDescriptor
}

func newOrderedProps() *orderedProps {
	return &orderedProps{index: make(map[PropertyKey]*PropertyDescriptor)}
}

func (p *orderedProps) get(key PropertyKey) (*PropertyDescriptor, bool) {
	d, ok := p.index[key]
	return d, ok
}

func (p *orderedProps) set(key PropertyKey, desc *PropertyDescriptor) {
	if _, exists := p.index[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.index[key] = desc
}

func (p *orderedProps) delete(key PropertyKey) {
	if _, exists := p.index[key]; !exists {
		return
	}
	delete(p.index, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// orderedKeys returns keys per spec §8 invariant 3: array indices ascending,
// then strings in insertion order, then symbols in insertion order.
func (p *orderedProps) orderedKeys() []PropertyKey {
	var indices []uint32
	var strs []PropertyKey
	var syms []PropertyKey
	indexOf := make(map[uint32]PropertyKey)
	for _, k := range p.keys {
		if s, ok := k.(String); ok {
			if n, isIndex := ArrayIndex(s); isIndex {
				indices = append(indices, n)
				indexOf[n] = k
				continue
			}
			strs = append(strs, k)
			continue
		}
		syms = append(syms, k)
	}
	sortUint32(indices)
	out := make([]PropertyKey, 0, len(p.keys))
	for _, n := range indices {
		out = append(out, indexOf[n])
	}
	out = append(out, strs...)
	out = append(out, syms...)
	return out
}

func sortUint32(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// ArrayIndex reports whether s is a canonical array index string "n" for
// n in [0, 2^32-1) (spec §4.2 "An array index is a canonical string").
func ArrayIndex(s String) (uint32, bool) {
	str := s.GoString()
	if str == "" {
		return 0, false
	}
	if str == "0" {
		return 0, true
	}
	if str[0] == '0' {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
		if n >= 4294967295 {
			return 0, false
		}
	}
	return uint32(n), true
}

// ObjectKind tags the exotic behavior an Object carries, used only for
// dispatch diagnostics and the inspector — actual behavior dispatch goes
// through Methods, not a type switch on Kind.
type ObjectKind string

const (
	KindOrdinary        ObjectKind = "Ordinary"
	KindArray           ObjectKind = "Array"
	KindArguments       ObjectKind = "Arguments"
	KindProxy           ObjectKind = "Proxy"
	KindModuleNamespace ObjectKind = "Module Namespace"
	KindTypedArray      ObjectKind = "TypedArray"
	KindArrayBuffer     ObjectKind = "ArrayBuffer"
	KindDataView        ObjectKind = "DataView"
	KindBoundFunction   ObjectKind = "Bound Function"
	KindFunction        ObjectKind = "Function"
	KindError           ObjectKind = "Error"
	KindPromise         ObjectKind = "Promise"
	KindGenerator       ObjectKind = "Generator"
)

// Methods is the per-object vtable of overridable internal methods (spec
// §3, §9 "Dynamic dispatch on internal methods": "a per-object vtable ...
// or function pointers grouped in a small record, chosen at object
// construction"). Every entry returns a Completion because even the
// "structural" methods (GetOwnProperty, OwnPropertyKeys, ...) are
// overridable by Proxy, whose traps are arbitrary callable objects that can
// throw.
type Methods struct {
	GetPrototypeOf    func(o *Object) (*Object, Completion)
	SetPrototypeOf    func(o *Object, proto *Object) (bool, Completion)
	IsExtensible      func(o *Object) (bool, Completion)
	PreventExtensions func(o *Object) (bool, Completion)
	GetOwnProperty    func(o *Object, key PropertyKey) (*PropertyDescriptor, Completion)
	DefineOwnProperty func(o *Object, key PropertyKey, desc *PropertyDescriptor) (bool, Completion)
	HasProperty       func(o *Object, key PropertyKey) (bool, Completion)
	Get               func(o *Object, key PropertyKey, receiver Value) (Value, Completion)
	Set               func(o *Object, key PropertyKey, value Value, receiver Value) (bool, Completion)
	Delete            func(o *Object, key PropertyKey) (bool, Completion)
	OwnPropertyKeys   func(o *Object) ([]PropertyKey, Completion)
}

// CallHandler is installed on callable objects: native built-ins provide a
// Go closure directly; the evaluator installs one on every user-defined
// function object that drives the coroutine (spec §4.5). It returns a
// Completion whose Type is Normal (the return value) or Throw.
type CallHandler func(thisArg Value, args []Value) Completion

// ConstructHandler is installed on constructable objects (spec
// §4.2 Abstract Operations "Construct"); newTarget is the originally
// targeted constructor, needed for correct `new.target` and prototype
// selection under subclassing.
type ConstructHandler func(args []Value, newTarget *Object) Completion

// Object is the runtime representation of every ECMAScript object (spec
// §3). Internal slots are stored in a small map since the set declared per
// object varies (BooleanData, ArrayBufferData, ProxyTarget, ...); this
// mirrors the specification's own "internalSlotsList" being a per-object
// declared set rather than a fixed struct shape.
type Object struct {
	Kind       ObjectKind
	prototype  *Object
	extensible bool
	props      *orderedProps
	slots      map[string]any

	Methods Methods

	Call      CallHandler
	Construct ConstructHandler

	PrivateElements []*PrivateElement
}

func (o *Object) TypeOf() string { return "object" }
func (o *Object) Display() string {
	return "[object " + string(o.Kind) + "]"
}

func (o *Object) isPropertyKey() {}

// NewOrdinaryObject creates an ordinary object with the given prototype,
// wired to the canonical Ordinary* internal methods (spec §4.2).
func NewOrdinaryObject(proto *Object) *Object {
	o := &Object{
		Kind:       KindOrdinary,
		prototype:  proto,
		extensible: true,
		props:      newOrderedProps(),
		slots:      make(map[string]any),
	}
	o.Methods = OrdinaryMethods()
	return o
}

// Slot retrieves an internal slot value by name.
func (o *Object) Slot(name string) (any, bool) {
	v, ok := o.slots[name]
	return v, ok
}

// SetSlot installs an internal slot value.
func (o *Object) SetSlot(name string, v any) {
	o.slots[name] = v
}

// IsCallable reports whether this object has a [[Call]] internal method.
func (o *Object) IsCallable() bool { return o.Call != nil }

// IsConstructor reports whether this object has a [[Construct]] internal
// method.
func (o *Object) IsConstructor() bool { return o.Construct != nil }

// RawGetOwnProperty looks up key directly in this object's property store
// without going through Methods (used by the Ordinary* implementations
// themselves and by exotic overrides that need the underlying storage).
func (o *Object) RawGetOwnProperty(key PropertyKey) (*PropertyDescriptor, bool) {
	return o.props.get(key)
}

// RawDefineOwnProperty installs desc for key directly into the property
// store, bypassing ValidateAndApplyPropertyDescriptor. Exotic overrides use
// this after performing their own validation.
func (o *Object) RawDefineOwnProperty(key PropertyKey, desc *PropertyDescriptor) {
	o.props.set(key, desc)
}

// RawDelete removes key directly from the property store.
func (o *Object) RawDelete(key PropertyKey) {
	o.props.delete(key)
}

// RawOwnPropertyKeys returns this object's own keys in spec order (spec §8
// invariant 3), without delegating to Methods.
func (o *Object) RawOwnPropertyKeys() []PropertyKey {
	return o.props.orderedKeys()
}

// RawExtensible reports this object's [[Extensible]] slot directly.
func (o *Object) RawExtensible() bool { return o.extensible }

// RawSetExtensible sets this object's [[Extensible]] slot directly.
func (o *Object) RawSetExtensible(v bool) { o.extensible = v }

// RawPrototype returns this object's [[Prototype]] slot directly.
func (o *Object) RawPrototype() *Object { return o.prototype }

// RawSetPrototype sets this object's [[Prototype]] slot directly.
func (o *Object) RawSetPrototype(p *Object) { o.prototype = p }

// Convenience wrappers that dispatch through Methods — these are what the
// rest of the engine (abstract operations, evaluator) should call instead
// of the Raw* accessors, so exotic overrides are honored uniformly.

func (o *Object) GetPrototypeOf() (*Object, Completion) { return o.Methods.GetPrototypeOf(o) }
func (o *Object) SetPrototypeOf(p *Object) (bool, Completion) { return o.Methods.SetPrototypeOf(o, p) }
func (o *Object) IsExtensible() (bool, Completion)      { return o.Methods.IsExtensible(o) }
func (o *Object) PreventExtensions() (bool, Completion) { return o.Methods.PreventExtensions(o) }
func (o *Object) GetOwnProperty(key PropertyKey) (*PropertyDescriptor, Completion) {
	return o.Methods.GetOwnProperty(o, key)
}
func (o *Object) DefineOwnProperty(key PropertyKey, desc *PropertyDescriptor) (bool, Completion) {
	return o.Methods.DefineOwnProperty(o, key, desc)
}
func (o *Object) HasProperty(key PropertyKey) (bool, Completion) { return o.Methods.HasProperty(o, key) }
func (o *Object) Get_(key PropertyKey, receiver Value) (Value, Completion) {
	return o.Methods.Get(o, key, receiver)
}
func (o *Object) Set_(key PropertyKey, value Value, receiver Value) (bool, Completion) {
	return o.Methods.Set(o, key, value, receiver)
}
func (o *Object) Delete_(key PropertyKey) (bool, Completion) { return o.Methods.Delete(o, key) }
func (o *Object) OwnPropertyKeys() ([]PropertyKey, Completion) { return o.Methods.OwnPropertyKeys(o) }
