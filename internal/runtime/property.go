package runtime

// PropertyKey is a property name: either a String or a *Symbol (spec §3).
// It is defined as an interface rather than reusing Value so that only the
// two valid key shapes type-check; ToPropertyKey in conversion.go is the
// only supported way to produce one from an arbitrary Value.
type PropertyKey interface {
	Value
	isPropertyKey()
}

func (s String) isPropertyKey()  {}
func (s *Symbol) isPropertyKey() {}

// PropertyDescriptor is the six-field partial record of spec §3. A field is
// "absent" when its Has* flag is false; absent fields are left out of
// descriptor algebra (merges, classification) rather than defaulting them
// eagerly, matching the specification's own partial-record treatment.
type PropertyDescriptor struct {
	Value      Value
	Get        Value
	Set        Value
	Writable   bool
	Enumerable bool
	Configurable bool

	HasValue      bool
	HasGet        bool
	HasSet        bool
	HasWritable   bool
	HasEnumerable bool
	HasConfigurable bool
}

// IsDataDescriptor reports whether desc specifies Value or Writable (spec
// §3 "classified by inspection").
func (d *PropertyDescriptor) IsDataDescriptor() bool {
	return d != nil && (d.HasValue || d.HasWritable)
}

// IsAccessorDescriptor reports whether desc specifies Get or Set.
func (d *PropertyDescriptor) IsAccessorDescriptor() bool {
	return d != nil && (d.HasGet || d.HasSet)
}

// IsGenericDescriptor reports whether desc specifies neither data nor
// accessor fields.
func (d *PropertyDescriptor) IsGenericDescriptor() bool {
	return d != nil && !d.IsDataDescriptor() && !d.IsAccessorDescriptor()
}

// isEmpty reports whether every field of desc is absent (spec §4.2 step 2:
// "Desc is a no-op").
func (d *PropertyDescriptor) isEmpty() bool {
	return !d.HasValue && !d.HasGet && !d.HasSet && !d.HasWritable && !d.HasEnumerable && !d.HasConfigurable
}

// NewDataDescriptor builds a fully-specified data property descriptor.
func NewDataDescriptor(value Value, writable, enumerable, configurable bool) *PropertyDescriptor {
	return &PropertyDescriptor{
		Value: value, Writable: writable, Enumerable: enumerable, Configurable: configurable,
		HasValue: true, HasWritable: true, HasEnumerable: true, HasConfigurable: true,
	}
}

// NewAccessorDescriptor builds a fully-specified accessor property
// descriptor. A nil getter/setter is recorded as present-but-Undefined,
// matching how the specification represents "no getter"/"no setter".
func NewAccessorDescriptor(get, set Value, enumerable, configurable bool) *PropertyDescriptor {
	if get == nil {
		get = Undefined
	}
	if set == nil {
		set = Undefined
	}
	return &PropertyDescriptor{
		Get: get, Set: set, Enumerable: enumerable, Configurable: configurable,
		HasGet: true, HasSet: true, HasEnumerable: true, HasConfigurable: true,
	}
}

// completeDescriptor fills in the defaults for any absent field, as step 1
// of ValidateAndApplyPropertyDescriptor requires when writing a brand-new
// property: data fields default to Undefined/false, accessor fields default
// to Undefined.
func completeDescriptor(desc *PropertyDescriptor) *PropertyDescriptor {
	out := *desc
	if !out.IsAccessorDescriptor() {
		if !out.HasValue {
			out.Value = Undefined
			out.HasValue = true
		}
		if !out.HasWritable {
			out.Writable = false
			out.HasWritable = true
		}
	} else {
		if !out.HasGet {
			out.Get = Undefined
			out.HasGet = true
		}
		if !out.HasSet {
			out.Set = Undefined
			out.HasSet = true
		}
	}
	if !out.HasEnumerable {
		out.Enumerable = false
		out.HasEnumerable = true
	}
	if !out.HasConfigurable {
		out.Configurable = false
		out.HasConfigurable = true
	}
	return &out
}

// ValidateAndApplyPropertyDescriptor is the kernel of the object model (spec
// §4.2). apply writes the resulting descriptor into the caller's property
// store; it may be nil to validate without a backing store.
//
// current is the property's existing descriptor, or nil if the property
// does not yet exist. Returns true if the change is accepted (and, when
// apply is non-nil, already written through apply), false if rejected.
func ValidateAndApplyPropertyDescriptor(apply func(*PropertyDescriptor), extensible bool, desc, current *PropertyDescriptor) bool {
	if current == nil {
		if !extensible {
			return false
		}
		if apply != nil {
			apply(completeDescriptor(desc))
		}
		return true
	}

	if desc.isEmpty() {
		return true
	}

	if !current.Configurable {
		if desc.HasConfigurable && desc.Configurable {
			return false
		}
		if desc.HasEnumerable && desc.Enumerable != current.Enumerable {
			return false
		}
		if !desc.IsGenericDescriptor() && desc.IsAccessorDescriptor() != current.IsAccessorDescriptor() {
			return false
		}
		if current.IsAccessorDescriptor() {
			if desc.HasGet && !sameValueOrBothUndefined(desc.Get, current.Get) {
				return false
			}
			if desc.HasSet && !sameValueOrBothUndefined(desc.Set, current.Set) {
				return false
			}
		} else if !current.Writable {
			if desc.HasWritable && desc.Writable {
				return false
			}
			if desc.HasValue && !SameValue(desc.Value, current.Value) {
				return false
			}
		}
	}

	if apply == nil {
		return true
	}

	merged := *current
	if !desc.IsGenericDescriptor() && desc.IsAccessorDescriptor() != current.IsAccessorDescriptor() {
		if !current.Configurable {
			return false // unreachable: guarded above, kept for defence in depth
		}
		if current.IsAccessorDescriptor() {
			merged = PropertyDescriptor{
				Value: Undefined, Writable: false,
				Enumerable: current.Enumerable, Configurable: current.Configurable,
				HasValue: true, HasWritable: true, HasEnumerable: true, HasConfigurable: true,
			}
		} else {
			merged = PropertyDescriptor{
				Get: Undefined, Set: Undefined,
				Enumerable: current.Enumerable, Configurable: current.Configurable,
				HasGet: true, HasSet: true, HasEnumerable: true, HasConfigurable: true,
			}
		}
	}

	if desc.HasValue {
		merged.Value, merged.HasValue = desc.Value, true
	}
	if desc.HasWritable {
		merged.Writable, merged.HasWritable = desc.Writable, true
	}
	if desc.HasGet {
		merged.Get, merged.HasGet = desc.Get, true
	}
	if desc.HasSet {
		merged.Set, merged.HasSet = desc.Set, true
	}
	if desc.HasEnumerable {
		merged.Enumerable, merged.HasEnumerable = desc.Enumerable, true
	}
	if desc.HasConfigurable {
		merged.Configurable, merged.HasConfigurable = desc.Configurable, true
	}
	apply(&merged)
	return true
}

// DefaultObjectPrototype backs FromPropertyDescriptor's object allocation.
// The runtime package has no realm of its own (see value.go's package doc
// on avoiding import cycles), so the realm package's bootstrap installs %Object.prototype%
// here once at startup; before that a descriptor object is built with a nil
// prototype, which only matters for the unit tests exercised directly
// against this package.
var DefaultObjectPrototype *Object

// ToPropertyDescriptor implements ToPropertyDescriptor (spec §4.2): reads
// the six well-known own properties off obj into a partial
// PropertyDescriptor, validating that value/writable never co-occurs with
// get/set.
func ToPropertyDescriptor(obj *Object) (*PropertyDescriptor, Completion) {
	desc := &PropertyDescriptor{}
	has, c := obj.HasProperty(NewString("enumerable"))
	if c.IsAbrupt() {
		return nil, c
	}
	if has {
		v, c := obj.Get_(NewString("enumerable"), obj)
		if c.IsAbrupt() {
			return nil, c
		}
		desc.Enumerable, desc.HasEnumerable = bool(ToBoolean(v)), true
	}
	has, c = obj.HasProperty(NewString("configurable"))
	if c.IsAbrupt() {
		return nil, c
	}
	if has {
		v, c := obj.Get_(NewString("configurable"), obj)
		if c.IsAbrupt() {
			return nil, c
		}
		desc.Configurable, desc.HasConfigurable = bool(ToBoolean(v)), true
	}
	has, c = obj.HasProperty(NewString("value"))
	if c.IsAbrupt() {
		return nil, c
	}
	if has {
		v, c := obj.Get_(NewString("value"), obj)
		if c.IsAbrupt() {
			return nil, c
		}
		desc.Value, desc.HasValue = v, true
	}
	has, c = obj.HasProperty(NewString("writable"))
	if c.IsAbrupt() {
		return nil, c
	}
	if has {
		v, c := obj.Get_(NewString("writable"), obj)
		if c.IsAbrupt() {
			return nil, c
		}
		desc.Writable, desc.HasWritable = bool(ToBoolean(v)), true
	}
	has, c = obj.HasProperty(NewString("get"))
	if c.IsAbrupt() {
		return nil, c
	}
	if has {
		v, c := obj.Get_(NewString("get"), obj)
		if c.IsAbrupt() {
			return nil, c
		}
		if fn, ok := v.(*Object); !IsUndefined(v) && (!ok || !fn.IsCallable()) {
			return nil, Throw(NewTypeError("getter must be a function"))
		}
		desc.Get, desc.HasGet = v, true
	}
	has, c = obj.HasProperty(NewString("set"))
	if c.IsAbrupt() {
		return nil, c
	}
	if has {
		v, c := obj.Get_(NewString("set"), obj)
		if c.IsAbrupt() {
			return nil, c
		}
		if fn, ok := v.(*Object); !IsUndefined(v) && (!ok || !fn.IsCallable()) {
			return nil, Throw(NewTypeError("setter must be a function"))
		}
		desc.Set, desc.HasSet = v, true
	}
	if (desc.HasGet || desc.HasSet) && (desc.HasValue || desc.HasWritable) {
		return nil, Throw(NewTypeError("property descriptor must not specify both accessor and data attributes"))
	}
	return desc, Completion{}
}

// FromPropertyDescriptor implements FromPropertyDescriptor (spec §4.2): the
// inverse of ToPropertyDescriptor, building a plain object exposing whatever
// fields desc has present.
func FromPropertyDescriptor(desc *PropertyDescriptor) *Object {
	obj := NewOrdinaryObject(DefaultObjectPrototype)
	if desc.HasValue {
		obj.RawDefineOwnProperty(NewString("value"), NewDataDescriptor(desc.Value, true, true, true))
	}
	if desc.HasWritable {
		obj.RawDefineOwnProperty(NewString("writable"), NewDataDescriptor(Boolean(desc.Writable), true, true, true))
	}
	if desc.HasGet {
		obj.RawDefineOwnProperty(NewString("get"), NewDataDescriptor(desc.Get, true, true, true))
	}
	if desc.HasSet {
		obj.RawDefineOwnProperty(NewString("set"), NewDataDescriptor(desc.Set, true, true, true))
	}
	if desc.HasEnumerable {
		obj.RawDefineOwnProperty(NewString("enumerable"), NewDataDescriptor(Boolean(desc.Enumerable), true, true, true))
	}
	if desc.HasConfigurable {
		obj.RawDefineOwnProperty(NewString("configurable"), NewDataDescriptor(Boolean(desc.Configurable), true, true, true))
	}
	return obj
}

func sameValueOrBothUndefined(a, b Value) bool {
	if a == nil {
		a = Undefined
	}
	if b == nil {
		b = Undefined
	}
	return SameValue(a, b)
}
