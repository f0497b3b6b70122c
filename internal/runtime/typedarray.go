package runtime

import "math"

// NewTypedArray builds an Integer-Indexed exotic object (spec §4.6): a
// strict view over a fixed byte range of buf, element-accessed through
// kind's codec. Its [[Get]]/[[Set]]/[[HasProperty]]/[[OwnPropertyKeys]]
// intercept canonical numeric indices; every other key behaves ordinarily.
func NewTypedArray(proto, buf *Object, kind TypedArrayKind, byteOffset, length int, littleEndian bool) *Object {
	o := &Object{Kind: KindTypedArray, prototype: proto, extensible: true, props: newOrderedProps(), slots: make(map[string]any)}
	o.SetSlot("ViewedArrayBuffer", buf)
	o.SetSlot("TypedArrayKind", kind)
	o.SetSlot("ByteOffset", byteOffset)
	o.SetSlot("ArrayLength", length)
	o.SetSlot("LittleEndian", littleEndian)
	o.Methods = Methods{
		GetPrototypeOf:    OrdinaryGetPrototypeOf,
		SetPrototypeOf:    OrdinarySetPrototypeOf,
		IsExtensible:      OrdinaryIsExtensible,
		PreventExtensions: OrdinaryPreventExtensions,
		GetOwnProperty:    typedArrayGetOwnProperty,
		DefineOwnProperty: typedArrayDefineOwnProperty,
		HasProperty:       typedArrayHasProperty,
		Get:               typedArrayGet,
		Set:               typedArraySet,
		Delete:            typedArrayDelete,
		OwnPropertyKeys:   typedArrayOwnPropertyKeys,
	}
	return o
}

func typedArrayInfo(o *Object) (buf *Object, kind TypedArrayKind, byteOffset, length int, littleEndian bool) {
	b, _ := o.Slot("ViewedArrayBuffer")
	k, _ := o.Slot("TypedArrayKind")
	off, _ := o.Slot("ByteOffset")
	ln, _ := o.Slot("ArrayLength")
	le, _ := o.Slot("LittleEndian")
	return b.(*Object), k.(TypedArrayKind), off.(int), ln.(int), le.(bool)
}

// CanonicalNumericIndexString reports whether key is a canonical numeric index
// string ("n", "-0", or any string round-tripping through Number::toString)
// and returns the parsed index (spec §4.6); non-numeric keys are reported
// via ok=false and must fall through to ordinary property handling.
func CanonicalNumericIndexString(s String) (float64, bool) {
	str := s.GoString()
	if str == "-0" {
		return math.Copysign(0, -1), true // negative zero is canonical but never a valid integer index
	}
	n := stringToNumber(s)
	if NumberToString(float64(n)) != str {
		return 0, false
	}
	return float64(n), true
}

func isValidIntegerIndex(o *Object, index float64) (int, bool) {
	_, _, _, length, _ := typedArrayInfo(o)
	if math.Signbit(index) || index != float64(int(index)) || index < 0 || int(index) >= length {
		return 0, false
	}
	return int(index), true
}

func typedArrayElementAt(o *Object, index int) (Value, Completion) {
	buf, kind, byteOffset, _, littleEndian := typedArrayInfo(o)
	return GetValueFromBuffer(buf, byteOffset+index*kind.ElementSize(), kind, littleEndian)
}

func typedArraySetElementAt(o *Object, index int, value Value) Completion {
	buf, kind, byteOffset, _, littleEndian := typedArrayInfo(o)
	return SetValueInBuffer(buf, byteOffset+index*kind.ElementSize(), kind, value, littleEndian)
}

func typedArrayGetOwnProperty(o *Object, key PropertyKey) (*PropertyDescriptor, Completion) {
	if s, ok := key.(String); ok {
		if numIdx, isNum := CanonicalNumericIndexString(s); isNum {
			idx, valid := isValidIntegerIndex(o, numIdx)
			if !valid {
				return nil, Completion{}
			}
			v, c := typedArrayElementAt(o, idx)
			if c.IsAbrupt() {
				return nil, c
			}
			return NewDataDescriptor(v, true, true, true), Completion{}
		}
	}
	return OrdinaryGetOwnProperty(o, key)
}

func typedArrayHasProperty(o *Object, key PropertyKey) (bool, Completion) {
	if s, ok := key.(String); ok {
		if numIdx, isNum := CanonicalNumericIndexString(s); isNum {
			_, valid := isValidIntegerIndex(o, numIdx)
			return valid, Completion{}
		}
	}
	return OrdinaryHasProperty(o, key)
}

func typedArrayGet(o *Object, key PropertyKey, receiver Value) (Value, Completion) {
	if s, ok := key.(String); ok {
		if numIdx, isNum := CanonicalNumericIndexString(s); isNum {
			idx, valid := isValidIntegerIndex(o, numIdx)
			if !valid {
				return Undefined, Completion{}
			}
			return typedArrayElementAt(o, idx)
		}
	}
	return OrdinaryGet(o, key, receiver)
}

func typedArraySet(o *Object, key PropertyKey, value Value, receiver Value) (bool, Completion) {
	if s, ok := key.(String); ok {
		if numIdx, isNum := CanonicalNumericIndexString(s); isNum {
			idx, valid := isValidIntegerIndex(o, numIdx)
			if !valid {
				return true, Completion{} // out-of-range numeric writes are a silent no-op
			}
			c := typedArraySetElementAt(o, idx, value)
			if c.IsAbrupt() {
				return false, c
			}
			return true, Completion{}
		}
	}
	return OrdinarySet(o, key, value, receiver)
}

func typedArrayDelete(o *Object, key PropertyKey) (bool, Completion) {
	if s, ok := key.(String); ok {
		if numIdx, isNum := CanonicalNumericIndexString(s); isNum {
			_, valid := isValidIntegerIndex(o, numIdx)
			return !valid, Completion{}
		}
	}
	return OrdinaryDelete(o, key)
}

func typedArrayDefineOwnProperty(o *Object, key PropertyKey, desc *PropertyDescriptor) (bool, Completion) {
	if s, ok := key.(String); ok {
		if numIdx, isNum := CanonicalNumericIndexString(s); isNum {
			idx, valid := isValidIntegerIndex(o, numIdx)
			if !valid {
				return false, Completion{}
			}
			if desc.IsAccessorDescriptor() {
				return false, Completion{}
			}
			if desc.HasConfigurable && !desc.Configurable {
				return false, Completion{}
			}
			if desc.HasEnumerable && !desc.Enumerable {
				return false, Completion{}
			}
			if desc.HasWritable && !desc.Writable {
				return false, Completion{}
			}
			if desc.HasValue {
				c := typedArraySetElementAt(o, idx, desc.Value)
				if c.IsAbrupt() {
					return false, c
				}
			}
			return true, Completion{}
		}
	}
	return OrdinaryDefineOwnProperty(o, key, desc)
}

func typedArrayOwnPropertyKeys(o *Object) ([]PropertyKey, Completion) {
	_, _, _, length, _ := typedArrayInfo(o)
	keys := make([]PropertyKey, 0, length)
	for i := 0; i < length; i++ {
		keys = append(keys, NewString(uint32ToString(uint32(i))))
	}
	rest, c := OrdinaryOwnPropertyKeys(o)
	if c.IsAbrupt() {
		return nil, c
	}
	return append(keys, rest...), Completion{}
}
