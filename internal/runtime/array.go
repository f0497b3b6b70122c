package runtime

// NewArray creates an exotic Array object (spec §4.2 "Array Exotic
// Objects"): its [[DefineOwnProperty]] keeps the magic "length" property
// synchronized with the highest numeric index ever written, per
// ArraySetLength below.
func NewArray(proto *Object, length uint32) *Object {
	o := &Object{
		Kind:       KindArray,
		prototype:  proto,
		extensible: true,
		props:      newOrderedProps(),
		slots:      make(map[string]any),
	}
	o.Methods = OrdinaryMethods()
	o.Methods.DefineOwnProperty = arrayDefineOwnProperty
	o.RawDefineOwnProperty(lengthKey, NewDataDescriptor(Number(length), true, false, false))
	return o
}

var lengthKey = NewString("length")

// arrayDefineOwnProperty implements Array's [[DefineOwnProperty]] override
// (spec §4.2): defining "length" goes through ArraySetLength; defining a
// numeric index past the current length bumps "length" to match; every
// other key falls back to ordinary behavior.
func arrayDefineOwnProperty(o *Object, key PropertyKey, desc *PropertyDescriptor) (bool, Completion) {
	if s, ok := key.(String); ok && s.GoString() == "length" {
		return arraySetLength(o, desc)
	}
	if s, ok := key.(String); ok {
		if index, isIndex := ArrayIndex(s); isIndex {
			lenDesc, _ := o.RawGetOwnProperty(lengthKey)
			oldLen := uint32(lenDesc.Value.(Number))
			if index >= oldLen && !lenDesc.Writable {
				return false, Completion{}
			}
			ok, c := OrdinaryDefineOwnProperty(o, key, desc)
			if c.IsAbrupt() || !ok {
				return ok, c
			}
			if index >= oldLen {
				newLenDesc := *lenDesc
				newLenDesc.Value = Number(index + 1)
				o.RawDefineOwnProperty(lengthKey, &newLenDesc)
			}
			return true, Completion{}
		}
	}
	return OrdinaryDefineOwnProperty(o, key, desc)
}

// arraySetLength implements ArraySetLength (spec §4.2): validates the new
// length is a valid array-length Number, then deletes every own element
// property with an index at or above the new length, stopping early (and
// recording the partially-applied length) the first time a deletion is
// blocked by a non-configurable element, matching the specification's
// "best effort, then report failure" behavior.
func arraySetLength(o *Object, desc *PropertyDescriptor) (bool, Completion) {
	if !desc.HasValue {
		return OrdinaryDefineOwnProperty(o, lengthKey, desc)
	}
	newLen, c := toArrayLength(desc.Value)
	if c.IsAbrupt() {
		return false, c
	}
	numberLen, c := ToNumber(desc.Value)
	if c.IsAbrupt() {
		return false, c
	}
	if Number(newLen) != numberLen {
		return false, Throw(NewRangeError("invalid array length"))
	}
	newDesc := *desc
	newDesc.Value = Number(newLen)

	oldLenDesc, _ := o.RawGetOwnProperty(lengthKey)
	oldLen := uint32(oldLenDesc.Value.(Number))
	if newLen >= oldLen {
		return OrdinaryDefineOwnProperty(o, lengthKey, &newDesc)
	}
	if !oldLenDesc.Writable {
		return false, Completion{}
	}
	newWritable := true
	if newDesc.HasWritable && !newDesc.Writable {
		newWritable = false
		newDesc.Writable = true
	}
	ok, c := OrdinaryDefineOwnProperty(o, lengthKey, &newDesc)
	if c.IsAbrupt() || !ok {
		return ok, c
	}

	indices := numericKeysDescending(o, newLen, oldLen)
	for _, idx := range indices {
		deleteOK, c := OrdinaryDelete(o, NewString(uint32ToString(idx)))
		if c.IsAbrupt() {
			return false, c
		}
		if !deleteOK {
			finalDesc := NewDataDescriptor(Number(idx+1), newWritable, oldLenDesc.Enumerable, oldLenDesc.Configurable)
			OrdinaryDefineOwnProperty(o, lengthKey, finalDesc)
			if !newWritable {
				OrdinaryDefineOwnProperty(o, lengthKey, &PropertyDescriptor{Writable: false, HasWritable: true})
			}
			return false, Completion{}
		}
	}
	if !newWritable {
		OrdinaryDefineOwnProperty(o, lengthKey, &PropertyDescriptor{Writable: false, HasWritable: true})
	}
	return true, Completion{}
}

// numericKeysDescending returns the array indices in [newLen, oldLen) that
// are currently own properties of o, in descending order, matching the
// specification's deletion order for ArraySetLength.
func numericKeysDescending(o *Object, newLen, oldLen uint32) []uint32 {
	var out []uint32
	for _, k := range o.RawOwnPropertyKeys() {
		s, ok := k.(String)
		if !ok {
			continue
		}
		idx, isIndex := ArrayIndex(s)
		if !isIndex || idx < newLen || idx >= oldLen {
			continue
		}
		out = append(out, idx)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] < out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func uint32ToString(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// toArrayLength coerces v to a valid array-length integer in [0, 2^32-1]
// (spec §4.2), raising RangeError outside that domain.
func toArrayLength(v Value) (uint32, Completion) {
	n, c := ToNumber(v)
	if c.IsAbrupt() {
		return 0, c
	}
	if n.IsNaN() {
		return 0, Completion{}
	}
	f := float64(n)
	if f < 0 {
		return 0, Throw(NewRangeError("invalid array length"))
	}
	if f > 4294967295 {
		return 0, Throw(NewRangeError("invalid array length"))
	}
	return uint32(f), Completion{}
}
