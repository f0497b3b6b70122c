package runtime

import (
	"encoding/binary"
	"math"
)

// TypedArrayKind names one of the eleven built-in integer-indexed element
// kinds (spec §4.6).
type TypedArrayKind string

const (
	Int8Array         TypedArrayKind = "Int8"
	Uint8ArrayKind     TypedArrayKind = "Uint8"
	Uint8ClampedArray TypedArrayKind = "Uint8Clamped"
	Int16Array        TypedArrayKind = "Int16"
	Uint16Array       TypedArrayKind = "Uint16"
	Int32Array        TypedArrayKind = "Int32"
	Uint32Array       TypedArrayKind = "Uint32"
	BigInt64Array     TypedArrayKind = "BigInt64"
	BigUint64Array    TypedArrayKind = "BigUint64"
	Float32Array      TypedArrayKind = "Float32"
	Float64Array      TypedArrayKind = "Float64"
)

// ElementSize returns the per-element byte width for kind.
func (k TypedArrayKind) ElementSize() int {
	switch k {
	case Int8Array, Uint8ArrayKind, Uint8ClampedArray:
		return 1
	case Int16Array, Uint16Array:
		return 2
	case Int32Array, Uint32Array, Float32Array:
		return 4
	case BigInt64Array, BigUint64Array, Float64Array:
		return 8
	}
	return 0
}

// IsBigIntKind reports whether kind holds BigInt elements rather than
// Number elements.
func (k TypedArrayKind) IsBigIntKind() bool {
	return k == BigInt64Array || k == BigUint64Array
}

// NewArrayBuffer allocates a detachable byte buffer of the given length,
// zero-initialized (spec §4.6 "ArrayBuffer").
func NewArrayBuffer(proto *Object, length int) *Object {
	o := &Object{Kind: KindArrayBuffer, prototype: proto, extensible: true, props: newOrderedProps(), slots: make(map[string]any)}
	o.Methods = OrdinaryMethods()
	o.SetSlot("ArrayBufferData", make([]byte, length))
	o.SetSlot("ArrayBufferDetached", false)
	return o
}

// BufferBytes returns the backing byte slice, or nil if the buffer has been
// detached (spec §4.6 "a detached buffer has no Data ... every read throws
// TypeError").
func BufferBytes(buf *Object) []byte {
	if IsDetached(buf) {
		return nil
	}
	v, _ := buf.Slot("ArrayBufferData")
	return v.([]byte)
}

// IsDetached reports whether buf's [[ArrayBufferData]] has been severed.
func IsDetached(buf *Object) bool {
	v, ok := buf.Slot("ArrayBufferDetached")
	return ok && v.(bool)
}

// DetachArrayBuffer implements DetachArrayBuffer (spec §4.6): severs the
// backing store so every subsequent read/write throws TypeError.
func DetachArrayBuffer(buf *Object) {
	buf.SetSlot("ArrayBufferData", nil)
	buf.SetSlot("ArrayBufferDetached", true)
}

// GetValueFromBuffer implements GetValueFromBuffer (spec §4.6): a byte-exact
// decode honoring littleEndian, with NaN canonicalized to the single
// representable NaN bit pattern.
func GetValueFromBuffer(buf *Object, byteIndex int, kind TypedArrayKind, littleEndian bool) (Value, Completion) {
	data := BufferBytes(buf)
	if data == nil {
		return nil, Throw(NewTypeError("cannot read from a detached ArrayBuffer"))
	}
	size := kind.ElementSize()
	if byteIndex < 0 || byteIndex+size > len(data) {
		return nil, Throw(NewRangeError("byte offset out of bounds"))
	}
	raw := data[byteIndex : byteIndex+size]
	order := byteOrder(littleEndian)
	switch kind {
	case Int8Array:
		return Number(int8(raw[0])), Completion{}
	case Uint8ArrayKind, Uint8ClampedArray:
		return Number(raw[0]), Completion{}
	case Int16Array:
		return Number(int16(order.Uint16(raw))), Completion{}
	case Uint16Array:
		return Number(order.Uint16(raw)), Completion{}
	case Int32Array:
		return Number(int32(order.Uint32(raw))), Completion{}
	case Uint32Array:
		return Number(order.Uint32(raw)), Completion{}
	case Float32Array:
		bits := order.Uint32(raw)
		f := math.Float32frombits(bits)
		if f != f {
			return Number(math.NaN()), Completion{}
		}
		return Number(float64(f)), Completion{}
	case Float64Array:
		bits := order.Uint64(raw)
		f := math.Float64frombits(bits)
		if f != f {
			return Number(math.NaN()), Completion{}
		}
		return Number(f), Completion{}
	case BigInt64Array:
		return bigIntFromInt64Bits(int64(order.Uint64(raw))), Completion{}
	case BigUint64Array:
		return bigIntFromUint64Bits(order.Uint64(raw)), Completion{}
	}
	panic(&AssertionFailure{Message: "GetValueFromBuffer: unknown element kind"})
}

// SetValueInBuffer implements SetValueInBuffer (spec §4.6): for
// Uint8Clamped, the input Number is clamped into [0,255] with ties rounded
// to even (banker's rounding), not truncated.
func SetValueInBuffer(buf *Object, byteIndex int, kind TypedArrayKind, value Value, littleEndian bool) Completion {
	data := BufferBytes(buf)
	if data == nil {
		return Throw(NewTypeError("cannot write to a detached ArrayBuffer"))
	}
	size := kind.ElementSize()
	if byteIndex < 0 || byteIndex+size > len(data) {
		return Throw(NewRangeError("byte offset out of bounds"))
	}
	raw := data[byteIndex : byteIndex+size]
	order := byteOrder(littleEndian)
	if kind.IsBigIntKind() {
		b, ok := value.(*BigInt)
		if !ok {
			return Throw(NewTypeError("expected a BigInt value"))
		}
		order.PutUint64(raw, uint64(b.Int().Int64()))
		return Completion{}
	}
	n, ok := value.(Number)
	if !ok {
		return Throw(NewTypeError("expected a Number value"))
	}
	switch kind {
	case Int8Array, Uint8ArrayKind:
		raw[0] = byte(toIntegralModulo(float64(n), 256))
	case Uint8ClampedArray:
		raw[0] = clampUint8(float64(n))
	case Int16Array, Uint16Array:
		order.PutUint16(raw, uint16(toIntegralModulo(float64(n), 65536)))
	case Int32Array, Uint32Array:
		order.PutUint32(raw, uint32(toIntegralModulo(float64(n), 4294967296)))
	case Float32Array:
		order.PutUint32(raw, math.Float32bits(float32(n)))
	case Float64Array:
		order.PutUint64(raw, math.Float64bits(float64(n)))
	}
	return Completion{}
}

func byteOrder(littleEndian bool) binary.ByteOrder {
	if littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// toIntegralModulo implements the ToInt8/ToUint8/.../ToInt32/ToUint32
// family's common "reduce modulo 2^k, two's complement" step, given an
// already-finite input.
func toIntegralModulo(f float64, modulus float64) uint64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), modulus)
	if m < 0 {
		m += modulus
	}
	return uint64(m)
}

// clampUint8 implements the Uint8Clamped conversion (spec §4.6): clamp to
// [0,255], then round half-to-even.
func clampUint8(f float64) byte {
	if math.IsNaN(f) {
		return 0
	}
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	floor := math.Floor(f)
	diff := f - floor
	switch {
	case diff < 0.5:
		return byte(floor)
	case diff > 0.5:
		return byte(floor + 1)
	default:
		if int64(floor)%2 == 0 {
			return byte(floor)
		}
		return byte(floor + 1)
	}
}

func bigIntFromInt64Bits(v int64) *BigInt  { return BigIntFromInt64(v) }
func bigIntFromUint64Bits(v uint64) *BigInt {
	if v <= math.MaxInt64 {
		return BigIntFromInt64(int64(v))
	}
	b, _ := BigIntFromString(formatUint64(v))
	return b
}

func formatUint64(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// NewDataView wraps buf for byte-granular access (spec §4.6 "DataView").
func NewDataView(proto, buf *Object, byteOffset, byteLength int) *Object {
	o := &Object{Kind: KindDataView, prototype: proto, extensible: true, props: newOrderedProps(), slots: make(map[string]any)}
	o.Methods = OrdinaryMethods()
	o.SetSlot("DataViewBuffer", buf)
	o.SetSlot("ByteOffset", byteOffset)
	o.SetSlot("ByteLength", byteLength)
	return o
}
