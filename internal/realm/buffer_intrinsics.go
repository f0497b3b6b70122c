package realm

import (
	"math"

	"github.com/cwbudde/goecma/internal/runtime"
)

// typedArrayKinds lists every element kind (spec §4.6) bootstrap wires a
// concrete constructor for; the constructor name is just kind+"Array".
var typedArrayKinds = []runtime.TypedArrayKind{
	runtime.Int8Array, runtime.Uint8ArrayKind, runtime.Uint8ClampedArray,
	runtime.Int16Array, runtime.Uint16Array, runtime.Int32Array, runtime.Uint32Array,
	runtime.Float32Array, runtime.Float64Array, runtime.BigInt64Array, runtime.BigUint64Array,
}

// bootstrapBuffers wires %ArrayBuffer%, %DataView%, and one constructor per
// typedArrayKinds entry onto in. All three read and write through
// GetValueFromBuffer/SetValueInBuffer, the byte-exact codec already
// implemented in the runtime package.
func bootstrapBuffers(in Intrinsics) {
	objectProto := in["%Object.prototype%"]
	funcProto := in["%Function.prototype%"]

	arrayBufferProto := runtime.NewOrdinaryObject(objectProto)
	installAccessor(arrayBufferProto, "byteLength", func(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
		o, ok := thisArg.(*runtime.Object)
		if !ok || o.Kind != runtime.KindArrayBuffer {
			return runtime.Throw(runtime.NewTypeError("ArrayBuffer.prototype.byteLength called on a non-ArrayBuffer"))
		}
		return runtime.NormalCompletion(runtime.Number(len(runtime.BufferBytes(o))))
	})
	in["%ArrayBuffer.prototype%"] = arrayBufferProto

	arrayBufferCtor := buildConstructor(in, bootstrapConstructorSpec{
		key: "%ArrayBuffer%", protoKey: "%ArrayBuffer.prototype%", funcProtoKey: "%Function.prototype%", length: 1,
		construct: func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
			length, c := toNonNegativeInteger(firstArg(args))
			if c.IsAbrupt() {
				return c
			}
			return runtime.NormalCompletion(runtime.NewArrayBuffer(arrayBufferProto, length))
		},
	})
	wireConstructorPrototype(arrayBufferCtor, arrayBufferProto)

	dataViewProto := runtime.NewOrdinaryObject(objectProto)
	installAccessor(dataViewProto, "buffer", func(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
		buf, _, _, ok := dataViewReceiver(thisArg)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("DataView.prototype.buffer called on a non-DataView"))
		}
		return runtime.NormalCompletion(buf)
	})
	installAccessor(dataViewProto, "byteOffset", func(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
		_, offset, _, ok := dataViewReceiver(thisArg)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("DataView.prototype.byteOffset called on a non-DataView"))
		}
		return runtime.NormalCompletion(runtime.Number(offset))
	})
	installAccessor(dataViewProto, "byteLength", func(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
		_, _, length, ok := dataViewReceiver(thisArg)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("DataView.prototype.byteLength called on a non-DataView"))
		}
		return runtime.NormalCompletion(runtime.Number(length))
	})
	for _, kind := range typedArrayKinds {
		kind := kind
		installMethod(dataViewProto, "get"+string(kind), 1, dataViewGetter(kind))
		installMethod(dataViewProto, "set"+string(kind), 2, dataViewSetter(kind))
	}
	in["%DataView.prototype%"] = dataViewProto

	dataViewCtor := buildConstructor(in, bootstrapConstructorSpec{
		key: "%DataView%", protoKey: "%DataView.prototype%", funcProtoKey: "%Function.prototype%", length: 1,
		construct: func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
			buf, ok := firstArg(args).(*runtime.Object)
			if !ok || buf.Kind != runtime.KindArrayBuffer {
				return runtime.Throw(runtime.NewTypeError("DataView constructor requires an ArrayBuffer"))
			}
			bufLen := len(runtime.BufferBytes(buf))
			offset := 0
			if len(args) > 1 && !runtime.IsUndefined(args[1]) {
				n, c := toNonNegativeInteger(args[1])
				if c.IsAbrupt() {
					return c
				}
				if n > bufLen {
					return runtime.Throw(runtime.NewRangeError("DataView byte offset out of range"))
				}
				offset = n
			}
			length := bufLen - offset
			if len(args) > 2 && !runtime.IsUndefined(args[2]) {
				n, c := toNonNegativeInteger(args[2])
				if c.IsAbrupt() {
					return c
				}
				if offset+n > bufLen {
					return runtime.Throw(runtime.NewRangeError("DataView byte length out of range"))
				}
				length = n
			}
			return runtime.NormalCompletion(runtime.NewDataView(dataViewProto, buf, offset, length))
		},
	})
	wireConstructorPrototype(dataViewCtor, dataViewProto)

	for _, kind := range typedArrayKinds {
		bootstrapTypedArrayConstructor(in, objectProto, funcProto, arrayBufferProto, kind)
	}
}

// bootstrapTypedArrayConstructor wires one %XArray%/%XArray.prototype% pair
// for kind (spec §4.6 "Integer-Indexed Exotic Objects"): constructing from
// a length allocates a fresh backing buffer, constructing from an
// ArrayBuffer views an existing one at an optional byte offset/length.
func bootstrapTypedArrayConstructor(in Intrinsics, objectProto, funcProto, arrayBufferProto *runtime.Object, kind runtime.TypedArrayKind) {
	name := string(kind) + "Array"
	elemSize := kind.ElementSize()

	proto := runtime.NewOrdinaryObject(objectProto)
	installAccessor(proto, "length", func(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
		_, _, length, _, ok := typedArrayReceiver(thisArg)
		if !ok {
			return runtime.Throw(runtime.NewTypeError(name + ".prototype.length called on an incompatible receiver"))
		}
		return runtime.NormalCompletion(runtime.Number(length))
	})
	installAccessor(proto, "byteLength", func(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
		_, _, length, _, ok := typedArrayReceiver(thisArg)
		if !ok {
			return runtime.Throw(runtime.NewTypeError(name + ".prototype.byteLength called on an incompatible receiver"))
		}
		return runtime.NormalCompletion(runtime.Number(length * elemSize))
	})
	installAccessor(proto, "byteOffset", func(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
		_, offset, _, _, ok := typedArrayReceiver(thisArg)
		if !ok {
			return runtime.Throw(runtime.NewTypeError(name + ".prototype.byteOffset called on an incompatible receiver"))
		}
		return runtime.NormalCompletion(runtime.Number(offset))
	})
	installAccessor(proto, "buffer", func(thisArg runtime.Value, _ []runtime.Value) runtime.Completion {
		buf, _, _, _, ok := typedArrayReceiver(thisArg)
		if !ok {
			return runtime.Throw(runtime.NewTypeError(name + ".prototype.buffer called on an incompatible receiver"))
		}
		return runtime.NormalCompletion(buf)
	})
	proto.RawDefineOwnProperty(runtime.NewString("BYTES_PER_ELEMENT"), runtime.NewDataDescriptor(runtime.Number(elemSize), false, false, false))
	in["%"+name+".prototype%"] = proto

	ctor := buildConstructor(in, bootstrapConstructorSpec{
		key: "%" + name + "%", protoKey: "%" + name + ".prototype%", funcProtoKey: "%Function.prototype%", length: 1,
		construct: func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
			first := firstArg(args)
			if buf, ok := first.(*runtime.Object); ok && buf.Kind == runtime.KindArrayBuffer {
				bufLen := len(runtime.BufferBytes(buf))
				offset := 0
				if len(args) > 1 && !runtime.IsUndefined(args[1]) {
					n, c := toNonNegativeInteger(args[1])
					if c.IsAbrupt() {
						return c
					}
					if n%elemSize != 0 || n > bufLen {
						return runtime.Throw(runtime.NewRangeError(name + " byte offset must be a multiple of the element size"))
					}
					offset = n
				}
				var length int
				if len(args) > 2 && !runtime.IsUndefined(args[2]) {
					n, c := toNonNegativeInteger(args[2])
					if c.IsAbrupt() {
						return c
					}
					if offset+n*elemSize > bufLen {
						return runtime.Throw(runtime.NewRangeError(name + " length out of range"))
					}
					length = n
				} else {
					if (bufLen-offset)%elemSize != 0 {
						return runtime.Throw(runtime.NewRangeError(name + " buffer length is not a multiple of the element size"))
					}
					length = (bufLen - offset) / elemSize
				}
				return runtime.NormalCompletion(runtime.NewTypedArray(proto, buf, kind, offset, length, true))
			}
			length, c := toNonNegativeInteger(first)
			if c.IsAbrupt() {
				return c
			}
			buf := runtime.NewArrayBuffer(arrayBufferProto, length*elemSize)
			return runtime.NormalCompletion(runtime.NewTypedArray(proto, buf, kind, 0, length, true))
		},
	})
	ctor.RawDefineOwnProperty(runtime.NewString("BYTES_PER_ELEMENT"), runtime.NewDataDescriptor(runtime.Number(elemSize), false, false, false))
	wireConstructorPrototype(ctor, proto)
}

func typedArrayReceiver(thisArg runtime.Value) (buf *runtime.Object, byteOffset, length int, kind runtime.TypedArrayKind, ok bool) {
	o, isObj := thisArg.(*runtime.Object)
	if !isObj || o.Kind != runtime.KindTypedArray {
		return nil, 0, 0, "", false
	}
	bufV, _ := o.Slot("ViewedArrayBuffer")
	offV, _ := o.Slot("ByteOffset")
	lenV, _ := o.Slot("ArrayLength")
	kindV, _ := o.Slot("TypedArrayKind")
	return bufV.(*runtime.Object), offV.(int), lenV.(int), kindV.(runtime.TypedArrayKind), true
}

func dataViewReceiver(thisArg runtime.Value) (buf *runtime.Object, byteOffset, byteLength int, ok bool) {
	o, isObj := thisArg.(*runtime.Object)
	if !isObj || o.Kind != runtime.KindDataView {
		return nil, 0, 0, false
	}
	bufV, _ := o.Slot("DataViewBuffer")
	offV, _ := o.Slot("ByteOffset")
	lenV, _ := o.Slot("ByteLength")
	return bufV.(*runtime.Object), offV.(int), lenV.(int), true
}

func dataViewGetter(kind runtime.TypedArrayKind) runtime.CallHandler {
	return func(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
		buf, byteOffset, byteLength, ok := dataViewReceiver(thisArg)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("DataView method called on a non-DataView"))
		}
		idx, c := toNonNegativeInteger(firstArg(args))
		if c.IsAbrupt() {
			return c
		}
		if idx+kind.ElementSize() > byteLength {
			return runtime.Throw(runtime.NewRangeError("byte offset out of bounds"))
		}
		littleEndian := len(args) > 1 && bool(runtime.ToBoolean(args[1]))
		v, c := runtime.GetValueFromBuffer(buf, byteOffset+idx, kind, littleEndian)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(v)
	}
}

func dataViewSetter(kind runtime.TypedArrayKind) runtime.CallHandler {
	return func(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
		buf, byteOffset, byteLength, ok := dataViewReceiver(thisArg)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("DataView method called on a non-DataView"))
		}
		idx, c := toNonNegativeInteger(firstArg(args))
		if c.IsAbrupt() {
			return c
		}
		if idx+kind.ElementSize() > byteLength {
			return runtime.Throw(runtime.NewRangeError("byte offset out of bounds"))
		}
		var value runtime.Value
		if kind.IsBigIntKind() {
			b, c := runtime.ToBigInt(argAt(args, 1))
			if c.IsAbrupt() {
				return c
			}
			value = b
		} else {
			n, c := runtime.ToNumber(argAt(args, 1))
			if c.IsAbrupt() {
				return c
			}
			value = n
		}
		littleEndian := len(args) > 2 && bool(runtime.ToBoolean(args[2]))
		if c := runtime.SetValueInBuffer(buf, byteOffset+idx, kind, value, littleEndian); c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(runtime.Undefined)
	}
}

func argAt(args []runtime.Value, i int) runtime.Value {
	if i >= len(args) {
		return runtime.Undefined
	}
	return args[i]
}

// toNonNegativeInteger coerces v the way every length/offset argument in
// this file needs: ToIntegerOrInfinity, then reject negative or infinite
// results (spec's ToIndex, minus the 2^53-1 upper bound this module never
// approaches).
func toNonNegativeInteger(v runtime.Value) (int, runtime.Completion) {
	n, c := runtime.ToIntegerOrInfinity(v)
	if c.IsAbrupt() {
		return 0, c
	}
	if n < 0 || math.IsInf(n, 0) {
		return 0, runtime.Throw(runtime.NewRangeError("value out of range"))
	}
	return int(n), runtime.Completion{}
}
