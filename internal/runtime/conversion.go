package runtime

import "math"

// ToBoolean implements the ToBoolean abstract operation (spec §4; never
// abrupt).
func ToBoolean(v Value) Boolean {
	switch x := v.(type) {
	case nil:
		return false
	case undefinedValue, nullValue:
		return false
	case Boolean:
		return bool(x)
	case Number:
		return !(x == 0 || x.IsNaN())
	case String:
		return x.Length() != 0
	case *BigInt:
		return Boolean(x.ToBoolean())
	default:
		return true
	}
}

// ToPrimitive implements the ToPrimitive abstract operation (spec §4.2):
// hint is "default", "number", or "string". Objects are consulted via
// Symbol.toPrimitive first, then the hint-ordered valueOf/toString pair.
func ToPrimitive(v Value, hint string) (Value, Completion) {
	o, ok := v.(*Object)
	if !ok {
		return v, Completion{}
	}
	exotic, c := o.Get_(SymbolToPrimitive, o)
	if c.IsAbrupt() {
		return nil, c
	}
	if fn, isFn := exotic.(*Object); isFn && fn.IsCallable() {
		if hint == "" {
			hint = "default"
		}
		result, c := callValue(fn, o, []Value{NewString(hint)})
		if c.IsAbrupt() {
			return nil, c
		}
		if _, isObj := result.(*Object); isObj {
			return nil, Throw(NewTypeError("Symbol.toPrimitive returned an object"))
		}
		return result, Completion{}
	}
	order := []string{"valueOf", "toString"}
	if hint == "string" {
		order = []string{"toString", "valueOf"}
	}
	for _, name := range order {
		method, c := o.Get_(NewString(name), o)
		if c.IsAbrupt() {
			return nil, c
		}
		fn, isFn := method.(*Object)
		if !isFn || !fn.IsCallable() {
			continue
		}
		result, c := callValue(fn, o, nil)
		if c.IsAbrupt() {
			return nil, c
		}
		if _, isObj := result.(*Object); !isObj {
			return result, Completion{}
		}
	}
	return nil, Throw(NewTypeError("cannot convert object to primitive value"))
}

// ToNumeric implements ToNumeric (spec §4.3): ToPrimitive with hint
// "number", then BigInt passes through unchanged and anything else goes
// through ToNumber.
func ToNumeric(v Value) (Value, Completion) {
	prim, c := ToPrimitive(v, "number")
	if c.IsAbrupt() {
		return nil, c
	}
	if b, ok := prim.(*BigInt); ok {
		return b, Completion{}
	}
	n, c := ToNumber(prim)
	if c.IsAbrupt() {
		return nil, c
	}
	return n, Completion{}
}

// ToNumber implements the ToNumber abstract operation (spec §4).
func ToNumber(v Value) (Number, Completion) {
	switch x := v.(type) {
	case Number:
		return x, Completion{}
	case Boolean:
		if x {
			return 1, Completion{}
		}
		return 0, Completion{}
	case undefinedValue:
		return Number(math.NaN()), Completion{}
	case nullValue:
		return 0, Completion{}
	case String:
		return stringToNumber(x), Completion{}
	case *BigInt:
		return 0, Throw(NewTypeError("cannot convert a BigInt value to a number"))
	case *Symbol:
		return 0, Throw(NewTypeError("cannot convert a Symbol value to a number"))
	case *Object:
		prim, c := ToPrimitive(x, "number")
		if c.IsAbrupt() {
			return 0, c
		}
		return ToNumber(prim)
	default:
		return 0, Completion{}
	}
}

// ToInt32 implements ToInt32 (spec §4).
func ToInt32(v Value) (int32, Completion) {
	n, c := ToNumber(v)
	if c.IsAbrupt() {
		return 0, c
	}
	return numberToInt32(n), Completion{}
}

// ToUint32 implements ToUint32 (spec §4).
func ToUint32(v Value) (uint32, Completion) {
	n, c := ToNumber(v)
	if c.IsAbrupt() {
		return 0, c
	}
	return uint32(numberToInt32(n)), Completion{}
}

func numberToInt32(n Number) int32 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	m := math.Mod(math.Trunc(f), 4294967296)
	if m < 0 {
		m += 4294967296
	}
	if m >= 2147483648 {
		return int32(m - 4294967296)
	}
	return int32(m)
}

// ToIntegerOrInfinity implements ToIntegerOrInfinity (spec §4).
func ToIntegerOrInfinity(v Value) (float64, Completion) {
	n, c := ToNumber(v)
	if c.IsAbrupt() {
		return 0, c
	}
	f := float64(n)
	if math.IsNaN(f) || f == 0 {
		return 0, Completion{}
	}
	if math.IsInf(f, 0) {
		return f, Completion{}
	}
	return math.Trunc(f), Completion{}
}

// ToStringValue implements the ToString abstract operation (spec §4),
// named to avoid colliding with Go's fmt.Stringer convention and with
// Object's Display diagnostic method.
func ToStringValue(v Value) (String, Completion) {
	switch x := v.(type) {
	case String:
		return x, Completion{}
	case undefinedValue:
		return NewString("undefined"), Completion{}
	case nullValue:
		return NewString("null"), Completion{}
	case Boolean:
		if x {
			return NewString("true"), Completion{}
		}
		return NewString("false"), Completion{}
	case Number:
		return NewString(NumberToString(x)), Completion{}
	case *BigInt:
		return NewString(x.Int().String()), Completion{}
	case *Symbol:
		return String{}, Throw(NewTypeError("cannot convert a Symbol value to a string"))
	case *Object:
		prim, c := ToPrimitive(x, "string")
		if c.IsAbrupt() {
			return String{}, c
		}
		return ToStringValue(prim)
	default:
		return NewString(""), Completion{}
	}
}

// ToPropertyKey implements ToPropertyKey (spec §4.2): ToPrimitive with hint
// "string", then a Symbol is used as-is and anything else becomes a String.
func ToPropertyKey(v Value) (PropertyKey, Completion) {
	prim, c := ToPrimitive(v, "string")
	if c.IsAbrupt() {
		return nil, c
	}
	if sym, ok := prim.(*Symbol); ok {
		return sym, Completion{}
	}
	s, c := ToStringValue(prim)
	if c.IsAbrupt() {
		return nil, c
	}
	return s, Completion{}
}

// ToBigInt implements ToBigInt (spec §4.3): Boolean and String convert,
// Number and Symbol are a TypeError, objects go through ToPrimitive first.
func ToBigInt(v Value) (*BigInt, Completion) {
	prim, c := ToPrimitive(v, "number")
	if c.IsAbrupt() {
		return nil, c
	}
	switch x := prim.(type) {
	case *BigInt:
		return x, Completion{}
	case Boolean:
		if x {
			return BigIntFromInt64(1), Completion{}
		}
		return BigIntFromInt64(0), Completion{}
	case String:
		b, ok := BigIntFromString(x.GoString())
		if !ok {
			return nil, Throw(NewSyntaxError("cannot convert string to a BigInt"))
		}
		return b, Completion{}
	default:
		return nil, Throw(NewTypeError("cannot convert value to a BigInt"))
	}
}

// RequireObjectCoercible implements RequireObjectCoercible (spec §4):
// rejects only Undefined and Null.
func RequireObjectCoercible(v Value) (Value, Completion) {
	if IsUndefined(v) || IsNull(v) {
		return nil, Throw(NewTypeError("value is not object-coercible"))
	}
	return v, Completion{}
}
