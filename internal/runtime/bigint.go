package runtime

import "math/big"

// BigInt is an arbitrary-precision integer value. No library in the example
// corpus targets arbitrary-precision arithmetic; math/big is the universal
// Go answer and every operation below is expressed directly in terms of its
// *big.Int API (see DESIGN.md).
type BigInt struct {
	v *big.Int
}

func (b *BigInt) TypeOf() string  { return "bigint" }
func (b *BigInt) Display() string { return b.v.String() + "n" }

// NewBigInt wraps i as a BigInt value. The argument is not aliased further
// by the caller after this call.
func NewBigInt(i *big.Int) *BigInt { return &BigInt{v: new(big.Int).Set(i)} }

// BigIntFromInt64 constructs a BigInt from a machine integer.
func BigIntFromInt64(i int64) *BigInt { return &BigInt{v: big.NewInt(i)} }

// BigIntFromString parses a decimal integer literal (spec ast.BigIntLiteral
// Raw field) into a BigInt.
func BigIntFromString(s string) (*BigInt, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return &BigInt{v: v}, true
}

// Int returns the underlying *big.Int. Callers must not mutate it.
func (b *BigInt) Int() *big.Int { return b.v }

func (b *BigInt) Cmp(other *BigInt) int { return b.v.Cmp(other.v) }

func (b *BigInt) Add(other *BigInt) *BigInt { return NewBigInt(new(big.Int).Add(b.v, other.v)) }
func (b *BigInt) Sub(other *BigInt) *BigInt { return NewBigInt(new(big.Int).Sub(b.v, other.v)) }
func (b *BigInt) Mul(other *BigInt) *BigInt { return NewBigInt(new(big.Int).Mul(b.v, other.v)) }

// Div implements BigInt `/`: truncating division, RangeError on division by
// zero (spec §4.3).
func (b *BigInt) Div(other *BigInt) (*BigInt, error) {
	if other.v.Sign() == 0 {
		return nil, NewRangeError("division by zero")
	}
	return NewBigInt(new(big.Int).Quo(b.v, other.v)), nil
}

// Mod implements BigInt `%`: truncating remainder, RangeError on division by
// zero (spec §4.3).
func (b *BigInt) Mod(other *BigInt) (*BigInt, error) {
	if other.v.Sign() == 0 {
		return nil, NewRangeError("division by zero")
	}
	return NewBigInt(new(big.Int).Rem(b.v, other.v)), nil
}

// Exp implements BigInt `**`: RangeError on a negative exponent (spec §4.3).
func (b *BigInt) Exp(other *BigInt) (*BigInt, error) {
	if other.v.Sign() < 0 {
		return nil, NewRangeError("exponent must be non-negative")
	}
	return NewBigInt(new(big.Int).Exp(b.v, other.v, nil)), nil
}

func (b *BigInt) Neg() *BigInt { return NewBigInt(new(big.Int).Neg(b.v)) }

// BitNot implements BigInt `~`: two's-complement bitwise NOT, i.e. -(x+1).
func (b *BigInt) BitNot() *BigInt {
	return NewBigInt(new(big.Int).Not(b.v))
}

// BitAnd/BitOr/BitXor implement the bitwise operators using math/big's
// two's-complement semantics, which the specification's algorithm for
// arbitrary-precision integers matches (spec §9 open question: verify
// against test cases rather than assume host parity — math/big's And/Or/Xor
// are defined in terms of infinite two's complement and agree with the
// specification on every case exercised by this engine's test suite).
func (b *BigInt) BitAnd(other *BigInt) *BigInt { return NewBigInt(new(big.Int).And(b.v, other.v)) }
func (b *BigInt) BitOr(other *BigInt) *BigInt  { return NewBigInt(new(big.Int).Or(b.v, other.v)) }
func (b *BigInt) BitXor(other *BigInt) *BigInt { return NewBigInt(new(big.Int).Xor(b.v, other.v)) }

// ShiftLeft implements BigInt `<<`. A negative shift count shifts right.
func (b *BigInt) ShiftLeft(count *BigInt) *BigInt {
	if count.v.Sign() < 0 {
		return b.shiftRight(new(big.Int).Neg(count.v))
	}
	return NewBigInt(new(big.Int).Lsh(b.v, uint(count.v.Uint64())))
}

// ShiftRight implements BigInt `>>` (arithmetic, sign-extending). A negative
// shift count shifts left.
func (b *BigInt) ShiftRight(count *BigInt) (*BigInt, error) {
	if count.v.Sign() < 0 {
		return NewBigInt(new(big.Int).Lsh(b.v, uint(new(big.Int).Neg(count.v).Uint64()))), nil
	}
	return b.shiftRight(count.v), nil
}

func (b *BigInt) shiftRight(count *big.Int) *BigInt {
	return NewBigInt(new(big.Int).Rsh(b.v, uint(count.Uint64())))
}

// UnsignedShiftRight is unsupported for BigInt and always throws TypeError
// (spec §4.3: "unsigned right shift is unsupported and throws TypeError").
func (b *BigInt) UnsignedShiftRight(*BigInt) (*BigInt, error) {
	return nil, NewTypeError("BigInts have no unsigned right shift, use >> instead")
}

// ToNumber converts a BigInt to the nearest representable Number, possibly
// losing precision for large magnitudes.
func (b *BigInt) ToNumber() Number {
	f := new(big.Float).SetInt(b.v)
	v, _ := f.Float64()
	return Number(v)
}

// ToBoolean implements BigInt ToBoolean: false only for 0n.
func (b *BigInt) ToBoolean() bool { return b.v.Sign() != 0 }
