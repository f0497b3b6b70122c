package evaluator

import (
	"math"

	"github.com/cwbudde/goecma/internal/runtime"
)

// evalBinary implements the non-short-circuiting binary operators (spec
// §4.3 numeric semantics; relational/equality operators per spec §4).
func (ev *Evaluator) evalBinary(op string, left, right runtime.Value) runtime.Completion {
	switch op {
	case "+":
		return addValues(left, right)
	case "-", "*", "/", "%", "**":
		return arithmetic(op, left, right)
	case "&", "|", "^", "<<", ">>", ">>>":
		return bitwise(op, left, right)
	case "==":
		eq, c := looseEquals(left, right)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(runtime.Boolean(eq))
	case "!=":
		eq, c := looseEquals(left, right)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(runtime.Boolean(!eq))
	case "===":
		return runtime.NormalCompletion(runtime.Boolean(strictEquals(left, right)))
	case "!==":
		return runtime.NormalCompletion(runtime.Boolean(!strictEquals(left, right)))
	case "<", "<=", ">", ">=":
		return relational(op, left, right)
	case "instanceof":
		return ev.instanceOf(left, right)
	case "in":
		return ev.hasIn(left, right)
	default:
		return runtime.Throw(runtime.NewTypeError("unsupported binary operator %s", op))
	}
}

// addValues implements `+` (spec "ApplyStringOrNumericBinaryOperator" for
// Add): strings concatenate, everything else goes through ToNumeric.
func addValues(left, right runtime.Value) runtime.Completion {
	lp, c := runtime.ToPrimitive(left, "")
	if c.IsAbrupt() {
		return c
	}
	rp, c := runtime.ToPrimitive(right, "")
	if c.IsAbrupt() {
		return c
	}
	if _, ok := lp.(runtime.String); ok {
		rs, c := runtime.ToStringValue(rp)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(concatStrings(lp.(runtime.String), rs))
	}
	if _, ok := rp.(runtime.String); ok {
		ls, c := runtime.ToStringValue(lp)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(concatStrings(ls, rp.(runtime.String)))
	}
	ln, c := runtime.ToNumeric(lp)
	if c.IsAbrupt() {
		return c
	}
	rn, c := runtime.ToNumeric(rp)
	if c.IsAbrupt() {
		return c
	}
	return numericOp("+", ln, rn)
}

func concatStrings(a, b runtime.String) runtime.String {
	return runtime.String(append(append([]uint16{}, a...), b...))
}

func arithmetic(op string, left, right runtime.Value) runtime.Completion {
	ln, c := runtime.ToNumeric(left)
	if c.IsAbrupt() {
		return c
	}
	rn, c := runtime.ToNumeric(right)
	if c.IsAbrupt() {
		return c
	}
	return numericOp(op, ln, rn)
}

// numericOp dispatches a Number/BigInt binary op once both operands are
// numeric, throwing when the two operand kinds don't match (spec §4.3
// "mixing BigInt and Number in an arithmetic operator throws TypeError").
func numericOp(op string, ln, rn runtime.Value) runtime.Completion {
	lb, lIsBig := ln.(*runtime.BigInt)
	rb, rIsBig := rn.(*runtime.BigInt)
	if lIsBig != rIsBig {
		return runtime.Throw(runtime.NewTypeError("cannot mix BigInt and other types"))
	}
	if lIsBig {
		return bigIntArithmetic(op, lb, rb)
	}
	l, _ := ln.(runtime.Number)
	r, _ := rn.(runtime.Number)
	switch op {
	case "+":
		return runtime.NormalCompletion(l + r)
	case "-":
		return runtime.NormalCompletion(l - r)
	case "*":
		return runtime.NormalCompletion(l * r)
	case "/":
		return runtime.NormalCompletion(l / r)
	case "%":
		return runtime.NormalCompletion(numberMod(l, r))
	case "**":
		return runtime.NormalCompletion(numberPow(l, r))
	default:
		return runtime.Throw(runtime.NewTypeError("unsupported numeric operator %s", op))
	}
}

func bigIntArithmetic(op string, l, r *runtime.BigInt) runtime.Completion {
	var result *runtime.BigInt
	var err error
	switch op {
	case "+":
		result = l.Add(r)
	case "-":
		result = l.Sub(r)
	case "*":
		result = l.Mul(r)
	case "/":
		result, err = l.Div(r)
	case "%":
		result, err = l.Mod(r)
	case "**":
		result, err = l.Exp(r)
	case "&":
		result = l.BitAnd(r)
	case "|":
		result = l.BitOr(r)
	case "^":
		result = l.BitXor(r)
	case "<<":
		result = l.ShiftLeft(r)
	case ">>":
		result, err = l.ShiftRight(r)
	case ">>>":
		result, err = l.UnsignedShiftRight(r)
	default:
		return runtime.Throw(runtime.NewTypeError("unsupported BigInt operator %s", op))
	}
	if err != nil {
		if ev, ok := err.(*runtime.ErrorValue); ok {
			return runtime.Throw(ev)
		}
		return runtime.Throw(runtime.NewTypeError(err.Error()))
	}
	return runtime.NormalCompletion(result)
}

func bitwise(op string, left, right runtime.Value) runtime.Completion {
	ln, c := runtime.ToNumeric(left)
	if c.IsAbrupt() {
		return c
	}
	rn, c := runtime.ToNumeric(right)
	if c.IsAbrupt() {
		return c
	}
	if lb, ok := ln.(*runtime.BigInt); ok {
		rb, ok := rn.(*runtime.BigInt)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("cannot mix BigInt and other types"))
		}
		return bigIntArithmetic(op, lb, rb)
	}
	if _, ok := rn.(*runtime.BigInt); ok {
		return runtime.Throw(runtime.NewTypeError("cannot mix BigInt and other types"))
	}
	li, c := runtime.ToInt32(ln)
	if c.IsAbrupt() {
		return c
	}
	if op == ">>>" {
		ru, c := runtime.ToUint32(rn)
		if c.IsAbrupt() {
			return c
		}
		lu := uint32(li)
		return runtime.NormalCompletion(runtime.Number(lu >> (ru & 0x1F)))
	}
	ri, c := runtime.ToInt32(rn)
	if c.IsAbrupt() {
		return c
	}
	switch op {
	case "&":
		return runtime.NormalCompletion(runtime.Number(li & ri))
	case "|":
		return runtime.NormalCompletion(runtime.Number(li | ri))
	case "^":
		return runtime.NormalCompletion(runtime.Number(li ^ ri))
	case "<<":
		return runtime.NormalCompletion(runtime.Number(li << (uint32(ri) & 0x1F)))
	case ">>":
		return runtime.NormalCompletion(runtime.Number(li >> (uint32(ri) & 0x1F)))
	default:
		return runtime.Throw(runtime.NewTypeError("unsupported bitwise operator %s", op))
	}
}

func numberMod(l, r runtime.Number) runtime.Number {
	return runtime.Number(math.Mod(float64(l), float64(r)))
}

func relational(op string, left, right runtime.Value) runtime.Completion {
	lp, c := runtime.ToPrimitive(left, "number")
	if c.IsAbrupt() {
		return c
	}
	rp, c := runtime.ToPrimitive(right, "number")
	if c.IsAbrupt() {
		return c
	}
	if ls, lok := lp.(runtime.String); lok {
		if rs, rok := rp.(runtime.String); rok {
			cmp := compareUTF16(ls, rs)
			return runtime.NormalCompletion(runtime.Boolean(relResult(op, cmp, false)))
		}
	}
	ln, c := runtime.ToNumeric(lp)
	if c.IsAbrupt() {
		return c
	}
	rn, c := runtime.ToNumeric(rp)
	if c.IsAbrupt() {
		return c
	}
	if lb, ok := ln.(*runtime.BigInt); ok {
		if rb, ok := rn.(*runtime.BigInt); ok {
			return runtime.NormalCompletion(runtime.Boolean(relResult(op, lb.Cmp(rb), false)))
		}
		rf := rn.(runtime.Number)
		if rf.IsNaN() {
			return runtime.NormalCompletion(runtime.Boolean(false))
		}
		cmp := lb.ToNumber()
		return runtime.NormalCompletion(runtime.Boolean(relResult(op, numCmp(cmp, rf), false)))
	}
	if rb, ok := rn.(*runtime.BigInt); ok {
		lf := ln.(runtime.Number)
		if lf.IsNaN() {
			return runtime.NormalCompletion(runtime.Boolean(false))
		}
		return runtime.NormalCompletion(runtime.Boolean(relResult(op, numCmp(lf, rb.ToNumber()), false)))
	}
	lf, rf := ln.(runtime.Number), rn.(runtime.Number)
	if lf.IsNaN() || rf.IsNaN() {
		return runtime.NormalCompletion(runtime.Boolean(false))
	}
	return runtime.NormalCompletion(runtime.Boolean(relResult(op, numCmp(lf, rf), false)))
}

func numCmp(a, b runtime.Number) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUTF16(a, b runtime.String) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func relResult(op string, cmp int, nanResult bool) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return nanResult
	}
}

// strictEquals implements the Strict Equality Comparison (spec §4): like
// SameValue but +0 equals -0 and NaN is never equal to anything.
func strictEquals(a, b runtime.Value) bool {
	if an, aok := a.(runtime.Number); aok {
		bn, bok := b.(runtime.Number)
		return bok && runtime.NumericEqual(an, bn)
	}
	if _, aok := a.(*runtime.BigInt); aok {
		bb, bok := b.(*runtime.BigInt)
		return bok && a.(*runtime.BigInt).Cmp(bb) == 0
	}
	return runtime.SameValue(a, b)
}

// looseEquals implements the Abstract Equality Comparison (spec §4): the
// coercion ladder between differing types.
func looseEquals(a, b runtime.Value) (bool, runtime.Completion) {
	if sameType(a, b) {
		return strictEquals(a, b), runtime.Completion{}
	}
	if runtime.IsNullOrUndefined(a) && runtime.IsNullOrUndefined(b) {
		return true, runtime.Completion{}
	}
	if runtime.IsNullOrUndefined(a) || runtime.IsNullOrUndefined(b) {
		return false, runtime.Completion{}
	}
	if isNumeric(a) && isStringValue(b) {
		rn, c := runtime.ToNumeric(b)
		if c.IsAbrupt() {
			return false, c
		}
		return looseEquals(a, rn)
	}
	if isStringValue(a) && isNumeric(b) {
		ln, c := runtime.ToNumeric(a)
		if c.IsAbrupt() {
			return false, c
		}
		return looseEquals(ln, b)
	}
	if _, ok := a.(*runtime.BigInt); ok {
		if _, ok := b.(runtime.Number); ok {
			return bigIntNumberEqual(a.(*runtime.BigInt), b.(runtime.Number)), runtime.Completion{}
		}
	}
	if _, ok := b.(*runtime.BigInt); ok {
		if _, ok := a.(runtime.Number); ok {
			return bigIntNumberEqual(b.(*runtime.BigInt), a.(runtime.Number)), runtime.Completion{}
		}
	}
	if bl, ok := a.(runtime.Boolean); ok {
		return looseEquals(runtime.Number(boolToFloat(bl)), b)
	}
	if br, ok := b.(runtime.Boolean); ok {
		return looseEquals(a, runtime.Number(boolToFloat(br)))
	}
	if (isNumeric(a) || isStringValue(a) || isBigInt(a)) && isObjectValue(b) {
		rp, c := runtime.ToPrimitive(b, "")
		if c.IsAbrupt() {
			return false, c
		}
		return looseEquals(a, rp)
	}
	if isObjectValue(a) && (isNumeric(b) || isStringValue(b) || isBigInt(b)) {
		lp, c := runtime.ToPrimitive(a, "")
		if c.IsAbrupt() {
			return false, c
		}
		return looseEquals(lp, b)
	}
	return false, runtime.Completion{}
}

func bigIntNumberEqual(b *runtime.BigInt, n runtime.Number) bool {
	if n.IsNaN() {
		return false
	}
	return b.ToNumber() == n
}

func boolToFloat(b runtime.Boolean) float64 {
	if b {
		return 1
	}
	return 0
}

func sameType(a, b runtime.Value) bool {
	switch a.(type) {
	case runtime.Number:
		_, ok := b.(runtime.Number)
		return ok
	case runtime.String:
		_, ok := b.(runtime.String)
		return ok
	case runtime.Boolean:
		_, ok := b.(runtime.Boolean)
		return ok
	case *runtime.BigInt:
		_, ok := b.(*runtime.BigInt)
		return ok
	case *runtime.Symbol:
		_, ok := b.(*runtime.Symbol)
		return ok
	case *runtime.Object:
		_, ok := b.(*runtime.Object)
		return ok
	}
	return runtime.IsNullOrUndefined(a) && runtime.IsNullOrUndefined(b) && sameNullness(a, b)
}

func sameNullness(a, b runtime.Value) bool {
	return runtime.IsNull(a) == runtime.IsNull(b)
}

func isNumeric(v runtime.Value) bool { _, ok := v.(runtime.Number); return ok }
func isStringValue(v runtime.Value) bool { _, ok := v.(runtime.String); return ok }
func isBigInt(v runtime.Value) bool { _, ok := v.(*runtime.BigInt); return ok }
func isObjectValue(v runtime.Value) bool { _, ok := v.(*runtime.Object); return ok }

// instanceOf implements the `instanceof` operator (spec §4 "InstanceofOperator"):
// consults Symbol.hasInstance when the constructor provides one, falling
// back to OrdinaryHasInstance's prototype-chain walk.
func (ev *Evaluator) instanceOf(left, right runtime.Value) runtime.Completion {
	ctor, ok := right.(*runtime.Object)
	if !ok {
		return runtime.Throw(runtime.NewTypeError("right-hand side of 'instanceof' is not an object"))
	}
	handler, c := ctor.Get_(runtime.SymbolHasInstance, ctor)
	if c.IsAbrupt() {
		return c
	}
	if fn, isFn := handler.(*runtime.Object); isFn && fn.IsCallable() {
		result := fn.Call(ctor, []runtime.Value{left})
		if result.IsAbrupt() {
			return result
		}
		return runtime.NormalCompletion(runtime.Boolean(runtime.ToBoolean(result.Value)))
	}
	if !ctor.IsCallable() {
		return runtime.Throw(runtime.NewTypeError("right-hand side of 'instanceof' is not callable"))
	}
	return ordinaryHasInstance(ctor, left)
}

func ordinaryHasInstance(ctor *runtime.Object, v runtime.Value) runtime.Completion {
	target := ctor
	if target.Kind == runtime.KindBoundFunction {
		if bt, ok := target.Slot("BoundTargetFunction"); ok {
			if o, ok := bt.(*runtime.Object); ok {
				target = o
			}
		}
	}
	obj, ok := v.(*runtime.Object)
	if !ok {
		return runtime.NormalCompletion(runtime.Boolean(false))
	}
	protoVal, c := target.Get_(runtime.NewString("prototype"), target)
	if c.IsAbrupt() {
		return c
	}
	proto, ok := protoVal.(*runtime.Object)
	if !ok {
		return runtime.Throw(runtime.NewTypeError("function has non-object prototype in instanceof check"))
	}
	for {
		next, c := obj.GetPrototypeOf()
		if c.IsAbrupt() {
			return c
		}
		if next == nil {
			return runtime.NormalCompletion(runtime.Boolean(false))
		}
		if next == proto {
			return runtime.NormalCompletion(runtime.Boolean(true))
		}
		obj = next
	}
}

// hasIn implements the `in` operator (spec §4.2 HasProperty).
func (ev *Evaluator) hasIn(left, right runtime.Value) runtime.Completion {
	obj, ok := right.(*runtime.Object)
	if !ok {
		return runtime.Throw(runtime.NewTypeError("cannot use 'in' operator on a non-object"))
	}
	key, c := runtime.ToPropertyKey(left)
	if c.IsAbrupt() {
		return c
	}
	has, c := obj.HasProperty(key)
	if c.IsAbrupt() {
		return c
	}
	return runtime.NormalCompletion(runtime.Boolean(has))
}

// evalUnary implements the prefix unary operators other than delete/typeof,
// which need Reference access and are handled directly in expressions.go.
func evalUnary(op string, v runtime.Value) runtime.Completion {
	switch op {
	case "-":
		n, c := runtime.ToNumeric(v)
		if c.IsAbrupt() {
			return c
		}
		if b, ok := n.(*runtime.BigInt); ok {
			return runtime.NormalCompletion(b.Neg())
		}
		return runtime.NormalCompletion(-n.(runtime.Number))
	case "+":
		n, c := runtime.ToNumber(v)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(n)
	case "!":
		return runtime.NormalCompletion(runtime.Boolean(!runtime.ToBoolean(v)))
	case "~":
		n, c := runtime.ToNumeric(v)
		if c.IsAbrupt() {
			return c
		}
		if b, ok := n.(*runtime.BigInt); ok {
			return runtime.NormalCompletion(b.BitNot())
		}
		i, c := runtime.ToInt32(n)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(runtime.Number(^i))
	case "void":
		return runtime.NormalCompletion(runtime.Undefined)
	default:
		return runtime.Throw(runtime.NewTypeError("unsupported unary operator %s", op))
	}
}

func numberPow(l, r runtime.Number) runtime.Number {
	return runtime.Number(math.Pow(float64(l), float64(r)))
}
