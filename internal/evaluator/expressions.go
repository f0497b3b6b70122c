package evaluator

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/runtime"
)

// EvalExpression dispatches one expression node to its evaluation rule
// (spec §4.5). Every branch yields a Value completion — reference-position
// special cases (typeof/delete/++/--/assignment) resolve through
// evalReference first since those need the Reference itself, not just its
// dereferenced value.
func (ev *Evaluator) EvalExpression(c *Context, expr ast.Expression) runtime.Completion {
	switch e := expr.(type) {
	case *ast.NullLiteral:
		return runtime.NormalCompletion(runtime.Null)
	case *ast.BooleanLiteral:
		return runtime.NormalCompletion(runtime.Boolean(e.Value))
	case *ast.NumericLiteral:
		return runtime.NormalCompletion(runtime.Number(e.Value))
	case *ast.BigIntLiteral:
		b, ok := runtime.BigIntFromString(e.Raw)
		if !ok {
			return runtime.Throw(runtime.NewSyntaxError("invalid BigInt literal"))
		}
		return runtime.NormalCompletion(b)
	case *ast.StringLiteral:
		return runtime.NormalCompletion(runtime.String(e.Value))
	case *ast.RegExpLiteral:
		return ev.evalRegExpLiteral(c, e)
	case *ast.TemplateLiteral:
		return ev.evalTemplateLiteral(c, e)
	case *ast.Identifier:
		ref, rc := resolveBinding(c.Lexical, e.Name, c.Strict)
		if rc.IsAbrupt() {
			return rc
		}
		return ref.GetValue()
	case *ast.ThisExpression:
		return resolveThis(c.Lexical)
	case *ast.Super:
		return runtime.Throw(runtime.NewSyntaxError("'super' keyword is only valid inside a class"))
	case *ast.ArrayExpression:
		return ev.evalArrayLiteral(c, e)
	case *ast.ObjectExpression:
		return ev.evalObjectLiteral(c, e)
	case *ast.FunctionExpression:
		return runtime.NormalCompletion(ev.instantiateFunctionExpression(c, e))
	case *ast.ArrowFunctionExpression:
		return runtime.NormalCompletion(ev.instantiateArrowFunction(c, e))
	case *ast.ClassExpression:
		ctor, cc := ev.evalClass(c, e.ID, e.SuperClass, e.Body)
		if cc.IsAbrupt() {
			return cc
		}
		return runtime.NormalCompletion(ctor)
	case *ast.CallExpression:
		return ev.evalCall(c, e)
	case *ast.SuperCall:
		return ev.evalSuperCall(c, e)
	case *ast.NewExpression:
		return ev.evalNew(c, e)
	case *ast.MemberExpression:
		ref, rc := ev.evalReference(c, e)
		if rc.IsAbrupt() {
			return rc
		}
		if ref.Kind == RefUnresolvable && e.Optional {
			return runtime.NormalCompletion(runtime.Undefined)
		}
		return ref.GetValue()
	case *ast.SuperMemberExpression:
		ref, rc := ev.evalReference(c, e)
		if rc.IsAbrupt() {
			return rc
		}
		return ref.GetValue()
	case *ast.BinaryExpression:
		return ev.evalBinaryExpression(c, e)
	case *ast.LogicalExpression:
		return ev.evalLogical(c, e)
	case *ast.UnaryExpression:
		return ev.evalUnaryExpression(c, e)
	case *ast.UpdateExpression:
		return ev.evalUpdate(c, e)
	case *ast.AssignmentExpression:
		return ev.evalAssignment(c, e)
	case *ast.ConditionalExpression:
		tc := ev.EvalExpression(c, e.Test)
		if tc.IsAbrupt() {
			return tc
		}
		if runtime.ToBoolean(tc.Value) {
			return ev.EvalExpression(c, e.Consequent)
		}
		return ev.EvalExpression(c, e.Alternate)
	case *ast.SequenceExpression:
		var last runtime.Completion
		for _, item := range e.Expressions {
			last = ev.EvalExpression(c, item)
			if last.IsAbrupt() {
				return last
			}
		}
		return last
	case *ast.YieldExpression:
		return ev.evalYield(c, e)
	case *ast.AwaitExpression:
		return ev.evalAwait(c, e)
	case *ast.MetaProperty:
		return ev.evalMetaProperty(c, e)
	default:
		return runtime.Throw(runtime.NewTypeError("unsupported expression node"))
	}
}

func (ev *Evaluator) evalRegExpLiteral(c *Context, e *ast.RegExpLiteral) runtime.Completion {
	proto, _ := ev.Realm.Intrinsic("%Object.prototype%")
	o := runtime.NewOrdinaryObject(proto)
	o.RawDefineOwnProperty(runtime.NewString("source"), runtime.NewDataDescriptor(runtime.NewString(e.Pattern), false, false, false))
	o.RawDefineOwnProperty(runtime.NewString("flags"), runtime.NewDataDescriptor(runtime.NewString(e.Flags), false, false, false))
	return runtime.NormalCompletion(o)
}

func (ev *Evaluator) evalTemplateLiteral(c *Context, e *ast.TemplateLiteral) runtime.Completion {
	var result []uint16
	result = append(result, e.Quasis[0].Cooked...)
	for i, expr := range e.Expressions {
		vc := ev.EvalExpression(c, expr)
		if vc.IsAbrupt() {
			return vc
		}
		s, sc := runtime.ToStringValue(vc.Value)
		if sc.IsAbrupt() {
			return sc
		}
		result = append(result, s...)
		if i+1 < len(e.Quasis) {
			result = append(result, e.Quasis[i+1].Cooked...)
		}
	}
	return runtime.NormalCompletion(runtime.String(result))
}

func (ev *Evaluator) evalArrayLiteral(c *Context, e *ast.ArrayExpression) runtime.Completion {
	proto, _ := ev.Realm.Intrinsic("%Array.prototype%")
	arr := runtime.NewArray(proto, 0)
	idx := uint32(0)
	for _, el := range e.Elements {
		if el == nil {
			idx++ // elision: a hole, but still bumps the index
			continue
		}
		if sp, ok := el.(*ast.SpreadElement); ok {
			vc := ev.EvalExpression(c, sp.Argument)
			if vc.IsAbrupt() {
				return vc
			}
			items, ic := runtime.IterableToList(vc.Value, true)
			if ic.IsAbrupt() {
				return ic
			}
			for _, item := range items {
				arr.RawDefineOwnProperty(runtime.NewString(uint32ToString(idx)), runtime.NewDataDescriptor(item, true, true, true))
				idx++
			}
			continue
		}
		vc := ev.EvalExpression(c, el)
		if vc.IsAbrupt() {
			return vc
		}
		arr.RawDefineOwnProperty(runtime.NewString(uint32ToString(idx)), runtime.NewDataDescriptor(vc.Value, true, true, true))
		idx++
	}
	return runtime.NormalCompletion(arr)
}

func (ev *Evaluator) evalObjectLiteral(c *Context, e *ast.ObjectExpression) runtime.Completion {
	proto, _ := ev.Realm.Intrinsic("%Object.prototype%")
	obj := runtime.NewOrdinaryObject(proto)
	for _, prop := range e.Properties {
		if prop.Kind == ast.PropertySpread {
			vc := ev.EvalExpression(c, prop.Value)
			if vc.IsAbrupt() {
				return vc
			}
			if runtime.IsNullOrUndefined(vc.Value) {
				continue
			}
			src, sc := ev.Realm.ToObject(vc.Value)
			if sc.IsAbrupt() {
				return sc
			}
			keys, kc := src.OwnPropertyKeys()
			if kc.IsAbrupt() {
				return kc
			}
			for _, key := range keys {
				desc, dc := src.GetOwnProperty(key)
				if dc.IsAbrupt() {
					return dc
				}
				if desc == nil || !desc.Enumerable {
					continue
				}
				v, gc := src.Get_(key, src)
				if gc.IsAbrupt() {
					return gc
				}
				obj.RawDefineOwnProperty(key, runtime.NewDataDescriptor(v, true, true, true))
			}
			continue
		}

		key, kc := ev.evalPropertyKey(c, prop.Key, prop.Computed)
		if kc.IsAbrupt() {
			return kc
		}

		switch prop.Kind {
		case ast.PropertyGet, ast.PropertySet:
			fe, _ := prop.Value.(*ast.FunctionExpression)
			fn := ev.instantiateFunctionExpression(c, fe)
			funcDataOf(fn).homeObject = obj
			existing, _ := obj.RawGetOwnProperty(key)
			desc := &runtime.PropertyDescriptor{Enumerable: true, Configurable: true, HasEnumerable: true, HasConfigurable: true}
			if existing != nil && existing.IsAccessorDescriptor() {
				desc.Get, desc.HasGet = existing.Get, true
				desc.Set, desc.HasSet = existing.Set, true
			}
			if prop.Kind == ast.PropertyGet {
				desc.Get, desc.HasGet = fn, true
			} else {
				desc.Set, desc.HasSet = fn, true
			}
			obj.RawDefineOwnProperty(key, desc)
		case ast.PropertyMethod:
			fe, _ := prop.Value.(*ast.FunctionExpression)
			fn := ev.instantiateFunctionExpression(c, fe)
			funcDataOf(fn).homeObject = obj
			obj.RawDefineOwnProperty(key, runtime.NewDataDescriptor(fn, true, true, true))
		default:
			vc := ev.EvalExpression(c, prop.Value)
			if vc.IsAbrupt() {
				return vc
			}
			v := vc.Value
			if s, ok := key.(runtime.String); ok {
				v = namedEvaluation(v, s.GoString())
			}
			obj.RawDefineOwnProperty(key, runtime.NewDataDescriptor(v, true, true, true))
		}
	}
	return runtime.NormalCompletion(obj)
}

// evalPropertyKey implements the common "evaluate a possibly-computed
// property key" step shared by object literals, class bodies, and member
// expressions (spec "Evaluation" of ComputedPropertyName / PropertyName).
func (ev *Evaluator) evalPropertyKey(c *Context, key ast.Expression, computed bool) (runtime.PropertyKey, runtime.Completion) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return runtime.NewString(k.Name), runtime.Completion{}
		case *ast.StringLiteral:
			return runtime.String(k.Value), runtime.Completion{}
		case *ast.NumericLiteral:
			s, c := runtime.ToStringValue(runtime.Number(k.Value))
			if c.IsAbrupt() {
				return nil, c
			}
			return s, runtime.Completion{}
		}
	}
	vc := ev.EvalExpression(c, key)
	if vc.IsAbrupt() {
		return nil, vc
	}
	pk, pc := runtime.ToPropertyKey(vc.Value)
	if pc.IsAbrupt() {
		return nil, pc
	}
	return pk, runtime.Completion{}
}

// evalReference resolves expr to a Reference without dereferencing it,
// needed by assignment, delete, typeof, ++/--, and for-in/for-of targets
// (spec §6's Reference Record producing syntax forms).
func (ev *Evaluator) evalReference(c *Context, expr ast.Expression) (Reference, runtime.Completion) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return resolveBinding(c.Lexical, e.Name, c.Strict)
	case *ast.MemberExpression:
		oc := ev.EvalExpression(c, e.Object)
		if oc.IsAbrupt() {
			return Reference{}, oc
		}
		if e.Optional && runtime.IsNullOrUndefined(oc.Value) {
			return Reference{Kind: RefUnresolvable}, runtime.Completion{}
		}
		if runtime.IsNullOrUndefined(oc.Value) {
			return Reference{}, runtime.Throw(runtime.NewTypeError("cannot read properties of " + oc.Value.Display()))
		}
		if priv, ok := e.Property.(*ast.PrivateIdentifier); ok {
			pn := resolvePrivateName(c, priv.Name)
			if pn == nil {
				return Reference{}, runtime.Throw(runtime.NewSyntaxError("private field '#" + priv.Name + "' must be declared in an enclosing class"))
			}
			return Reference{Kind: RefPrivate, Base: oc.Value, Private: pn, Strict: c.Strict}, runtime.Completion{}
		}
		key, kc := ev.evalPropertyKey(c, e.Property, e.Computed)
		if kc.IsAbrupt() {
			return Reference{}, kc
		}
		return Reference{Kind: RefProperty, Base: oc.Value, Key: key, Strict: c.Strict}, runtime.Completion{}
	case *ast.SuperMemberExpression:
		// resolveHomeObject already returns the super base (the home
		// object's own [[Prototype]]), so no further unwrap is needed here
		// (spec "GetSuperBase"); the receiver for accessor invocations is
		// still the running `this`, not the super base.
		superBase := resolveHomeObject(c.Lexical)
		if superBase == nil {
			return Reference{}, runtime.Throw(runtime.NewSyntaxError("'super' keyword is only valid inside a method"))
		}
		key, kc := ev.evalPropertyKey(c, e.Property, e.Computed)
		if kc.IsAbrupt() {
			return Reference{}, kc
		}
		thisC := resolveThis(c.Lexical)
		if thisC.IsAbrupt() {
			return Reference{}, thisC
		}
		return Reference{Kind: RefProperty, Base: superBase, Key: key, Strict: c.Strict, Receiver: thisC.Value}, runtime.Completion{}
	default:
		return Reference{}, runtime.Throw(runtime.NewReferenceError("invalid left-hand side expression"))
	}
}

func (ev *Evaluator) evalArgumentList(c *Context, args []ast.Argument) ([]runtime.Value, runtime.Completion) {
	var out []runtime.Value
	for _, a := range args {
		if a.Spread {
			vc := ev.EvalExpression(c, a.Value)
			if vc.IsAbrupt() {
				return nil, vc
			}
			items, ic := runtime.IterableToList(vc.Value, true)
			if ic.IsAbrupt() {
				return nil, ic
			}
			out = append(out, items...)
			continue
		}
		vc := ev.EvalExpression(c, a.Value)
		if vc.IsAbrupt() {
			return nil, vc
		}
		out = append(out, vc.Value)
	}
	return out, runtime.Completion{}
}

func (ev *Evaluator) evalCall(c *Context, e *ast.CallExpression) runtime.Completion {
	var thisArg runtime.Value = runtime.Undefined
	var fnVal runtime.Value

	if me, ok := e.Callee.(*ast.MemberExpression); ok {
		ref, rc := ev.evalReference(c, me)
		if rc.IsAbrupt() {
			return rc
		}
		if ref.Kind == RefUnresolvable {
			return runtime.NormalCompletion(runtime.Undefined)
		}
		thisArg = ref.Base
		vc := ref.GetValue()
		if vc.IsAbrupt() {
			return vc
		}
		fnVal = vc.Value
	} else if se, ok := e.Callee.(*ast.SuperMemberExpression); ok {
		ref, rc := ev.evalReference(c, se)
		if rc.IsAbrupt() {
			return rc
		}
		tc := resolveThis(c.Lexical)
		if tc.IsAbrupt() {
			return tc
		}
		thisArg = tc.Value
		vc := ref.GetValue()
		if vc.IsAbrupt() {
			return vc
		}
		fnVal = vc.Value
	} else {
		vc := ev.EvalExpression(c, e.Callee)
		if vc.IsAbrupt() {
			return vc
		}
		fnVal = vc.Value
	}

	if e.Optional && runtime.IsNullOrUndefined(fnVal) {
		return runtime.NormalCompletion(runtime.Undefined)
	}
	fn, ok := fnVal.(*runtime.Object)
	if !ok || !fn.IsCallable() {
		return runtime.Throw(runtime.NewTypeError("value is not callable"))
	}
	args, ac := ev.evalArgumentList(c, e.Arguments)
	if ac.IsAbrupt() {
		return ac
	}
	return fn.Call(thisArg, args)
}

func (ev *Evaluator) evalNew(c *Context, e *ast.NewExpression) runtime.Completion {
	cv := ev.EvalExpression(c, e.Callee)
	if cv.IsAbrupt() {
		return cv
	}
	ctor, ok := cv.Value.(*runtime.Object)
	if !ok || !ctor.IsConstructor() {
		return runtime.Throw(runtime.NewTypeError("value is not a constructor"))
	}
	args, ac := ev.evalArgumentList(c, e.Arguments)
	if ac.IsAbrupt() {
		return ac
	}
	return ctor.Construct(args, ctor)
}

// evalSuperCall implements `super(...)` inside a derived class constructor
// (spec "SuperCall: Evaluation"): constructs the parent with the running
// new.target, then binds the freshly built instance as `this`.
func (ev *Evaluator) evalSuperCall(c *Context, e *ast.SuperCall) runtime.Completion {
	activeFunc := c.Exec.Function
	if activeFunc == nil {
		return runtime.Throw(runtime.NewSyntaxError("'super' keyword is only valid inside a derived constructor"))
	}
	superCtor, pc := activeFunc.GetPrototypeOf()
	if pc.IsAbrupt() {
		return pc
	}
	if superCtor == nil || !superCtor.IsConstructor() {
		return runtime.Throw(runtime.NewTypeError("super constructor is not callable"))
	}
	newTarget := resolveNewTarget(c.Lexical)
	nt, _ := newTarget.(*runtime.Object)
	if nt == nil {
		nt = superCtor
	}
	args, ac := ev.evalArgumentList(c, e.Arguments)
	if ac.IsAbrupt() {
		return ac
	}
	result := superCtor.Construct(args, nt)
	if result.IsAbrupt() {
		return result
	}
	instance, _ := result.Value.(*runtime.Object)
	for env := c.Lexical; env != nil; env = env.Outer() {
		if funcEnv, ok := env.(*runtime.FunctionEnvironment); ok {
			if bc := funcEnv.BindThisValue(instance); bc.IsAbrupt() {
				return bc
			}
			break
		}
	}
	if data := funcDataOf(c.Exec.Function); data != nil {
		if fc := ev.initializeInstanceFields(data, instance); fc.IsAbrupt() {
			return fc
		}
	}
	return runtime.NormalCompletion(instance)
}

func (ev *Evaluator) evalBinaryExpression(c *Context, e *ast.BinaryExpression) runtime.Completion {
	lc := ev.EvalExpression(c, e.Left)
	if lc.IsAbrupt() {
		return lc
	}
	rc := ev.EvalExpression(c, e.Right)
	if rc.IsAbrupt() {
		return rc
	}
	return ev.evalBinary(string(e.Operator), lc.Value, rc.Value)
}

func (ev *Evaluator) evalLogical(c *Context, e *ast.LogicalExpression) runtime.Completion {
	lc := ev.EvalExpression(c, e.Left)
	if lc.IsAbrupt() {
		return lc
	}
	switch e.Operator {
	case ast.OpAnd:
		if !runtime.ToBoolean(lc.Value) {
			return lc
		}
	case ast.OpOr:
		if runtime.ToBoolean(lc.Value) {
			return lc
		}
	case ast.OpNullishCoalesce:
		if !runtime.IsNullOrUndefined(lc.Value) {
			return lc
		}
	}
	return ev.EvalExpression(c, e.Right)
}

func (ev *Evaluator) evalUnaryExpression(c *Context, e *ast.UnaryExpression) runtime.Completion {
	switch e.Operator {
	case ast.OpTypeof:
		if id, ok := e.Argument.(*ast.Identifier); ok {
			ref, rc := resolveBinding(c.Lexical, id.Name, c.Strict)
			if rc.IsAbrupt() {
				return rc
			}
			if ref.Kind == RefUnresolvable {
				return runtime.NormalCompletion(runtime.NewString("undefined"))
			}
			vc := ref.GetValue()
			if vc.IsAbrupt() {
				return vc
			}
			return runtime.NormalCompletion(runtime.NewString(typeofString(vc.Value)))
		}
		vc := ev.EvalExpression(c, e.Argument)
		if vc.IsAbrupt() {
			return vc
		}
		return runtime.NormalCompletion(runtime.NewString(typeofString(vc.Value)))
	case ast.OpDelete:
		return ev.evalDelete(c, e.Argument)
	}
	vc := ev.EvalExpression(c, e.Argument)
	if vc.IsAbrupt() {
		return vc
	}
	return evalUnary(string(e.Operator), vc.Value)
}

func typeofString(v runtime.Value) string {
	switch val := v.(type) {
	case runtime.Boolean:
		return "boolean"
	case runtime.Number:
		return "number"
	case runtime.String:
		return "string"
	case *runtime.Symbol:
		return "symbol"
	case *runtime.BigInt:
		return "bigint"
	case *runtime.Object:
		if val.IsCallable() {
			return "function"
		}
		return "object"
	}
	if runtime.IsUndefined(v) {
		return "undefined"
	}
	return "object" // null, and anything else unrecognised, report as object
}

// evalDelete implements `delete expr` (spec "UnaryExpression: delete
// UnaryExpression"): a non-reference operand is simply evaluated and
// reports success; a property reference forwards to [[Delete]]; an
// unqualified identifier is a SyntaxError in strict mode, while sloppy mode
// reports true for an unresolvable name and otherwise returns what the
// environment's DeleteBinding reports.
func (ev *Evaluator) evalDelete(c *Context, arg ast.Expression) runtime.Completion {
	switch t := arg.(type) {
	case *ast.MemberExpression:
		oc := ev.EvalExpression(c, t.Object)
		if oc.IsAbrupt() {
			return oc
		}
		if t.Optional && runtime.IsNullOrUndefined(oc.Value) {
			return runtime.NormalCompletion(runtime.Boolean(true))
		}
		key, kc := ev.evalPropertyKey(c, t.Property, t.Computed)
		if kc.IsAbrupt() {
			return kc
		}
		obj, objc := ev.Realm.ToObject(oc.Value)
		if objc.IsAbrupt() {
			return objc
		}
		ok, dc := obj.Delete_(key)
		if dc.IsAbrupt() {
			return dc
		}
		if !ok && c.Strict {
			return runtime.Throw(runtime.NewTypeError("cannot delete property"))
		}
		return runtime.NormalCompletion(runtime.Boolean(ok))
	case *ast.Identifier:
		if c.Strict {
			return runtime.Throw(runtime.NewSyntaxError("delete of an unqualified identifier in strict mode"))
		}
		has, hc := c.Lexical.HasBinding(t.Name)
		if hc.IsAbrupt() {
			return hc
		}
		if !has {
			return runtime.NormalCompletion(runtime.Boolean(true))
		}
		ok, dc := c.Lexical.DeleteBinding(t.Name)
		if dc.IsAbrupt() {
			return dc
		}
		return runtime.NormalCompletion(runtime.Boolean(ok))
	default:
		vc := ev.EvalExpression(c, arg)
		if vc.IsAbrupt() {
			return vc
		}
		return runtime.NormalCompletion(runtime.Boolean(true))
	}
}

func (ev *Evaluator) evalUpdate(c *Context, e *ast.UpdateExpression) runtime.Completion {
	ref, rc := ev.evalReference(c, e.Argument)
	if rc.IsAbrupt() {
		return rc
	}
	oldC := ref.GetValue()
	if oldC.IsAbrupt() {
		return oldC
	}
	oldNum, nc := runtime.ToNumeric(oldC.Value)
	if nc.IsAbrupt() {
		return nc
	}
	var newVal runtime.Value
	if b, ok := oldNum.(*runtime.BigInt); ok {
		if e.Operator == "++" {
			newVal = b.Add(runtime.BigIntFromInt64(1))
		} else {
			newVal = b.Sub(runtime.BigIntFromInt64(1))
		}
	} else {
		n := oldNum.(runtime.Number)
		if e.Operator == "++" {
			newVal = n + 1
		} else {
			newVal = n - 1
		}
	}
	if pc := ref.PutValue(newVal, ev.Realm.GlobalObject); pc.IsAbrupt() {
		return pc
	}
	if e.Prefix {
		return runtime.NormalCompletion(newVal)
	}
	return runtime.NormalCompletion(oldNum)
}

func (ev *Evaluator) evalAssignment(c *Context, e *ast.AssignmentExpression) runtime.Completion {
	if e.Operator == "=" {
		if arr, ok := e.Target.(*ast.ArrayExpression); ok {
			vc := ev.EvalExpression(c, e.Value)
			if vc.IsAbrupt() {
				return vc
			}
			if bc := ev.destructureArray(c, arr, vc.Value, ast.VarVar); bc.IsAbrupt() {
				return bc
			}
			return vc
		}
		if obj, ok := e.Target.(*ast.ObjectExpression); ok {
			vc := ev.EvalExpression(c, e.Value)
			if vc.IsAbrupt() {
				return vc
			}
			if bc := ev.destructureObject(c, obj, vc.Value, ast.VarVar); bc.IsAbrupt() {
				return bc
			}
			return vc
		}
		ref, rc := ev.evalReference(c, e.Target)
		if rc.IsAbrupt() {
			return rc
		}
		vc := ev.EvalExpression(c, e.Value)
		if vc.IsAbrupt() {
			return vc
		}
		v := vc.Value
		if id, ok := e.Target.(*ast.Identifier); ok {
			v = namedEvaluation(v, id.Name)
		}
		if pc := ref.PutValue(v, ev.Realm.GlobalObject); pc.IsAbrupt() {
			return pc
		}
		return runtime.NormalCompletion(v)
	}

	ref, rc := ev.evalReference(c, e.Target)
	if rc.IsAbrupt() {
		return rc
	}

	switch e.Operator {
	case "&&=":
		cur := ref.GetValue()
		if cur.IsAbrupt() {
			return cur
		}
		if !runtime.ToBoolean(cur.Value) {
			return cur
		}
	case "||=":
		cur := ref.GetValue()
		if cur.IsAbrupt() {
			return cur
		}
		if runtime.ToBoolean(cur.Value) {
			return cur
		}
	case "??=":
		cur := ref.GetValue()
		if cur.IsAbrupt() {
			return cur
		}
		if !runtime.IsNullOrUndefined(cur.Value) {
			return cur
		}
	default:
		cur := ref.GetValue()
		if cur.IsAbrupt() {
			return cur
		}
		vc := ev.EvalExpression(c, e.Value)
		if vc.IsAbrupt() {
			return vc
		}
		op := e.Operator[:len(e.Operator)-1]
		result := ev.evalBinary(op, cur.Value, vc.Value)
		if result.IsAbrupt() {
			return result
		}
		if pc := ref.PutValue(result.Value, ev.Realm.GlobalObject); pc.IsAbrupt() {
			return pc
		}
		return result
	}

	vc := ev.EvalExpression(c, e.Value)
	if vc.IsAbrupt() {
		return vc
	}
	if pc := ref.PutValue(vc.Value, ev.Realm.GlobalObject); pc.IsAbrupt() {
		return pc
	}
	return vc
}

func (ev *Evaluator) evalMetaProperty(c *Context, e *ast.MetaProperty) runtime.Completion {
	if e.Meta == "new" && e.Property == "target" {
		return runtime.NormalCompletion(resolveNewTarget(c.Lexical))
	}
	return runtime.NormalCompletion(runtime.Undefined)
}

// destructureArray implements array-pattern destructuring assignment/binding
// (spec "DestructuringAssignmentEvaluation"/"BindingInitialization" for
// ArrayBindingPattern), iterating v via the iterator protocol and assigning
// each pattern element in turn. A RestElement must be the final element and
// collects everything remaining into a fresh array.
func (ev *Evaluator) destructureArray(c *Context, pat *ast.ArrayExpression, v runtime.Value, kind ast.VariableKind) runtime.Completion {
	iter, ic := runtime.GetIterator(v, true)
	if ic.IsAbrupt() {
		return ic
	}
	done := false
	for i, el := range pat.Elements {
		if rest, ok := el.(*ast.RestElement); ok {
			proto, _ := ev.Realm.Intrinsic("%Array.prototype%")
			arr := runtime.NewArray(proto, 0)
			idx := uint32(0)
			for !done {
				step, sc := runtime.IteratorStep(iter, nil)
				if sc.IsAbrupt() {
					return sc
				}
				if step == nil {
					done = true
					break
				}
				item, vc := runtime.IteratorValue(step)
				if vc.IsAbrupt() {
					return vc
				}
				arr.RawDefineOwnProperty(runtime.NewString(uint32ToString(idx)), runtime.NewDataDescriptor(item, true, true, true))
				idx++
			}
			if bc := ev.bindingInitialize(c, rest.Argument, arr, kind); bc.IsAbrupt() {
				return bc
			}
			continue
		}
		var item runtime.Value = runtime.Undefined
		if !done {
			step, sc := runtime.IteratorStep(iter, nil)
			if sc.IsAbrupt() {
				return sc
			}
			if step == nil {
				done = true
			} else {
				val, vc := runtime.IteratorValue(step)
				if vc.IsAbrupt() {
					return vc
				}
				item = val
			}
		}
		if el == nil {
			continue // elision
		}
		target := el
		var def ast.Expression
		if ae, ok := el.(*ast.AssignmentExpression); ok {
			target, def = ae.Target, ae.Value
		}
		if runtime.IsUndefined(item) && def != nil {
			dc := ev.EvalExpression(c, def)
			if dc.IsAbrupt() {
				return dc
			}
			item = dc.Value
		}
		if bc := ev.bindingInitialize(c, target, item, kind); bc.IsAbrupt() {
			return bc
		}
		_ = i
	}
	if !done {
		runtime.IteratorClose(iter, runtime.Completion{})
	}
	return runtime.Completion{}
}

// destructureObject implements object-pattern destructuring (spec
// "BindingInitialization" for ObjectBindingPattern): each named property is
// read off v; a trailing RestElement collects the remaining own enumerable
// properties into a fresh object.
func (ev *Evaluator) destructureObject(c *Context, pat *ast.ObjectExpression, v runtime.Value, kind ast.VariableKind) runtime.Completion {
	if runtime.IsNullOrUndefined(v) {
		return runtime.Throw(runtime.NewTypeError("cannot destructure null or undefined"))
	}
	seen := map[runtime.PropertyKey]bool{}
	for _, prop := range pat.Properties {
		if prop.Kind == ast.PropertySpread {
			restProto, _ := ev.Realm.Intrinsic("%Object.prototype%")
			rest := runtime.NewOrdinaryObject(restProto)
			obj, oc := ev.Realm.ToObject(v)
			if oc.IsAbrupt() {
				return oc
			}
			keys, kc := obj.OwnPropertyKeys()
			if kc.IsAbrupt() {
				return kc
			}
			for _, key := range keys {
				if seen[key] {
					continue
				}
				desc, dc := obj.GetOwnProperty(key)
				if dc.IsAbrupt() {
					return dc
				}
				if desc == nil || !desc.Enumerable {
					continue
				}
				val, vc := obj.Get_(key, obj)
				if vc.IsAbrupt() {
					return vc
				}
				rest.RawDefineOwnProperty(key, runtime.NewDataDescriptor(val, true, true, true))
			}
			if bc := ev.bindingInitialize(c, prop.Value, rest, kind); bc.IsAbrupt() {
				return bc
			}
			continue
		}
		key, kc := ev.evalPropertyKey(c, prop.Key, prop.Computed)
		if kc.IsAbrupt() {
			return kc
		}
		seen[key] = true
		obj, oc := ev.Realm.ToObject(v)
		if oc.IsAbrupt() {
			return oc
		}
		item, ic := obj.Get_(key, v)
		if ic.IsAbrupt() {
			return ic
		}
		target := prop.Value
		var def ast.Expression
		if ae, ok := target.(*ast.AssignmentExpression); ok {
			target, def = ae.Target, ae.Value
		}
		if runtime.IsUndefined(item) && def != nil {
			dc := ev.EvalExpression(c, def)
			if dc.IsAbrupt() {
				return dc
			}
			item = dc.Value
		}
		if bc := ev.bindingInitialize(c, target, item, kind); bc.IsAbrupt() {
			return bc
		}
	}
	return runtime.Completion{}
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
