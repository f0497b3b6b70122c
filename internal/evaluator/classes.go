package evaluator

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

// evalClass implements ClassDefinitionEvaluation (spec §4.5): resolves the
// super class, builds the prototype and constructor, and wires every
// instance/static element onto the right object. Callers (ClassDeclaration,
// ClassExpression) are responsible for binding the result to a name.
func (ev *Evaluator) evalClass(c *Context, id *ast.Identifier, superClassExpr ast.Expression, body []*ast.ClassElement) (*runtime.Object, runtime.Completion) {
	var outerPrivateEnv *realm.PrivateEnvironment
	if c.Exec != nil {
		outerPrivateEnv = c.Exec.PrivateEnvironment
	}
	privateEnv := realm.NewPrivateEnvironment(outerPrivateEnv)
	privateName := func(name string) *runtime.PrivateName {
		if pn, ok := privateEnv.Names[name]; ok {
			return pn
		}
		pn := runtime.NewPrivateName(name)
		privateEnv.Names[name] = pn
		return pn
	}
	for _, el := range body {
		if priv, ok := el.Key.(*ast.PrivateIdentifier); ok {
			privateName(priv.Name)
		}
	}

	classEnv := runtime.NewDeclarativeEnvironment(c.Lexical)
	if id != nil {
		if bc := classEnv.CreateImmutableBinding(id.Name, true); bc.IsAbrupt() {
			return nil, bc
		}
	}
	classExec := &realm.ExecutionContext{Realm: ev.Realm, PrivateEnvironment: privateEnv}
	classCtx := &Context{Exec: classExec, Lexical: classEnv, Variable: classEnv, Strict: true}

	derived := superClassExpr != nil
	protoParent := ev.Realm.Intrinsics["%Object.prototype%"]
	ctorParent := ev.Realm.Intrinsics["%Function.prototype%"]
	if derived {
		sc := ev.EvalExpression(classCtx, superClassExpr)
		if sc.IsAbrupt() {
			return nil, sc
		}
		if runtime.IsNull(sc.Value) {
			protoParent = nil
		} else {
			superCtor, ok := sc.Value.(*runtime.Object)
			if !ok || !superCtor.IsConstructor() {
				return nil, runtime.Throw(runtime.NewTypeError("class extends value is not a constructor"))
			}
			protoVal, pc := superCtor.Get_(runtime.NewString("prototype"), superCtor)
			if pc.IsAbrupt() {
				return nil, pc
			}
			pp, isObj := protoVal.(*runtime.Object)
			if !isObj && !runtime.IsNull(protoVal) {
				return nil, runtime.Throw(runtime.NewTypeError("class prototype must be an object or null"))
			}
			protoParent = pp
			ctorParent = superCtor
		}
	}

	proto := runtime.NewOrdinaryObject(protoParent)

	// locate an explicit constructor and bucket every other element by
	// static/instance and field/method shape; order matters for fields
	// (spec "ClassFieldDefinitionEvaluation" runs in declaration order).
	var ctorElem *ast.ClassElement
	for _, el := range body {
		if el.IsStatic || el.Kind != ast.ClassMethod || el.Computed {
			continue
		}
		if ident, ok := el.Key.(*ast.Identifier); ok && ident.Name == "constructor" {
			ctorElem = el
		}
	}

	var ctorParams []*ast.Param
	var ctorBody *ast.BlockStatement
	switch {
	case ctorElem != nil:
		fe := ctorElem.Value.(*ast.FunctionExpression)
		ctorParams, ctorBody = fe.Params, fe.Body
	case derived:
		// default derived constructor: constructor(...args) { super(...args); }
		ctorParams = []*ast.Param{{Pattern: &ast.Identifier{Name: "args"}, IsRest: true}}
		ctorBody = &ast.BlockStatement{Body: []ast.Statement{
			&ast.ExpressionStatement{Expression: &ast.SuperCall{
				Arguments: []ast.Argument{{Value: &ast.Identifier{Name: "args"}, Spread: true}},
			}},
		}}
	default:
		ctorBody = &ast.BlockStatement{}
	}

	ctorName := ""
	if id != nil {
		ctorName = id.Name
	}

	ctorData := &functionData{
		ev: ev, params: ctorParams, body: ctorBody, env: classEnv,
		thisMode: thisStrict, strict: true, name: ctorName,
		homeObject: proto, isDerivedConstructor: derived, privateEnv: privateEnv,
	}
	if derived {
		ctorData.superClass = ctorParent
	}

	ctor := runtime.NewOrdinaryObject(ctorParent)
	ctor.Kind = runtime.KindFunction
	ctor.SetSlot("FunctionData", ctorData)
	ctor.RawDefineOwnProperty(runtime.NewString("length"), runtime.NewDataDescriptor(runtime.Number(requiredParamCount(ctorParams)), false, false, true))
	ctor.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString(ctorName), false, false, true))
	ctor.RawDefineOwnProperty(runtime.NewString("prototype"), runtime.NewDataDescriptor(proto, false, false, false))
	ctor.Call = func(runtime.Value, []runtime.Value) runtime.Completion {
		return runtime.Throw(runtime.NewTypeError("class constructor " + ctorName + " cannot be invoked without 'new'"))
	}
	ctor.Construct = func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
		return ev.constructFunction(ctor, ctorData, args, newTarget)
	}
	proto.RawDefineOwnProperty(runtime.NewString("constructor"), runtime.NewDataDescriptor(ctor, true, false, true))

	if id != nil {
		if ic := classEnv.InitializeBinding(id.Name, ctor); ic.IsAbrupt() {
			return nil, ic
		}
	}

	var instanceFields []*ast.ClassElement
	var staticFields []*ast.ClassElement
	var instancePrivateMethods []*runtime.PrivateElement

	for _, el := range body {
		if el == ctorElem {
			continue
		}
		target := proto
		if el.IsStatic {
			target = ctor
		}

		if el.Kind == ast.ClassField {
			if el.IsStatic {
				staticFields = append(staticFields, el)
			} else {
				instanceFields = append(instanceFields, el)
			}
			continue
		}

		fe, ok := el.Value.(*ast.FunctionExpression)
		if !ok {
			continue
		}
		methodData := &functionData{
			ev: ev, params: fe.Params, body: fe.Body, env: classEnv,
			thisMode: thisStrict, strict: true,
			isGenerator: fe.IsGenerator, isAsync: fe.IsAsync,
			homeObject: target, privateEnv: privateEnv,
		}

		if priv, ok := el.Key.(*ast.PrivateIdentifier); ok {
			pn := privateName(priv.Name)
			methodData.name = "#" + priv.Name
			fn := ev.OrdinaryFunctionCreate(methodData, requiredParamCount(fe.Params))
			elements := &ctor.PrivateElements
			if !el.IsStatic {
				instancePrivateMethods = addPrivateMethodOrAccessor(instancePrivateMethods, pn, el.Kind, fn)
				continue
			}
			*elements = addPrivateMethodOrAccessor(*elements, pn, el.Kind, fn)
			continue
		}

		key, kc := ev.evalPropertyKey(classCtx, el.Key, el.Computed)
		if kc.IsAbrupt() {
			return nil, kc
		}
		methodData.name = propertyKeyDisplayName(key, el.Kind)
		fn := ev.OrdinaryFunctionCreate(methodData, requiredParamCount(fe.Params))

		switch el.Kind {
		case ast.ClassGetter, ast.ClassSetter:
			existing, _ := target.RawGetOwnProperty(key)
			desc := &runtime.PropertyDescriptor{Enumerable: false, Configurable: true, HasEnumerable: true, HasConfigurable: true}
			if existing != nil && existing.IsAccessorDescriptor() {
				desc.Get, desc.HasGet = existing.Get, true
				desc.Set, desc.HasSet = existing.Set, true
			}
			if el.Kind == ast.ClassGetter {
				desc.Get, desc.HasGet = fn, true
			} else {
				desc.Set, desc.HasSet = fn, true
			}
			target.RawDefineOwnProperty(key, desc)
		default:
			target.RawDefineOwnProperty(key, runtime.NewDataDescriptor(fn, true, false, true))
		}
	}

	ctorData.fields = instanceFields
	ctorData.instancePrivateElements = instancePrivateMethods

	if sc := ev.initializeStaticElements(classCtx, ctor, staticFields, privateEnv); sc.IsAbrupt() {
		return nil, sc
	}

	return ctor, runtime.Completion{}
}

// addPrivateMethodOrAccessor appends a compiled method/getter/setter to a
// private-element list, merging a getter and setter declared under the same
// #name into one PrivateAccessor entry (spec "PrivateElement: two accessors
// of the same PrivateName coalesce").
func addPrivateMethodOrAccessor(elements []*runtime.PrivateElement, pn *runtime.PrivateName, kind ast.ClassElementKind, fn *runtime.Object) []*runtime.PrivateElement {
	if kind == ast.ClassMethod {
		return append(elements, &runtime.PrivateElement{Key: pn, Kind: runtime.PrivateMethod, Get: fn})
	}
	for _, el := range elements {
		if el.Key == pn && el.Kind == runtime.PrivateAccessor {
			if kind == ast.ClassGetter {
				el.Get, el.HasGet = fn, true
			} else {
				el.Set, el.HasSet = fn, true
			}
			return elements
		}
	}
	el := &runtime.PrivateElement{Key: pn, Kind: runtime.PrivateAccessor}
	if kind == ast.ClassGetter {
		el.Get, el.HasGet = fn, true
	} else {
		el.Set, el.HasSet = fn, true
	}
	return append(elements, el)
}

// initializeStaticElements runs static field initializers with `this`
// bound to the constructor itself (spec "ClassStaticBlockDefinitionEvaluation"
// / static field evaluation both use the constructor as `this`).
func (ev *Evaluator) initializeStaticElements(classCtx *Context, ctor *runtime.Object, staticFields []*ast.ClassElement, privateEnv *realm.PrivateEnvironment) runtime.Completion {
	if len(staticFields) == 0 {
		return runtime.Completion{}
	}
	staticEnv := runtime.NewFunctionEnvironment(classCtx.Lexical, ctor, nil, runtime.ThisInitialized)
	if bc := staticEnv.BindThisValue(ctor); bc.IsAbrupt() {
		return bc
	}
	staticEnv.SetHomeObject(ctor)
	staticCtx := &Context{
		Exec:    &realm.ExecutionContext{Realm: ev.Realm, PrivateEnvironment: privateEnv, Function: ctor},
		Lexical: staticEnv, Variable: staticEnv, Strict: true, HomeObject: ctor,
	}
	for _, el := range staticFields {
		if priv, ok := el.Key.(*ast.PrivateIdentifier); ok {
			pn := resolvePrivateName(staticCtx, priv.Name)
			if pn == nil {
				return runtime.Throw(runtime.NewSyntaxError("private field '#" + priv.Name + "' must be declared in an enclosing class"))
			}
			var v runtime.Value = runtime.Undefined
			if el.Value != nil {
				vc := ev.EvalExpression(staticCtx, el.Value)
				if vc.IsAbrupt() {
					return vc
				}
				v = vc.Value
			}
			ctor.PrivateElements = append(ctor.PrivateElements, &runtime.PrivateElement{Key: pn, Kind: runtime.PrivateField, Value: v})
			continue
		}
		key, kc := ev.evalPropertyKey(staticCtx, el.Key, el.Computed)
		if kc.IsAbrupt() {
			return kc
		}
		var v runtime.Value = runtime.Undefined
		if el.Value != nil {
			vc := ev.EvalExpression(staticCtx, el.Value)
			if vc.IsAbrupt() {
				return vc
			}
			v = vc.Value
			if s, ok := key.(runtime.String); ok {
				v = namedEvaluation(v, s.GoString())
			}
		}
		ctor.RawDefineOwnProperty(key, runtime.NewDataDescriptor(v, true, true, true))
	}
	return runtime.Completion{}
}

// propertyKeyDisplayName renders a method's `.name` property, prefixing
// accessors the way spec "SetFunctionName" does for getters/setters.
func propertyKeyDisplayName(key runtime.PropertyKey, kind ast.ClassElementKind) string {
	base := ""
	if s, ok := key.(runtime.String); ok {
		base = s.GoString()
	} else if sym, ok := key.(*runtime.Symbol); ok {
		if sym.HasDesc {
			base = "[" + sym.Description.GoString() + "]"
		}
	}
	switch kind {
	case ast.ClassGetter:
		return "get " + base
	case ast.ClassSetter:
		return "set " + base
	default:
		return base
	}
}
