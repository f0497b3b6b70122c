package evaluator

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

// thisMode selects how OrdinaryCallBindThis treats the incoming `this`
// (spec §4.5 "OrdinaryCallBindThis"): lexical functions (arrows) never
// bind their own `this` at all — FunctionEnvironment.HasThisBinding stays
// false and GetThisBinding walks the outer environment chain instead.
type thisMode int

const (
	thisStrict thisMode = iota
	thisGlobal
	thisLexical
)

// functionData is the closure state OrdinaryFunctionCreate captures
// (spec §4.5 "captures the lexical environment, formal parameters, strict
// flag, home object, and source text"), addressed through the function
// object's opaque slot map so runtime.Object stays evaluator-agnostic.
type functionData struct {
	ev          *Evaluator
	params      []*ast.Param
	body        *ast.BlockStatement
	conciseBody ast.Expression
	env         runtime.Environment
	thisMode    thisMode
	strict      bool
	isGenerator bool
	isAsync     bool
	homeObject  *runtime.Object
	name        string
	fields      []*ast.ClassElement // instance field initializers, set for class constructors
	superClass  *runtime.Object     // non-nil for a derived class constructor
	isDerivedConstructor bool       // true iff this is a derived class's constructor: `this` stays uninitialised until `super(...)` runs
	privateEnv             *realm.PrivateEnvironment // the enclosing class's #name scope, nil outside a class body
	instancePrivateElements []*runtime.PrivateElement // shared instance private methods/accessors, cloned per instance
}

func funcDataOf(o *runtime.Object) *functionData {
	v, _ := o.Slot("FunctionData")
	fd, _ := v.(*functionData)
	return fd
}

// OrdinaryFunctionCreate builds a function object from a closure
// description (spec "OrdinaryFunctionCreate"). Non-arrow, non-generator,
// non-async functions additionally get a fresh, writable `.prototype`
// object so `new` has somewhere to chain an instance's prototype.
func (ev *Evaluator) OrdinaryFunctionCreate(data *functionData, paramCount int) *runtime.Object {
	fn := runtime.NewOrdinaryObject(ev.Realm.Intrinsics["%Function.prototype%"])
	fn.Kind = runtime.KindFunction
	fn.SetSlot("FunctionData", data)
	fn.RawDefineOwnProperty(runtime.NewString("length"), runtime.NewDataDescriptor(runtime.Number(paramCount), false, false, true))
	fn.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString(data.name), false, false, true))
	fn.Call = func(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
		return ev.callFunction(fn, data, thisArg, args, nil)
	}
	if data.thisMode != thisLexical && !data.isGenerator && !data.isAsync {
		proto := runtime.NewOrdinaryObject(ev.Realm.Intrinsics["%Object.prototype%"])
		proto.RawDefineOwnProperty(runtime.NewString("constructor"), runtime.NewDataDescriptor(fn, true, false, true))
		fn.RawDefineOwnProperty(runtime.NewString("prototype"), runtime.NewDataDescriptor(proto, true, false, false))
		fn.Construct = func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
			return ev.constructFunction(fn, data, args, newTarget)
		}
	}
	if data.isGenerator {
		genProto := runtime.NewOrdinaryObject(ev.Realm.Intrinsics["%GeneratorPrototype%"])
		fn.RawDefineOwnProperty(runtime.NewString("prototype"), runtime.NewDataDescriptor(genProto, true, false, false))
		fn.Call = func(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
			return runtime.NormalCompletion(ev.newGeneratorObject(fn, data, thisArg, args))
		}
	} else if data.isAsync {
		fn.Call = func(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
			return ev.callAsyncFunction(fn, data, thisArg, args)
		}
	}
	return fn
}

func (ev *Evaluator) instantiateFunctionDeclaration(c *Context, fd *ast.FunctionDeclaration) *runtime.Object {
	data := &functionData{
		ev: ev, params: fd.Params, body: fd.Body, env: c.Lexical,
		thisMode: thisModeFor(c.Strict, false),
		strict:   c.Strict, isGenerator: fd.IsGenerator, isAsync: fd.IsAsync,
		name: identName(fd.ID),
	}
	return ev.OrdinaryFunctionCreate(data, requiredParamCount(fd.Params))
}

func (ev *Evaluator) instantiateFunctionExpression(c *Context, fe *ast.FunctionExpression) *runtime.Object {
	closureEnv := c.Lexical
	name := ""
	if fe.ID != nil {
		closureEnv = runtime.NewDeclarativeEnvironment(c.Lexical)
		name = fe.ID.Name
	}
	data := &functionData{
		ev: ev, params: fe.Params, body: fe.Body, env: closureEnv,
		thisMode: thisModeFor(c.Strict || fe.IsStrict, false), strict: c.Strict || fe.IsStrict,
		isGenerator: fe.IsGenerator, isAsync: fe.IsAsync, name: name,
	}
	fn := ev.OrdinaryFunctionCreate(data, requiredParamCount(fe.Params))
	if fe.ID != nil {
		decl := closureEnv.(*runtime.DeclarativeEnvironment)
		decl.CreateImmutableBinding(fe.ID.Name, false)
		decl.InitializeBinding(fe.ID.Name, fn)
	}
	return fn
}

func (ev *Evaluator) instantiateArrowFunction(c *Context, af *ast.ArrowFunctionExpression) *runtime.Object {
	data := &functionData{
		ev: ev, params: af.Params, body: af.Body, conciseBody: af.ConciseBody,
		env: c.Lexical, thisMode: thisLexical, strict: c.Strict, isAsync: af.IsAsync,
	}
	return ev.OrdinaryFunctionCreate(data, requiredParamCount(af.Params))
}

func thisModeFor(strict, arrow bool) thisMode {
	if arrow {
		return thisLexical
	}
	if strict {
		return thisStrict
	}
	return thisGlobal
}

func identName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func requiredParamCount(params []*ast.Param) int {
	n := 0
	for _, p := range params {
		if p.IsRest || p.Default != nil {
			break
		}
		n++
	}
	return n
}

// prepareCall builds the function environment for one invocation and
// pushes its execution context onto the agent's context stack (spec
// "PrepareForOrdinaryCall"). Callers that push must defer a matching Pop.
func (ev *Evaluator) prepareCall(fn *runtime.Object, data *functionData, thisArg runtime.Value, args []runtime.Value, newTarget *runtime.Object) (*Context, runtime.Completion) {
	c, bc := ev.buildFunctionContext(fn, data, thisArg, newTarget)
	if bc.IsAbrupt() {
		return nil, bc
	}
	if pushC := ev.Realm.Agent.Contexts.Push(c.Exec); pushC.IsAbrupt() {
		return nil, pushC
	}
	if bc := ev.finishFunctionContext(c, data, args); bc.IsAbrupt() {
		ev.Realm.Agent.Contexts.Pop()
		return nil, bc
	}
	return c, runtime.Completion{}
}

// buildFunctionContext allocates the function environment and binds
// `this` (unless the function is lexical) without touching the agent's
// context stack (spec "OrdinaryCallBindThis"). Split out from prepareCall
// so a generator/async body — whose execution context is pushed and
// popped once per resumption, not once per call — can build its
// long-lived environment a single time and still drive the stack itself.
func (ev *Evaluator) buildFunctionContext(fn *runtime.Object, data *functionData, thisArg runtime.Value, newTarget *runtime.Object) (*Context, runtime.Completion) {
	status := runtime.ThisInitialized
	if data.thisMode != thisLexical && data.isDerivedConstructor {
		status = runtime.ThisUninitialized
	}
	funcEnv := runtime.NewFunctionEnvironment(data.env, fn, newTarget, status)
	if data.homeObject != nil {
		funcEnv.SetHomeObject(data.homeObject)
	}
	// a derived constructor's `this` stays uninitialised until its body's
	// `super(...)` call binds it (spec "EvaluateBody" for derived classes).
	if data.thisMode != thisLexical && !data.isDerivedConstructor {
		bound := thisArg
		if data.thisMode == thisGlobal {
			if runtime.IsNullOrUndefined(thisArg) {
				bound = ev.Realm.GlobalObject
			} else if o, c := runtime.ToObjectValue(thisArg); !c.IsAbrupt() {
				bound = o
			}
		}
		if c := funcEnv.BindThisValue(bound); c.IsAbrupt() {
			return nil, c
		}
	}

	execCtx := &realm.ExecutionContext{
		Function: fn, Realm: ev.Realm,
		LexicalEnvironment: funcEnv, VariableEnvironment: funcEnv,
		PrivateEnvironment: data.privateEnv,
	}
	return &Context{
		Exec: execCtx, Lexical: funcEnv, Variable: funcEnv,
		Strict: data.strict, HomeObject: data.homeObject,
	}, runtime.Completion{}
}

// finishFunctionContext declares and initializes parameters, then hoists
// the body's var/function declarations (spec
// "FunctionDeclarationInstantiation", collapsed with parameter binding
// since this evaluator doesn't separate a parameter environment from the
// body's variable environment). Hoisted function declarations close over
// the function environment (c.Lexical), not over c.Exec, so c.Exec need
// not be on the context stack when this runs.
func (ev *Evaluator) finishFunctionContext(c *Context, data *functionData, args []runtime.Value) runtime.Completion {
	funcEnv := c.Lexical.(*runtime.FunctionEnvironment)
	if bc := ev.bindParameters(funcEnv, data.params, args); bc.IsAbrupt() {
		return bc
	}
	// arrow functions have no `arguments` of their own (spec
	// "FunctionDeclarationInstantiation" step 18: skipped when thisMode is
	// lexical); every other kind gets one unless a parameter already claims
	// the identifier (var and function names are hoisted after this).
	if data.thisMode != thisLexical {
		if bc := ev.bindArgumentsObject(funcEnv, data, args); bc.IsAbrupt() {
			return bc
		}
	}
	if data.body != nil {
		if hc := hoistVarNames(funcEnv, data.body.Body); hc.IsAbrupt() {
			return hc
		}
		if hc := ev.hoistFunctionDeclarations(c, funcEnv, data.body.Body); hc.IsAbrupt() {
			return hc
		}
	}
	return runtime.Completion{}
}

// bindParameters implements FunctionDeclarationInstantiation's parameter
// binding step (spec "IteratorBindingInitialization" for a parameter
// list): declares each parameter name in funcEnv and initializes it from
// args, applying defaults for missing/undefined arguments and collecting
// the remainder into a rest parameter's array.
func (ev *Evaluator) bindParameters(funcEnv *runtime.FunctionEnvironment, params []*ast.Param, args []runtime.Value) runtime.Completion {
	c := &Context{Lexical: funcEnv, Variable: funcEnv, Strict: true}
	for i, p := range params {
		if p.IsRest {
			var rest []runtime.Value
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			proto, _ := ev.Realm.Intrinsic("%Array.prototype%")
			arr := runtime.NewArray(proto, uint32(len(rest)))
			for j, v := range rest {
				arr.RawDefineOwnProperty(runtime.NewString(uint32ToString(uint32(j))), runtime.NewDataDescriptor(v, true, true, true))
			}
			if dc := ev.declareParam(c, p.Pattern, arr); dc.IsAbrupt() {
				return dc
			}
			return runtime.Completion{}
		}

		var v runtime.Value = runtime.Undefined
		if i < len(args) {
			v = args[i]
		}
		if runtime.IsUndefined(v) && p.Default != nil {
			dc := ev.EvalExpression(c, p.Default)
			if dc.IsAbrupt() {
				return dc
			}
			v = dc.Value
			if ident, ok := p.Pattern.(*ast.Identifier); ok {
				v = namedEvaluation(v, ident.Name)
			}
		}
		if dc := ev.declareParam(c, p.Pattern, v); dc.IsAbrupt() {
			return dc
		}
	}
	return runtime.Completion{}
}

// bindArgumentsObject creates and binds `arguments` in funcEnv (spec
// "FunctionDeclarationInstantiation" steps 18/33): mapped, live-linked to
// the formal parameters, for a sloppy-mode function with a simple
// parameter list; unmapped otherwise. A parameter named "arguments" wins
// instead (the only binding that can exist yet when this runs), matching
// the spec's "skip if already bound" check.
func (ev *Evaluator) bindArgumentsObject(funcEnv *runtime.FunctionEnvironment, data *functionData, args []runtime.Value) runtime.Completion {
	has, hc := funcEnv.HasBinding("arguments")
	if hc.IsAbrupt() {
		return hc
	}
	if has {
		return runtime.Completion{}
	}

	objectProto := ev.Realm.Intrinsics["%Object.prototype%"]
	values := append([]runtime.Value(nil), args...)
	iterFn := runtime.NewOrdinaryObject(ev.Realm.Intrinsics["%Function.prototype%"])
	iterFn.Kind = runtime.KindFunction
	iterFn.Call = func(runtime.Value, []runtime.Value) runtime.Completion {
		return runtime.NormalCompletion(ev.newArgumentsIterator(values))
	}

	var argsObj *runtime.Object
	if !data.strict && isSimpleParameterList(data.params) {
		pmap := runtime.NewParameterMap(mappedParamNames(data.params),
			func(name string) (runtime.Value, runtime.Completion) {
				return funcEnv.GetBindingValue(name, false)
			},
			func(name string, v runtime.Value) runtime.Completion {
				return funcEnv.SetMutableBinding(name, v, false)
			},
		)
		argsObj = runtime.NewMappedArguments(objectProto, args, iterFn, pmap)
	} else {
		argsObj = runtime.NewUnmappedArguments(objectProto, args, iterFn)
	}

	if cc := funcEnv.CreateMutableBinding("arguments", false); cc.IsAbrupt() {
		return cc
	}
	return funcEnv.InitializeBinding("arguments", argsObj)
}

// newArgumentsIterator builds the plain positional iterator `arguments`'
// @@iterator returns: CreateArrayIterator's single-pass "values" form,
// closing over a snapshot taken at call time.
func (ev *Evaluator) newArgumentsIterator(values []runtime.Value) *runtime.Object {
	iter := runtime.NewOrdinaryObject(ev.Realm.Intrinsics["%IteratorPrototype%"])
	index := 0
	installMethod(iter, "next", 0, func(runtime.Value, []runtime.Value) runtime.Completion {
		if index >= len(values) {
			return ev.createIterResultObject(runtime.Undefined, true)
		}
		v := values[index]
		index++
		return ev.createIterResultObject(v, false)
	})
	return iter
}

// isSimpleParameterList reports whether every parameter is a plain
// identifier with no default and no rest marker (spec "IsSimpleParameterList").
func isSimpleParameterList(params []*ast.Param) bool {
	for _, p := range params {
		if p.IsRest || p.Default != nil {
			return false
		}
		if _, ok := p.Pattern.(*ast.Identifier); !ok {
			return false
		}
	}
	return true
}

// mappedParamNames builds the index -> name table NewParameterMap keeps in
// sync with a mapped arguments object; only called once isSimpleParameterList
// holds, so every pattern is an *ast.Identifier.
func mappedParamNames(params []*ast.Param) map[uint32]string {
	names := make(map[uint32]string, len(params))
	for i, p := range params {
		names[uint32(i)] = p.Pattern.(*ast.Identifier).Name
	}
	return names
}

// declareParam creates a mutable binding for every name pattern binds
// (spec "BindingInitialization" requires the binding to already exist
// before InitializeBinding runs) and then initializes it from v.
func (ev *Evaluator) declareParam(c *Context, pattern ast.Expression, v runtime.Value) runtime.Completion {
	env := c.Lexical
	for _, name := range ast.BoundNames(pattern) {
		has, hc := env.HasBinding(name)
		if hc.IsAbrupt() {
			return hc
		}
		if has {
			continue
		}
		if cc := env.CreateMutableBinding(name, false); cc.IsAbrupt() {
			return cc
		}
	}
	return ev.bindingInitialize(c, pattern, v, ast.VarLet)
}

// callFunction runs a synchronous (non-generator, non-async) function
// body to completion (spec "OrdinaryCallEvaluateBody" for the synchronous
// case): Return unwraps to its value, Throw propagates, Normal yields
// undefined.
func (ev *Evaluator) callFunction(fn *runtime.Object, data *functionData, thisArg runtime.Value, args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
	c, pc := ev.prepareCall(fn, data, thisArg, args, newTarget)
	if pc.IsAbrupt() {
		return pc
	}
	defer ev.Realm.Agent.Contexts.Pop()

	if data.conciseBody != nil {
		return ev.EvalExpression(c, data.conciseBody)
	}
	result := ev.evalStatementList(c, data.body.Body)
	switch result.Type {
	case runtime.Return:
		return runtime.NormalCompletion(result.Value)
	case runtime.Throw:
		return result
	default:
		return runtime.NormalCompletion(runtime.Undefined)
	}
}

// callDerivedConstructor runs a derived class constructor's body, whose
// `super(...)` call (spec "SuperCall: Evaluation") allocates the instance,
// binds it as `this`, and runs field initializers partway through — this
// function's job is just to read that binding back out once the body
// settles, since the body itself never receives a pre-built `this`.
func (ev *Evaluator) callDerivedConstructor(fn *runtime.Object, data *functionData, args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
	c, pc := ev.prepareCall(fn, data, runtime.Undefined, args, newTarget)
	if pc.IsAbrupt() {
		return pc
	}
	defer ev.Realm.Agent.Contexts.Pop()

	var result runtime.Completion
	if data.conciseBody != nil {
		result = ev.EvalExpression(c, data.conciseBody)
	} else {
		result = ev.evalStatementList(c, data.body.Body)
	}
	if result.Type == runtime.Throw {
		return result
	}
	if result.Type == runtime.Return {
		if o, ok := result.Value.(*runtime.Object); ok {
			return runtime.NormalCompletion(o)
		}
		if !runtime.IsUndefined(result.Value) {
			return runtime.Throw(runtime.NewTypeError("derived class constructor's explicit return value must be an object or undefined"))
		}
	}
	funcEnv := c.Lexical.(*runtime.FunctionEnvironment)
	thisVal, tc := funcEnv.GetThisBinding()
	if tc.IsAbrupt() {
		return tc
	}
	return runtime.NormalCompletion(thisVal)
}

// constructFunction implements the default [[Construct]] behavior for an
// ordinary function used as a constructor (spec "OrdinaryCreateFromConstructor"
// + the constructor-body convention: an explicit object Return overrides
// the freshly allocated `this`).
func (ev *Evaluator) constructFunction(fn *runtime.Object, data *functionData, args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
	if data.isDerivedConstructor {
		return ev.callDerivedConstructor(fn, data, args, newTarget)
	}

	protoVal, c := newTarget.Get_(runtime.NewString("prototype"), newTarget)
	if c.IsAbrupt() {
		return c
	}
	proto, _ := protoVal.(*runtime.Object)
	if proto == nil {
		proto = ev.Realm.Intrinsics["%Object.prototype%"]
	}
	instance := runtime.NewOrdinaryObject(proto)

	if c := ev.initializeInstanceFields(data, instance); c.IsAbrupt() {
		return c
	}

	result := ev.callFunction(fn, data, instance, args, newTarget)
	if result.IsAbrupt() {
		return result
	}
	if o, ok := result.Value.(*runtime.Object); ok {
		return runtime.NormalCompletion(o)
	}
	return runtime.NormalCompletion(instance)
}

func (ev *Evaluator) initializeInstanceFields(data *functionData, instance *runtime.Object) runtime.Completion {
	// instance private methods/accessors are precomputed once at class
	// definition (they share no per-instance state); each instance just
	// gets its own PrivateElement entry pointing at the shared function.
	for _, tmpl := range data.instancePrivateElements {
		clone := *tmpl
		instance.PrivateElements = append(instance.PrivateElements, &clone)
	}
	if len(data.fields) == 0 {
		return runtime.Completion{}
	}
	fieldEnv := runtime.NewFunctionEnvironment(data.env, nil, nil, runtime.ThisInitialized)
	if bc := fieldEnv.BindThisValue(instance); bc.IsAbrupt() {
		return bc
	}
	if data.homeObject != nil {
		fieldEnv.SetHomeObject(data.homeObject)
	}
	fieldCtx := &Context{
		Exec:     &realm.ExecutionContext{Realm: ev.Realm, PrivateEnvironment: data.privateEnv},
		Lexical:  fieldEnv, Variable: fieldEnv, Strict: data.strict, HomeObject: data.homeObject,
	}
	for _, el := range data.fields {
		var key runtime.PropertyKey
		if priv, ok := el.Key.(*ast.PrivateIdentifier); ok {
			pn := resolvePrivateName(fieldCtx, priv.Name)
			if pn == nil {
				return runtime.Throw(runtime.NewSyntaxError("private field '#" + priv.Name + "' must be declared in an enclosing class"))
			}
			var v runtime.Value = runtime.Undefined
			if el.Value != nil {
				initC := ev.EvalExpression(fieldCtx, el.Value)
				if initC.IsAbrupt() {
					return initC
				}
				v = initC.Value
			}
			instance.PrivateElements = append(instance.PrivateElements, &runtime.PrivateElement{Key: pn, Kind: runtime.PrivateField, Value: v})
			continue
		}
		k, c := ev.evalPropertyKey(fieldCtx, el.Key, el.Computed)
		if c.IsAbrupt() {
			return c
		}
		key = k
		var v runtime.Value = runtime.Undefined
		if el.Value != nil {
			initC := ev.EvalExpression(fieldCtx, el.Value)
			if initC.IsAbrupt() {
				return initC
			}
			if s, ok := key.(runtime.String); ok {
				v = namedEvaluation(initC.Value, s.GoString())
			} else {
				v = initC.Value
			}
		}
		instance.RawDefineOwnProperty(key, runtime.NewDataDescriptor(v, true, true, true))
	}
	return runtime.Completion{}
}
