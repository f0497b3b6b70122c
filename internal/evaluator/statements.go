package evaluator

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/runtime"
)

// EvalStatement dispatches one statement node to its evaluation rule (spec
// §4.5). Labels carried by c apply only to the statement actually passed in
// — every branch that recurses into a non-labelled child resets them via
// withLabels(nil).
func (ev *Evaluator) EvalStatement(c *Context, stmt ast.Statement) runtime.Completion {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		v := ev.EvalExpression(c, s.Expression)
		if v.IsAbrupt() {
			return v
		}
		return runtime.NormalCompletion(v.Value)

	case *ast.BlockStatement:
		return ev.evalBlock(c, s.Body)

	case *ast.EmptyStatement, *ast.DebuggerStatement:
		return runtime.NormalCompletion(runtime.Empty)

	case *ast.VariableDeclaration:
		return ev.evalVariableDeclaration(c, s)

	case *ast.FunctionDeclaration:
		return runtime.NormalCompletion(runtime.Empty) // already bound by hoisting

	case *ast.ClassDeclaration:
		return ev.evalClassDeclaration(c, s)

	case *ast.IfStatement:
		return ev.evalIf(c, s)

	case *ast.WhileStatement:
		return ev.evalWhile(c, s)

	case *ast.DoWhileStatement:
		return ev.evalDoWhile(c, s)

	case *ast.ForStatement:
		return ev.evalFor(c, s)

	case *ast.ForInStatement:
		return ev.evalForIn(c, s)

	case *ast.ForOfStatement:
		return ev.evalForOf(c, s)

	case *ast.BreakStatement:
		return runtime.BreakCompletion(s.Label)

	case *ast.ContinueStatement:
		return runtime.ContinueCompletion(s.Label)

	case *ast.ReturnStatement:
		if s.Argument == nil {
			return runtime.ReturnCompletion(runtime.Undefined)
		}
		v := ev.EvalExpression(c, s.Argument)
		if v.IsAbrupt() {
			return v
		}
		return runtime.ReturnCompletion(v.Value)

	case *ast.ThrowStatement:
		v := ev.EvalExpression(c, s.Argument)
		if v.IsAbrupt() {
			return v
		}
		return runtime.Completion{Type: runtime.Throw, Value: v.Value}

	case *ast.TryStatement:
		return ev.evalTry(c, s)

	case *ast.SwitchStatement:
		return ev.evalSwitch(c, s)

	case *ast.LabeledStatement:
		return ev.evalLabeled(c, s)

	default:
		return runtime.Throw(runtime.NewTypeError("unsupported statement node"))
	}
}

// evalBlock runs a statement list inside its own declarative environment
// (spec §4.2 "BlockDeclarationInstantiation"): a loop/labelled-statement
// break/continue that targets a label outside this block still propagates
// normally since those completions simply pass through unchanged.
func (ev *Evaluator) evalBlock(c *Context, body []ast.Statement) runtime.Completion {
	env, hc := ev.blockDeclarationInstantiation(c.Lexical, body)
	if hc.IsAbrupt() {
		return hc
	}
	inner := c.withEnv(env).withLabels(nil)
	for _, stmt := range body {
		if fd, ok := stmt.(*ast.FunctionDeclaration); ok && fd.ID != nil {
			fn := ev.instantiateFunctionDeclaration(inner, fd)
			if hc := env.InitializeBinding(fd.ID.Name, fn); hc.IsAbrupt() {
				return hc
			}
		}
	}
	return ev.evalStatementList(inner, body)
}

func (ev *Evaluator) evalVariableDeclaration(c *Context, vd *ast.VariableDeclaration) runtime.Completion {
	for _, decl := range vd.Declarations {
		var v runtime.Value = runtime.Undefined
		if decl.Init != nil {
			vc := ev.EvalExpression(c, decl.Init)
			if vc.IsAbrupt() {
				return vc
			}
			v = vc.Value
			if id, ok := decl.ID.(*ast.Identifier); ok {
				v = namedEvaluation(v, id.Name)
			}
		} else if vd.Kind == ast.VarVar {
			continue // re-evaluating an uninitialised `var` must not clobber an existing value
		}
		if bc := ev.bindingInitialize(c, decl.ID, v, vd.Kind); bc.IsAbrupt() {
			return bc
		}
	}
	return runtime.NormalCompletion(runtime.Empty)
}

// namedEvaluation gives an anonymous function/class expression its variable
// name (spec "NamedEvaluation") when assigned directly to a simple
// identifier binding.
func namedEvaluation(v runtime.Value, name string) runtime.Value {
	fn, ok := v.(*runtime.Object)
	if !ok || !fn.IsCallable() {
		return v
	}
	if nameVal, _ := fn.Get_(runtime.NewString("name"), fn); !runtime.IsUndefined(nameVal) {
		if s, ok := nameVal.(runtime.String); ok && s.GoString() != "" {
			return v
		}
	}
	fn.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString(name), false, false, true))
	return v
}

// bindingInitialize assigns v to target, which is either a simple
// identifier or a destructuring pattern, using var-assignment semantics for
// `var` (PutValue against the existing binding) and initialize semantics
// for let/const/function-parameter bindings.
func (ev *Evaluator) bindingInitialize(c *Context, target ast.Expression, v runtime.Value, kind ast.VariableKind) runtime.Completion {
	switch t := target.(type) {
	case *ast.Identifier:
		if kind == ast.VarVar {
			ref, rc := resolveBinding(c.Lexical, t.Name, c.Strict)
			if rc.IsAbrupt() {
				return rc
			}
			return ref.PutValue(v, ev.Realm.GlobalObject)
		}
		return c.Lexical.InitializeBinding(t.Name, v)
	case *ast.ArrayExpression:
		return ev.destructureArray(c, t, v, kind)
	case *ast.ObjectExpression:
		return ev.destructureObject(c, t, v, kind)
	default:
		return runtime.Throw(runtime.NewTypeError("invalid binding target"))
	}
}

func (ev *Evaluator) evalClassDeclaration(c *Context, cd *ast.ClassDeclaration) runtime.Completion {
	ctor, cc := ev.evalClass(c, cd.ID, cd.SuperClass, cd.Body)
	if cc.IsAbrupt() {
		return cc
	}
	if cd.ID != nil {
		if ic := c.Lexical.InitializeBinding(cd.ID.Name, ctor); ic.IsAbrupt() {
			return ic
		}
	}
	return runtime.NormalCompletion(runtime.Empty)
}

func (ev *Evaluator) evalIf(c *Context, s *ast.IfStatement) runtime.Completion {
	tc := ev.EvalExpression(c, s.Test)
	if tc.IsAbrupt() {
		return tc
	}
	if runtime.ToBoolean(tc.Value) {
		return runtime.UpdateEmpty(ev.EvalStatement(c.withLabels(nil), s.Consequent), runtime.Undefined)
	}
	if s.Alternate != nil {
		return runtime.UpdateEmpty(ev.EvalStatement(c.withLabels(nil), s.Alternate), runtime.Undefined)
	}
	return runtime.NormalCompletion(runtime.Empty)
}

// loopResult folds one iteration's completion into a running loop value,
// reporting whether the loop should stop (spec's repeated "LoopContinues"
// check collapsed into one helper shared by every iteration statement).
func loopResult(c *Context, body runtime.Completion, value runtime.Value) (runtime.Value, runtime.Completion, bool) {
	if body.Type == runtime.Break {
		if body.Target == "" || labelMatches(c.Labels, body.Target) {
			return value, runtime.Completion{}, true
		}
		return value, body, true
	}
	if body.Type == runtime.Continue {
		if body.Target == "" || labelMatches(c.Labels, body.Target) {
			return body.Value, runtime.Completion{}, false
		}
		return value, body, true
	}
	if body.IsAbrupt() {
		return value, body, true
	}
	if !runtime.IsEmpty(body.Value) {
		value = body.Value
	}
	return value, runtime.Completion{}, false
}

func labelMatches(labels []string, target string) bool {
	for _, l := range labels {
		if l == target {
			return true
		}
	}
	return false
}

func (ev *Evaluator) evalWhile(c *Context, s *ast.WhileStatement) runtime.Completion {
	var value runtime.Value = runtime.Undefined
	for {
		tc := ev.EvalExpression(c, s.Test)
		if tc.IsAbrupt() {
			return tc
		}
		if !runtime.ToBoolean(tc.Value) {
			break
		}
		body := ev.EvalStatement(c.withLabels(nil), s.Body)
		v, stop, done := loopResult(c, body, value)
		value = v
		if stop.IsAbrupt() {
			return stop
		}
		if done {
			break
		}
	}
	return runtime.NormalCompletion(value)
}

func (ev *Evaluator) evalDoWhile(c *Context, s *ast.DoWhileStatement) runtime.Completion {
	var value runtime.Value = runtime.Undefined
	for {
		body := ev.EvalStatement(c.withLabels(nil), s.Body)
		v, stop, done := loopResult(c, body, value)
		value = v
		if stop.IsAbrupt() {
			return stop
		}
		if done {
			break
		}
		tc := ev.EvalExpression(c, s.Test)
		if tc.IsAbrupt() {
			return tc
		}
		if !runtime.ToBoolean(tc.Value) {
			break
		}
	}
	return runtime.NormalCompletion(value)
}

func (ev *Evaluator) evalFor(c *Context, s *ast.ForStatement) runtime.Completion {
	loopEnv := c.Lexical
	var loopDecl *ast.VariableDeclaration
	if vd, ok := s.Init.(*ast.VariableDeclaration); ok && vd.Kind != ast.VarVar {
		loopDecl = vd
		env, hc := ev.blockDeclarationInstantiation(c.Lexical, []ast.Statement{vd})
		if hc.IsAbrupt() {
			return hc
		}
		loopEnv = env
	}
	initCtx := c.withEnv(loopEnv)
	if s.Init != nil {
		var ic runtime.Completion
		if vd, ok := s.Init.(*ast.VariableDeclaration); ok {
			ic = ev.evalVariableDeclaration(initCtx, vd)
		} else if expr, ok := s.Init.(ast.Expression); ok {
			ic = ev.EvalExpression(initCtx, expr)
		}
		if ic.IsAbrupt() {
			return ic
		}
	}

	var value runtime.Value = runtime.Undefined
	bodyCtx := initCtx.withLabels(nil)
	for {
		if loopDecl != nil {
			// per-iteration bindings: copy the previous iteration's env into a
			// fresh one (spec "CreatePerIterationEnvironment") so closures
			// created inside the body each capture their own loop variable.
			fresh, hc := ev.blockDeclarationInstantiation(c.Lexical, []ast.Statement{loopDecl})
			if hc.IsAbrupt() {
				return hc
			}
			for _, name := range ast.BoundNames(loopDecl) {
				v, gc := bodyCtx.Lexical.GetBindingValue(name, false)
				if gc.IsAbrupt() {
					return gc
				}
				if ic := fresh.InitializeBinding(name, v); ic.IsAbrupt() {
					return ic
				}
			}
			bodyCtx = bodyCtx.withEnv(fresh)
		}
		if s.Test != nil {
			tc := ev.EvalExpression(bodyCtx, s.Test)
			if tc.IsAbrupt() {
				return tc
			}
			if !runtime.ToBoolean(tc.Value) {
				break
			}
		}
		body := ev.EvalStatement(bodyCtx.withLabels(nil), s.Body)
		v, stop, done := loopResult(c, body, value)
		value = v
		if stop.IsAbrupt() {
			return stop
		}
		if done {
			break
		}
		if s.Update != nil {
			uc := ev.EvalExpression(bodyCtx, s.Update)
			if uc.IsAbrupt() {
				return uc
			}
		}
	}
	return runtime.NormalCompletion(value)
}

func (ev *Evaluator) evalForIn(c *Context, s *ast.ForInStatement) runtime.Completion {
	rc := ev.EvalExpression(c, s.Right)
	if rc.IsAbrupt() {
		return rc
	}
	if runtime.IsNullOrUndefined(rc.Value) {
		return runtime.NormalCompletion(runtime.Undefined)
	}
	obj, oc := ev.Realm.ToObject(rc.Value)
	if oc.IsAbrupt() {
		return oc
	}
	var value runtime.Value = runtime.Undefined
	visited := map[runtime.PropertyKey]bool{}
	for o := obj; o != nil; {
		keys, kc := o.OwnPropertyKeys()
		if kc.IsAbrupt() {
			return kc
		}
		for _, key := range keys {
			str, ok := key.(runtime.String)
			if !ok || visited[key] {
				continue
			}
			visited[key] = true
			desc, dc := o.GetOwnProperty(key)
			if dc.IsAbrupt() {
				return dc
			}
			if desc == nil || !desc.Enumerable {
				continue
			}
			iterCtx, ic := ev.forEachBindingContext(c, s.Left, str)
			if ic.IsAbrupt() {
				return ic
			}
			body := ev.EvalStatement(iterCtx.withLabels(nil), s.Body)
			v, stop, done := loopResult(c, body, value)
			value = v
			if stop.IsAbrupt() {
				return stop
			}
			if done {
				return runtime.NormalCompletion(value)
			}
		}
		next, pc := o.GetPrototypeOf()
		if pc.IsAbrupt() {
			return pc
		}
		o = next
	}
	return runtime.NormalCompletion(value)
}

func (ev *Evaluator) evalForOf(c *Context, s *ast.ForOfStatement) runtime.Completion {
	rc := ev.EvalExpression(c, s.Right)
	if rc.IsAbrupt() {
		return rc
	}
	iter, ic := runtime.GetIterator(rc.Value, !s.Await)
	if ic.IsAbrupt() {
		return ic
	}
	var value runtime.Value = runtime.Undefined
	for {
		step, sc := runtime.IteratorStep(iter, nil)
		if sc.IsAbrupt() {
			return sc
		}
		if step == nil {
			break
		}
		itemVal, vc := runtime.IteratorValue(step)
		if vc.IsAbrupt() {
			runtime.IteratorClose(iter, vc)
			return vc
		}
		iterCtx, bc := ev.forEachBindingContext(c, s.Left, itemVal)
		if bc.IsAbrupt() {
			runtime.IteratorClose(iter, bc)
			return bc
		}
		body := ev.EvalStatement(iterCtx.withLabels(nil), s.Body)
		v, stop, done := loopResult(c, body, value)
		value = v
		if done {
			if stop.IsAbrupt() {
				runtime.IteratorClose(iter, stop)
				return stop
			}
			runtime.IteratorClose(iter, runtime.NormalCompletion(runtime.Undefined))
			return runtime.NormalCompletion(value)
		}
	}
	return runtime.NormalCompletion(value)
}

// forEachBindingContext assigns v to a for-in/for-of loop's left-hand side,
// returning a Context carrying a fresh per-iteration environment when Left
// declares a lexical binding.
func (ev *Evaluator) forEachBindingContext(c *Context, left ast.Node, v runtime.Value) (*Context, runtime.Completion) {
	if vd, ok := left.(*ast.VariableDeclaration); ok {
		target := vd.Declarations[0].ID
		if vd.Kind == ast.VarVar {
			bc := ev.bindingInitialize(c, target, v, ast.VarVar)
			return c, bc
		}
		env, hc := ev.blockDeclarationInstantiation(c.Lexical, nil)
		if hc.IsAbrupt() {
			return nil, hc
		}
		for _, name := range ast.BoundNames(target) {
			var bc runtime.Completion
			if vd.Kind == ast.VarConst {
				bc = env.CreateImmutableBinding(name, false)
			} else {
				bc = env.CreateMutableBinding(name, false)
			}
			if bc.IsAbrupt() {
				return nil, bc
			}
		}
		inner := c.withEnv(env)
		if bc := ev.bindingInitialize(inner, target, v, vd.Kind); bc.IsAbrupt() {
			return nil, bc
		}
		return inner, runtime.Completion{}
	}
	expr := left.(ast.Expression)
	ref, rc := ev.evalReference(c, expr)
	if rc.IsAbrupt() {
		return nil, rc
	}
	return c, ref.PutValue(v, ev.Realm.GlobalObject)
}

func (ev *Evaluator) evalTry(c *Context, s *ast.TryStatement) runtime.Completion {
	result := ev.evalBlock(c, s.Block.Body)
	if result.Type == runtime.Throw && s.Handler != nil {
		result = ev.evalCatch(c, s.Handler, result.Value)
	}
	if s.Finalizer != nil {
		finResult := ev.evalBlock(c, s.Finalizer.Body)
		if finResult.IsAbrupt() {
			return finResult
		}
	}
	return result
}

func (ev *Evaluator) evalCatch(c *Context, h *ast.CatchClause, thrown runtime.Value) runtime.Completion {
	env := runtime.NewDeclarativeEnvironment(c.Lexical)
	inner := c.withEnv(env)
	if h.Param != nil {
		for _, name := range ast.BoundNames(h.Param) {
			if bc := env.CreateMutableBinding(name, false); bc.IsAbrupt() {
				return bc
			}
		}
		if bc := ev.bindingInitialize(inner, h.Param, thrown, ast.VarLet); bc.IsAbrupt() {
			return bc
		}
	}
	return ev.evalBlock(inner, h.Body.Body)
}

func (ev *Evaluator) evalSwitch(c *Context, s *ast.SwitchStatement) runtime.Completion {
	dc := ev.EvalExpression(c, s.Discriminant)
	if dc.IsAbrupt() {
		return dc
	}
	env, hc := ev.blockDeclarationInstantiation(c.Lexical, switchLexicalBody(s.Cases))
	if hc.IsAbrupt() {
		return hc
	}
	inner := c.withEnv(env).withLabels(nil)

	matched := -1
	for i, cs := range s.Cases {
		if cs.Test == nil {
			continue
		}
		tc := ev.EvalExpression(inner, cs.Test)
		if tc.IsAbrupt() {
			return tc
		}
		if strictEquals(dc.Value, tc.Value) {
			matched = i
			break
		}
	}
	if matched == -1 {
		for i, cs := range s.Cases {
			if cs.Test == nil {
				matched = i
				break
			}
		}
	}
	if matched == -1 {
		return runtime.NormalCompletion(runtime.Undefined)
	}

	var value runtime.Value = runtime.Undefined
	for i := matched; i < len(s.Cases); i++ {
		result := ev.evalStatementList(inner, s.Cases[i].Consequent)
		if result.Type == runtime.Break && result.Target == "" {
			return runtime.NormalCompletion(value)
		}
		if result.IsAbrupt() {
			return result
		}
		if !runtime.IsEmpty(result.Value) {
			value = result.Value
		}
	}
	return runtime.NormalCompletion(value)
}

func switchLexicalBody(cases []*ast.SwitchCase) []ast.Statement {
	var body []ast.Statement
	for _, cs := range cases {
		body = append(body, cs.Consequent...)
	}
	return body
}

func (ev *Evaluator) evalLabeled(c *Context, s *ast.LabeledStatement) runtime.Completion {
	labels := append(append([]string{}, c.Labels...), s.Label)
	result := ev.EvalStatement(c.withLabels(labels), s.Body)
	if result.Type == runtime.Break && result.Target == s.Label {
		return runtime.NormalCompletion(result.Value)
	}
	return result
}
