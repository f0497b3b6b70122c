package evaluator

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/module"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

// NewModuleLoader builds a module.Loader wired to this evaluator: every
// record it produces hoists declarations and executes its body through the
// same tree-walking machinery as a script, modules always running in strict
// mode (spec §4.7) with their own ModuleEnvironment instead of the global
// one.
func (ev *Evaluator) NewModuleLoader(fetch module.Fetch) *module.Loader {
	return module.NewLoader(ev.Realm, fetch, ev.moduleDeclarationInstantiation, ev.executeModule)
}

// EvalModule loads (if not already), links, and evaluates specifier via
// loader, returning the settled completion of the whole dependency graph
// (spec §4.7 entry point — the module-system analogue of EvalProgram).
func (ev *Evaluator) EvalModule(loader *module.Loader, specifier string) runtime.Completion {
	rec, lc := loader.Load("", specifier)
	if lc.IsAbrupt() {
		return lc
	}
	if lc := module.Link(rec); lc.IsAbrupt() {
		return lc
	}
	return module.Evaluate(rec)
}

// moduleContext builds the Context a module's declaration-instantiation and
// body-execution both evaluate against: its own ModuleEnvironment serving
// as both LexicalEnvironment and VariableEnvironment, always strict.
func (ev *Evaluator) moduleContext(rec *module.CyclicModuleRecord) *Context {
	execCtx := &realm.ExecutionContext{
		Realm:               ev.Realm,
		ScriptOrModule:      rec,
		LexicalEnvironment:  rec.Environment,
		VariableEnvironment: rec.Environment,
	}
	return &Context{
		Exec: execCtx, Lexical: rec.Environment, Variable: rec.Environment, Strict: true,
	}
}

// moduleEffectiveStatements unwraps export-decorated declarations (`export
// let x`, `export function f(){}`, `export default class C {}`, ...) into
// the plain statement static semantics (BoundNames/VarScopedDeclarations/
// LexicallyDeclaredNames) already know how to walk, since those helpers
// operate on the declaration shape itself and have no notion of the
// export/import wrapper nodes modules add on top.
func moduleEffectiveStatements(body []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(body))
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.ExportNamedDeclaration:
			if s.Declaration != nil {
				out = append(out, s.Declaration)
			}
		case *ast.ExportDefaultDeclaration:
			if decl, ok := s.Declaration.(ast.Statement); ok {
				out = append(out, decl)
			}
		case *ast.ImportDeclaration, *ast.ExportAllDeclaration:
			// no var/lexical names of their own
		default:
			out = append(out, stmt)
		}
	}
	return out
}

// moduleDeclarationInstantiation hoists a module's lexical, var, and
// function declarations into rec.Environment (spec "InitializeEnvironment"'s
// declaration half, §4.7), additionally reserving the synthetic "*default*"
// binding an anonymous `export default <expr-or-class>` needs (spec
// "ExportDeclarationInstantiation").
func (ev *Evaluator) moduleDeclarationInstantiation(rec *module.CyclicModuleRecord) runtime.Completion {
	c := ev.moduleContext(rec)
	env := rec.Environment
	effective := moduleEffectiveStatements(rec.Body)

	for _, name := range ast.LexicallyDeclaredNames(effective) {
		isConst := false
		for _, stmt := range effective {
			if vd, ok := stmt.(*ast.VariableDeclaration); ok && vd.Kind == ast.VarConst {
				for _, n := range ast.BoundNames(vd) {
					if n == name {
						isConst = true
					}
				}
			}
		}
		var hc runtime.Completion
		if isConst {
			hc = env.CreateImmutableBinding(name, true)
		} else {
			hc = env.CreateMutableBinding(name, false)
		}
		if hc.IsAbrupt() {
			return hc
		}
	}

	if hc := hoistVarNames(env, effective); hc.IsAbrupt() {
		return hc
	}
	if hc := ev.hoistFunctionDeclarations(c, env, effective); hc.IsAbrupt() {
		return hc
	}

	for _, stmt := range rec.Body {
		ed, ok := stmt.(*ast.ExportDefaultDeclaration)
		if !ok {
			continue
		}
		switch d := ed.Declaration.(type) {
		case *ast.FunctionDeclaration:
			if d.ID == nil {
				fn := ev.instantiateFunctionDeclaration(c, d)
				if hc := env.CreateImmutableBinding("*default*", false); hc.IsAbrupt() {
					return hc
				}
				if hc := env.InitializeBinding("*default*", fn); hc.IsAbrupt() {
					return hc
				}
			}
		case *ast.ClassDeclaration:
			if d.ID == nil {
				if hc := env.CreateImmutableBinding("*default*", false); hc.IsAbrupt() {
					return hc
				}
			}
		default:
			if hc := env.CreateImmutableBinding("*default*", false); hc.IsAbrupt() {
				return hc
			}
		}
	}
	return runtime.Completion{}
}

// executeModule runs rec.Body as an async-capable top-level body the same
// way an async function's body runs (spec §4.7's module evaluation is
// itself allowed to suspend on `await`, so it reuses the Coroutine/
// driveAsync machinery rather than duplicating it for one caller).
func (ev *Evaluator) executeModule(rec *module.CyclicModuleRecord) *runtime.Object {
	c := ev.moduleContext(rec)
	capability := ev.Realm.NewPromiseCapability()

	co := newCoroutine()
	c.Coroutine = co
	c.Exec.CodeEvaluationState = co
	co.start(func() runtime.Completion {
		return ev.evalModuleBody(c, rec)
	})

	ev.driveAsync(co, c.Exec, capability, resumeMsg{kind: resumeNext, value: runtime.Undefined})
	return capability.Promise
}

// evalModuleBody runs a module's statement list, additionally evaluating
// `export default <expr>`/`export default class ...` declarations (which
// need to run their initializer and populate the "*default*" binding
// moduleDeclarationInstantiation reserved) and skipping the import/export
// wrapper statements that carry no runtime behavior of their own.
func (ev *Evaluator) evalModuleBody(c *Context, rec *module.CyclicModuleRecord) runtime.Completion {
	for _, stmt := range rec.Body {
		var result runtime.Completion
		switch s := stmt.(type) {
		case *ast.ImportDeclaration, *ast.ExportAllDeclaration:
			continue
		case *ast.ExportNamedDeclaration:
			if s.Declaration == nil {
				continue
			}
			result = ev.EvalStatement(c, s.Declaration)
		case *ast.ExportDefaultDeclaration:
			result = ev.evalExportDefault(c, s)
		default:
			result = ev.EvalStatement(c, stmt)
		}
		if result.IsAbrupt() {
			return result
		}
	}
	return runtime.NormalCompletion(runtime.Undefined)
}

func (ev *Evaluator) evalExportDefault(c *Context, ed *ast.ExportDefaultDeclaration) runtime.Completion {
	switch d := ed.Declaration.(type) {
	case *ast.FunctionDeclaration:
		return runtime.NormalCompletion(runtime.Empty) // bound by hoisting
	case *ast.ClassDeclaration:
		fn, cc := ev.evalClass(c, d.ID, d.SuperClass, d.Body)
		if cc.IsAbrupt() {
			return cc
		}
		name := "*default*"
		if d.ID != nil {
			name = d.ID.Name
		}
		if hc := c.Lexical.InitializeBinding(name, fn); hc.IsAbrupt() {
			return hc
		}
		return runtime.NormalCompletion(runtime.Empty)
	default:
		expr, ok := ed.Declaration.(ast.Expression)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("invalid export default declaration"))
		}
		vc := ev.EvalExpression(c, expr)
		if vc.IsAbrupt() {
			return vc
		}
		if hc := c.Lexical.InitializeBinding("*default*", vc.Value); hc.IsAbrupt() {
			return hc
		}
		return runtime.NormalCompletion(runtime.Empty)
	}
}
