package evaluator

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/runtime"
)

// globalDeclarationInstantiation hoists a script's var-scoped and
// function declarations into the global environment, and creates (but
// does not initialise) lexical bindings for let/const/class — a
// simplified GlobalDeclarationInstantiation (spec §4.4/§9) that skips the
// restricted-global-property and duplicate-declaration conflict checks a
// full parser-integrated engine would have already rejected at parse
// time.
func (ev *Evaluator) globalDeclarationInstantiation(c *Context, body []ast.Statement) runtime.Completion {
	env := c.Lexical.(*runtime.GlobalEnvironment)
	for _, name := range ast.LexicallyDeclaredNames(body) {
		isConst := false
		for _, stmt := range body {
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
	for _, name := range ast.VarScopedDeclarations(body) {
		if hc := env.CreateGlobalVarBinding(name, false); hc.IsAbrupt() {
			return hc
		}
	}
	for _, stmt := range body {
		if fd, ok := stmt.(*ast.FunctionDeclaration); ok && fd.ID != nil {
			fn := ev.instantiateFunctionDeclaration(c, fd)
			if hc := env.CreateGlobalFunctionBinding(fd.ID.Name, fn, false); hc.IsAbrupt() {
				return hc
			}
		}
	}
	return runtime.Completion{}
}

// blockDeclarationInstantiation creates the declarative environment a
// block/switch/catch body's lexical declarations live in (spec §4.2
// "BlockDeclarationInstantiation"): let/const/class bindings, left
// uninitialised (TDZ) until their declaration statement executes;
// function declarations are initialised immediately per Annex-free block
// semantics.
func (ev *Evaluator) blockDeclarationInstantiation(outer runtime.Environment, body []ast.Statement) (runtime.Environment, runtime.Completion) {
	env := runtime.NewDeclarativeEnvironment(outer)
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			if s.Kind == ast.VarVar {
				continue
			}
			for _, name := range ast.BoundNames(s) {
				var c runtime.Completion
				if s.Kind == ast.VarConst {
					c = env.CreateImmutableBinding(name, true)
				} else {
					c = env.CreateMutableBinding(name, false)
				}
				if c.IsAbrupt() {
					return nil, c
				}
			}
		case *ast.ClassDeclaration:
			if s.ID != nil {
				if c := env.CreateMutableBinding(s.ID.Name, false); c.IsAbrupt() {
					return nil, c
				}
			}
		case *ast.FunctionDeclaration:
			if s.ID != nil {
				if c := env.CreateMutableBinding(s.ID.Name, false); c.IsAbrupt() {
					return nil, c
				}
			}
		}
	}
	return env, runtime.Completion{}
}

// hoistVarNames creates (undefined-initialised) var bindings for body's
// var-scoped declarations directly on varEnv, skipping names the
// environment already binds (spec "VarDeclaredNames" hoisting, applied to
// a function body rather than the global environment).
func hoistVarNames(varEnv runtime.Environment, body []ast.Statement) runtime.Completion {
	for _, name := range ast.VarScopedDeclarations(body) {
		has, c := varEnv.HasBinding(name)
		if c.IsAbrupt() {
			return c
		}
		if has {
			continue
		}
		if c := varEnv.CreateMutableBinding(name, false); c.IsAbrupt() {
			return c
		}
		if c := varEnv.InitializeBinding(name, runtime.Undefined); c.IsAbrupt() {
			return c
		}
	}
	return runtime.Completion{}
}

// hoistFunctionDeclarations binds each top-level function declaration in
// body to its eagerly-created closure (spec "InstantiateFunctionObject"),
// letting later statements forward-reference sibling function
// declarations the way `var`-scoped hoisting allows.
func (ev *Evaluator) hoistFunctionDeclarations(c *Context, varEnv runtime.Environment, body []ast.Statement) runtime.Completion {
	for _, stmt := range body {
		fd, ok := stmt.(*ast.FunctionDeclaration)
		if !ok || fd.ID == nil {
			continue
		}
		fn := ev.instantiateFunctionDeclaration(c, fd)
		has, hc := varEnv.HasBinding(fd.ID.Name)
		if hc.IsAbrupt() {
			return hc
		}
		if !has {
			if hc := varEnv.CreateMutableBinding(fd.ID.Name, false); hc.IsAbrupt() {
				return hc
			}
		}
		if hc := varEnv.InitializeBinding(fd.ID.Name, fn); hc.IsAbrupt() {
			return hc
		}
	}
	return runtime.Completion{}
}
