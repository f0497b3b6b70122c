package evaluator

import "github.com/cwbudde/goecma/internal/runtime"

// resolvePrivateName looks up a `#name` reference against the nearest
// enclosing class's private-name scope (spec "ResolvePrivateIdentifier"),
// nil if no such name is in scope (private fields have no dynamic lookup
// fallback the way normal identifiers do).
func resolvePrivateName(c *Context, name string) *runtime.PrivateName {
	if c.Exec == nil || c.Exec.PrivateEnvironment == nil {
		return nil
	}
	pn, ok := c.Exec.PrivateEnvironment.Resolve(name)
	if !ok {
		return nil
	}
	return pn
}

// resolveThis walks the lexical environment chain to the nearest
// this-binding environment (spec "ResolveThisBinding") and extracts its
// value — collapsed into one helper because GetThisBinding's signature
// differs across concrete environment-record types (FunctionEnvironment
// can report ReferenceError for an uninitialised derived-class `this`;
// GlobalEnvironment/ModuleEnvironment never fail).
func resolveThis(env runtime.Environment) runtime.Completion {
	for e := env; e != nil; e = e.Outer() {
		if !e.HasThisBinding() {
			continue
		}
		switch fe := e.(type) {
		case *runtime.FunctionEnvironment:
			v, c := fe.GetThisBinding()
			if c.IsAbrupt() {
				return c
			}
			return runtime.NormalCompletion(v)
		case *runtime.GlobalEnvironment:
			return runtime.NormalCompletion(fe.GetThisBinding())
		case *runtime.ModuleEnvironment:
			return runtime.NormalCompletion(fe.GetThisBinding())
		}
	}
	return runtime.NormalCompletion(runtime.Undefined)
}

// resolveHomeObject returns the super base (the home object's
// [[Prototype]]) of the nearest function environment with a super binding,
// used by `super.prop` member access (spec "GetSuperBase").
func resolveHomeObject(env runtime.Environment) *runtime.Object {
	for e := env; e != nil; e = e.Outer() {
		if fe, ok := e.(*runtime.FunctionEnvironment); ok && fe.HasSuperBinding() {
			base, c := fe.GetSuperBase()
			if c.IsAbrupt() {
				return nil
			}
			if o, ok := base.(*runtime.Object); ok {
				return o
			}
			return nil
		}
	}
	return nil
}

// resolveNewTarget finds the nearest function environment's new.target
// (spec "GetNewTarget"), Undefined outside any function call.
func resolveNewTarget(env runtime.Environment) runtime.Value {
	for e := env; e != nil; e = e.Outer() {
		if fe, ok := e.(*runtime.FunctionEnvironment); ok {
			if nt := fe.GetNewTarget(); nt != nil {
				return nt
			}
			return runtime.Undefined
		}
	}
	return runtime.Undefined
}
