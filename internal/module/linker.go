package module

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/runtime"
)

// Link performs InnerModuleLinking (spec §4.7): a Tarjan depth-first walk
// over the RequestedModules graph that assigns each record its
// DFSIndex/DFSAncestorIndex, detects cycles, and — once an entire strongly
// connected component's dependencies are resolved — initializes every
// member's environment together, so mutually importing modules can resolve
// each other's bindings regardless of visitation order.
func Link(entry *CyclicModuleRecord) runtime.Completion {
	if entry.Phase == Linked || entry.Phase == Evaluating || entry.Phase == EvaluatingAsync || entry.Phase == Evaluated {
		return runtime.Completion{}
	}
	var stack []*CyclicModuleRecord
	index := 0
	var visit func(rec *CyclicModuleRecord) runtime.Completion
	visit = func(rec *CyclicModuleRecord) runtime.Completion {
		if rec.Phase == Linking || rec.Phase == Linked || rec.Phase == Evaluating || rec.Phase == EvaluatingAsync || rec.Phase == Evaluated {
			return runtime.Completion{}
		}
		rec.Phase = Linking
		rec.DFSIndex = index
		rec.DFSAncestorIndex = index
		index++
		stack = append(stack, rec)

		for _, dep := range rec.requestedRecords {
			if dep == nil {
				return runtime.Throw(runtime.NewTypeError("unresolved module request from %q", rec.Specifier))
			}
			if c := visit(dep); c.IsAbrupt() {
				return c
			}
			if dep.Phase == Linking && dep.DFSAncestorIndex < rec.DFSAncestorIndex {
				rec.DFSAncestorIndex = dep.DFSAncestorIndex
			}
		}

		if rec.DFSAncestorIndex == rec.DFSIndex {
			var members []*CyclicModuleRecord
			for {
				n := len(stack) - 1
				member := stack[n]
				stack = stack[:n]
				member.Environment = runtime.NewModuleEnvironment(member.Realm.GlobalEnv)
				members = append(members, member)
				if member == rec {
					break
				}
			}
			for _, member := range members {
				if c := member.initializeEnvironment(); c.IsAbrupt() {
					return c
				}
				member.Phase = Linked
			}
		}
		return runtime.Completion{}
	}
	return visit(entry)
}

// initializeEnvironment creates rec's module environment unless Link has
// already done so, declares an
// import binding for every ImportEntry (spec "InitializeEnvironment" import
// half — pure environment-record wiring, no evaluator needed), then
// delegates the lexical/var/function declaration half to rec.Instantiate.
func (rec *CyclicModuleRecord) initializeEnvironment() runtime.Completion {
	if rec.Environment == nil {
		rec.Environment = runtime.NewModuleEnvironment(rec.Realm.GlobalEnv)
	}

	for _, entry := range rec.ImportEntries {
		source := rec.resolveRequested(entry.ModuleRequest)
		if source == nil {
			return runtime.Throw(runtime.NewSyntaxError("unresolved import %q in %q", entry.Local, rec.Specifier))
		}
		if c := rec.Environment.CreateImmutableBinding(entry.Local, true); c.IsAbrupt() {
			return c
		}
		if entry.Kind == ast.ImportNamespace {
			ns, c := source.GetNamespace()
			if c.IsAbrupt() {
				return c
			}
			if c := rec.Environment.InitializeBinding(entry.Local, ns); c.IsAbrupt() {
				return c
			}
			continue
		}
		importedName := entry.Imported
		if entry.Kind == ast.ImportDefault {
			importedName = "default"
		}
		binding, ambiguous := source.ResolveExport(importedName, nil)
		if ambiguous {
			return runtime.Throw(runtime.NewSyntaxError("ambiguous import %q from %q", importedName, source.Specifier))
		}
		if binding == nil {
			return runtime.Throw(runtime.NewSyntaxError("module %q has no export named %q", source.Specifier, importedName))
		}
		rec.Environment.CreateImportBinding(entry.Local, binding.Module.Environment, binding.BindingName)
	}

	if rec.Instantiate != nil {
		return rec.Instantiate(rec)
	}
	return runtime.Completion{}
}
