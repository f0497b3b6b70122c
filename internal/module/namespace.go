package module

import "github.com/cwbudde/goecma/internal/runtime"

// namespaceBinding adapts a CyclicModuleRecord to
// runtime.ModuleExportBinding, resolving each exported name through
// ResolveExport at read time so a namespace property observes the live
// binding it names (spec §4.2 "Module Namespace Exotic Objects").
type namespaceBinding struct {
	rec *CyclicModuleRecord
}

func (b namespaceBinding) GetBindingValue(name string) (runtime.Value, runtime.Completion) {
	binding, ambiguous := b.rec.ResolveExport(name, nil)
	if ambiguous {
		return nil, runtime.Throw(runtime.NewSyntaxError("ambiguous export %q from %q", name, b.rec.Specifier))
	}
	if binding == nil {
		return nil, runtime.Throw(runtime.NewReferenceError("%s is not defined", name))
	}
	if binding.BindingName == "*namespace*" {
		return binding.Module.GetNamespace()
	}
	if binding.Module.Phase != Evaluated && binding.Module.Phase != EvaluatingAsync {
		return nil, runtime.Throw(runtime.NewReferenceError("cannot access %q before module initialization", name))
	}
	return binding.Module.Environment.GetBindingValue(binding.BindingName, true)
}

// GetNamespace builds (and memoizes) this module's namespace exotic object
// (spec §4.7 "Namespace objects enumerate exports sorted lexicographically",
// delegated to runtime.NewModuleNamespace which performs the sort).
func (rec *CyclicModuleRecord) GetNamespace() (*runtime.Object, runtime.Completion) {
	if rec.Namespace != nil {
		return rec.Namespace, runtime.Completion{}
	}
	names := rec.GetExportedNames(make(map[*CyclicModuleRecord]bool))
	rec.Namespace = runtime.NewModuleNamespace(namespaceBinding{rec: rec}, names)
	return rec.Namespace, runtime.Completion{}
}
