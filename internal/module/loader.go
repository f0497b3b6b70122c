package module

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

// Fetch resolves a module specifier (relative to referrer, "" for the entry
// module) to its parsed body, the way a host's loadImportedModule callback
// would hand back source text for the engine to compile (spec §6
// "loadImportedModule(referrer, specifier, hostDefined, callback)";
// simplified here to a synchronous function since this engine takes no
// parser dependency — a caller resolving over the filesystem or a bundle
// manifest supplies one).
type Fetch func(referrer, specifier string) ([]ast.Statement, error)

// Loader memoizes CyclicModuleRecords by specifier so a module requested by
// two different importers resolves to the same record (spec §4.7
// "module map").
type Loader struct {
	Realm       *realm.Realm
	Fetch       Fetch
	Instantiate func(rec *CyclicModuleRecord) runtime.Completion
	Execute     func(rec *CyclicModuleRecord) *runtime.Object

	records map[string]*CyclicModuleRecord
}

// NewLoader creates a Loader. instantiate/execute are wired onto every
// record this loader creates (spec "HostLoadImportedModule" wiring a
// freshly parsed module up to its embedding engine).
func NewLoader(r *realm.Realm, fetch Fetch, instantiate func(rec *CyclicModuleRecord) runtime.Completion, execute func(rec *CyclicModuleRecord) *runtime.Object) *Loader {
	return &Loader{
		Realm:       r,
		Fetch:       fetch,
		Instantiate: instantiate,
		Execute:     execute,
		records:     make(map[string]*CyclicModuleRecord),
	}
}

// Load resolves specifier (and, transitively, everything it requests) into
// a graph of CyclicModuleRecords, returning the entry record unlinked
// (spec "HostLoadImportedModule", recursively applied to
// RequestedModules — this is the synchronous-fetch slice of what a real
// host callback may also do asynchronously).
func (l *Loader) Load(referrer, specifier string) (*CyclicModuleRecord, runtime.Completion) {
	if rec, ok := l.records[specifier]; ok {
		return rec, runtime.Completion{}
	}
	body, err := l.Fetch(referrer, specifier)
	if err != nil {
		return nil, runtime.Throw(runtime.NewTypeError("cannot resolve module %q: %s", specifier, err.Error()))
	}
	rec := NewCyclicModuleRecord(specifier, body, l.Realm)
	rec.Instantiate = l.Instantiate
	rec.Execute = l.Execute
	l.records[specifier] = rec

	rec.requestedRecords = make([]*CyclicModuleRecord, len(rec.RequestedModules))
	for i, req := range rec.RequestedModules {
		dep, dc := l.Load(specifier, req)
		if dc.IsAbrupt() {
			return nil, dc
		}
		rec.requestedRecords[i] = dep
	}
	return rec, runtime.Completion{}
}
