// Package module implements the module system (spec §4.7): script records,
// cyclic module records, the Tarjan-style link/evaluate passes, and
// ResolveExport's re-export graph walk. It depends on realm/runtime but
// never on the evaluator package — a module's actual statement execution is
// supplied by the caller as a pair of callbacks (Instantiate/Execute),
// mirroring realm.ExecutionContext.ScriptOrModule's own "any, supplied by
// the higher layer" treatment, and avoiding an import cycle with the
// package that needs to construct these records.
package module

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

// Phase is a cyclic module record's lifecycle state (spec §4.7: "unlinked →
// linking → linked → evaluating (index assigned) → evaluated").
type Phase int

const (
	Unlinked Phase = iota
	Linking
	Linked
	Evaluating
	EvaluatingAsync
	Evaluated
)

func (p Phase) String() string {
	switch p {
	case Unlinked:
		return "unlinked"
	case Linking:
		return "linking"
	case Linked:
		return "linked"
	case Evaluating:
		return "evaluating"
	case EvaluatingAsync:
		return "evaluating-async"
	case Evaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

// LocalExportEntry binds ExportName to a name in this module's own
// environment.
type LocalExportEntry struct {
	ExportName string
	LocalName  string
}

// IndirectExportEntry re-exports ImportName from ModuleRequest under
// ExportName ("*" ImportName means `export * as ExportName from "..."`, a
// namespace re-export rather than a single-binding one).
type IndirectExportEntry struct {
	ExportName    string
	ImportName    string
	ModuleRequest string
}

// StarExportEntry is a bare `export * from "ModuleRequest"`.
type StarExportEntry struct {
	ModuleRequest string
}

// ImportEntry is one bound name an ImportDeclaration introduces, tagged
// with the specifier it came from (spec §6 "ImportEntries" — extended here
// with ModuleRequest since, unlike the static-semantics helper operating
// within a single declaration, a whole module body mixes several).
type ImportEntry struct {
	Kind          ast.ImportSpecifierKind
	Imported      string
	Local         string
	ModuleRequest string
}

// CyclicModuleRecord is one parsed module body bound to a realm (spec §4.7).
// Instantiate and Execute are filled in by the caller that owns an
// evaluator — this package only drives phases, linking order, and export
// resolution around them.
type CyclicModuleRecord struct {
	Specifier string
	Body      []ast.Statement
	Realm     *realm.Realm

	Phase            Phase
	Environment      *runtime.ModuleEnvironment
	Namespace        *runtime.Object
	DFSIndex         int
	DFSAncestorIndex int

	RequestedModules      []string
	LocalExportEntries    []LocalExportEntry
	IndirectExportEntries []IndirectExportEntry
	StarExportEntries     []StarExportEntry
	ImportEntries         []ImportEntry

	// requestedRecords is populated by a Loader as it resolves
	// RequestedModules into sibling records, in RequestedModules order.
	requestedRecords []*CyclicModuleRecord

	EvaluationError runtime.Completion
	TopLevelCapability *realm.PromiseCapability
	CycleRoot          *CyclicModuleRecord
	AsyncEvaluationOrder int
	HasTopLevelAwait     bool

	// Instantiate hoists this module's lexical/var/function declarations
	// into Environment (spec "InitializeEnvironment"'s declaration half);
	// import bindings are wired generically by Link itself since they need
	// no evaluator cooperation.
	Instantiate func(rec *CyclicModuleRecord) runtime.Completion

	// Execute runs the module body to completion, returning a promise that
	// settles once the (possibly top-level-await-suspended) body finishes
	// (spec "ExecuteModule" collapsed with "ExecuteAsyncModule" — every
	// module executes through the same async machinery the evaluator
	// already has for async function bodies, whether or not it actually
	// awaits anything).
	Execute func(rec *CyclicModuleRecord) *runtime.Object
}

// NewCyclicModuleRecord builds an unlinked record from a parsed module body,
// extracting its requested specifiers and export entries (spec §6
// "ModuleRequests", §4.7's export-entry classification).
func NewCyclicModuleRecord(specifier string, body []ast.Statement, r *realm.Realm) *CyclicModuleRecord {
	rec := &CyclicModuleRecord{
		Specifier:        specifier,
		Body:             body,
		Realm:            r,
		Phase:            Unlinked,
		DFSIndex:         -1,
		DFSAncestorIndex: -1,
		RequestedModules: ast.ModuleRequests(body),
	}
	rec.classifyExports(body)
	rec.classifyImports(body)
	return rec
}

func (rec *CyclicModuleRecord) classifyImports(body []ast.Statement) {
	for _, stmt := range body {
		decl, ok := stmt.(*ast.ImportDeclaration)
		if !ok {
			continue
		}
		for _, spec := range decl.Specifiers {
			rec.ImportEntries = append(rec.ImportEntries, ImportEntry{
				Kind: spec.Kind, Imported: spec.Imported, Local: spec.Local, ModuleRequest: decl.Source,
			})
		}
	}
}

func (rec *CyclicModuleRecord) classifyExports(body []ast.Statement) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.ExportNamedDeclaration:
			if s.Declaration != nil {
				for _, name := range ast.BoundNames(s.Declaration) {
					rec.LocalExportEntries = append(rec.LocalExportEntries, LocalExportEntry{ExportName: name, LocalName: name})
				}
				continue
			}
			for _, spec := range s.Specifiers {
				if s.Source == "" {
					rec.LocalExportEntries = append(rec.LocalExportEntries, LocalExportEntry{ExportName: spec.Exported, LocalName: spec.Local})
				} else {
					rec.IndirectExportEntries = append(rec.IndirectExportEntries, IndirectExportEntry{
						ExportName: spec.Exported, ImportName: spec.Local, ModuleRequest: s.Source,
					})
				}
			}
		case *ast.ExportDefaultDeclaration:
			localName := "*default*"
			if fd, ok := s.Declaration.(*ast.FunctionDeclaration); ok && fd.ID != nil {
				localName = fd.ID.Name
			}
			if cd, ok := s.Declaration.(*ast.ClassDeclaration); ok && cd.ID != nil {
				localName = cd.ID.Name
			}
			rec.LocalExportEntries = append(rec.LocalExportEntries, LocalExportEntry{ExportName: "default", LocalName: localName})
		case *ast.ExportAllDeclaration:
			if s.Exported == "" {
				rec.StarExportEntries = append(rec.StarExportEntries, StarExportEntry{ModuleRequest: s.Source})
			} else {
				rec.IndirectExportEntries = append(rec.IndirectExportEntries, IndirectExportEntry{
					ExportName: s.Exported, ImportName: "*", ModuleRequest: s.Source,
				})
			}
		}
	}
}

// GetExportedNames returns the module's export names (spec "GetExportedNames"),
// deduplicated and excluding re-exported star bindings that collide with a
// local one; visited guards against a `export *` cycle.
func (rec *CyclicModuleRecord) GetExportedNames(visited map[*CyclicModuleRecord]bool) []string {
	if visited[rec] {
		return nil
	}
	visited[rec] = true

	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		names = append(names, n)
	}
	for _, e := range rec.LocalExportEntries {
		add(e.ExportName)
	}
	for _, e := range rec.IndirectExportEntries {
		add(e.ExportName)
	}
	for _, se := range rec.StarExportEntries {
		star := rec.resolveRequested(se.ModuleRequest)
		if star == nil {
			continue
		}
		for _, n := range star.GetExportedNames(visited) {
			if n != "default" {
				add(n)
			}
		}
	}
	return names
}

func (rec *CyclicModuleRecord) resolveRequested(specifier string) *CyclicModuleRecord {
	for i, req := range rec.RequestedModules {
		if req == specifier && i < len(rec.requestedRecords) {
			return rec.requestedRecords[i]
		}
	}
	return nil
}
