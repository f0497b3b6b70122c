package module

// ResolveSet is the visited-set ResolveExport threads through a re-export
// walk to detect cycles (spec §4.7 "ResolveExport walks the re-export graph
// with a visited set").
type ResolveSet map[resolveKey]bool

type resolveKey struct {
	rec  *CyclicModuleRecord
	name string
}

// ResolveBinding names the module/local-name pair an export name resolves
// to, once ResolveExport finds a unique one.
type ResolveBinding struct {
	Module    *CyclicModuleRecord
	BindingName string
}

// ResolveExport implements spec §4.7 "ResolveExport": returns the resolved
// (module, localName) pair, or (nil, ambiguous=true) if two or more star
// exports disagree, or (nil, false) for an unresolvable/cyclic name.
func (rec *CyclicModuleRecord) ResolveExport(exportName string, visited ResolveSet) (*ResolveBinding, bool) {
	if visited == nil {
		visited = make(ResolveSet)
	}
	key := resolveKey{rec, exportName}
	if visited[key] {
		return nil, false
	}
	visited[key] = true

	for _, e := range rec.LocalExportEntries {
		if e.ExportName == exportName {
			return &ResolveBinding{Module: rec, BindingName: e.LocalName}, false
		}
	}

	for _, e := range rec.IndirectExportEntries {
		if e.ExportName != exportName {
			continue
		}
		target := rec.resolveRequested(e.ModuleRequest)
		if target == nil {
			return nil, false
		}
		if e.ImportName == "*" {
			return &ResolveBinding{Module: target, BindingName: "*namespace*"}, false
		}
		return target.ResolveExport(e.ImportName, visited)
	}

	if exportName == "default" {
		return nil, false
	}

	var starResolution *ResolveBinding
	for _, se := range rec.StarExportEntries {
		target := rec.resolveRequested(se.ModuleRequest)
		if target == nil {
			continue
		}
		binding, ambiguous := target.ResolveExport(exportName, visited)
		if ambiguous {
			return nil, true
		}
		if binding == nil {
			continue
		}
		if starResolution == nil {
			starResolution = binding
			continue
		}
		if starResolution.Module != binding.Module || starResolution.BindingName != binding.BindingName {
			return nil, true
		}
	}
	return starResolution, false
}
