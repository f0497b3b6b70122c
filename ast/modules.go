package ast

// ImportSpecifierKind distinguishes the three import-clause shapes (spec
// §6 "ImportEntries").
type ImportSpecifierKind int

const (
	ImportDefault ImportSpecifierKind = iota
	ImportNamespace
	ImportNamed
)

// ImportSpecifier is one bound name of an ImportDeclaration. Imported is the
// exported name in the referenced module ("" for default/namespace); Local
// is the local binding name.
type ImportSpecifier struct {
	base
	Kind     ImportSpecifierKind
	Imported string
	Local    string
}

func (*ImportSpecifier) Type() string { return "ImportSpecifier" }

// ImportDeclaration is `import ... from "specifier";`.
type ImportDeclaration struct {
	base
	Specifiers []*ImportSpecifier
	Source     string
}

func (*ImportDeclaration) Type() string   { return "ImportDeclaration" }
func (*ImportDeclaration) statementNode() {}

// ExportSpecifier renames Local to Exported in a named export clause.
type ExportSpecifier struct {
	base
	Local    string
	Exported string
}

func (*ExportSpecifier) Type() string { return "ExportSpecifier" }

// ExportNamedDeclaration is `export { a as b, ... } [from "specifier"];` or
// `export <declaration>;` when Declaration is non-nil.
type ExportNamedDeclaration struct {
	base
	Declaration Statement
	Specifiers  []*ExportSpecifier
	Source      string // "" unless this is a re-export
}

func (*ExportNamedDeclaration) Type() string   { return "ExportNamedDeclaration" }
func (*ExportNamedDeclaration) statementNode() {}

// ExportDefaultDeclaration is `export default <expr-or-decl>;`.
type ExportDefaultDeclaration struct {
	base
	Declaration Node // Expression, *FunctionDeclaration, or *ClassDeclaration
}

func (*ExportDefaultDeclaration) Type() string   { return "ExportDefaultDeclaration" }
func (*ExportDefaultDeclaration) statementNode() {}

// ExportAllDeclaration is `export * [as name] from "specifier";`.
type ExportAllDeclaration struct {
	base
	Exported string // "" for a plain `export *`
	Source   string
}

func (*ExportAllDeclaration) Type() string   { return "ExportAllDeclaration" }
func (*ExportAllDeclaration) statementNode() {}

// ModuleRequests returns the distinct module specifiers a module body
// imports or re-exports from (spec §6 "ModuleRequests").
func ModuleRequests(body []Statement) []string {
	seen := make(map[string]bool)
	var requests []string
	add := func(spec string) {
		if spec == "" || seen[spec] {
			return
		}
		seen[spec] = true
		requests = append(requests, spec)
	}
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ImportDeclaration:
			add(s.Source)
		case *ExportNamedDeclaration:
			add(s.Source)
		case *ExportAllDeclaration:
			add(s.Source)
		}
	}
	return requests
}

// ImportEntries returns the local-name/imported-name pairs a module body's
// import declarations introduce (spec §6 "ImportEntries").
func ImportEntries(body []Statement) []*ImportSpecifier {
	var entries []*ImportSpecifier
	for _, stmt := range body {
		if imp, ok := stmt.(*ImportDeclaration); ok {
			entries = append(entries, imp.Specifiers...)
		}
	}
	return entries
}
