package module

import (
	"testing"

	"github.com/cwbudde/goecma/ast"
)

func TestNewCyclicModuleRecordClassifiesImportsAndExports(t *testing.T) {
	body := []ast.Statement{
		&ast.ImportDeclaration{
			Source: "./dep.json",
			Specifiers: []*ast.ImportSpecifier{
				{Kind: ast.ImportDefault, Local: "dep"},
				{Kind: ast.ImportNamed, Imported: "helper", Local: "helper"},
			},
		},
		&ast.ExportNamedDeclaration{
			Specifiers: []*ast.ExportSpecifier{{Local: "dep", Exported: "reexportedDep"}},
		},
		&ast.ExportAllDeclaration{Source: "./other.json"},
	}

	rec := NewCyclicModuleRecord("./entry.json", body, nil)

	if rec.Phase != Unlinked {
		t.Errorf("Phase = %v, want Unlinked", rec.Phase)
	}
	if len(rec.RequestedModules) != 2 {
		t.Fatalf("RequestedModules = %v, want 2 entries", rec.RequestedModules)
	}

	if len(rec.ImportEntries) != 2 {
		t.Fatalf("ImportEntries = %v, want 2 entries", rec.ImportEntries)
	}
	if rec.ImportEntries[0].Local != "dep" || rec.ImportEntries[0].ModuleRequest != "./dep.json" {
		t.Errorf("ImportEntries[0] = %+v", rec.ImportEntries[0])
	}

	if len(rec.LocalExportEntries) != 1 || rec.LocalExportEntries[0].ExportName != "reexportedDep" {
		t.Errorf("LocalExportEntries = %+v", rec.LocalExportEntries)
	}

	if len(rec.StarExportEntries) != 1 || rec.StarExportEntries[0].ModuleRequest != "./other.json" {
		t.Errorf("StarExportEntries = %+v", rec.StarExportEntries)
	}
}

func TestNewCyclicModuleRecordExportDefaultFunctionUsesItsName(t *testing.T) {
	body := []ast.Statement{
		&ast.ExportDefaultDeclaration{
			Declaration: &ast.FunctionDeclaration{ID: &ast.Identifier{Name: "run"}},
		},
	}

	rec := NewCyclicModuleRecord("./entry.json", body, nil)

	if len(rec.LocalExportEntries) != 1 {
		t.Fatalf("LocalExportEntries = %+v", rec.LocalExportEntries)
	}
	entry := rec.LocalExportEntries[0]
	if entry.ExportName != "default" || entry.LocalName != "run" {
		t.Errorf("default export entry = %+v, want {default run}", entry)
	}
}

func TestNewCyclicModuleRecordExportDefaultAnonymousExpressionUsesStarDefaultStar(t *testing.T) {
	body := []ast.Statement{
		&ast.ExportDefaultDeclaration{Declaration: &ast.NumericLiteral{Value: 1}},
	}

	rec := NewCyclicModuleRecord("./entry.json", body, nil)

	if len(rec.LocalExportEntries) != 1 || rec.LocalExportEntries[0].LocalName != "*default*" {
		t.Errorf("LocalExportEntries = %+v, want LocalName *default*", rec.LocalExportEntries)
	}
}
