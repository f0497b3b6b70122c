package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/goecma/ast"
)

func decodeImportSpecifierKind(s string) ast.ImportSpecifierKind {
	switch s {
	case "namespace":
		return ast.ImportNamespace
	case "named":
		return ast.ImportNamed
	default:
		return ast.ImportDefault
	}
}

func decodeImportDeclaration(f fields) (ast.Node, error) {
	raw, err := f.rawList("specifiers")
	if err != nil {
		return nil, err
	}
	specs := make([]*ast.ImportSpecifier, 0, len(raw))
	for _, r := range raw {
		var sf fields
		if err := json.Unmarshal(r, &sf); err != nil {
			return nil, fmt.Errorf("import specifier: %w", err)
		}
		kindStr, err := sf.str("kind")
		if err != nil {
			return nil, err
		}
		imported, err := sf.str("imported")
		if err != nil {
			return nil, err
		}
		local, err := sf.str("local")
		if err != nil {
			return nil, err
		}
		specs = append(specs, &ast.ImportSpecifier{
			Kind: decodeImportSpecifierKind(kindStr), Imported: imported, Local: local,
		})
	}
	source, err := f.str("source")
	if err != nil {
		return nil, err
	}
	return &ast.ImportDeclaration{Specifiers: specs, Source: source}, nil
}

func decodeExportNamedDeclaration(f fields) (ast.Node, error) {
	decl, err := f.stmt("declaration")
	if err != nil {
		return nil, err
	}
	raw, err := f.rawList("specifiers")
	if err != nil {
		return nil, err
	}
	specs := make([]*ast.ExportSpecifier, 0, len(raw))
	for _, r := range raw {
		var sf fields
		if err := json.Unmarshal(r, &sf); err != nil {
			return nil, fmt.Errorf("export specifier: %w", err)
		}
		local, err := sf.str("local")
		if err != nil {
			return nil, err
		}
		exported, err := sf.str("exported")
		if err != nil {
			return nil, err
		}
		specs = append(specs, &ast.ExportSpecifier{Local: local, Exported: exported})
	}
	source, err := f.str("source")
	if err != nil {
		return nil, err
	}
	return &ast.ExportNamedDeclaration{Declaration: decl, Specifiers: specs, Source: source}, nil
}

func decodeExportDefaultDeclaration(f fields) (ast.Node, error) {
	decl, err := f.node("declaration")
	if err != nil {
		return nil, err
	}
	return &ast.ExportDefaultDeclaration{Declaration: decl}, nil
}

func decodeExportAllDeclaration(f fields) (ast.Node, error) {
	exported, err := f.str("exported")
	if err != nil {
		return nil, err
	}
	source, err := f.str("source")
	if err != nil {
		return nil, err
	}
	return &ast.ExportAllDeclaration{Exported: exported, Source: source}, nil
}
