package astjson

import "github.com/cwbudde/goecma/ast"

func decodeProgram(f fields) (ast.Node, error) {
	body, err := f.stmtList("body")
	if err != nil {
		return nil, err
	}
	isModule, err := f.boolean("isModule")
	if err != nil {
		return nil, err
	}
	sourceText, err := f.str("sourceText")
	if err != nil {
		return nil, err
	}
	return &ast.Program{Body: body, IsModule: isModule, SourceText: sourceText}, nil
}

func decodeIdentifier(f fields) (ast.Node, error) {
	name, err := f.str("name")
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{Name: name}, nil
}

func decodePrivateIdentifier(f fields) (ast.Node, error) {
	name, err := f.str("name")
	if err != nil {
		return nil, err
	}
	return &ast.PrivateIdentifier{Name: name}, nil
}
