package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/goecma/ast"
)

func decodeClassElementKind(s string) ast.ClassElementKind {
	switch s {
	case "get":
		return ast.ClassGetter
	case "set":
		return ast.ClassSetter
	case "field":
		return ast.ClassField
	default:
		return ast.ClassMethod
	}
}

func decodeClassBody(f fields, key string) ([]*ast.ClassElement, error) {
	raw, err := f.rawList(key)
	if err != nil {
		return nil, err
	}
	elems := make([]*ast.ClassElement, 0, len(raw))
	for _, r := range raw {
		var ef fields
		if err := json.Unmarshal(r, &ef); err != nil {
			return nil, fmt.Errorf("class element: %w", err)
		}
		key, err := ef.expr("key")
		if err != nil {
			return nil, err
		}
		kindStr, err := ef.str("kind")
		if err != nil {
			return nil, err
		}
		value, err := ef.expr("value")
		if err != nil {
			return nil, err
		}
		computed, _ := ef.boolean("computed")
		isStatic, _ := ef.boolean("isStatic")
		elems = append(elems, &ast.ClassElement{
			Key: key, Kind: decodeClassElementKind(kindStr), Value: value,
			Computed: computed, IsStatic: isStatic,
		})
	}
	return elems, nil
}

func decodeClassDeclaration(f fields) (ast.Node, error) {
	id, err := f.identifier("id")
	if err != nil {
		return nil, err
	}
	super, err := f.expr("superClass")
	if err != nil {
		return nil, err
	}
	body, err := decodeClassBody(f, "body")
	if err != nil {
		return nil, err
	}
	return &ast.ClassDeclaration{ID: id, SuperClass: super, Body: body}, nil
}

func decodeClassExpression(f fields) (ast.Node, error) {
	id, err := f.identifier("id")
	if err != nil {
		return nil, err
	}
	super, err := f.expr("superClass")
	if err != nil {
		return nil, err
	}
	body, err := decodeClassBody(f, "body")
	if err != nil {
		return nil, err
	}
	return &ast.ClassExpression{ID: id, SuperClass: super, Body: body}, nil
}
