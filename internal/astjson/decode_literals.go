package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/goecma/ast"
)

func decodeNullLiteral(fields) (ast.Node, error) { return &ast.NullLiteral{}, nil }

func decodeBooleanLiteral(f fields) (ast.Node, error) {
	v, err := f.boolean("value")
	if err != nil {
		return nil, err
	}
	return &ast.BooleanLiteral{Value: v}, nil
}

func decodeNumericLiteral(f fields) (ast.Node, error) {
	v, err := f.number("value")
	if err != nil {
		return nil, err
	}
	return &ast.NumericLiteral{Value: v}, nil
}

func decodeBigIntLiteral(f fields) (ast.Node, error) {
	raw, err := f.str("raw")
	if err != nil {
		return nil, err
	}
	return &ast.BigIntLiteral{Raw: raw}, nil
}

func decodeStringLiteral(f fields) (ast.Node, error) {
	v, err := f.utf16("value")
	if err != nil {
		return nil, err
	}
	return &ast.StringLiteral{Value: v}, nil
}

func decodeRegExpLiteral(f fields) (ast.Node, error) {
	pattern, err := f.str("pattern")
	if err != nil {
		return nil, err
	}
	flags, err := f.str("flags")
	if err != nil {
		return nil, err
	}
	return &ast.RegExpLiteral{Pattern: pattern, Flags: flags}, nil
}

func decodeTemplateElement(f fields) (ast.Node, error) {
	cooked, err := f.utf16("cooked")
	if err != nil {
		return nil, err
	}
	raw, err := f.str("raw")
	if err != nil {
		return nil, err
	}
	tail, err := f.boolean("tail")
	if err != nil {
		return nil, err
	}
	return &ast.TemplateElement{Cooked: cooked, Raw: raw, Tail: tail}, nil
}

func decodeTemplateLiteral(f fields) (ast.Node, error) {
	raw, err := f.rawList("quasis")
	if err != nil {
		return nil, err
	}
	quasis := make([]*ast.TemplateElement, 0, len(raw))
	for _, r := range raw {
		var qf fields
		if err := json.Unmarshal(r, &qf); err != nil {
			return nil, fmt.Errorf("quasi: %w", err)
		}
		n, err := decodeTemplateElement(qf)
		if err != nil {
			return nil, err
		}
		quasis = append(quasis, n.(*ast.TemplateElement))
	}
	exprs, err := f.exprList("expressions")
	if err != nil {
		return nil, err
	}
	return &ast.TemplateLiteral{Quasis: quasis, Expressions: exprs}, nil
}

func decodeThisExpression(fields) (ast.Node, error) { return &ast.ThisExpression{}, nil }
func decodeSuper(fields) (ast.Node, error)           { return &ast.Super{}, nil }
