package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/goecma/ast"
)

func decodeArrayExpression(f fields) (ast.Node, error) {
	elems, err := f.exprList("elements")
	if err != nil {
		return nil, err
	}
	return &ast.ArrayExpression{Elements: elems}, nil
}

func decodePropertyKind(s string) ast.PropertyKind {
	switch s {
	case "get":
		return ast.PropertyGet
	case "set":
		return ast.PropertySet
	case "method":
		return ast.PropertyMethod
	case "spread":
		return ast.PropertySpread
	default:
		return ast.PropertyInit
	}
}

func decodeObjectExpression(f fields) (ast.Node, error) {
	raw, err := f.rawList("properties")
	if err != nil {
		return nil, err
	}
	props := make([]*ast.Property, 0, len(raw))
	for _, r := range raw {
		var pf fields
		if err := json.Unmarshal(r, &pf); err != nil {
			return nil, fmt.Errorf("property: %w", err)
		}
		key, err := pf.expr("key")
		if err != nil {
			return nil, err
		}
		value, err := pf.expr("value")
		if err != nil {
			return nil, err
		}
		kindStr, err := pf.str("kind")
		if err != nil {
			return nil, err
		}
		computed, err := pf.boolean("computed")
		if err != nil {
			return nil, err
		}
		shorthand, err := pf.boolean("shorthand")
		if err != nil {
			return nil, err
		}
		props = append(props, &ast.Property{
			Key: key, Value: value, Kind: decodePropertyKind(kindStr),
			Computed: computed, Shorthand: shorthand,
		})
	}
	return &ast.ObjectExpression{Properties: props}, nil
}

func decodeParams(f fields, key string) ([]*ast.Param, error) {
	raw, err := f.rawList(key)
	if err != nil {
		return nil, err
	}
	params := make([]*ast.Param, 0, len(raw))
	for _, r := range raw {
		var pf fields
		if err := json.Unmarshal(r, &pf); err != nil {
			return nil, fmt.Errorf("param: %w", err)
		}
		pattern, err := pf.expr("pattern")
		if err != nil {
			return nil, err
		}
		def, err := pf.expr("default")
		if err != nil {
			return nil, err
		}
		isRest, err := pf.boolean("isRest")
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Pattern: pattern, Default: def, IsRest: isRest})
	}
	return params, nil
}

func decodeBlockStmt(f fields, key string) (*ast.BlockStatement, error) {
	n, err := f.node(key)
	if err != nil || n == nil {
		return nil, err
	}
	b, ok := n.(*ast.BlockStatement)
	if !ok {
		return nil, fmt.Errorf("field %q: expected BlockStatement, got %s", key, n.Type())
	}
	return b, nil
}

func decodeFunctionExpression(f fields) (ast.Node, error) {
	id, err := f.identifier("id")
	if err != nil {
		return nil, err
	}
	params, err := decodeParams(f, "params")
	if err != nil {
		return nil, err
	}
	body, err := decodeBlockStmt(f, "body")
	if err != nil {
		return nil, err
	}
	isGenerator, _ := f.boolean("isGenerator")
	isAsync, _ := f.boolean("isAsync")
	isArrow, _ := f.boolean("isArrow")
	isStrict, _ := f.boolean("isStrict")
	sourceText, _ := f.str("sourceText")
	return &ast.FunctionExpression{
		ID: id, Params: params, Body: body,
		IsGenerator: isGenerator, IsAsync: isAsync, IsArrow: isArrow, IsStrict: isStrict,
		SourceText: sourceText,
	}, nil
}

func decodeFunctionDeclaration(f fields) (ast.Node, error) {
	id, err := f.identifier("id")
	if err != nil {
		return nil, err
	}
	params, err := decodeParams(f, "params")
	if err != nil {
		return nil, err
	}
	body, err := decodeBlockStmt(f, "body")
	if err != nil {
		return nil, err
	}
	isGenerator, _ := f.boolean("isGenerator")
	isAsync, _ := f.boolean("isAsync")
	sourceText, _ := f.str("sourceText")
	return &ast.FunctionDeclaration{
		ID: id, Params: params, Body: body,
		IsGenerator: isGenerator, IsAsync: isAsync, SourceText: sourceText,
	}, nil
}

func decodeArrowFunctionExpression(f fields) (ast.Node, error) {
	params, err := decodeParams(f, "params")
	if err != nil {
		return nil, err
	}
	var body *ast.BlockStatement
	var concise ast.Expression
	if raw, ok := f["body"]; ok && string(raw) != "null" {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		switch v := n.(type) {
		case *ast.BlockStatement:
			body = v
		case ast.Expression:
			concise = v
		default:
			return nil, fmt.Errorf("arrow function body: unexpected node %T", n)
		}
	}
	isAsync, _ := f.boolean("isAsync")
	sourceText, _ := f.str("sourceText")
	return &ast.ArrowFunctionExpression{
		Params: params, Body: body, ConciseBody: concise, IsAsync: isAsync, SourceText: sourceText,
	}, nil
}

func decodeArguments(f fields, key string) ([]ast.Argument, error) {
	raw, err := f.rawList(key)
	if err != nil {
		return nil, err
	}
	args := make([]ast.Argument, 0, len(raw))
	for _, r := range raw {
		var af fields
		if err := json.Unmarshal(r, &af); err != nil {
			return nil, fmt.Errorf("argument: %w", err)
		}
		value, err := af.expr("value")
		if err != nil {
			return nil, err
		}
		spread, _ := af.boolean("spread")
		args = append(args, ast.Argument{Value: value, Spread: spread})
	}
	return args, nil
}

func decodeCallExpression(f fields) (ast.Node, error) {
	callee, err := f.expr("callee")
	if err != nil {
		return nil, err
	}
	args, err := decodeArguments(f, "arguments")
	if err != nil {
		return nil, err
	}
	optional, _ := f.boolean("optional")
	return &ast.CallExpression{Callee: callee, Arguments: args, Optional: optional}, nil
}

func decodeSuperCall(f fields) (ast.Node, error) {
	args, err := decodeArguments(f, "arguments")
	if err != nil {
		return nil, err
	}
	return &ast.SuperCall{Arguments: args}, nil
}

func decodeNewExpression(f fields) (ast.Node, error) {
	callee, err := f.expr("callee")
	if err != nil {
		return nil, err
	}
	args, err := decodeArguments(f, "arguments")
	if err != nil {
		return nil, err
	}
	return &ast.NewExpression{Callee: callee, Arguments: args}, nil
}

func decodeMemberExpression(f fields) (ast.Node, error) {
	obj, err := f.expr("object")
	if err != nil {
		return nil, err
	}
	prop, err := f.expr("property")
	if err != nil {
		return nil, err
	}
	computed, _ := f.boolean("computed")
	optional, _ := f.boolean("optional")
	return &ast.MemberExpression{Object: obj, Property: prop, Computed: computed, Optional: optional}, nil
}

func decodeSuperMemberExpression(f fields) (ast.Node, error) {
	prop, err := f.expr("property")
	if err != nil {
		return nil, err
	}
	computed, _ := f.boolean("computed")
	return &ast.SuperMemberExpression{Property: prop, Computed: computed}, nil
}

func decodeBinaryExpression(f fields) (ast.Node, error) {
	left, err := f.expr("left")
	if err != nil {
		return nil, err
	}
	right, err := f.expr("right")
	if err != nil {
		return nil, err
	}
	op, err := f.str("operator")
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{Operator: ast.BinaryOperator(op), Left: left, Right: right}, nil
}

func decodeLogicalExpression(f fields) (ast.Node, error) {
	left, err := f.expr("left")
	if err != nil {
		return nil, err
	}
	right, err := f.expr("right")
	if err != nil {
		return nil, err
	}
	op, err := f.str("operator")
	if err != nil {
		return nil, err
	}
	return &ast.LogicalExpression{Operator: ast.LogicalOperator(op), Left: left, Right: right}, nil
}

func decodeUnaryExpression(f fields) (ast.Node, error) {
	arg, err := f.expr("argument")
	if err != nil {
		return nil, err
	}
	op, err := f.str("operator")
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpression{Operator: ast.UnaryOperator(op), Argument: arg}, nil
}

func decodeUpdateExpression(f fields) (ast.Node, error) {
	arg, err := f.expr("argument")
	if err != nil {
		return nil, err
	}
	op, err := f.str("operator")
	if err != nil {
		return nil, err
	}
	prefix, _ := f.boolean("prefix")
	return &ast.UpdateExpression{Operator: op, Argument: arg, Prefix: prefix}, nil
}

func decodeAssignmentExpression(f fields) (ast.Node, error) {
	target, err := f.expr("target")
	if err != nil {
		return nil, err
	}
	value, err := f.expr("value")
	if err != nil {
		return nil, err
	}
	op, err := f.str("operator")
	if err != nil {
		return nil, err
	}
	return &ast.AssignmentExpression{Operator: op, Target: target, Value: value}, nil
}

func decodeConditionalExpression(f fields) (ast.Node, error) {
	test, err := f.expr("test")
	if err != nil {
		return nil, err
	}
	cons, err := f.expr("consequent")
	if err != nil {
		return nil, err
	}
	alt, err := f.expr("alternate")
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}, nil
}

func decodeSequenceExpression(f fields) (ast.Node, error) {
	exprs, err := f.exprList("expressions")
	if err != nil {
		return nil, err
	}
	return &ast.SequenceExpression{Expressions: exprs}, nil
}

func decodeSpreadElement(f fields) (ast.Node, error) {
	arg, err := f.expr("argument")
	if err != nil {
		return nil, err
	}
	return &ast.SpreadElement{Argument: arg}, nil
}

func decodeRestElement(f fields) (ast.Node, error) {
	arg, err := f.expr("argument")
	if err != nil {
		return nil, err
	}
	return &ast.RestElement{Argument: arg}, nil
}

func decodeYieldExpression(f fields) (ast.Node, error) {
	arg, err := f.expr("argument")
	if err != nil {
		return nil, err
	}
	delegate, _ := f.boolean("delegate")
	return &ast.YieldExpression{Argument: arg, Delegate: delegate}, nil
}

func decodeAwaitExpression(f fields) (ast.Node, error) {
	arg, err := f.expr("argument")
	if err != nil {
		return nil, err
	}
	return &ast.AwaitExpression{Argument: arg}, nil
}

func decodeMetaProperty(f fields) (ast.Node, error) {
	meta, err := f.str("meta")
	if err != nil {
		return nil, err
	}
	prop, err := f.str("property")
	if err != nil {
		return nil, err
	}
	return &ast.MetaProperty{Meta: meta, Property: prop}, nil
}
