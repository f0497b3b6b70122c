package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/goecma/ast"
)

func decodeExpressionStatement(f fields) (ast.Node, error) {
	e, err := f.expr("expression")
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expression: e}, nil
}

func decodeBlockStatement(f fields) (ast.Node, error) {
	body, err := f.stmtList("body")
	if err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Body: body}, nil
}

func decodeEmptyStatement(fields) (ast.Node, error)    { return &ast.EmptyStatement{}, nil }
func decodeDebuggerStatement(fields) (ast.Node, error) { return &ast.DebuggerStatement{}, nil }

func decodeVariableKind(s string) ast.VariableKind {
	switch s {
	case "let":
		return ast.VarLet
	case "const":
		return ast.VarConst
	default:
		return ast.VarVar
	}
}

func decodeVariableDeclaration(f fields) (ast.Node, error) {
	kindStr, err := f.str("kind")
	if err != nil {
		return nil, err
	}
	raw, err := f.rawList("declarations")
	if err != nil {
		return nil, err
	}
	decls := make([]*ast.VariableDeclarator, 0, len(raw))
	for _, r := range raw {
		var df fields
		if err := json.Unmarshal(r, &df); err != nil {
			return nil, fmt.Errorf("declarator: %w", err)
		}
		id, err := df.expr("id")
		if err != nil {
			return nil, err
		}
		init, err := df.expr("init")
		if err != nil {
			return nil, err
		}
		decls = append(decls, &ast.VariableDeclarator{ID: id, Init: init})
	}
	return &ast.VariableDeclaration{Kind: decodeVariableKind(kindStr), Declarations: decls}, nil
}

func decodeIfStatement(f fields) (ast.Node, error) {
	test, err := f.expr("test")
	if err != nil {
		return nil, err
	}
	cons, err := f.stmt("consequent")
	if err != nil {
		return nil, err
	}
	alt, err := f.stmt("alternate")
	if err != nil {
		return nil, err
	}
	return &ast.IfStatement{Test: test, Consequent: cons, Alternate: alt}, nil
}

// decodeForHead decodes a for/for-in/for-of left-hand/init slot, which is
// either a *ast.VariableDeclaration or a plain assignment-target Expression.
func decodeForHead(f fields, key string) (ast.Node, error) {
	return f.node(key)
}

func decodeForStatement(f fields) (ast.Node, error) {
	init, err := decodeForHead(f, "init")
	if err != nil {
		return nil, err
	}
	test, err := f.expr("test")
	if err != nil {
		return nil, err
	}
	update, err := f.expr("update")
	if err != nil {
		return nil, err
	}
	body, err := f.stmt("body")
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{Init: init, Test: test, Update: update, Body: body}, nil
}

func decodeForInStatement(f fields) (ast.Node, error) {
	left, err := decodeForHead(f, "left")
	if err != nil {
		return nil, err
	}
	right, err := f.expr("right")
	if err != nil {
		return nil, err
	}
	body, err := f.stmt("body")
	if err != nil {
		return nil, err
	}
	return &ast.ForInStatement{Left: left, Right: right, Body: body}, nil
}

func decodeForOfStatement(f fields) (ast.Node, error) {
	left, err := decodeForHead(f, "left")
	if err != nil {
		return nil, err
	}
	right, err := f.expr("right")
	if err != nil {
		return nil, err
	}
	body, err := f.stmt("body")
	if err != nil {
		return nil, err
	}
	await, _ := f.boolean("await")
	return &ast.ForOfStatement{Left: left, Right: right, Body: body, Await: await}, nil
}

func decodeWhileStatement(f fields) (ast.Node, error) {
	test, err := f.expr("test")
	if err != nil {
		return nil, err
	}
	body, err := f.stmt("body")
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Test: test, Body: body}, nil
}

func decodeDoWhileStatement(f fields) (ast.Node, error) {
	body, err := f.stmt("body")
	if err != nil {
		return nil, err
	}
	test, err := f.expr("test")
	if err != nil {
		return nil, err
	}
	return &ast.DoWhileStatement{Body: body, Test: test}, nil
}

func decodeBreakStatement(f fields) (ast.Node, error) {
	label, err := f.str("label")
	if err != nil {
		return nil, err
	}
	return &ast.BreakStatement{Label: label}, nil
}

func decodeContinueStatement(f fields) (ast.Node, error) {
	label, err := f.str("label")
	if err != nil {
		return nil, err
	}
	return &ast.ContinueStatement{Label: label}, nil
}

func decodeReturnStatement(f fields) (ast.Node, error) {
	arg, err := f.expr("argument")
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Argument: arg}, nil
}

func decodeThrowStatement(f fields) (ast.Node, error) {
	arg, err := f.expr("argument")
	if err != nil {
		return nil, err
	}
	return &ast.ThrowStatement{Argument: arg}, nil
}

func decodeCatchClause(raw json.RawMessage) (*ast.CatchClause, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catch clause: %w", err)
	}
	param, err := f.expr("param")
	if err != nil {
		return nil, err
	}
	body, err := decodeBlockStmt(f, "body")
	if err != nil {
		return nil, err
	}
	return &ast.CatchClause{Param: param, Body: body}, nil
}

func decodeTryStatement(f fields) (ast.Node, error) {
	block, err := decodeBlockStmt(f, "block")
	if err != nil {
		return nil, err
	}
	handler, err := decodeCatchClause(f["handler"])
	if err != nil {
		return nil, err
	}
	finalizer, err := decodeBlockStmt(f, "finalizer")
	if err != nil {
		return nil, err
	}
	return &ast.TryStatement{Block: block, Handler: handler, Finalizer: finalizer}, nil
}

func decodeSwitchStatement(f fields) (ast.Node, error) {
	disc, err := f.expr("discriminant")
	if err != nil {
		return nil, err
	}
	raw, err := f.rawList("cases")
	if err != nil {
		return nil, err
	}
	cases := make([]*ast.SwitchCase, 0, len(raw))
	for _, r := range raw {
		var cf fields
		if err := json.Unmarshal(r, &cf); err != nil {
			return nil, fmt.Errorf("switch case: %w", err)
		}
		test, err := cf.expr("test")
		if err != nil {
			return nil, err
		}
		consequent, err := cf.stmtList("consequent")
		if err != nil {
			return nil, err
		}
		cases = append(cases, &ast.SwitchCase{Test: test, Consequent: consequent})
	}
	return &ast.SwitchStatement{Discriminant: disc, Cases: cases}, nil
}

func decodeLabeledStatement(f fields) (ast.Node, error) {
	label, err := f.str("label")
	if err != nil {
		return nil, err
	}
	body, err := f.stmt("body")
	if err != nil {
		return nil, err
	}
	return &ast.LabeledStatement{Label: label, Body: body}, nil
}
