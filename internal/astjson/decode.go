// Package astjson decodes a tagged JSON parse tree into ast.Node values.
// The source-text parser is out of scope for this engine (spec §1); a host
// embedding it is expected to hand over an already-parsed tree, and this
// package fixes the wire shape for that handoff: one JSON object per node,
// tagged by a "type" field matching ast.Node.Type(), with every other field
// named after its Go struct field in lowerCamelCase.
package astjson

import (
	"encoding/json"
	"fmt"
	"unicode/utf16"

	"github.com/cwbudde/goecma/ast"
)

type fields map[string]json.RawMessage

type decoderFunc func(f fields) (ast.Node, error)

var decoders map[string]decoderFunc

func init() {
	decoders = map[string]decoderFunc{
		"Program":    decodeProgram,
		"Identifier": decodeIdentifier,

		"ArrayExpression":         decodeArrayExpression,
		"ObjectExpression":        decodeObjectExpression,
		"FunctionExpression":      decodeFunctionExpression,
		"FunctionDeclaration":     decodeFunctionDeclaration,
		"ArrowFunctionExpression": decodeArrowFunctionExpression,
		"CallExpression":          decodeCallExpression,
		"SuperCall":               decodeSuperCall,
		"NewExpression":           decodeNewExpression,
		"MemberExpression":        decodeMemberExpression,
		"SuperMemberExpression":   decodeSuperMemberExpression,
		"BinaryExpression":        decodeBinaryExpression,
		"LogicalExpression":       decodeLogicalExpression,
		"UnaryExpression":         decodeUnaryExpression,
		"UpdateExpression":        decodeUpdateExpression,
		"AssignmentExpression":    decodeAssignmentExpression,
		"ConditionalExpression":   decodeConditionalExpression,
		"SequenceExpression":      decodeSequenceExpression,
		"SpreadElement":           decodeSpreadElement,
		"RestElement":             decodeRestElement,
		"YieldExpression":         decodeYieldExpression,
		"AwaitExpression":         decodeAwaitExpression,
		"MetaProperty":            decodeMetaProperty,
		"PrivateIdentifier":       decodePrivateIdentifier,

		"NullLiteral":     decodeNullLiteral,
		"BooleanLiteral":  decodeBooleanLiteral,
		"NumericLiteral":  decodeNumericLiteral,
		"BigIntLiteral":   decodeBigIntLiteral,
		"StringLiteral":   decodeStringLiteral,
		"RegExpLiteral":   decodeRegExpLiteral,
		"TemplateElement": decodeTemplateElement,
		"TemplateLiteral": decodeTemplateLiteral,
		"ThisExpression":  decodeThisExpression,
		"Super":           decodeSuper,

		"ExpressionStatement": decodeExpressionStatement,
		"BlockStatement":      decodeBlockStatement,
		"EmptyStatement":      decodeEmptyStatement,
		"DebuggerStatement":   decodeDebuggerStatement,
		"VariableDeclaration": decodeVariableDeclaration,
		"IfStatement":         decodeIfStatement,
		"ForStatement":        decodeForStatement,
		"ForInStatement":      decodeForInStatement,
		"ForOfStatement":      decodeForOfStatement,
		"WhileStatement":      decodeWhileStatement,
		"DoWhileStatement":    decodeDoWhileStatement,
		"BreakStatement":      decodeBreakStatement,
		"ContinueStatement":   decodeContinueStatement,
		"ReturnStatement":     decodeReturnStatement,
		"ThrowStatement":      decodeThrowStatement,
		"TryStatement":        decodeTryStatement,
		"SwitchStatement":     decodeSwitchStatement,
		"LabeledStatement":    decodeLabeledStatement,

		"ClassDeclaration": decodeClassDeclaration,
		"ClassExpression":  decodeClassExpression,

		"ImportDeclaration":       decodeImportDeclaration,
		"ExportNamedDeclaration":  decodeExportNamedDeclaration,
		"ExportDefaultDeclaration": decodeExportDefaultDeclaration,
		"ExportAllDeclaration":    decodeExportAllDeclaration,
	}
}

// Decode parses a JSON-encoded tree into a *ast.Program.
func Decode(data []byte) (*ast.Program, error) {
	n, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	prog, ok := n.(*ast.Program)
	if !ok {
		if n == nil {
			return nil, fmt.Errorf("empty tree")
		}
		return nil, fmt.Errorf("root node must be Program, got %s", n.Type())
	}
	return prog, nil
}

func decodeNode(data json.RawMessage) (ast.Node, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decoding node tag: %w", err)
	}
	d, ok := decoders[tag.Type]
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", tag.Type)
	}
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", tag.Type, err)
	}
	n, err := d(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", tag.Type, err)
	}
	return n, nil
}

func (f fields) expr(key string) (ast.Expression, error) {
	n, err := decodeNode(f[key])
	if err != nil || n == nil {
		return nil, err
	}
	e, ok := n.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("field %q: expected expression, got %s", key, n.Type())
	}
	return e, nil
}

func (f fields) stmt(key string) (ast.Statement, error) {
	n, err := decodeNode(f[key])
	if err != nil || n == nil {
		return nil, err
	}
	s, ok := n.(ast.Statement)
	if !ok {
		return nil, fmt.Errorf("field %q: expected statement, got %s", key, n.Type())
	}
	return s, nil
}

func (f fields) node(key string) (ast.Node, error) {
	return decodeNode(f[key])
}

func (f fields) rawList(key string) ([]json.RawMessage, error) {
	raw, ok := f[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	return list, nil
}

func (f fields) exprList(key string) ([]ast.Expression, error) {
	list, err := f.rawList(key)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Expression, len(list))
	for i, raw := range list {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue // array hole
		}
		e, ok := n.(ast.Expression)
		if !ok {
			return nil, fmt.Errorf("field %q[%d]: expected expression, got %s", key, i, n.Type())
		}
		out[i] = e
	}
	return out, nil
}

func (f fields) stmtList(key string) ([]ast.Statement, error) {
	list, err := f.rawList(key)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Statement, len(list))
	for i, raw := range list {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		s, ok := n.(ast.Statement)
		if !ok {
			return nil, fmt.Errorf("field %q[%d]: expected statement, got %s", key, i, n.Type())
		}
		out[i] = s
	}
	return out, nil
}

func (f fields) str(key string) (string, error) {
	raw, ok := f[key]
	if !ok || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", key, err)
	}
	return s, nil
}

func (f fields) boolean(key string) (bool, error) {
	raw, ok := f[key]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("field %q: %w", key, err)
	}
	return b, nil
}

func (f fields) number(key string) (float64, error) {
	raw, ok := f[key]
	if !ok || string(raw) == "null" {
		return 0, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return n, nil
}

func (f fields) utf16(key string) ([]uint16, error) {
	s, err := f.str(key)
	if err != nil {
		return nil, err
	}
	return utf16.Encode([]rune(s)), nil
}

func (f fields) identifier(key string) (*ast.Identifier, error) {
	e, err := f.expr(key)
	if err != nil || e == nil {
		return nil, err
	}
	id, ok := e.(*ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("field %q: expected Identifier, got %s", key, e.Type())
	}
	return id, nil
}
