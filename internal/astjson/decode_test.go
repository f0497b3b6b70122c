package astjson

import (
	"testing"

	"github.com/cwbudde/goecma/ast"
)

func TestDecodeProgramWithVariableDeclaration(t *testing.T) {
	src := `{
		"type": "Program",
		"isModule": false,
		"sourceText": "let x = 1 + 2;",
		"body": [
			{
				"type": "VariableDeclaration",
				"kind": "let",
				"declarations": [
					{
						"type": "VariableDeclarator",
						"id": {"type": "Identifier", "name": "x"},
						"init": {
							"type": "BinaryExpression",
							"operator": "+",
							"left": {"type": "NumericLiteral", "value": 1},
							"right": {"type": "NumericLiteral", "value": 2}
						}
					}
				]
			}
		]
	}`

	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if prog.IsModule {
		t.Errorf("IsModule = true, want false")
	}
	if len(prog.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("Body[0] is %T, want *ast.VariableDeclaration", prog.Body[0])
	}
	if decl.Kind != ast.VarLet {
		t.Errorf("Kind = %v, want VarLet", decl.Kind)
	}
	if len(decl.Declarations) != 1 {
		t.Fatalf("len(Declarations) = %d, want 1", len(decl.Declarations))
	}
	id, ok := decl.Declarations[0].ID.(*ast.Identifier)
	if !ok || id.Name != "x" {
		t.Errorf("ID = %#v, want Identifier{Name: x}", decl.Declarations[0].ID)
	}
	bin, ok := decl.Declarations[0].Init.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("Init is %T, want *ast.BinaryExpression", decl.Declarations[0].Init)
	}
	if bin.Operator != ast.OpAdd {
		t.Errorf("Operator = %v, want OpAdd", bin.Operator)
	}
	left, ok := bin.Left.(*ast.NumericLiteral)
	if !ok || left.Value != 1 {
		t.Errorf("Left = %#v, want NumericLiteral{1}", bin.Left)
	}
}

func TestDecodeArrayHolesPreserveNilElements(t *testing.T) {
	src := `{
		"type": "Program",
		"body": [
			{
				"type": "ExpressionStatement",
				"expression": {
					"type": "ArrayExpression",
					"elements": [
						{"type": "NumericLiteral", "value": 1},
						null,
						{"type": "NumericLiteral", "value": 3}
					]
				}
			}
		]
	}`

	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	stmt := prog.Body[0].(*ast.ExpressionStatement)
	arr := stmt.Expression.(*ast.ArrayExpression)
	if len(arr.Elements) != 3 {
		t.Fatalf("len(Elements) = %d, want 3", len(arr.Elements))
	}
	if arr.Elements[1] != nil {
		t.Errorf("Elements[1] = %#v, want nil (array hole)", arr.Elements[1])
	}
	if arr.Elements[0] == nil || arr.Elements[2] == nil {
		t.Errorf("non-hole elements must decode: %#v", arr.Elements)
	}
}

func TestDecodeStringLiteralPreservesLoneSurrogate(t *testing.T) {
	// U+D800 alone has no valid UTF-8 encoding; JSON carries it as an
	// escaped surrogate code unit, and the decoder must hand it back as the
	// raw uint16 rather than substituting U+FFFD.
	src := `{"type":"Program","body":[{"type":"ExpressionStatement","expression":{"type":"StringLiteral","value":"\ud800"}}]}`

	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	stmt := prog.Body[0].(*ast.ExpressionStatement)
	lit := stmt.Expression.(*ast.StringLiteral)
	if len(lit.Value) != 1 || lit.Value[0] != 0xD800 {
		t.Errorf("Value = %v, want [0xD800]", lit.Value)
	}
}

func TestDecodeUnknownNodeTypeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"NotARealNode"}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown node type")
	}
}

func TestDecodeNonProgramRootErrors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"Identifier","name":"x"}`))
	if err == nil {
		t.Fatalf("expected an error when the root node is not a Program")
	}
}
