package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/goecma/internal/astjson"
	"github.com/cwbudde/goecma/internal/evaluator"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

func newTestRealm(t *testing.T) *realm.Realm {
	t.Helper()
	features, err := realm.NewFeatureSet(nil)
	require.NoError(t, err)
	agent := realm.NewAgent(features, &realm.HostCallbacks{}, 0)
	return realm.NewRealm(agent)
}

func evalSource(t *testing.T, tree string) runtime.Completion {
	t.Helper()
	program, err := astjson.Decode([]byte(tree))
	require.NoError(t, err)
	ev := evaluator.New(newTestRealm(t))
	return ev.EvalProgram(program)
}

func TestEvalProgramArithmeticExpression(t *testing.T) {
	// var x = 1 + 2 * 3;
	c := evalSource(t, `{
		"type": "Program",
		"body": [
			{
				"type": "VariableDeclaration",
				"kind": "var",
				"declarations": [{
					"type": "VariableDeclarator",
					"id": {"type": "Identifier", "name": "x"},
					"init": {
						"type": "BinaryExpression",
						"operator": "+",
						"left": {"type": "NumericLiteral", "value": 1},
						"right": {
							"type": "BinaryExpression",
							"operator": "*",
							"left": {"type": "NumericLiteral", "value": 2},
							"right": {"type": "NumericLiteral", "value": 3}
						}
					}
				}]
			}
		]
	}`)
	require.False(t, c.IsAbrupt(), "unexpected abrupt completion: %+v", c)
}

func TestEvalProgramFunctionCallReturnsValue(t *testing.T) {
	// (function add(a, b) { return a + b; })(2, 3);
	c := evalSource(t, `{
		"type": "Program",
		"body": [{
			"type": "ExpressionStatement",
			"expression": {
				"type": "CallExpression",
				"callee": {
					"type": "FunctionExpression",
					"id": {"type": "Identifier", "name": "add"},
					"params": [
						{"type": "Param", "pattern": {"type": "Identifier", "name": "a"}},
						{"type": "Param", "pattern": {"type": "Identifier", "name": "b"}}
					],
					"body": {
						"type": "BlockStatement",
						"body": [{
							"type": "ReturnStatement",
							"argument": {
								"type": "BinaryExpression",
								"operator": "+",
								"left": {"type": "Identifier", "name": "a"},
								"right": {"type": "Identifier", "name": "b"}
							}
						}]
					}
				},
				"arguments": [
					{"value": {"type": "NumericLiteral", "value": 2}},
					{"value": {"type": "NumericLiteral", "value": 3}}
				]
			}
		}]
	}`)
	require.False(t, c.IsAbrupt(), "unexpected abrupt completion: %+v", c)
	n, ok := c.Value.(runtime.Number)
	require.True(t, ok, "expected a Number result, got %T", c.Value)
	assert.Equal(t, runtime.Number(5), n)
}

func TestEvalProgramThrowsUncaughtReferenceError(t *testing.T) {
	c := evalSource(t, `{
		"type": "Program",
		"body": [{
			"type": "ExpressionStatement",
			"expression": {"type": "Identifier", "name": "neverDeclared"}
		}]
	}`)
	require.Equal(t, runtime.Throw, c.Type)
}
