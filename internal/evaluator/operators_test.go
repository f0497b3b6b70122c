package evaluator

import (
	"testing"

	"github.com/cwbudde/goecma/internal/runtime"
)

func mustNormal(t *testing.T, c runtime.Completion) runtime.Value {
	t.Helper()
	if c.IsAbrupt() {
		t.Fatalf("expected a normal completion, got %v abrupt with value %v", c.Type, c.Value)
	}
	return c.Value
}

func TestAddValuesNumericAndStringCoercion(t *testing.T) {
	tests := []struct {
		name     string
		left     runtime.Value
		right    runtime.Value
		expected string
	}{
		{"number + number", runtime.Number(1), runtime.Number(2), "3"},
		{"string + number coerces to concatenation", runtime.NewString("a"), runtime.Number(1), "a1"},
		{"number + string coerces to concatenation", runtime.Number(1), runtime.NewString("a"), "1a"},
		{"string + string concatenates", runtime.NewString("foo"), runtime.NewString("bar"), "foobar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustNormal(t, addValues(tt.left, tt.right))
			if got.Display() != tt.expected {
				t.Errorf("addValues(%v, %v) = %v, want %v", tt.left, tt.right, got.Display(), tt.expected)
			}
		})
	}
}

func TestArithmeticOperators(t *testing.T) {
	tests := []struct {
		op       string
		left     runtime.Number
		right    runtime.Number
		expected runtime.Number
	}{
		{"-", 5, 3, 2},
		{"*", 4, 3, 12},
		{"/", 10, 4, 2.5},
		{"%", 10, 3, 1},
		{"**", 2, 10, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got := mustNormal(t, arithmetic(tt.op, tt.left, tt.right))
			n, ok := got.(runtime.Number)
			if !ok || n != tt.expected {
				t.Errorf("arithmetic(%q, %v, %v) = %v, want %v", tt.op, tt.left, tt.right, got, tt.expected)
			}
		})
	}
}

func TestStrictEquals(t *testing.T) {
	tests := []struct {
		name     string
		a, b     runtime.Value
		expected bool
	}{
		{"same number", runtime.Number(1), runtime.Number(1), true},
		{"different number", runtime.Number(1), runtime.Number(2), false},
		{"number vs string never equal", runtime.Number(1), runtime.NewString("1"), false},
		{"undefined vs undefined", runtime.Undefined, runtime.Undefined, true},
		{"null vs undefined", runtime.Null, runtime.Undefined, false},
		{"equal strings", runtime.NewString("x"), runtime.NewString("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strictEquals(tt.a, tt.b); got != tt.expected {
				t.Errorf("strictEquals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestLooseEqualsNumberAndStringCoerce(t *testing.T) {
	eq, c := looseEquals(runtime.Number(1), runtime.NewString("1"))
	if c.IsAbrupt() {
		t.Fatalf("unexpected abrupt completion: %v", c)
	}
	if !eq {
		t.Errorf("looseEquals(1, \"1\") = false, want true")
	}

	eq, c = looseEquals(runtime.Null, runtime.Undefined)
	if c.IsAbrupt() {
		t.Fatalf("unexpected abrupt completion: %v", c)
	}
	if !eq {
		t.Errorf("looseEquals(null, undefined) = false, want true")
	}
}

func TestRelationalOperators(t *testing.T) {
	tests := []struct {
		op       string
		expected bool
	}{
		{"<", true},
		{"<=", true},
		{">", false},
		{">=", false},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got := mustNormal(t, relational(tt.op, runtime.Number(1), runtime.Number(2)))
			b, ok := got.(runtime.Boolean)
			if !ok || bool(b) != tt.expected {
				t.Errorf("relational(%q, 1, 2) = %v, want %v", tt.op, got, tt.expected)
			}
		})
	}
}

func TestEvalUnary(t *testing.T) {
	got := mustNormal(t, evalUnary("-", runtime.Number(5)))
	if n, ok := got.(runtime.Number); !ok || n != -5 {
		t.Errorf("evalUnary(-, 5) = %v, want -5", got)
	}

	got = mustNormal(t, evalUnary("!", runtime.Boolean(true)))
	if b, ok := got.(runtime.Boolean); !ok || bool(b) {
		t.Errorf("evalUnary(!, true) = %v, want false", got)
	}
}
