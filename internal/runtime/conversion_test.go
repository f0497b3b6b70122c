package runtime

import (
	"math"
	"testing"
)

func TestToBoolean(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected bool
	}{
		{"undefined", Undefined, false},
		{"null", Null, false},
		{"false", Boolean(false), false},
		{"true", Boolean(true), true},
		{"zero", Number(0), false},
		{"nan", Number(math.NaN()), false},
		{"nonzero number", Number(1), true},
		{"empty string", NewString(""), false},
		{"nonempty string", NewString("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToBoolean(tt.v); bool(got) != tt.expected {
				t.Errorf("ToBoolean(%v) = %v, want %v", tt.v, got, tt.expected)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected float64
	}{
		{"true", Boolean(true), 1},
		{"false", Boolean(false), 0},
		{"null", Null, 0},
		{"number", Number(42), 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, c := ToNumber(tt.v)
			if c.IsAbrupt() {
				t.Fatalf("ToNumber(%v) threw: %v", tt.v, c)
			}
			if float64(n) != tt.expected {
				t.Errorf("ToNumber(%v) = %v, want %v", tt.v, n, tt.expected)
			}
		})
	}

	t.Run("undefined is NaN", func(t *testing.T) {
		n, c := ToNumber(Undefined)
		if c.IsAbrupt() {
			t.Fatalf("unexpected throw: %v", c)
		}
		if !n.IsNaN() {
			t.Errorf("ToNumber(undefined) = %v, want NaN", n)
		}
	})

	t.Run("symbol throws", func(t *testing.T) {
		_, c := ToNumber(NewSymbol("s"))
		if !c.IsAbrupt() {
			t.Errorf("expected ToNumber(symbol) to throw")
		}
	})
}

func TestToInt32WrapsAroundUint32Range(t *testing.T) {
	n, c := ToInt32(Number(4294967296 + 5))
	if c.IsAbrupt() {
		t.Fatalf("unexpected throw: %v", c)
	}
	if n != 5 {
		t.Errorf("ToInt32(2^32+5) = %d, want 5", n)
	}
}

func TestToUint32NegativeWrapsPositive(t *testing.T) {
	n, c := ToUint32(Number(-1))
	if c.IsAbrupt() {
		t.Fatalf("unexpected throw: %v", c)
	}
	if n != 4294967295 {
		t.Errorf("ToUint32(-1) = %d, want 4294967295", n)
	}
}
