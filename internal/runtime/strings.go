package runtime

import "unicode/utf16"

// String is a sequence of UTF-16 code units (spec §3): not Unicode scalar
// values, so lone surrogates are preserved exactly as produced by the
// parser or by string operations that slice through a surrogate pair. Go's
// native string type is UTF-8 and cannot represent that, which is why the
// engine's String is a distinct []uint16-backed type rather than a Go
// string alias.
type String []uint16

func (s String) TypeOf() string  { return "string" }
func (s String) Display() string { return s.GoString() }

// NewString converts a well-formed Go (UTF-8) string into the engine's
// UTF-16 representation.
func NewString(s string) String {
	return String(utf16.Encode([]rune(s)))
}

// GoString converts back to a Go string. Lone surrogates are replaced with
// U+FFFD by utf16.Decode, matching Go's standard lossy behavior; exact
// round-tripping of lone surrogates is only guaranteed through String
// operations that stay within this package.
func (s String) GoString() string {
	return string(utf16.Decode(s))
}

// Length returns the number of UTF-16 code units (the spec's `.length`).
func (s String) Length() int { return len(s) }

// StringEquals compares two Strings code-unit by code-unit.
func StringEquals(a, b String) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StringCompare implements the relational ordering over code units used by
// `<`/`>`/`<=`/`>=` on strings: lexicographic by code unit value.
func StringCompare(a, b String) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Concat returns a new String holding a followed by b.
func Concat(a, b String) String {
	out := make(String, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
