package runtime

import (
	"math"
	"strconv"
	"strings"
)

// formatShortestFloat renders f the way Number::toString does: integers
// without a trailing ".0", and everything else in the shortest decimal form
// that round-trips, switching to exponential notation far from 1 just as
// the specification's algorithm does.
func formatShortestFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	mag := f
	if mag < 0 {
		mag = -mag
	}
	if mag >= 1e21 || mag < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		return normalizeExponent(s)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}

// normalizeExponent rewrites Go's "1.5e+21"/"1.5e-07" into the
// specification's "1.5e+21"/"1.5e-7" form (no leading zero in the exponent).
func normalizeExponent(s string) string {
	idx := strings.IndexByte(s, 'e')
	if idx < 0 {
		return s
	}
	mantissa, exp := s[:idx], s[idx+1:]
	sign := "+"
	if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
		if exp[0] == '-' {
			sign = "-"
		}
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + sign + exp
}

// stringToNumber implements StringToNumber (spec §4.3, ToNumber applied to
// String): trim whitespace, recognize "Infinity"/"-Infinity"/"+Infinity",
// the 0x/0o/0b radix prefixes, empty-string-is-zero, else defer to Go's
// float parser and report NaN on any parse failure.
func stringToNumber(s String) Number {
	str := strings.TrimFunc(s.GoString(), isStringWhitespace)
	if str == "" {
		return 0
	}
	switch str {
	case "Infinity", "+Infinity":
		return Number(math.Inf(1))
	case "-Infinity":
		return Number(math.Inf(-1))
	}
	if len(str) > 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X') {
		if n, err := strconv.ParseUint(str[2:], 16, 64); err == nil {
			return Number(n)
		}
		return Number(math.NaN())
	}
	if len(str) > 2 && str[0] == '0' && (str[1] == 'o' || str[1] == 'O') {
		if n, err := strconv.ParseUint(str[2:], 8, 64); err == nil {
			return Number(n)
		}
		return Number(math.NaN())
	}
	if len(str) > 2 && str[0] == '0' && (str[1] == 'b' || str[1] == 'B') {
		if n, err := strconv.ParseUint(str[2:], 2, 64); err == nil {
			return Number(n)
		}
		return Number(math.NaN())
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(f)
}

func isStringWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0xFEFF, 0x00A0, 0x2028, 0x2029:
		return true
	}
	return false
}
