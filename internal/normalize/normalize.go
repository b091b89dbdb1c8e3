// Package normalize holds the single key-normalization rule shared by every
// identity comparison: surrounding whitespace is trimmed and letters are
// lowercased.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Key returns the comparison form of s.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Equal reports whether a and b are the same identity.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// TupleEqual compares composite identities field by field.
func TupleEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Cell stringifies a raw value read from a tabular backend. Numbers that
// hold an integer are printed without fraction or exponent so a serial
// such as 123456789 compares equal to the string the operator typed.
func Cell(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return formatFloat(typed, 64)
	case float32:
		return formatFloat(float64(typed), 32)
	case bool:
		if typed {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
