package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Value is a loosely typed JSON scalar. Quote feeds send prices and changes
// as numbers, numeric strings, or placeholders such as "N/A", so the raw
// token is kept and interpreted on demand.
type Value struct {
	raw json.RawMessage
}

// NumberValue wraps a float as a Value.
func NumberValue(f float64) Value {
	return Value{raw: json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))}
}

// StringValue wraps a string as a Value.
func StringValue(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: b}
}

// UnmarshalJSON stores the raw token.
func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(v.raw[:0], b...)
	return nil
}

// MarshalJSON writes the raw token back, or null if unset.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// IsZero reports whether the value was never set.
func (v Value) IsZero() bool { return len(v.raw) == 0 }

// String returns the raw JSON token.
func (v Value) String() string { return string(v.raw) }

// Float interprets the value the way parseFloat does in a browser: numbers
// pass through, strings are parsed by their longest numeric prefix, and
// anything else is NaN. ok is false when the result is NaN.
func (v Value) Float() (f float64, ok bool) {
	raw := bytes.TrimSpace(v.raw)
	if len(raw) == 0 {
		return math.NaN(), false
	}
	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return math.NaN(), false
		}
		f = ParseFloatPrefix(s)
	case c == '-' || (c >= '0' && c <= '9'):
		var err error
		f, err = strconv.ParseFloat(string(raw), 64)
		if err != nil && !math.IsInf(f, 0) {
			return math.NaN(), false
		}
	default:
		return math.NaN(), false
	}
	return f, !math.IsNaN(f)
}

// ParseFloatPrefix parses the longest leading decimal literal of s after
// skipping leading whitespace. It returns NaN when no literal is present.
func ParseFloatPrefix(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	for _, inf := range []struct {
		prefix string
		val    float64
	}{
		{"Infinity", math.Inf(1)},
		{"+Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
	} {
		if strings.HasPrefix(s, inf.prefix) {
			return inf.val
		}
	}

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return math.NaN()
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}

	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil && !math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
