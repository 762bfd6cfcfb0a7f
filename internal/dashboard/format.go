package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"marketboard/internal/domain"
)

// Change classes applied to table cells.
const (
	ClassUp      = "up"
	ClassDown    = "down"
	ClassNeutral = "neutral"
)

// NotAvailable is shown for missing or non-numeric values.
const NotAvailable = "N/A"

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatAmount formats f with thousands separators and exactly two
// decimals, e.g. 1234.5 -> "1,234.50".
func FormatAmount(f float64) string {
	return humanize.FormatFloat("#,###.##", f)
}

// FormatPrice renders a quote price as "US$ 1,234.50", or "N/A" when the
// value is not numeric.
func FormatPrice(v domain.Value) string {
	f, ok := v.Float()
	if !ok {
		return NotAvailable
	}
	return "US$ " + FormatAmount(f)
}

// FormatFixed2 renders f with two decimals. Rounding works on the exact
// binary value of f, so 1.005 (stored as 1.00499...) gives "1.00". A
// negative value that rounds to zero keeps its sign.
func FormatFixed2(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := decimal.NewFromFloatWithExponent(f, -2).StringFixed(2)
	if f < 0 && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// FormatChange renders a percentage change and its class. Positive values
// get a "+" prefix and class up, negative values class down, and zero or
// non-numeric values class neutral (non-numeric reads "N/A").
func FormatChange(v domain.Value) (text, class string) {
	f, ok := v.Float()
	if !ok {
		return NotAvailable, ClassNeutral
	}
	text = FormatFixed2(f) + "%"
	switch {
	case f > 0:
		return "+" + text, ClassUp
	case f < 0:
		return text, ClassDown
	default:
		return text, ClassNeutral
	}
}
