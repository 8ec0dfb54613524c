package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders v as dollars with thousands separators and two
// decimals. The sign follows the dollar sign: -1234.5 becomes "$-1,234.50".
func FormatCurrency(v float64) string {
	if !finite(v) {
		return "$" + nonFinite(v)
	}
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	return "$" + sign + groupThousands(whole) + "." + frac
}

// FormatPercent renders a fraction with one decimal, e.g. 0.1234 becomes "12.3%".
func FormatPercent(v float64) string {
	if !finite(v) {
		return nonFinite(v) + "%"
	}
	return decimal.NewFromFloat(v).Shift(2).StringFixed(1) + "%"
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// nonFinite renders NaN and the infinities, which decimal cannot hold.
func nonFinite(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
