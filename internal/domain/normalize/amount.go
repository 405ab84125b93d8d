package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	commaCentsRe = regexp.MustCompile(`,\d{2}$`)
	plainNumRe   = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)
)

// ParseAmount parses a BRL amount such as "R$ 1.234,56", "-45,67" or
// "123.45". A trailing comma followed by two digits marks the comma as the
// decimal separator; otherwise commas are thousands separators.
// The second return value is false when the input is not a number.
func ParseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(s, "R$", "")
	cleaned = strings.Join(strings.Fields(cleaned), "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	if commaCentsRe.MatchString(cleaned) {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	if !plainNumRe.MatchString(cleaned) {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// FormatAmount renders an amount the way ParseAmount reads it back:
// dot thousands, comma decimal, two fraction digits ("-1.234,56").
// Amounts with more than two significant fraction digits are written in
// plain period-decimal form without grouping ("12.345") so they parse back
// unchanged.
func FormatAmount(d decimal.Decimal) string {
	if !d.Round(2).Equal(d) {
		return d.String()
	}

	fixed := d.Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	return sign + b.String() + "," + frac
}

// AmountKey is the two-decimal bucket key used to index amounts.
func AmountKey(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
