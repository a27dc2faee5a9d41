// Package core provides money parsing and handling utilities.
//
// Amounts travel through the system as exact decimal strings and are only
// ever converted to decimal.Decimal for arithmetic. Native floating point is
// never used for sums.
package core

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// Symbols stripped before parsing. The ledger is single currency, the
	// symbol is only decoration copied from the UI.
	currencySymbols = []string{"₪", "$", "€", "£", "NIS"}
)

// ParseAmount converts a stored amount string to a decimal.
//
// It is deliberately lenient: empty strings, blanks and non-numeric text all
// parse to zero instead of failing. Thousands separators (commas) and a
// leading currency symbol are accepted so that formatted values round-trip.
//
// Examples:
//
//	ParseAmount("24000")     -> 24000
//	ParseAmount("-450.50")   -> -450.5
//	ParseAmount("1,234.05")  -> 1234.05
//	ParseAmount("")          -> 0
//	ParseAmount("abc")       -> 0
func ParseAmount(s string) decimal.Decimal {
	d, _ := ParseAmountOK(s)
	return d
}

// ParseAmountOK is ParseAmount that also reports whether the input was a
// well-formed number. Empty input is reported as well-formed zero.
// Exponent forms such as "1e5" are malformed: an unbounded exponent makes
// every later sum rescale to it.
func ParseAmountOK(s string) (decimal.Decimal, bool) {
	s = normalizeAmount(s)
	if s == "" {
		return decimal.Zero, true
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseAmountStrict is used on write paths where a malformed amount must be
// rejected instead of silently stored.
func ParseAmountStrict(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, ok := ParseAmountOK(s)
	if !ok {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimPrefix(s, "+")
	return s
}

// FormatAmount renders an amount with thousands separators, keeping every
// significant fractional digit so ParseAmount(FormatAmount(d)) == d.
func FormatAmount(d decimal.Decimal) string {
	abs := d.Abs()
	intPart := abs.Truncate(0)
	out := humanize.BigComma(intPart.BigInt())
	if frac := abs.Sub(intPart); !frac.IsZero() {
		out += strings.TrimPrefix(frac.String(), "0")
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

// FormatMoney renders an amount with thousands separators and exactly two
// decimal places, for display.
func FormatMoney(d decimal.Decimal) string {
	return FormatAmount(d.Round(2)) + fractionPadding(d.Round(2))
}

func fractionPadding(d decimal.Decimal) string {
	s := d.Abs().String()
	idx := strings.IndexByte(s, '.')
	switch {
	case idx < 0:
		return ".00"
	case len(s)-idx-1 == 1:
		return "0"
	default:
		return ""
	}
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
