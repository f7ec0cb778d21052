// Package locale parses amounts and dates as Norwegian bank exports write
// them: comma decimal separators, space or NBSP thousands grouping, and
// day-first date formats.
package locale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const isoDate = "2006-01-02"

// dateLayouts are tried in priority order; the first layout that parses the
// entire string wins.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"2006/01/02",
}

var hundred = decimal.NewFromInt(100)

// ParseAmount parses an amount string and returns its absolute value.
// Internal spaces (including non-breaking space) are stripped and comma
// decimal separators converted to periods before parsing. Direction is not
// this parser's concern. Unparseable or empty input yields zero; callers that
// need hard failure use ParseSignedAmount.
func ParseAmount(raw string) decimal.Decimal {
	d, ok := ParseSignedAmount(raw)
	if !ok {
		return decimal.Zero
	}
	return d.Abs()
}

// ParseSignedAmount parses raw with the same cleanup as ParseAmount but keeps
// the sign, reporting whether parsing succeeded.
func ParseSignedAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// MinorUnits converts a major-unit amount to minor units (øre/cents),
// rounding to the nearest integer: 123.45 -> 12345.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Abs().Mul(hundred).Round(0).IntPart()
}

// ParseDate normalizes a date string to ISO YYYY-MM-DD form. Empty input
// yields the current processing date. When no layout matches, the original
// string is returned unchanged; downstream consumers tolerate that.
func ParseDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Now().Format(isoDate)
	}
	if iso, ok := ParseDateStrict(s); ok {
		return iso
	}
	return s
}

// ParseDateStrict is ParseDate without the passthrough fallback, reporting
// whether any layout matched.
func ParseDateStrict(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), true
		}
	}
	return "", false
}

// FormatDate formats a native date value directly to ISO form.
func FormatDate(t time.Time) string {
	return t.Format(isoDate)
}
