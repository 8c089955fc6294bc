// Package currencyutils provides locale-aware parsing of statement amount
// strings into decimal values.
package currencyutils

import (
	"errors"
	"strings"

	"extrasjson/internal/parsererror"

	"github.com/shopspring/decimal"
)

// ParseLocaleAmount parses a numeral written in either European
// ("1.234,56") or US ("1,234.56") convention.
//
// When both separators are present, the one appearing later in the string
// is the decimal separator and the earlier one is a thousands separator.
// A lone comma is treated as the decimal separator (European convention).
// A lone dot, or no separator at all, parses directly. Non-numeric input
// yields an error, never a panic.
func ParseLocaleAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &parsererror.ParseError{
			Parser: "amount", Field: "amount", Value: raw,
			Err: errors.New("empty amount string"),
		}
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// European style: "1.234,56"
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// US style: "1,234.56"
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{
			Parser: "amount", Field: "amount", Value: raw, Err: err,
		}
	}
	return amount, nil
}

// ParseLocaleAmountPtr is ParseLocaleAmount for optional raw strings: it
// returns nil for nil input and for unparseable values, letting malformed
// amounts surface as null fields instead of aborting a parse.
func ParseLocaleAmountPtr(raw *string) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	amount, err := ParseLocaleAmount(*raw)
	if err != nil {
		return nil
	}
	return &amount
}
