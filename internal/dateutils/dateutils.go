// Package dateutils provides the date-token normalization shared by the
// format parsers. Every format converges on ISO YYYY-MM-DD.
package dateutils

import (
	"fmt"
	"strings"
)

// RomanianMonths maps the 12 lowercase full Romanian month names to their
// month numbers.
var RomanianMonths = map[string]int{
	"ianuarie":   1,
	"februarie":  2,
	"martie":     3,
	"aprilie":    4,
	"mai":        5,
	"iunie":      6,
	"iulie":      7,
	"august":     8,
	"septembrie": 9,
	"octombrie":  10,
	"noiembrie":  11,
	"decembrie":  12,
}

// RomanianMonthAbbrevs maps the abbreviated Romanian month names used by
// Revolut statements ("ian." ... "dec.") to month numbers.
var RomanianMonthAbbrevs = map[string]int{
	"ian": 1,
	"feb": 2,
	"mar": 3,
	"apr": 4,
	"mai": 5,
	"iun": 6,
	"iul": 7,
	"aug": 8,
	"sep": 9,
	"oct": 10,
	"nov": 11,
	"dec": 12,
}

// MonthNumber resolves a full Romanian month name, case-insensitively.
func MonthNumber(name string) (int, bool) {
	m, ok := RomanianMonths[strings.ToLower(name)]
	return m, ok
}

// AbbrevMonthNumber resolves an abbreviated Romanian month name,
// case-insensitively.
func AbbrevMonthNumber(name string) (int, bool) {
	m, ok := RomanianMonthAbbrevs[strings.ToLower(name)]
	return m, ok
}

// ISODate formats year, month and day strings as YYYY-MM-DD, zero-padding
// the month and day to two digits.
func ISODate(year string, month, day int) string {
	return fmt.Sprintf("%s-%02d-%02d", year, month, day)
}

// ISOFromDMY reassembles already zero-padded day/month/year tokens
// (as captured from a DD/MM/YYYY pattern) into YYYY-MM-DD.
func ISOFromDMY(day, month, year string) string {
	return fmt.Sprintf("%s-%s-%s", year, month, day)
}
