// Package money converts between decimal major units at the edges of the
// system and the integer minor units (cents) that are persisted.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits scales to cents, rounding half away from zero on the cent digit.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromFloat converts an API float through its shortest decimal form, so
// 10.25 is treated as exactly 10.25.
func FromFloat(amount float64) int64 {
	return ToMinorUnits(decimal.NewFromFloat(amount))
}

// ParseMinorUnits parses a plain decimal string such as "-2.34".
func ParseMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, errs.NewValidationError("invalid amount: " + s)
	}
	return ToMinorUnits(d), nil
}

// ToMajorUnits returns cents as a decimal with exactly two fractional digits.
func ToMajorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents as a fixed two digit string, e.g. 1025 -> "10.25".
func Format(cents int64) string {
	return ToMajorUnits(cents).StringFixed(2)
}

// Abs returns the magnitude of a cent amount.
func Abs(cents int64) int64 {
	if cents < 0 {
		return -cents
	}
	return cents
}
