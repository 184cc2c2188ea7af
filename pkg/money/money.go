// Package money holds the numeric policy for monetary amounts: every amount
// is a shopspring decimal and every rounding step goes through Round.
package money

import (
	"fmt"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places amounts are rounded to.
const Scale int32 = currency.DefaultDecimals

// Round rounds d to Scale decimal places using banker's rounding
// (half to even). It is the only rounding function used for conversion and
// commission so both steps share one policy.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Scale)
}

// FromFloat builds an amount from a float64 without rounding.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Parse parses a decimal string such as "100.25".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, s)
	}
	return d, nil
}

// RequireNonNegative returns ErrInvalidAmount when d is below zero.
func RequireNonNegative(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", domain.ErrInvalidAmount)
	}
	return nil
}

// RequirePositive returns ErrInvalidAmount unless d is above zero.
func RequirePositive(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	return nil
}

// RequireScale returns ErrInvalidAmount when d has more than Scale decimal
// places. Trailing zeros do not count.
func RequireScale(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(Scale)) {
		return fmt.Errorf("%w: at most %d decimal places", domain.ErrInvalidAmount, Scale)
	}
	return nil
}
