// Package exchange converts amounts between supported currencies using rates
// quoted against a common base unit.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/shopspring/decimal"
)

// RateSource returns the rate of a currency as a multiplier against the base
// unit. Implementations must return a positive rate or an error.
type RateSource interface {
	RateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error)
}

// RateSourceFunc adapts a function to RateSource.
type RateSourceFunc func(ctx context.Context, code currency.Code) (decimal.Decimal, error)

// RateOf calls f.
func (f RateSourceFunc) RateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	return f(ctx, code)
}

// Rate is a point-in-time quote for one currency.
type Rate struct {
	Currency  currency.Code   `json:"currency"`
	Value     decimal.Decimal `json:"value"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
}

// ConvertAmount returns round(amount * fromRate / toRate, 2).
// Rounding happens once, after the division.
func ConvertAmount(amount, fromRate, toRate decimal.Decimal) (decimal.Decimal, error) {
	if err := money.RequireNonNegative(amount); err != nil {
		return decimal.Zero, err
	}
	if !fromRate.IsPositive() || !toRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: rates must be positive", domain.ErrExchangeRateUnavailable)
	}
	// DivRound keeps enough precision that the final rounding is the only one
	// affecting the result.
	raw := amount.Mul(fromRate).DivRound(toRate, 16)
	return money.Round(raw), nil
}

// Converter converts amounts using a RateSource. It neither caches nor retries.
type Converter struct {
	rates RateSource
}

// NewConverter returns a Converter backed by rates.
func NewConverter(rates RateSource) *Converter {
	return &Converter{rates: rates}
}

// Convert converts amount from one currency to another. Converting a currency
// to itself yields the rounded input without a rate lookup.
func (c *Converter) Convert(
	ctx context.Context,
	amount decimal.Decimal,
	from, to currency.Code,
) (decimal.Decimal, error) {
	if err := money.RequireNonNegative(amount); err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return money.Round(amount), nil
	}
	fromRate, err := c.rateOf(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := c.rateOf(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}
	return ConvertAmount(amount, fromRate, toRate)
}

// Rate returns the current quote for code.
func (c *Converter) Rate(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	return c.rateOf(ctx, code)
}

func (c *Converter) rateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	rate, err := c.rates.RateOf(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrExchangeRateUnavailable) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrExchangeRateUnavailable, code, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s rate %s is not positive",
			domain.ErrExchangeRateUnavailable, code, rate)
	}
	return rate, nil
}
