package exchange_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type stubRates map[currency.Code]decimal.Decimal

func (s stubRates) RateOf(_ context.Context, code currency.Code) (decimal.Decimal, error) {
	r, ok := s[code]
	if !ok {
		return decimal.Zero, errors.New("no quote")
	}
	return r, nil
}

func TestConvertAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		from, to string
		want     string
	}{
		{"usd to eur", "100", "1.0", "0.9", "111.11"},
		{"eur to usd", "111.11", "0.9", "1.0", "100"},
		{"identity rounds input", "10.005", "1", "1", "10"},
		{"rub to usd", "9010", "1", "90.1", "100"},
		{"zero", "0", "1", "0.9", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := exchange.ConvertAmount(d(tt.amount), d(tt.from), d(tt.to))
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}

	_, err := exchange.ConvertAmount(d("-1"), d("1"), d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = exchange.ConvertAmount(d("1"), d("1"), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
}

func TestConverter_Convert(t *testing.T) {
	conv := exchange.NewConverter(stubRates{
		currency.USD: d("1.0"),
		currency.EUR: d("0.9"),
	})
	ctx := context.Background()

	t.Run("cross currency", func(t *testing.T) {
		got, err := conv.Convert(ctx, d("100"), currency.USD, currency.EUR)
		require.NoError(t, err)
		assert.Equal(t, "111.11", got.StringFixed(2))
	})

	t.Run("same currency skips lookups", func(t *testing.T) {
		got, err := conv.Convert(ctx, d("12.345"), currency.RUB, currency.RUB)
		require.NoError(t, err)
		assert.True(t, got.Equal(d("12.34")))
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := conv.Convert(ctx, d("-0.01"), currency.USD, currency.EUR)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.Contains(t, err.Error(), "amount cannot be negative")
	})

	t.Run("missing rate", func(t *testing.T) {
		_, err := conv.Convert(ctx, d("1"), currency.USD, currency.RUB)
		assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
	})

	t.Run("non-positive rate", func(t *testing.T) {
		bad := exchange.NewConverter(exchange.RateSourceFunc(
			func(context.Context, currency.Code) (decimal.Decimal, error) { return decimal.Zero, nil }))
		_, err := bad.Convert(ctx, d("1"), currency.USD, currency.EUR)
		assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
	})
}

func TestConverter_RoundTrip(t *testing.T) {
	conv := exchange.NewConverter(stubRates{
		currency.USD: d("1.0"),
		currency.EUR: d("0.9"),
	})
	ctx := context.Background()
	tolerance := d("0.02")

	for _, amount := range []string{"0.01", "1", "3.33", "100", "123.45", "99999.99"} {
		t.Run(amount, func(t *testing.T) {
			there, err := conv.Convert(ctx, d(amount), currency.USD, currency.EUR)
			require.NoError(t, err)
			back, err := conv.Convert(ctx, there, currency.EUR, currency.USD)
			require.NoError(t, err)
			diff := back.Sub(d(amount)).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance), "round trip drifted by %s", diff)
		})
	}
}
