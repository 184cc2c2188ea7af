package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/shopspring/decimal"
)

// StaticProvider serves a fixed rate table, typically from EXCHANGE_RATE_STATIC.
type StaticProvider struct {
	rates    map[currency.Code]decimal.Decimal
	loadedAt time.Time
}

// NewStaticProvider parses a code → rate table. Every rate must be positive.
func NewStaticProvider(table map[string]string) (*StaticProvider, error) {
	rates := make(map[currency.Code]decimal.Decimal, len(table))
	for k, v := range table {
		code, err := currency.Parse(k)
		if err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(v)
		if err != nil || !d.IsPositive() {
			return nil, fmt.Errorf("%w: static rate %s=%q must be a positive number", domain.ErrValidation, k, v)
		}
		rates[code] = d
	}
	return &StaticProvider{rates: rates, loadedAt: time.Now().UTC()}, nil
}

// Name returns the provider's name
func (p *StaticProvider) Name() string {
	return "static"
}

func (p *StaticProvider) RateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	q, err := p.Quote(ctx, code)
	return q.Value, err
}

func (p *StaticProvider) Quote(_ context.Context, code currency.Code) (exchange.Rate, error) {
	r, ok := p.rates[code]
	if !ok {
		return exchange.Rate{}, fmt.Errorf("%w: no static rate for %s", domain.ErrExchangeRateUnavailable, code)
	}
	return exchange.Rate{Currency: code, Value: r, Source: p.Name(), Timestamp: p.loadedAt}, nil
}
