// Package currency exposes the supported currencies, their current rates and
// ad-hoc conversions.
package currency

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/shopspring/decimal"
)

type quoter interface {
	Quote(ctx context.Context, code currency.Code) (exchange.Rate, error)
}

// Conversion is the result of converting an amount between two currencies.
type Conversion struct {
	Amount    decimal.Decimal `json:"amount"`
	From      currency.Code   `json:"from"`
	To        currency.Code   `json:"to"`
	FromRate  decimal.Decimal `json:"from_rate"`
	ToRate    decimal.Decimal `json:"to_rate"`
	Converted decimal.Decimal `json:"converted"`
}

// Service answers currency and rate queries.
type Service struct {
	rates     exchange.RateSource
	converter *exchange.Converter
	logger    *slog.Logger
}

// New creates a currency Service reading from rates.
func New(rates exchange.RateSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		rates:     rates,
		converter: exchange.NewConverter(rates),
		logger:    logger.With("service", "currency"),
	}
}

// ListCurrencies returns metadata for every supported currency.
func (s *Service) ListCurrencies() []currency.Meta {
	return currency.ListMeta()
}

// GetRate returns the current quote for code.
func (s *Service) GetRate(ctx context.Context, code currency.Code) (*exchange.Rate, error) {
	if _, err := currency.Get(code); err != nil {
		return nil, err
	}
	if q, ok := s.rates.(quoter); ok {
		rate, err := q.Quote(ctx, code)
		if err != nil {
			s.logger.Warn("GetRate failed", "currency", code, "error", err)
			return nil, err
		}
		return &rate, nil
	}
	value, err := s.converter.Rate(ctx, code)
	if err != nil {
		s.logger.Warn("GetRate failed", "currency", code, "error", err)
		return nil, err
	}
	return &exchange.Rate{
		Currency:  code,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}, nil
}

// ListRates returns quotes for every supported currency. The first failing
// lookup aborts the listing.
func (s *Service) ListRates(ctx context.Context) ([]exchange.Rate, error) {
	codes := currency.All()
	rates := make([]exchange.Rate, 0, len(codes))
	for _, code := range codes {
		r, err := s.GetRate(ctx, code)
		if err != nil {
			return nil, err
		}
		rates = append(rates, *r)
	}
	return rates, nil
}

// Convert converts amount between two supported currencies.
func (s *Service) Convert(
	ctx context.Context,
	amount decimal.Decimal,
	from, to currency.Code,
) (*Conversion, error) {
	if _, err := currency.Get(from); err != nil {
		return nil, err
	}
	if _, err := currency.Get(to); err != nil {
		return nil, err
	}
	converted, err := s.converter.Convert(ctx, amount, from, to)
	if err != nil {
		return nil, err
	}
	out := &Conversion{
		Amount:    amount,
		From:      from,
		To:        to,
		FromRate:  decimal.NewFromInt(1),
		ToRate:    decimal.NewFromInt(1),
		Converted: converted,
	}
	if from != to {
		if out.FromRate, err = s.converter.Rate(ctx, from); err != nil {
			return nil, err
		}
		if out.ToRate, err = s.converter.Rate(ctx, to); err != nil {
			return nil, err
		}
	}
	return out, nil
}
