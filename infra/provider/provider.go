// Package provider implements exchange-rate sources: the Central Bank of
// Russia daily feed, a static table from configuration, and a caching
// decorator over either.
package provider

import (
	"context"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/exchange"
)

// RateProvider is a named RateSource.
type RateProvider interface {
	exchange.RateSource
	Name() string
}

// Quoter returns full rate quotes including source and timestamp.
type Quoter interface {
	Quote(ctx context.Context, code currency.Code) (exchange.Rate, error)
}
