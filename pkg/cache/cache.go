package cache

import (
	"context"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/exchange"
)

// RateCache defines the interface for caching exchange rates per currency.
// Get returns (nil, nil) on a miss or an expired entry.
type RateCache interface {
	Get(ctx context.Context, code currency.Code) (*exchange.Rate, error)
	Set(ctx context.Context, rate *exchange.Rate, ttl time.Duration) error
	Delete(ctx context.Context, code currency.Code) error
}
