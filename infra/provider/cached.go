package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/minibank/pkg/cache"
	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// CachedSource decorates a RateProvider with a TTL cache. Concurrent misses
// for one currency share a single upstream call. With fallback enabled the
// last successful quote is served when the upstream fails.
type CachedSource struct {
	next     RateProvider
	cache    cache.RateCache
	ttl      time.Duration
	fallback bool
	logger   *slog.Logger

	group     singleflight.Group
	mu        sync.RWMutex
	lastKnown map[currency.Code]exchange.Rate
}

// NewCachedSource creates a new CachedSource.
func NewCachedSource(
	next RateProvider,
	c cache.RateCache,
	ttl time.Duration,
	fallback bool,
	logger *slog.Logger,
) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{
		next:      next,
		cache:     c,
		ttl:       ttl,
		fallback:  fallback,
		logger:    logger,
		lastKnown: make(map[currency.Code]exchange.Rate),
	}
}

// Name returns the provider's name.
func (c *CachedSource) Name() string {
	return fmt.Sprintf("cached(%s)", c.next.Name())
}

func (c *CachedSource) RateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	q, err := c.Quote(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Value, nil
}

// Quote returns the cached rate of code, fetching it upstream on a miss.
func (c *CachedSource) Quote(ctx context.Context, code currency.Code) (exchange.Rate, error) {
	if r, err := c.cache.Get(ctx, code); err == nil && r != nil {
		return *r, nil
	} else if err != nil {
		c.logger.Error("Error getting rate from cache", "currency", code, "error", err)
	}

	// The shared fetch outlives any single caller; each caller stops waiting
	// when its own context ends.
	ch := c.group.DoChan(string(code), func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx), code)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return exchange.Rate{}, ctx.Err()
	}
	err := res.Err
	if err == nil {
		if res.Shared {
			c.logger.Debug("Shared upstream rate fetch", "currency", code)
		}
		return res.Val.(exchange.Rate), nil
	}

	if c.fallback {
		c.mu.RLock()
		stale, ok := c.lastKnown[code]
		c.mu.RUnlock()
		if ok {
			c.logger.Warn("Serving stale exchange rate",
				"currency", code, "fetched_at", stale.Timestamp, "error", err)
			return stale, nil
		}
	}
	if errors.Is(err, domain.ErrExchangeRateUnavailable) {
		return exchange.Rate{}, err
	}
	return exchange.Rate{}, fmt.Errorf("%w: %s: %v", domain.ErrExchangeRateUnavailable, code, err)
}

func (c *CachedSource) refresh(ctx context.Context, code currency.Code) (exchange.Rate, error) {
	var q exchange.Rate
	if quoter, ok := c.next.(Quoter); ok {
		r, err := quoter.Quote(ctx, code)
		if err != nil {
			return exchange.Rate{}, err
		}
		q = r
	} else {
		value, err := c.next.RateOf(ctx, code)
		if err != nil {
			return exchange.Rate{}, err
		}
		q = exchange.Rate{Currency: code, Value: value, Source: c.next.Name(), Timestamp: time.Now().UTC()}
	}

	if err := c.cache.Set(ctx, &q, c.ttl); err != nil {
		c.logger.Error("Error setting rate cache", "currency", code, "error", err)
	}
	c.mu.Lock()
	c.lastKnown[code] = q
	c.mu.Unlock()
	return q, nil
}

// Invalidate drops the cached rate of code so the next lookup goes upstream.
func (c *CachedSource) Invalidate(ctx context.Context, code currency.Code) error {
	return c.cache.Delete(ctx, code)
}
