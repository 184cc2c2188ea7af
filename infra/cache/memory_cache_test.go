package cache

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	got, err := c.Get(ctx, currency.USD)
	require.NoError(t, err)
	assert.Nil(t, got, "miss")

	rate := &exchange.Rate{Currency: currency.USD, Value: decimal.RequireFromString("90.1"), Source: "test"}
	require.NoError(t, c.Set(ctx, rate, time.Minute))

	got, err = c.Get(ctx, currency.USD)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Value.Equal(rate.Value))

	now = now.Add(2 * time.Minute)
	got, err = c.Get(ctx, currency.USD)
	require.NoError(t, err)
	assert.Nil(t, got, "expired")

	require.NoError(t, c.Set(ctx, rate, time.Minute))
	require.NoError(t, c.Delete(ctx, currency.USD))
	got, _ = c.Get(ctx, currency.USD)
	assert.Nil(t, got, "deleted")
}

func TestMemoryCache_Sweeper(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	defer c.Close()

	rate := &exchange.Rate{Currency: currency.EUR, Value: decimal.NewFromInt(98)}
	require.NoError(t, c.Set(context.Background(), rate, time.Millisecond))

	assert.Eventually(t, func() bool {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return len(c.cache) == 0
	}, time.Second, 10*time.Millisecond)
}
