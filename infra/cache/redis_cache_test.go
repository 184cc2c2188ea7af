//go:build integration

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
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisCache(tb testing.TB) *RedisRateCache {
	tb.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0.5",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(tb, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(tb, err)

	c, err := NewRedisRateCache("redis://"+host+":"+port.Port()+"/0", "test:rate:", nil)
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = c.Close() })
	require.NoError(tb, c.Ping(ctx))
	return c
}

func TestRedisRateCache(t *testing.T) {
	ctx := context.Background()
	c := setupRedisCache(t)

	got, err := c.Get(ctx, currency.USD)
	require.NoError(t, err)
	assert.Nil(t, got)

	rate := &exchange.Rate{
		Currency:  currency.USD,
		Value:     decimal.RequireFromString("90.1234"),
		Source:    "cbr",
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, c.Set(ctx, rate, time.Minute))

	got, err = c.Get(ctx, currency.USD)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Value.Equal(rate.Value))
	assert.Equal(t, "cbr", got.Source)

	require.NoError(t, c.Delete(ctx, currency.USD))
	got, err = c.Get(ctx, currency.USD)
	require.NoError(t, err)
	assert.Nil(t, got)
}
