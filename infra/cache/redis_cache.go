package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/redis/go-redis/v9"
)

// RedisRateCache implements RateCache using Redis.
type RedisRateCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisRateCache creates a RedisRateCache from a redis URL such as
// redis://localhost:6379/0.
func NewRedisRateCache(url, prefix string, logger *slog.Logger) (*RedisRateCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisRateCacheWithOptions(opt, prefix, logger), nil
}

// NewRedisRateCacheWithOptions creates a new RedisRateCache from redis.Options.
func NewRedisRateCacheWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisRateCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRateCache{client: redis.NewClient(opt), prefix: prefix, logger: logger}
}

func (r *RedisRateCache) key(code currency.Code) string {
	return r.prefix + string(code)
}

// Ping checks connectivity.
func (r *RedisRateCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRateCache) Get(ctx context.Context, code currency.Code) (*exchange.Rate, error) {
	val, err := r.client.Get(ctx, r.key(code)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "currency", code)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "currency", code, "error", err)
		return nil, err
	}
	var rate exchange.Rate
	if err := json.Unmarshal([]byte(val), &rate); err != nil {
		r.logger.Error("Redis cache unmarshal error", "currency", code, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "currency", code, "rate", rate.Value)
	return &rate, nil
}

func (r *RedisRateCache) Set(ctx context.Context, rate *exchange.Rate, ttl time.Duration) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(rate.Currency), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "currency", rate.Currency, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "currency", rate.Currency, "rate", rate.Value, "ttl", ttl)
	return nil
}

func (r *RedisRateCache) Delete(ctx context.Context, code currency.Code) error {
	if err := r.client.Del(ctx, r.key(code)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "currency", code, "error", err)
		return err
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisRateCache) Close() error {
	return r.client.Close()
}
