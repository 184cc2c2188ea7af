package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amirasaad/minibank/infra"
	infracache "github.com/amirasaad/minibank/infra/cache"
	infraeventbus "github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/infra/memory"
	infraprovider "github.com/amirasaad/minibank/infra/provider"
	infrarepository "github.com/amirasaad/minibank/infra/repository"
	"github.com/amirasaad/minibank/internal/migrations"
	"github.com/amirasaad/minibank/pkg/cache"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/redis/go-redis/v9"
)

// Deps carries the initialized infrastructure and the resources to release
// on shutdown.
type Deps struct {
	config.Deps
	closers []func() error
}

// Close releases every resource opened by InitializeDependencies, newest first.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

func (d *Deps) onClose(fn func() error) {
	d.closers = append(d.closers, fn)
}

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (deps *Deps, err error) {
	deps = &Deps{}
	deps.Config = cfg
	logger := setupLogger(cfg.Log, os.Stdout)
	deps.Logger = logger

	defer func() {
		if err != nil {
			_ = deps.Close()
			deps = nil
		}
	}()

	rates, err := newRateSource(cfg, logger, deps)
	if err != nil {
		return deps, fmt.Errorf("failed to initialize exchange rate provider: %w", err)
	}
	deps.Rates = rates
	deps.Converter = exchange.NewConverter(rates)

	deps.Uow, err = newUnitOfWork(cfg, logger, deps)
	if err != nil {
		return deps, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.EventBus, err = newEventBus(cfg, logger, deps)
	if err != nil {
		return deps, fmt.Errorf("failed to create event bus: %w", err)
	}

	logger.Info("Dependencies initialized",
		"db_driver", cfg.DB.Driver,
		"rate_provider", rates.Name(),
		"event_bus", cfg.EventBus.Driver,
	)
	return deps, nil
}

func newRateSource(cfg *config.App, logger *slog.Logger, deps *Deps) (infraprovider.RateProvider, error) {
	var upstream infraprovider.RateProvider
	switch cfg.Exchange.Provider {
	case "static":
		static, err := infraprovider.NewStaticProvider(cfg.Exchange.Static)
		if err != nil {
			return nil, err
		}
		upstream = static
	default:
		upstream = infraprovider.NewCBRProvider(cfg.Exchange, logger)
	}

	var rateCache cache.RateCache
	switch cfg.Exchange.CacheDriver {
	case "none":
		logger.Info("Exchange rate cache disabled", "provider", upstream.Name())
		return upstream, nil
	case "redis":
		redisCache, err := newRedisCache(cfg, logger)
		if err != nil {
			logger.Warn("Redis rate cache unavailable, falling back to memory", "error", err)
		} else {
			deps.onClose(redisCache.Close)
			rateCache = redisCache
		}
	}
	if rateCache == nil {
		memCache := infracache.NewMemoryCache(time.Minute)
		deps.onClose(func() error { memCache.Close(); return nil })
		rateCache = memCache
	}

	return infraprovider.NewCachedSource(
		upstream,
		rateCache,
		cfg.Exchange.CacheTTL,
		cfg.Exchange.EnableFallback,
		logger,
	), nil
}

func newRedisCache(cfg *config.App, logger *slog.Logger) (*infracache.RedisRateCache, error) {
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	opt.DialTimeout = cfg.Redis.DialTimeout
	opt.ReadTimeout = cfg.Redis.ReadTimeout
	opt.WriteTimeout = cfg.Redis.WriteTimeout
	c := infracache.NewRedisRateCacheWithOptions(opt, cfg.Exchange.CachePrefix, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func newUnitOfWork(cfg *config.App, logger *slog.Logger, deps *Deps) (repository.UnitOfWork, error) {
	if cfg.DB.Driver == "memory" {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewUoW(memory.NewStore()), nil
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	deps.onClose(sqlDB.Close)

	if cfg.DB.MigrateOnStart {
		if err := migrations.Up(sqlDB, logger); err != nil {
			return nil, err
		}
	}
	return infrarepository.NewUoW(db), nil
}

func newEventBus(cfg *config.App, logger *slog.Logger, deps *Deps) (eventbus.Bus, error) {
	if cfg.EventBus.Driver != "kafka" {
		return infraeventbus.NewWithMemory(logger), nil
	}
	bus, err := infraeventbus.NewWithKafka(infraeventbus.KafkaEventBusConfig{
		Brokers: cfg.EventBus.Brokers,
		Topic:   cfg.EventBus.Topic,
	}, logger)
	if err != nil {
		return nil, err
	}
	deps.onClose(bus.Close)
	return bus, nil
}
