package config

import (
	"fmt"
	"log/slog"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	// If no specific paths provided, try default .env
	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	// Try each provided path until we find a valid one
	for _, path := range envFilePath {
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		return loadFromEnv()
	}

	logger.Info("No valid environment files found, using process environment")
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"server_port", cfg.Server.Port,
		"db_driver", cfg.DB.Driver,
		"db", maskValue(cfg.DB.Url),
		"redis", maskValue(cfg.Redis.URL),
		"exchange_provider", cfg.Exchange.Provider,
		"exchange_cache", cfg.Exchange.CacheDriver,
		"exchange_cache_ttl", cfg.Exchange.CacheTTL,
		"commission_rate", cfg.Fee.CommissionRate.String(),
		"allow_overdraft", cfg.Transfer.AllowOverdraft,
		"auth_enabled", cfg.Auth.Enabled(),
		"auth_jwt_secret", maskValue(cfg.Auth.Jwt.Secret),
		"event_bus", cfg.EventBus.Driver,
	)
	return &cfg, nil
}

// Validate checks enumerated settings and numeric ranges.
func (c *App) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: config: %s", domain.ErrValidation, err.Error())
	}
	rate := c.Fee.CommissionRate
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: config: FEE_COMMISSION_RATE %s outside [0, 1)", domain.ErrValidation, rate)
	}
	return nil
}

func maskValue(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
