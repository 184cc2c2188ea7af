package infra

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/minibank/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the Postgres pool described by cfg. gorm's own log
// lines go to log; every statement is logged in development, elsewhere only
// slow queries and errors.
func NewDBConnection(
	cfg config.DB,
	appEnv string,
	log *slog.Logger,
) (*gorm.DB, error) {
	if cfg.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return openPool(postgres.Open(cfg.Url), cfg, appEnv, log)
}

func openPool(
	dialector gorm.Dialector,
	cfg config.DB,
	appEnv string,
	log *slog.Logger,
) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(log, cfg, appEnv),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool, err := conn.DB()
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return conn, nil
}

func newGormLogger(log *slog.Logger, cfg config.DB, appEnv string) logger.Interface {
	level := logger.Warn
	if appEnv == "development" {
		level = logger.Info
	}
	return logger.New(slogWriter{log.With("component", "gorm")}, logger.Config{
		SlowThreshold:             cfg.SlowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// slogWriter satisfies logger.Writer.
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Info(fmt.Sprintf(format, args...))
}
