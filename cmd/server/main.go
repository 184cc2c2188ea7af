package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/minibank/infra/initializer"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/webapi"
	log "github.com/charmbracelet/log"
)

// @title MiniBank API
// @version 1.0
// @description Accounts, users and currency-converting transfers.
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger
	defer func() {
		if cerr := deps.Close(); cerr != nil {
			logger.Error("Failed to release dependencies", "error", cerr)
		}
	}()

	a := app.New(&deps.Deps, cfg)
	fiberApp := webapi.SetupApp(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			"env", cfg.Env,
			"address", cfg.Server.Addr(),
			"scheme", cfg.Server.Scheme,
			"host", cfg.Server.Host,
		)
		errCh <- fiberApp.Listen(cfg.Server.Addr())
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	slog.Default().Info("Server stopped")
	return nil
}
