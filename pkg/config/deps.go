package config

import (
	"log/slog"

	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/amirasaad/minibank/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Uow       repository.UnitOfWork
	Rates     exchange.RateSource
	Converter *exchange.Converter
	EventBus  eventbus.Bus
	Logger    *slog.Logger
	Config    *App
}
