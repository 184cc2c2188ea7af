// Package app assembles the services on top of the infrastructure
// dependencies and wires the event handlers onto the bus.
package app

import (
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/service/account"
	currencysvc "github.com/amirasaad/minibank/pkg/service/currency"
	"github.com/amirasaad/minibank/pkg/service/user"
)

type App struct {
	Deps            *config.Deps
	Config          *config.App
	UserService     *user.Service
	AccountService  *account.Service
	CurrencyService *currencysvc.Service
}

func New(deps *config.Deps, cfg *config.App) *App {
	if deps.Config == nil {
		deps.Config = cfg
	}
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	app.UserService = user.New(deps.Uow, deps.Logger)
	app.AccountService = account.NewService(*deps)
	app.CurrencyService = currencysvc.New(deps.Rates, deps.Logger)
	return app
}
