package app_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/infra/memory"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WiresServices(t *testing.T) {
	bus := eventbus.NewWithMemory(slog.Default())
	rates := exchange.RateSourceFunc(func(context.Context, currency.Code) (decimal.Decimal, error) {
		return decimal.NewFromInt(1), nil
	})
	deps := &config.Deps{
		Uow:      memory.NewUoW(memory.NewStore()),
		Rates:    rates,
		EventBus: bus,
		Logger:   slog.Default(),
	}
	cfg := &config.App{Fee: config.Fee{CommissionRate: decimal.RequireFromString("0.02")}}

	a := app.New(deps, cfg)
	require.NotNil(t, a.UserService)
	require.NotNil(t, a.AccountService)
	require.NotNil(t, a.CurrencyService)
	assert.Same(t, cfg, deps.Config)

	ctx := context.Background()
	alice, err := a.UserService.CreateUser(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	bob, err := a.UserService.CreateUser(ctx, "bob", "bob@example.com")
	require.NoError(t, err)
	src, err := a.AccountService.OpenAccount(ctx, alice.ID, currency.USD)
	require.NoError(t, err)
	dst, err := a.AccountService.OpenAccount(ctx, bob.ID, currency.USD)
	require.NoError(t, err)
	_, err = a.AccountService.UpdateBalance(ctx, src.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	tx, err := a.AccountService.Transfer(ctx, decimal.NewFromInt(50), src.ID, dst.ID)
	require.NoError(t, err)
	assert.Equal(t, "49.00", tx.Amount.StringFixed(2))
	assert.Len(t, bus.Published(), 1)
}
