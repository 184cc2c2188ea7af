package app

import (
	"log/slog"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/handler/transfer"
)

// setupEventBus registers all event handlers with the provided event Bus.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	logger := a.Deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bus.Register(events.TransferCompletedType, transfer.HandleCompleted(logger))
}
