// Package transfer holds event handlers reacting to committed transfers.
package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
)

// HandleCompleted returns a handler that writes an audit line for every
// committed transfer.
func HandleCompleted(logger *slog.Logger) eventbus.HandlerFunc {
	return func(_ context.Context, e eventbus.Event) error {
		log := logger.With(
			"handler", "transfer.HandleCompleted",
			"event_type", e.Type(),
		)
		tc, ok := e.(*events.TransferCompleted)
		if !ok {
			log.Error("❌ [DISCARD] Unexpected event type", "event", e)
			return fmt.Errorf("unexpected event type: %T", e)
		}
		log.Info("✅ [AUDIT] Transfer completed",
			"transaction_id", tc.TransactionID,
			"source_account_id", tc.SourceAccountID,
			"dest_account_id", tc.DestAccountID,
			"amount", tc.Amount.StringFixed(2)+" "+tc.SourceCurrency.String(),
			"commission", tc.Commission.StringFixed(2)+" "+tc.DestCurrency.String(),
			"credited", tc.Credited.StringFixed(2)+" "+tc.DestCurrency.String(),
		)
		return nil
	}
}
