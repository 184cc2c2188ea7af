// Package events defines the events MiniBank publishes.
package events

import (
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TransferCompletedType = "transfer.completed"

// TransferCompleted is published after a transfer has been committed.
// Amount is debited in SourceCurrency; Credited is the net sum received in
// DestCurrency after conversion and Commission.
type TransferCompleted struct {
	ID              uuid.UUID       `json:"id"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	DestAccountID   uuid.UUID       `json:"dest_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	SourceCurrency  currency.Code   `json:"source_currency"`
	Converted       decimal.Decimal `json:"converted"`
	Commission      decimal.Decimal `json:"commission"`
	Credited        decimal.Decimal `json:"credited"`
	DestCurrency    currency.Code   `json:"dest_currency"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

func (e *TransferCompleted) Type() string { return TransferCompletedType }

// EventTypes maps type names to constructors for decoding events received
// from an external bus.
var EventTypes = map[string]func() eventbus.Event{
	TransferCompletedType: func() eventbus.Event { return &TransferCompleted{} },
}
