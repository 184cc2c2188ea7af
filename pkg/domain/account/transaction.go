package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction records a completed transfer. Amount is the net sum credited
// to the destination, in the destination currency, after conversion and
// commission. A Transaction is never modified after it is appended.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	DestAccountID   uuid.UUID       `json:"dest_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewTransaction creates a Transaction with a fresh ID.
func NewTransaction(source, dest uuid.UUID, amount decimal.Decimal) *Transaction {
	return &Transaction{
		ID:              uuid.New(),
		SourceAccountID: source,
		DestAccountID:   dest,
		Amount:          amount,
		CreatedAt:       time.Now().UTC(),
	}
}
