package account

import (
	"github.com/amirasaad/minibank/pkg/currency"
	accountsvc "github.com/amirasaad/minibank/pkg/service/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents the request body for opening an account.
type CreateAccountRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	Currency string `json:"currency" validate:"required,len=3,alpha"`
}

// UpdateBalanceRequest sets an account balance administratively.
type UpdateBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

// TransferRequest represents the request body for transferring funds between accounts.
// Amount is expressed in the source account's currency.
type TransferRequest struct {
	SourceAccountID string          `json:"source_account_id" validate:"required,uuid"`
	DestAccountID   string          `json:"dest_account_id" validate:"required,uuid"`
	Amount          decimal.Decimal `json:"amount"`
}

// TransferResponse reports a committed transfer.
type TransferResponse struct {
	TransactionID   uuid.UUID       `json:"transaction_id"`
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	DestAccountID   uuid.UUID       `json:"dest_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	SourceCurrency  currency.Code   `json:"source_currency"`
	Converted       decimal.Decimal `json:"converted"`
	Commission      decimal.Decimal `json:"commission"`
	Credited        decimal.Decimal `json:"credited"`
	DestCurrency    currency.Code   `json:"dest_currency"`
	CreatedAt       string          `json:"created_at"`
}

// CommissionResponse is returned by the commission preview endpoint.
type CommissionResponse struct {
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
}

func toTransferResponse(r *accountsvc.Receipt) TransferResponse {
	return TransferResponse{
		TransactionID:   r.Transaction.ID,
		SourceAccountID: r.Transaction.SourceAccountID,
		DestAccountID:   r.Transaction.DestAccountID,
		Amount:          r.Amount,
		SourceCurrency:  r.SourceCurrency,
		Converted:       r.Converted,
		Commission:      r.Commission,
		Credited:        r.Credited,
		DestCurrency:    r.DestCurrency,
		CreatedAt:       r.Transaction.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
