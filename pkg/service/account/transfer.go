package account

import (
	"bytes"
	"context"
	"fmt"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt describes a committed transfer. Amount was debited in
// SourceCurrency; Credited reached the destination in DestCurrency.
type Receipt struct {
	Transaction    *account.Transaction
	Amount         decimal.Decimal
	SourceCurrency currency.Code
	Converted      decimal.Decimal
	Commission     decimal.Decimal
	Credited       decimal.Decimal
	DestCurrency   currency.Code
}

// Transfer moves amount, expressed in the source account's currency, from
// sourceID to destID and returns the appended transaction record.
func (s *Service) Transfer(
	ctx context.Context,
	amount decimal.Decimal,
	sourceID, destID uuid.UUID,
) (*account.Transaction, error) {
	receipt, err := s.TransferWithReceipt(ctx, amount, sourceID, destID)
	if err != nil {
		return nil, err
	}
	return receipt.Transaction, nil
}

// TransferWithReceipt performs a transfer like Transfer and also reports the
// intermediate amounts.
//
// The source is debited by amount. When currencies differ the amount is
// converted into the destination currency; commission is then taken from the
// converted amount unless both accounts belong to the same user, and the
// remainder is credited.
//
// Conversion happens before the unit of work starts, so no lock is held while
// rates are fetched. Inside the unit of work both rows are locked in ascending
// ID order and validated again before any balance is written.
func (s *Service) TransferWithReceipt(
	ctx context.Context,
	amount decimal.Decimal,
	sourceID, destID uuid.UUID,
) (*Receipt, error) {
	logger := s.logger.With(
		"sourceID", sourceID,
		"destID", destID,
		"amount", amount.String(),
	)
	if sourceID == destID {
		logger.Warn("Transfer rejected", "error", domain.ErrInvalidTransfer)
		return nil, domain.ErrInvalidTransfer
	}
	if err := validateTransferAmount(amount); err != nil {
		logger.Warn("Transfer rejected", "error", err)
		return nil, err
	}

	converted, err := s.quoteTransfer(ctx, amount, sourceID, destID)
	if err != nil {
		logger.Error("Transfer failed", "error", err)
		return nil, err
	}

	var receipt *Receipt
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		src, dst, err := lockPair(ctx, accounts, sourceID, destID)
		if err != nil {
			return err
		}
		if err = s.validatePair(src, dst, amount); err != nil {
			return err
		}

		if err = accounts.SetBalance(ctx, src.ID, src.Balance.Sub(amount)); err != nil {
			return err
		}
		commission := s.commission.Commission(converted, src.SameOwner(dst))
		credited := converted.Sub(commission)
		if err = accounts.SetBalance(ctx, dst.ID, dst.Balance.Add(credited)); err != nil {
			return err
		}

		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx := account.NewTransaction(src.ID, dst.ID, credited)
		if err = txs.Append(ctx, tx); err != nil {
			return err
		}
		receipt = &Receipt{
			Transaction:    tx,
			Amount:         amount,
			SourceCurrency: src.Currency,
			Converted:      converted,
			Commission:     commission,
			Credited:       credited,
			DestCurrency:   dst.Currency,
		}
		return nil
	})
	if err != nil {
		logger.Error("Transfer failed", "error", err)
		return nil, err
	}

	logger.Info("Transfer successful",
		"transactionID", receipt.Transaction.ID,
		"converted", receipt.Converted.StringFixed(2),
		"commission", receipt.Commission.StringFixed(2),
		"credited", receipt.Credited.StringFixed(2),
	)
	s.publishTransferCompleted(ctx, receipt)
	return receipt, nil
}

// quoteTransfer reads both accounts without locking them, rejects a transfer
// that would fail on the current state and returns amount in the destination
// currency. An account's currency never changes, so the quote still holds once
// the rows are locked.
func (s *Service) quoteTransfer(
	ctx context.Context,
	amount decimal.Decimal,
	sourceID, destID uuid.UUID,
) (decimal.Decimal, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return decimal.Zero, err
	}
	src, err := repo.Get(ctx, sourceID)
	if err != nil {
		return decimal.Zero, err
	}
	dst, err := repo.Get(ctx, destID)
	if err != nil {
		return decimal.Zero, err
	}
	if err = s.validatePair(src, dst, amount); err != nil {
		return decimal.Zero, err
	}
	if src.Currency == dst.Currency {
		return amount, nil
	}
	if s.converter == nil {
		return decimal.Zero, fmt.Errorf("%w: no converter configured", domain.ErrExchangeRateUnavailable)
	}
	return s.converter.Convert(ctx, amount, src.Currency, dst.Currency)
}

func (s *Service) validatePair(src, dst *account.Account, amount decimal.Decimal) error {
	if err := src.ValidateDebit(amount, s.allowOverdraft); err != nil {
		return err
	}
	return dst.ValidateCredit()
}

// CalculateCommission returns the fee a transfer of amount from sourceID to
// destID would be charged.
func (s *Service) CalculateCommission(
	ctx context.Context,
	amount decimal.Decimal,
	sourceID, destID uuid.UUID,
) (decimal.Decimal, error) {
	if err := money.RequireNonNegative(amount); err != nil {
		return decimal.Zero, err
	}
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return decimal.Zero, err
	}
	src, err := repo.Get(ctx, sourceID)
	if err != nil {
		return decimal.Zero, err
	}
	dst, err := repo.Get(ctx, destID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.commission.Commission(amount, src.SameOwner(dst)), nil
}

// lockPair locks both accounts in ascending ID order so that concurrent
// transfers over the same pair cannot deadlock.
func lockPair(
	ctx context.Context,
	repo repository.AccountRepository,
	sourceID, destID uuid.UUID,
) (src, dst *account.Account, err error) {
	first, second := sourceID, destID
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}
	a, err := repo.GetForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := repo.GetForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == sourceID {
		return a, b, nil
	}
	return b, a, nil
}

func validateTransferAmount(amount decimal.Decimal) error {
	if err := money.RequirePositive(amount); err != nil {
		return err
	}
	return money.RequireScale(amount)
}

func (s *Service) publishTransferCompleted(ctx context.Context, r *Receipt) {
	if s.eventBus == nil {
		return
	}
	evt := &events.TransferCompleted{
		ID:              uuid.New(),
		TransactionID:   r.Transaction.ID,
		SourceAccountID: r.Transaction.SourceAccountID,
		DestAccountID:   r.Transaction.DestAccountID,
		Amount:          r.Amount,
		SourceCurrency:  r.SourceCurrency,
		Converted:       r.Converted,
		Commission:      r.Commission,
		Credited:        r.Credited,
		DestCurrency:    r.DestCurrency,
		OccurredAt:      r.Transaction.CreatedAt,
	}
	if err := s.eventBus.Emit(ctx, evt); err != nil {
		s.logger.Error("failed to publish transfer event",
			"transactionID", r.Transaction.ID,
			"error", err,
		)
	}
}
