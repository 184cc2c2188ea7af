// Package account provides business logic for accounts and transfers.
// It defines the Service struct and its methods for opening and closing
// accounts, moving money between them and reading the transaction log.
//
// Every mutating operation runs inside a single repository.UnitOfWork so
// that balance writes and the transaction record commit or roll back together.
package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides business logic for account operations.
type Service struct {
	uow            repository.UnitOfWork
	converter      *exchange.Converter
	commission     account.CommissionPolicy
	allowOverdraft bool
	eventBus       eventbus.Bus
	logger         *slog.Logger
	now            func() time.Time
}

// NewService creates a new Service with the provided dependencies.
// Without a config the default commission policy applies and overdraft is off.
func NewService(deps config.Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:        deps.Uow,
		converter:  deps.Converter,
		commission: account.DefaultCommissionPolicy(),
		eventBus:   deps.EventBus,
		logger:     logger.With("service", "account"),
		now:        func() time.Time { return time.Now().UTC() },
	}
	if deps.Config != nil {
		if policy, err := account.NewCommissionPolicy(deps.Config.Fee.CommissionRate); err == nil {
			s.commission = policy
		} else {
			s.logger.Warn("invalid commission rate, using default", "error", err)
		}
		s.allowOverdraft = deps.Config.Transfer.AllowOverdraft
	}
	if s.converter == nil && deps.Rates != nil {
		s.converter = exchange.NewConverter(deps.Rates)
	}
	return s
}

// OpenAccount creates an open, zero-balance account in code for userID.
// The user must exist.
func (s *Service) OpenAccount(
	ctx context.Context,
	userID uuid.UUID,
	code currency.Code,
) (acct *account.Account, err error) {
	logger := s.logger.With("userID", userID, "currency", code)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acct, err = account.New().
			WithUserID(userID).
			WithCurrency(code).
			WithOpenedAt(s.now()).
			Build()
		if err != nil {
			return err
		}
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		exists, err := users.Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, acct)
	})
	if err != nil {
		logger.Error("OpenAccount failed", "error", err)
		return nil, err
	}
	logger.Info("OpenAccount successful", "accountID", acct.ID)
	return acct, nil
}

// CloseAccount marks an account closed. The balance must be exactly zero and
// the account must still be open.
func (s *Service) CloseAccount(ctx context.Context, id uuid.UUID) (acct *account.Account, err error) {
	logger := s.logger.With("accountID", id)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err = repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err = acct.Close(s.now()); err != nil {
			return err
		}
		return repo.Update(ctx, acct)
	})
	if err != nil {
		logger.Error("CloseAccount failed", "error", err)
		return nil, err
	}
	logger.Info("CloseAccount successful", "closedAt", acct.ClosedAt)
	return acct, nil
}

// UpdateBalance overwrites the balance of an open account. The new balance
// must not be negative.
func (s *Service) UpdateBalance(
	ctx context.Context,
	id uuid.UUID,
	balance decimal.Decimal,
) (acct *account.Account, err error) {
	logger := s.logger.With("accountID", id, "balance", balance.StringFixed(2))
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err = repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err = acct.ValidateBalanceUpdate(balance); err != nil {
			return err
		}
		if err = repo.SetBalance(ctx, id, balance); err != nil {
			return err
		}
		acct.Balance = balance
		return nil
	})
	if err != nil {
		logger.Error("UpdateBalance failed", "error", err)
		return nil, err
	}
	logger.Info("UpdateBalance successful")
	return acct, nil
}
