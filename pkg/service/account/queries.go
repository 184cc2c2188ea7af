package account

import (
	"context"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/google/uuid"
)

// Queries read through repositories taken from the root unit of work, so
// they never wait behind a transfer's Do for longer than its writes take.

// GetAccount returns the account with id.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// ListAccounts returns every account.
func (s *Service) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// ListUserAccounts returns the accounts owned by userID.
func (s *Service) ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	if _, err = users.Get(ctx, userID); err != nil {
		return nil, err
	}
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByUser(ctx, userID)
}

// ListTransactions returns the whole transaction log in append order.
func (s *Service) ListTransactions(ctx context.Context) ([]*account.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// ListAccountTransactions returns the transactions in which the account was
// either source or destination.
func (s *Service) ListAccountTransactions(
	ctx context.Context,
	accountID uuid.UUID,
) ([]*account.Transaction, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	if _, err = accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByAccount(ctx, accountID)
}
