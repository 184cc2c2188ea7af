package repository

import (
	"context"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data access operations.
// Lookups of unknown IDs fail with domain.ErrAccountNotFound.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// GetForUpdate reads the account and locks it until the surrounding
	// unit of work ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	// Update rewrites every field of the stored record.
	Update(ctx context.Context, a *account.Account) error
	List(ctx context.Context) ([]*account.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

// TransactionRepository is the append-only transfer log.
type TransactionRepository interface {
	Append(ctx context.Context, tx *account.Transaction) error
	// List returns every transaction in append order.
	List(ctx context.Context) ([]*account.Transaction, error)
	// ListByAccount returns transactions where the account is source or destination.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error)
}

// UserRepository defines the interface for user data access operations.
// Lookups of unknown IDs fail with domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	List(ctx context.Context) ([]*user.User, error)
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
