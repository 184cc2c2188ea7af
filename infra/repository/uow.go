package repository

import (
	"context"
	"reflect"

	"github.com/amirasaad/minibank/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction
// over a *gorm.DB.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			repository.AccountRepositoryType:     func(db *gorm.DB) any { return NewAccountRepository(db) },
			repository.TransactionRepositoryType: func(db *gorm.DB) any { return NewTransactionRepository(db) },
			repository.UserRepositoryType:        func(db *gorm.DB) any { return NewUserRepository(db) },
		},
	}
}

// Do runs fn in a database transaction. Returning an error from fn rolls
// the transaction back; otherwise it is committed.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository returns a repository bound to the transaction when called
// inside Do, or to the root connection otherwise.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, &repository.UnsupportedRepositoryError{Type: repoType}
	}
	return constructor(u.session()), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return repository.Resolve[repository.AccountRepository](u)
}

func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return repository.Resolve[repository.TransactionRepository](u)
}

func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return repository.Resolve[repository.UserRepository](u)
}

var _ repository.UnitOfWork = (*UoW)(nil)
