package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Repositories obtained from the UnitOfWork passed to Do share its
// transaction; repositories obtained outside Do run each call on its own.
//
// Example usage:
//
//	err := uow.Do(ctx, func(uow UnitOfWork) error {
//		repo, err := uow.AccountRepository()
//		if err != nil {
//			return err
//		}
//		return repo.SetBalance(ctx, id, balance)
//	})
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// every change made through the provided UnitOfWork is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction/session.
	GetRepository(repoType reflect.Type) (any, error)

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	UserRepository() (UserRepository, error)
}

var (
	AccountRepositoryType     = reflect.TypeOf((*AccountRepository)(nil)).Elem()
	TransactionRepositoryType = reflect.TypeOf((*TransactionRepository)(nil)).Elem()
	UserRepositoryType        = reflect.TypeOf((*UserRepository)(nil)).Elem()
)

// Resolve fetches a repository from uow.GetRepository and asserts its type.
func Resolve[T any](uow UnitOfWork) (T, error) {
	var zero T
	repoType := reflect.TypeOf((*T)(nil)).Elem()
	repoAny, err := uow.GetRepository(repoType)
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, &UnsupportedRepositoryError{Type: repoType}
	}
	return repo, nil
}

// UnsupportedRepositoryError is returned for repository types a UnitOfWork
// cannot build.
type UnsupportedRepositoryError struct {
	Type reflect.Type
}

func (e *UnsupportedRepositoryError) Error() string {
	return "unsupported repository type: " + e.Type.String()
}
