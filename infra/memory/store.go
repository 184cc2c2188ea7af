// Package memory is an in-process implementation of the repository
// interfaces. A unit of work holds the store lock for its whole duration and
// restores a snapshot when it fails, so transfers are serialized and atomic.
package memory

import (
	"context"
	"reflect"
	"sync"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
)

type state struct {
	users        map[uuid.UUID]user.User
	accounts     map[uuid.UUID]account.Account
	transactions []account.Transaction
}

func (s *state) clone() *state {
	c := &state{
		users:        make(map[uuid.UUID]user.User, len(s.users)),
		accounts:     make(map[uuid.UUID]account.Account, len(s.accounts)),
		transactions: make([]account.Transaction, len(s.transactions)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	copy(c.transactions, s.transactions)
	return c
}

// Store holds users, accounts and transactions in memory.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{data: &state{
		users:    make(map[uuid.UUID]user.User),
		accounts: make(map[uuid.UUID]account.Account),
	}}
}

// UoW implements repository.UnitOfWork over a Store.
type UoW struct {
	store *Store
	inTx  bool
}

// NewUoW creates a UnitOfWork backed by store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn while holding the store lock. When fn fails the store is
// restored to its state before Do.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.inTx {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snapshot := u.store.data.clone()
	if err := fn(&UoW{store: u.store, inTx: true}); err != nil {
		u.store.data = snapshot
		return err
	}
	return nil
}

// GetRepository provides access to repositories bound to this unit of work.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case repository.AccountRepositoryType:
		return &accountRepository{uow: u}, nil
	case repository.TransactionRepositoryType:
		return &transactionRepository{uow: u}, nil
	case repository.UserRepositoryType:
		return &userRepository{uow: u}, nil
	}
	return nil, &repository.UnsupportedRepositoryError{Type: repoType}
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

// read runs fn under a read lock unless the unit of work already holds the
// write lock.
func (u *UoW) read(fn func(*state) error) error {
	if !u.inTx {
		u.store.mu.RLock()
		defer u.store.mu.RUnlock()
	}
	return fn(u.store.data)
}

func (u *UoW) write(fn func(*state) error) error {
	if !u.inTx {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	return fn(u.store.data)
}

var _ repository.UnitOfWork = (*UoW)(nil)
