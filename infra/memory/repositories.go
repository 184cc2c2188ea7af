package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	uow *UoW
}

func (r *accountRepository) Create(_ context.Context, a *account.Account) error {
	return r.uow.write(func(s *state) error {
		if _, ok := s.accounts[a.ID]; ok {
			return fmt.Errorf("%w: account %s already exists", domain.ErrValidation, a.ID)
		}
		s.accounts[a.ID] = *a
		return nil
	})
}

func (r *accountRepository) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	var out *account.Account
	err := r.uow.read(func(s *state) error {
		a, ok := s.accounts[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		}
		out = &a
		return nil
	})
	return out, err
}

// GetForUpdate is Get: inside Do the whole store is already locked.
func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.Get(ctx, id)
}

func (r *accountRepository) SetBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return r.uow.write(func(s *state) error {
		a, ok := s.accounts[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		}
		a.Balance = balance
		s.accounts[id] = a
		return nil
	})
}

func (r *accountRepository) Update(_ context.Context, a *account.Account) error {
	return r.uow.write(func(s *state) error {
		if _, ok := s.accounts[a.ID]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, a.ID)
		}
		s.accounts[a.ID] = *a
		return nil
	})
}

func (r *accountRepository) List(context.Context) ([]*account.Account, error) {
	return r.filter(func(*account.Account) bool { return true })
}

func (r *accountRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return r.filter(func(a *account.Account) bool { return a.UserID == userID })
}

func (r *accountRepository) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	accs, err := r.ListByUser(ctx, userID)
	return len(accs) > 0, err
}

func (r *accountRepository) filter(keep func(*account.Account) bool) ([]*account.Account, error) {
	var out []*account.Account
	err := r.uow.read(func(s *state) error {
		out = make([]*account.Account, 0, len(s.accounts))
		for _, a := range s.accounts {
			a := a
			if keep(&a) {
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out, err
}

type transactionRepository struct {
	uow *UoW
}

func (r *transactionRepository) Append(_ context.Context, tx *account.Transaction) error {
	return r.uow.write(func(s *state) error {
		s.transactions = append(s.transactions, *tx)
		return nil
	})
}

func (r *transactionRepository) List(context.Context) ([]*account.Transaction, error) {
	return r.filter(func(*account.Transaction) bool { return true })
}

func (r *transactionRepository) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	return r.filter(func(t *account.Transaction) bool {
		return t.SourceAccountID == accountID || t.DestAccountID == accountID
	})
}

func (r *transactionRepository) filter(keep func(*account.Transaction) bool) ([]*account.Transaction, error) {
	var out []*account.Transaction
	err := r.uow.read(func(s *state) error {
		out = make([]*account.Transaction, 0, len(s.transactions))
		for i := range s.transactions {
			t := s.transactions[i]
			if keep(&t) {
				out = append(out, &t)
			}
		}
		return nil
	})
	return out, err
}

type userRepository struct {
	uow *UoW
}

func (r *userRepository) Create(_ context.Context, u *user.User) error {
	return r.uow.write(func(s *state) error {
		if _, ok := s.users[u.ID]; ok {
			return fmt.Errorf("%w: user %s already exists", domain.ErrValidation, u.ID)
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *userRepository) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	var out *user.User
	err := r.uow.read(func(s *state) error {
		u, ok := s.users[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepository) List(context.Context) ([]*user.User, error) {
	var out []*user.User
	err := r.uow.read(func(s *state) error {
		out = make([]*user.User, 0, len(s.users))
		for _, u := range s.users {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *userRepository) Update(_ context.Context, u *user.User) error {
	return r.uow.write(func(s *state) error {
		existing, ok := s.users[u.ID]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, u.ID)
		}
		existing.Login = u.Login
		existing.Email = u.Email
		existing.UpdatedAt = time.Now().UTC()
		s.users[u.ID] = existing
		return nil
	})
}

func (r *userRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.uow.write(func(s *state) error {
		if _, ok := s.users[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
		}
		delete(s.users, id)
		return nil
	})
}

func (r *userRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.uow.read(func(s *state) error {
		_, ok = s.users[id]
		return nil
	})
	return ok, err
}
