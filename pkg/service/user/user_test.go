package user_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/amirasaad/minibank/infra/memory"
	"github.com/amirasaad/minibank/internal/fixtures/mocks"
	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/repository"
	usersvc "github.com/amirasaad/minibank/pkg/service/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*usersvc.Service, *memory.UoW) {
	t.Helper()
	uow := memory.NewUoW(memory.NewStore())
	return usersvc.New(uow, slog.Default()), uow
}

func TestCreateUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, " alice ", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Login)

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	tests := []struct {
		name, login, email string
	}{
		{"empty login", "", "a@example.com"},
		{"bad email", "bob", "not-an-email"},
		{"empty email", "bob", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tt.login, tt.email)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	u, err := svc.CreateUser(ctx, "alice", "alice@example.com")
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, u.ID, "alice2", "alice2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Login)

	_, err = svc.UpdateUser(ctx, u.ID, "alice3", "broken")
	assert.ErrorIs(t, err, domain.ErrValidation)
	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", got.Email)

	_, err = svc.UpdateUser(ctx, uuid.New(), "x", "x@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, uow := newService(t)
	ctx := context.Background()
	owner, err := svc.CreateUser(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	loner, err := svc.CreateUser(ctx, "bob", "bob@example.com")
	require.NoError(t, err)

	acct, err := account.New().WithUserID(owner.ID).WithCurrency(currency.RUB).Build()
	require.NoError(t, err)
	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, acct))

	err = svc.DeleteUser(ctx, owner.ID)
	assert.ErrorIs(t, err, domain.ErrUserHasAccounts)

	require.NoError(t, svc.DeleteUser(ctx, loner.ID))
	_, err = svc.GetUser(ctx, loner.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.ErrorIs(t, svc.DeleteUser(ctx, uuid.New()), domain.ErrUserNotFound)
}

func TestDeleteUser_RepositoryError(t *testing.T) {
	uow := mocks.NewMockUnitOfWork(t)
	users := mocks.NewMockUserRepository(t)
	boom := errors.New("connection reset")

	uow.EXPECT().Do(mock.Anything, mock.Anything).RunAndReturn(
		func(ctx context.Context, fn func(repository.UnitOfWork) error) error {
			return fn(uow)
		},
	).Once()
	uow.EXPECT().UserRepository().Return(users, nil).Once()
	users.EXPECT().Exists(mock.Anything, mock.Anything).Return(false, boom).Once()

	svc := usersvc.New(uow, slog.Default())
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), uuid.New()), boom)
}
