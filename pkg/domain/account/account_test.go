package account_test

import (
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(t *testing.T, balance string) *account.Account {
	t.Helper()
	acc, err := account.New().
		WithUserID(uuid.New()).
		WithCurrency(currency.RUB).
		WithBalance(decimal.RequireFromString(balance)).
		Build()
	require.NoError(t, err)
	return acc
}

func TestBuilder(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		userID := uuid.New()
		acc, err := account.New().WithUserID(userID).Build()
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, acc.ID)
		assert.Equal(t, userID, acc.UserID)
		assert.Equal(t, currency.RUB, acc.Currency)
		assert.True(t, acc.Open)
		assert.True(t, acc.Balance.IsZero())
		assert.Nil(t, acc.ClosedAt)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := account.New().Build()
		assert.ErrorIs(t, err, account.ErrUserIDRequired)
	})

	t.Run("unsupported currency", func(t *testing.T) {
		_, err := account.New().WithUserID(uuid.New()).WithCurrency("GBP").Build()
		assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
	})

	t.Run("hydrate closed", func(t *testing.T) {
		closed := time.Now().UTC()
		acc, err := account.New().WithUserID(uuid.New()).WithClosedAt(&closed).Build()
		require.NoError(t, err)
		assert.False(t, acc.Open)
		assert.Equal(t, &closed, acc.ClosedAt)
	})
}

func TestClose(t *testing.T) {
	t.Run("zero balance", func(t *testing.T) {
		acc := newAccount(t, "0")
		now := time.Now().UTC()
		require.NoError(t, acc.Close(now))
		assert.False(t, acc.Open)
		require.NotNil(t, acc.ClosedAt)
		assert.Equal(t, now, *acc.ClosedAt)
	})

	t.Run("non-zero balance", func(t *testing.T) {
		acc := newAccount(t, "0.01")
		err := acc.Close(time.Now())
		assert.ErrorIs(t, err, domain.ErrNonZeroBalance)
		assert.True(t, acc.Open)
		assert.Nil(t, acc.ClosedAt)
	})

	t.Run("already closed", func(t *testing.T) {
		acc := newAccount(t, "0")
		require.NoError(t, acc.Close(time.Now()))
		assert.ErrorIs(t, acc.Close(time.Now()), domain.ErrAccountClosed)
	})
}

func TestValidateDebit(t *testing.T) {
	acc := newAccount(t, "100")

	assert.NoError(t, acc.ValidateDebit(decimal.NewFromInt(100), false))
	assert.ErrorIs(t, acc.ValidateDebit(decimal.RequireFromString("100.01"), false), domain.ErrInsufficientFunds)
	assert.NoError(t, acc.ValidateDebit(decimal.NewFromInt(500), true))

	acc.Open = false
	assert.ErrorIs(t, acc.ValidateDebit(decimal.NewFromInt(1), true), domain.ErrAccountClosed)
	assert.ErrorIs(t, acc.ValidateCredit(), domain.ErrAccountClosed)
}

func TestValidateBalanceUpdate(t *testing.T) {
	acc := newAccount(t, "10")
	assert.NoError(t, acc.ValidateBalanceUpdate(decimal.Zero))
	assert.ErrorIs(t, acc.ValidateBalanceUpdate(decimal.NewFromInt(-1)), domain.ErrInvalidAmount)
	assert.NoError(t, acc.ValidateBalanceUpdate(decimal.RequireFromString("0.50")))
	assert.ErrorIs(t, acc.ValidateBalanceUpdate(decimal.RequireFromString("0.005")), domain.ErrInvalidAmount)
}

func TestSameOwner(t *testing.T) {
	a := newAccount(t, "0")
	b := newAccount(t, "0")
	assert.False(t, a.SameOwner(b))
	b.UserID = a.UserID
	assert.True(t, a.SameOwner(b))
}

func TestNewTransaction(t *testing.T) {
	src, dst := uuid.New(), uuid.New()
	tx := account.NewTransaction(src, dst, decimal.RequireFromString("98"))
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, src, tx.SourceAccountID)
	assert.Equal(t, dst, tx.DestAccountID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(98)))
	assert.False(t, tx.CreatedAt.IsZero())
}
