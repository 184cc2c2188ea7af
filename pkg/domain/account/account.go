package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUserIDRequired is returned by Build when no owner was set.
var ErrUserIDRequired = errors.New("userID is required")

// Account is a balance-holding entity owned by a user and denominated in a
// single currency.
//
// Invariants:
//   - An account always has an owner (UserID) and a supported currency.
//   - An account is closed only with a zero balance.
//   - A closed account is never mutated again.
type Account struct {
	ID       uuid.UUID       `json:"id"`
	UserID   uuid.UUID       `json:"user_id"`
	Balance  decimal.Decimal `json:"balance"`
	Currency currency.Code   `json:"currency"`
	Open     bool            `json:"open"`
	OpenedAt time.Time       `json:"opened_at"`
	ClosedAt *time.Time      `json:"closed_at,omitempty"`
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id       uuid.UUID
	userID   uuid.UUID
	balance  decimal.Decimal
	currency currency.Code
	open     bool
	openedAt time.Time
	closedAt *time.Time
}

// New creates a new Builder with a fresh ID, the default currency and an
// open state stamped with the current time.
func New() *Builder {
	return &Builder{
		id:       uuid.New(),
		currency: currency.DefaultCurrency,
		open:     true,
		openedAt: time.Now().UTC(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owning user. This is a mandatory field.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithCurrency sets the account currency.
func (b *Builder) WithCurrency(code currency.Code) *Builder {
	b.currency = code
	return b
}

// WithBalance sets the balance. Use it for hydration from storage and tests.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithOpenedAt sets the opening timestamp.
func (b *Builder) WithOpenedAt(t time.Time) *Builder {
	b.openedAt = t
	return b
}

// WithClosedAt marks the account closed at t. A nil t leaves it open.
func (b *Builder) WithClosedAt(t *time.Time) *Builder {
	b.closedAt = t
	b.open = t == nil
	return b
}

// Build validates the builder state and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !b.currency.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, string(b.currency))
	}
	if b.userID == uuid.Nil {
		return nil, ErrUserIDRequired
	}
	return &Account{
		ID:       b.id,
		UserID:   b.userID,
		Balance:  b.balance,
		Currency: b.currency,
		Open:     b.open,
		OpenedAt: b.openedAt,
		ClosedAt: b.closedAt,
	}, nil
}

// SameOwner reports whether a and other belong to the same user.
func (a *Account) SameOwner(other *Account) bool {
	return a.UserID == other.UserID
}

func (a *Account) requireOpen() error {
	if !a.Open {
		return fmt.Errorf("%w: %s", domain.ErrAccountClosed, a.ID)
	}
	return nil
}

// ValidateDebit checks that amount can be taken from the account.
// With allowOverdraft the balance may go negative.
func (a *Account) ValidateDebit(amount decimal.Decimal, allowOverdraft bool) error {
	if err := a.requireOpen(); err != nil {
		return err
	}
	if !allowOverdraft && a.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s %s, requested %s",
			domain.ErrInsufficientFunds, a.Balance.StringFixed(2), a.Currency, amount.StringFixed(2))
	}
	return nil
}

// ValidateCredit checks that the account can receive money.
func (a *Account) ValidateCredit() error {
	return a.requireOpen()
}

// ValidateBalanceUpdate checks an administrative balance overwrite.
func (a *Account) ValidateBalanceUpdate(balance decimal.Decimal) error {
	if err := a.requireOpen(); err != nil {
		return err
	}
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot be negative", domain.ErrInvalidAmount)
	}
	return money.RequireScale(balance)
}

// Close marks the account closed at now. The balance must be exactly zero.
func (a *Account) Close(now time.Time) error {
	if err := a.requireOpen(); err != nil {
		return err
	}
	if !a.Balance.IsZero() {
		return fmt.Errorf("%w: account %s holds %s %s",
			domain.ErrNonZeroBalance, a.ID, a.Balance.StringFixed(2), a.Currency)
	}
	a.Open = false
	a.ClosedAt = &now
	return nil
}
