package repository

import (
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Login     string    `gorm:"size:64;not null"`
	Email     string    `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency  string          `gorm:"type:varchar(3);not null"`
	Open      bool            `gorm:"not null"`
	OpenedAt  time.Time       `gorm:"not null"`
	ClosedAt  *time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction represents a completed transfer record.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SourceAccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	DestAccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CreatedAt       time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

func userToModel(u *user.User) User {
	return User{
		ID:        u.ID,
		Login:     u.Login,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func userFromModel(m *User) *user.User {
	return user.NewUserFromData(m.ID, m.Login, m.Email, m.CreatedAt, m.UpdatedAt)
}

func accountToModel(a *account.Account) Account {
	return Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Balance:   a.Balance,
		Currency:  string(a.Currency),
		Open:      a.Open,
		OpenedAt:  a.OpenedAt,
		ClosedAt:  a.ClosedAt,
		UpdatedAt: time.Now().UTC(),
	}
}

func accountFromModel(m *Account) *account.Account {
	return &account.Account{
		ID:       m.ID,
		UserID:   m.UserID,
		Balance:  m.Balance,
		Currency: currency.Code(m.Currency),
		Open:     m.Open,
		OpenedAt: m.OpenedAt,
		ClosedAt: m.ClosedAt,
	}
}

func transactionToModel(t *account.Transaction) Transaction {
	return Transaction{
		ID:              t.ID,
		SourceAccountID: t.SourceAccountID,
		DestAccountID:   t.DestAccountID,
		Amount:          t.Amount,
		CreatedAt:       t.CreatedAt,
	}
}

func transactionFromModel(m *Transaction) *account.Transaction {
	return &account.Transaction{
		ID:              m.ID,
		SourceAccountID: m.SourceAccountID,
		DestAccountID:   m.DestAccountID,
		Amount:          m.Amount,
		CreatedAt:       m.CreatedAt,
	}
}
