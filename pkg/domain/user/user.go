package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// User represents a bank customer who may own accounts.
type User struct {
	ID        uuid.UUID `json:"id"`
	Login     string    `json:"login" validate:"required,max=64"`
	Email     string    `json:"email" validate:"required,email"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// NewUser creates a new User with a fresh ID and current timestamps.
func NewUser(login, email string) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		ID:        uuid.New(),
		Login:     strings.TrimSpace(login),
		Email:     strings.TrimSpace(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// NewUserFromData creates a User from raw data (used for DB hydration).
func NewUserFromData(id uuid.UUID, login, email string, created, updated time.Time) *User {
	return &User{
		ID:        id,
		Login:     login,
		Email:     email,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// Validate checks login and email.
func (u *User) Validate() error {
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

// Rename replaces login and email, validating the result.
func (u *User) Rename(login, email string) error {
	next := *u
	next.Login = strings.TrimSpace(login)
	next.Email = strings.TrimSpace(email)
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*u = next
	return nil
}
