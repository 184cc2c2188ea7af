package user_test

import (
	"testing"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name    string
		login   string
		email   string
		wantErr bool
	}{
		{"valid", "alice", "alice@example.com", false},
		{"trimmed", "  bob ", " bob@example.com ", false},
		{"empty login", "", "x@example.com", true},
		{"blank login", "   ", "x@example.com", true},
		{"bad email", "carol", "not-an-email", true},
		{"empty email", "carol", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := user.NewUser(tt.login, tt.email)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, u.ID)
			assert.NotContains(t, u.Login, " ")
			assert.False(t, u.CreatedAt.IsZero())
		})
	}
}

func TestRename(t *testing.T) {
	u, err := user.NewUser("alice", "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, u.Rename("alice2", "alice2@example.com"))
	assert.Equal(t, "alice2", u.Login)
	assert.Equal(t, "alice2@example.com", u.Email)

	err = u.Rename("", "alice3@example.com")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "alice2", u.Login, "failed rename leaves user untouched")
}
