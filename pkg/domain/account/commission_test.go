package account_test

import (
	"testing"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommission(t *testing.T) {
	policy := account.DefaultCommissionPolicy()

	tests := []struct {
		name      string
		amount    string
		sameOwner bool
		want      string
	}{
		{"same owner is free", "100", true, "0"},
		{"two percent", "100", false, "2"},
		{"rounds to cents", "111.11", false, "2.22"},
		{"small amount", "0.01", false, "0"},
		{"converted amount", "555.56", false, "11.11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Commission(decimal.RequireFromString(tt.amount), tt.sameOwner)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestNewCommissionPolicy(t *testing.T) {
	p, err := account.NewCommissionPolicy(decimal.RequireFromString("0.05"))
	require.NoError(t, err)
	assert.True(t, p.Commission(decimal.NewFromInt(200), false).Equal(decimal.NewFromInt(10)))

	_, err = account.NewCommissionPolicy(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = account.NewCommissionPolicy(decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
