package account

import (
	"fmt"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultCommissionRate is charged on transfers between different users.
var DefaultCommissionRate = decimal.RequireFromString("0.02")

// CommissionPolicy computes the fee deducted from a cross-user transfer.
type CommissionPolicy struct {
	Rate decimal.Decimal
}

// NewCommissionPolicy returns a policy charging rate, which must lie in [0, 1).
func NewCommissionPolicy(rate decimal.Decimal) (CommissionPolicy, error) {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return CommissionPolicy{}, fmt.Errorf("%w: commission rate %s outside [0, 1)", domain.ErrValidation, rate)
	}
	return CommissionPolicy{Rate: rate}, nil
}

// DefaultCommissionPolicy charges DefaultCommissionRate.
func DefaultCommissionPolicy() CommissionPolicy {
	return CommissionPolicy{Rate: DefaultCommissionRate}
}

// Commission returns the fee for amount: zero when both accounts share an
// owner, otherwise amount*Rate rounded to two places.
func (p CommissionPolicy) Commission(amount decimal.Decimal, sameOwner bool) decimal.Decimal {
	if sameOwner {
		return decimal.Zero
	}
	return money.Round(amount.Mul(p.Rate))
}
