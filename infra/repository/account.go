package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func notFoundAccount(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := accountToModel(a)
	return WrapError(domain.ErrAccountNotFound, func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err, notFoundAccount(id))
	}
	return accountFromModel(&m), nil
}

// GetForUpdate issues SELECT ... FOR UPDATE; the row stays locked until the
// enclosing transaction ends.
func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err, notFoundAccount(id))
	}
	return accountFromModel(&m), nil
}

func (r *accountRepository) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	tx := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Updates(map[string]any{"balance": balance, "updated_at": time.Now().UTC()})
	return requireAffected(tx, notFoundAccount(id))
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	m := accountToModel(a)
	tx := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"user_id":    m.UserID,
			"balance":    m.Balance,
			"currency":   m.Currency,
			"open":       m.Open,
			"opened_at":  m.OpenedAt,
			"closed_at":  m.ClosedAt,
			"updated_at": m.UpdatedAt,
		})
	return requireAffected(tx, notFoundAccount(a.ID))
}

func (r *accountRepository) List(ctx context.Context) ([]*account.Account, error) {
	var ms []Account
	if err := r.db.WithContext(ctx).Order("opened_at, id").Find(&ms).Error; err != nil {
		return nil, err
	}
	return accountsFromModels(ms), nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var ms []Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("opened_at, id").Find(&ms).Error; err != nil {
		return nil, err
	}
	return accountsFromModels(ms), nil
}

func (r *accountRepository) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Account{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func accountsFromModels(ms []Account) []*account.Account {
	out := make([]*account.Account, 0, len(ms))
	for i := range ms {
		out = append(out, accountFromModel(&ms[i]))
	}
	return out
}
