package repository

import (
	"context"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Append(ctx context.Context, t *account.Transaction) error {
	m := transactionToModel(t)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *transactionRepository) List(ctx context.Context) ([]*account.Transaction, error) {
	var ms []Transaction
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&ms).Error; err != nil {
		return nil, err
	}
	return transactionsFromModels(ms), nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	var ms []Transaction
	err := r.db.WithContext(ctx).
		Where("source_account_id = ? OR dest_account_id = ?", accountID, accountID).
		Order("created_at, id").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return transactionsFromModels(ms), nil
}

func transactionsFromModels(ms []Transaction) []*account.Transaction {
	out := make([]*account.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, transactionFromModel(&ms[i]))
	}
	return out
}
