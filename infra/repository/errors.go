package repository

import (
	"errors"
	"fmt"

	"github.com/amirasaad/minibank/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors.
// notFound is the domain error reported for gorm.ErrRecordNotFound.
// Unknown errors are returned unchanged.
func MapGormErrorToDomain(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: record already exists", domain.ErrValidation)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: referenced record does not exist", domain.ErrValidation)
	}
	return err
}

// WrapError wraps a GORM operation and automatically maps errors.
//
// Usage:
//
//	err := WrapError(domain.ErrUserNotFound, func() error {
//	    return r.db.WithContext(ctx).Create(&m).Error
//	})
func WrapError(notFound error, op func() error) error {
	return MapGormErrorToDomain(op(), notFound)
}

// requireAffected returns notFound when a write touched no rows.
func requireAffected(tx *gorm.DB, notFound error) error {
	if tx.Error != nil {
		return MapGormErrorToDomain(tx.Error, notFound)
	}
	if tx.RowsAffected == 0 {
		return notFound
	}
	return nil
}
