package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func notFoundUser(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	m := userToModel(u)
	return WrapError(domain.ErrUserNotFound, func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err, notFoundUser(id))
	}
	return userFromModel(&m), nil
}

func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	var ms []User
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*user.User, 0, len(ms))
	for i := range ms {
		out = append(out, userFromModel(&ms[i]))
	}
	return out, nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	tx := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{"login": u.Login, "email": u.Email, "updated_at": time.Now().UTC()})
	return requireAffected(tx, notFoundUser(u.ID))
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).Delete(&User{}, "id = ?", id)
	return requireAffected(tx, notFoundUser(id))
}

func (r *userRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
