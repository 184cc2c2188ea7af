// Package user provides business logic for user management operations.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
)

// Service provides business logic for user operations including creation, updates, and deletion.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:    uow,
		logger: logger.With("service", "user"),
	}
}

// CreateUser validates login and email and stores a new user.
func (s *Service) CreateUser(
	ctx context.Context,
	login, email string,
) (u *user.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = user.NewUser(login, email)
		if err != nil {
			return err
		}
		return repo.Create(ctx, u)
	})
	if err != nil {
		s.logger.Error("CreateUser failed", "login", login, "error", err)
		return nil, err
	}
	s.logger.Info("CreateUser successful", "userID", u.ID)
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// ListUsers returns every user.
func (s *Service) ListUsers(ctx context.Context) ([]*user.User, error) {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// UpdateUser replaces the login and email of an existing user.
func (s *Service) UpdateUser(
	ctx context.Context,
	id uuid.UUID,
	login, email string,
) (u *user.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err = u.Rename(login, email); err != nil {
			return err
		}
		return repo.Update(ctx, u)
	})
	if err != nil {
		s.logger.Error("UpdateUser failed", "userID", id, "error", err)
		return nil, err
	}
	s.logger.Info("UpdateUser successful", "userID", id)
	return u, nil
}

// DeleteUser removes a user that owns no accounts.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		exists, err := users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		owns, err := accounts.ExistsForUser(ctx, id)
		if err != nil {
			return err
		}
		if owns {
			return fmt.Errorf("%w: %s", domain.ErrUserHasAccounts, id)
		}
		return users.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("DeleteUser failed", "userID", id, "error", err)
		return err
	}
	s.logger.Info("DeleteUser successful", "userID", id)
	return nil
}
