package service

import (
	"context"
	"fmt"
	"userhub/internal/app/cache"
	"userhub/internal/common"
	"userhub/internal/domain/model"
	"userhub/internal/domain/repository"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type UserService struct {
	users  repository.UserRepository
	lookup *cache.UserCache
}

func NewUserService(users repository.UserRepository, lookup *cache.UserCache) *UserService {
	return &UserService{users: users, lookup: lookup}
}

// CurrentUser is an authoritative by-username read, used for the bearer
// subject on protected routes.
func (s *UserService) CurrentUser(ctx context.Context, username string) (*model.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// GetByUsername serves public lookups through the read-through cache.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.UserRead, error) {
	user, err := s.lookup.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	read := user.Read()
	return &read, nil
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]model.UserRead, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	users, err := s.users.ReadMany(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	reads := make([]model.UserRead, 0, len(users))
	for i := range users {
		reads = append(reads, users[i].Read())
	}
	return reads, nil
}

type UpdateRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// Update applies a field-level profile update. The lookup cache is not
// invalidated; the stale entry persists until a later miss repopulates it.
func (s *UserService) Update(ctx context.Context, uid int64, req UpdateRequest) (*model.UserRead, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	user, err := s.users.Update(ctx, uid, model.UserUpdate{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: titleCase(req.FirstName),
		LastName:  titleCase(req.LastName),
	})
	if err != nil {
		return nil, err
	}
	read := user.Read()
	return &read, nil
}

func (s *UserService) Delete(ctx context.Context, uid int64) error {
	return s.users.Delete(ctx, uid)
}
