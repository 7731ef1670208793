package app

import (
	"context"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.users.GetUser(ctx, id)
}

type UpdateUserInput struct {
	FullName *string
	Phone    *string
	City     *string
}

func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (domain.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.Phone != nil {
		u.Phone = in.Phone
	}
	if in.City != nil {
		u.City = in.City
	}
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Admin operations.

func (s *UserService) List(ctx context.Context, pg domain.PageQuery) ([]domain.User, domain.PageMeta, error) {
	items, total, err := s.users.ListUsers(ctx, pg)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return items, domain.NewPageMeta(pg.Page, pg.PerPage, total), nil
}

func (s *UserService) SetStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	if status != domain.UserActive && status != domain.UserSuspended {
		return domain.ErrValidation
	}
	// Surface 404 before the blind update.
	if _, err := s.users.GetUser(ctx, id); err != nil {
		return err
	}
	return s.users.SetUserStatus(ctx, id, status)
}
