package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/JooruBackend/jooru-backend-sub001/internal/auth"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type AuthService struct {
	users  domain.UserRepository
	issuer *auth.Issuer
}

func NewAuthService(users domain.UserRepository, issuer *auth.Issuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     domain.Role
	FullName string
	Phone    *string
	City     *string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, auth.Tokens, error) {
	if in.Role != domain.RoleClient && in.Role != domain.RoleProfessional {
		return domain.User{}, auth.Tokens{}, fmt.Errorf("%w: role must be client or professional", domain.ErrValidation)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, auth.Tokens{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         in.Role,
		Status:       domain.UserActive,
		FullName:     in.FullName,
		Phone:        in.Phone,
		City:         in.City,
	}
	id, err := s.users.CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, auth.Tokens{}, err
	}
	u.ID = id

	toks, err := s.issuer.Issue(id, u.Role)
	if err != nil {
		return domain.User{}, auth.Tokens{}, err
	}
	return u, toks, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, auth.Tokens, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Do not leak whether the account exists.
		return domain.User{}, auth.Tokens{}, domain.ErrUnauthorized
	}
	ok, err := auth.VerifyPassword(password, u.PasswordHash)
	if err != nil || !ok {
		return domain.User{}, auth.Tokens{}, domain.ErrUnauthorized
	}
	if u.Status != domain.UserActive {
		return domain.User{}, auth.Tokens{}, domain.ErrForbidden
	}
	toks, err := s.issuer.Issue(u.ID, u.Role)
	if err != nil {
		return domain.User{}, auth.Tokens{}, err
	}
	return u, toks, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The user is
// re-read so a suspension takes effect at the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (auth.Tokens, error) {
	claims, err := s.issuer.Verify(refreshToken, "refresh")
	if err != nil {
		return auth.Tokens{}, domain.ErrUnauthorized
	}
	u, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return auth.Tokens{}, domain.ErrUnauthorized
	}
	if u.Status != domain.UserActive {
		return auth.Tokens{}, domain.ErrForbidden
	}
	return s.issuer.Issue(u.ID, u.Role)
}
