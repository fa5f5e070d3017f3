package service

import (
	"context"
	"strings"
	"time"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/auth"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/logger"
	"github.com/guttosm/etmarket/internal/validation"
)

// UserService defines account registration and token issuing.
type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	CreateAdmin(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error)
}

type userService struct {
	Deps
	tokens *auth.Issuer
	now    func() time.Time
}

func NewUserService(d Deps, tokens *auth.Issuer) UserService {
	return &userService{Deps: d.withDefaults(), tokens: tokens, now: time.Now}
}

var errBadCredentials = apperr.Unauthorized("invalid username or password")

func userResponse(u *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

// Register creates an active account with the user role.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	return s.create(ctx, req, models.RoleUser)
}

// CreateAdmin creates an active account with the admin role.
func (s *userService) CreateAdmin(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	return s.create(ctx, req, models.RoleAdmin)
}

func (s *userService) create(ctx context.Context, req dto.RegisterRequest, role string) (*dto.UserResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if res := validation.ValidateRegistration(req); !res.Valid {
		return nil, invalid("invalid registration", res)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}
	u := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.Repos.Users.Create(ctx, u); err != nil {
		return nil, apperr.FromDB(err, "failed to create user")
	}
	logger.L().Info().Int64("user_id", u.ID).Str("role", role).Msg("user registered")
	return userResponse(u), nil
}

func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	u, err := s.Repos.Users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, errBadCredentials
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("account is disabled")
	}
	if err := s.Repos.Users.TouchLastLogin(ctx, u.ID, s.now().UTC()); err != nil {
		logger.L().Warn().Err(err).Int64("user_id", u.ID).Msg("failed to record last login")
	}
	return s.issue(u)
}

// Refresh exchanges a valid refresh token for a new pair. The account is
// re-read so disabled users and role changes take effect.
func (s *userService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.tokens.Parse(req.RefreshToken, auth.TypeRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired refresh token")
	}
	u, err := s.Repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, apperr.Unauthorized("invalid or expired refresh token")
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("account is disabled")
	}
	return s.issue(u)
}

func (s *userService) issue(u *models.User) (*dto.TokenResponse, error) {
	pair, err := s.tokens.IssuePair(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}
	return &dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}
