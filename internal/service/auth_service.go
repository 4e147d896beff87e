package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/supportdesk/internal/auth"
	"github.com/spec-kit/supportdesk/internal/config"
	"github.com/spec-kit/supportdesk/internal/domain"
	"github.com/spec-kit/supportdesk/internal/repository"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken reports a registration against an existing email.
var ErrEmailTaken = errors.New("email already registered")

// AuthService coordinates registration, login and password flows.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
}

// NewAuthService builds the service. The token manager receives the signing
// secret here, once; nothing else reads it from the environment.
func NewAuthService(cfg config.Config, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   cfg.Auth.PasswordResetTTL(),
		logger:     logger,
	}
}

// Register creates a new account with the default role and logs it in.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("email", email))
	return user, token, exp, nil
}

// Login authenticates by email and password and mints a credential.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.tokenMgr.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, token, exp, nil
}

// CurrentUser fetches the account for an authenticated caller.
func (s *AuthService) CurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns every account. Intended for the admin surface.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// RequestPasswordReset persists a reset token for the account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return errors.New("reset token expired or used")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, token.ID)
}

// SeedDefaultUsers creates the stock admin and demo accounts when absent.
func (s *AuthService) SeedDefaultUsers(ctx context.Context) error {
	defaults := []struct {
		email    string
		password string
		role     domain.Role
	}{
		{"admin@supportdesk.com", "admin123", domain.RoleAdmin},
		{"tech.support@company.com", "admin123", domain.RoleAdmin},
		{"help.desk@company.com", "admin123", domain.RoleAdmin},
		{"john.doe@company.com", "user123", domain.RoleUser},
		{"sarah.smith@company.com", "user123", domain.RoleUser},
	}

	for _, d := range defaults {
		if _, err := s.users.GetByEmail(ctx, d.email); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return err
		}

		hash, err := auth.HashPassword(d.password, s.bcryptCost)
		if err != nil {
			return err
		}
		user := &domain.User{Email: d.email, PasswordHash: hash, Role: d.role}
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		s.logger.Info("seeded default user", zap.String("email", d.email), zap.String("role", string(d.role)))
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
