package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/supportdesk/internal/config"
	"github.com/spec-kit/supportdesk/internal/domain"
	"github.com/spec-kit/supportdesk/internal/repository"
)

type memUserRepo struct {
	nextID int64
	byID   map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[int64]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.byID[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUserRepo) UpdateRole(_ context.Context, id int64, role domain.Role) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

type memResetRepo struct {
	nextID  int64
	byToken map[string]*repository.PasswordResetToken
}

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{byToken: map[string]*repository.PasswordResetToken{}}
}

func (m *memResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	m.nextID++
	token.ID = m.nextID
	cp := *token
	m.byToken[token.Token] = &cp
	return nil
}

func (m *memResetRepo) GetByToken(_ context.Context, token string) (*repository.PasswordResetToken, error) {
	t, ok := m.byToken[token]
	if !ok {
		return nil, repository.ErrResetTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memResetRepo) MarkUsed(_ context.Context, id int64) error {
	now := time.Now()
	for _, t := range m.byToken {
		if t.ID == id {
			t.UsedAt = &now
			return nil
		}
	}
	return repository.ErrResetTokenNotFound
}

func newTestAuthService(t *testing.T) (*AuthService, *memUserRepo, *memResetRepo) {
	t.Helper()
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "auth-service-test-secret"
	cfg.Auth.TokenTTLHours = 24
	cfg.Auth.PasswordResetTTLMinutes = 30
	cfg.Auth.BcryptCost = bcrypt.MinCost // keep hashing cheap in tests
	users := newMemUserRepo()
	resets := newMemResetRepo()
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: users, PasswordResetRepo: resets}, zap.NewNop())
	return svc, users, resets
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, token, exp, err := svc.Register(ctx, "new@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	// The stored hash must verify against the original password.
	logged, loginToken, _, err := svc.Login(ctx, "new@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, loginToken)

	claims, err := svc.TokenManager().Parse(loginToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "dup@example.com", "first")
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "dup@example.com", "second")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejections(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "known@example.com", "right")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "known@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email yields the same error so callers cannot probe accounts.
	_, _, _, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, "change@example.com", "old")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "nope", "new")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old", "new"))

	_, _, _, err = svc.Login(ctx, "change@example.com", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login(ctx, "change@example.com", "new")
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "reset@example.com", "before")
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "reset@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	require.NoError(t, svc.ConfirmPasswordReset(ctx, token.Token, "after"))

	_, _, _, err = svc.Login(ctx, "reset@example.com", "after")
	assert.NoError(t, err)

	// Tokens are single use.
	err = svc.ConfirmPasswordReset(ctx, token.Token, "again")
	assert.Error(t, err)
}

func TestPasswordResetExpired(t *testing.T) {
	svc, _, resets := newTestAuthService(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "expired@example.com", "before")
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "expired@example.com")
	require.NoError(t, err)

	resets.byToken[token.Token].ExpiresAt = time.Now().Add(-time.Minute)

	err = svc.ConfirmPasswordReset(ctx, token.Token, "after")
	assert.Error(t, err)
}

func TestSeedDefaultUsers(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaultUsers(ctx))
	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	admin, err := users.GetByEmail(ctx, "admin@supportdesk.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	// Seeding is idempotent.
	require.NoError(t, svc.SeedDefaultUsers(ctx))
	all, err = users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
