package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/supportdesk/internal/domain"
	"github.com/spec-kit/supportdesk/internal/repository"
	apperrors "github.com/spec-kit/supportdesk/pkg/util"
)

const identityKey = "auth_identity"

// Identity is the verified, request-scoped caller. Both fields come from the
// user's current database record, not from the token's claims, so role
// changes and deletions take effect on the next request.
type Identity struct {
	UserID int64
	Role   domain.Role
}

// Middleware authenticates bearer tokens and re-resolves the caller against
// the user store before letting a request through.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	logger *zap.Logger
}

// NewMiddleware constructs the authentication gate.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger}
}

// Handle enforces authentication for protected routes. Every rejection is a
// 401 that short-circuits the chain; the precise reason is logged server-side.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("authorization header missing")
	}

	// strings.Fields tolerates repeated whitespace between scheme and token.
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header format")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		m.logger.Info("token rejected", zap.Error(err))
		return apperrors.NewUnauthorized(rejectionMessage(err))
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			m.logger.Info("token subject no longer exists", zap.Int64("user_id", claims.UserID))
			return apperrors.NewUnauthorized("user associated with this token not found")
		}
		m.logger.Error("user lookup failed during authentication",
			zap.Int64("user_id", claims.UserID), zap.Error(err))
		return apperrors.NewUnauthorized("error validating user")
	}

	c.Locals(identityKey, Identity{UserID: user.ID, Role: user.Role})
	return c.Next()
}

// rejectionMessage picks the client-facing message for a parse failure.
// Internal detail stays in the logs.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, ErrTokenMalformed):
		return "malformed token"
	case errors.Is(err, ErrTokenExpired):
		return "token expired"
	case errors.Is(err, ErrTokenNotYetValid):
		return "token not yet valid"
	case errors.Is(err, ErrTokenSignatureInvalid):
		return "invalid token signature"
	case errors.Is(err, ErrSubjectClaimMissing):
		return "invalid token: subject claim missing"
	default:
		return "invalid token"
	}
}

// IdentityFromContext retrieves the verified caller set by Handle.
func IdentityFromContext(c *fiber.Ctx) (Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return Identity{}, false
	}
	identity, ok := val.(Identity)
	return identity, ok
}
