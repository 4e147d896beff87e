package auth

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supportdesk/internal/domain"
	apperrors "github.com/spec-kit/supportdesk/pkg/util"
)

// RequireRole gates a route on the verified role. It must be stacked after
// Middleware.Handle; reaching it without an identity in context is treated
// as a denial, never a pass-through.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewForbidden("access denied: role not determined")
		}
		if !identity.Role.Valid() {
			// A stored role outside the enum is a wiring or data bug, not a
			// client error.
			return apperrors.NewDomainError("ROLE_PROCESSING_FAILED",
				"user role processing failed", http.StatusInternalServerError, nil)
		}
		if identity.Role != required {
			return apperrors.NewForbidden(fmt.Sprintf("access denied: %s privileges required", required))
		}
		return c.Next()
	}
}

// RequireAdmin gates a route to administrators.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
