package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/streetbars/streetbars-api/internal/models"
	"github.com/streetbars/streetbars-api/internal/utils"
)

// RoleLookup resolves the role of an authenticated user. Roles live in the
// profiles table, not in the token, so a lookup runs on every gated request.
type RoleLookup func(ctx context.Context, userID uuid.UUID) string

// RequireAdmin rejects requests whose caller does not hold the admin role.
func RequireAdmin(lookup RoleLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserIDFromLocals(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if lookup == nil || lookup(c.UserContext(), userID) != models.RoleAdmin {
			return utils.SendError(c, fiber.StatusForbidden, "admin access required")
		}

		return c.Next()
	}
}
