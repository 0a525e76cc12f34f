package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/streetbars/streetbars-api/internal/models"
)

func newRBACTestApp(lookup RoleLookup, identity *uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Get("/admin",
		func(c *fiber.Ctx) error {
			if identity != nil {
				c.Locals("user_id", *identity)
			}
			return c.Next()
		},
		RequireAdmin(lookup),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		},
	)
	return app
}

func TestRequireAdmin(t *testing.T) {
	admin := uuid.New()
	user := uuid.New()
	lookup := func(_ context.Context, userID uuid.UUID) string {
		if userID == admin {
			return models.RoleAdmin
		}
		return models.RoleUser
	}

	cases := []struct {
		name     string
		lookup   RoleLookup
		identity *uuid.UUID
		status   int
	}{
		{"admin passes", lookup, &admin, fiber.StatusOK},
		{"plain user forbidden", lookup, &user, fiber.StatusForbidden},
		{"anonymous unauthorized", lookup, nil, fiber.StatusUnauthorized},
		{"nil lookup forbids everyone", nil, &admin, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newRBACTestApp(tc.lookup, tc.identity)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
