package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/streetbars/streetbars-api/internal/config"
	"github.com/streetbars/streetbars-api/internal/handler"
	"github.com/streetbars/streetbars-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SkillHandler           *handler.SkillHandler
	PlaceHandler           *handler.PlaceHandler
	SubmissionHandler      *handler.SubmissionHandler
	AdminSubmissionHandler *handler.AdminSubmissionHandler
	AuditLogHandler        *handler.AuditLogHandler
	JWTMiddleware          fiber.Handler
	AdminMiddleware        fiber.Handler
	SubmissionRateLimit    fiber.Handler
	UpvoteRateLimit        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminMiddleware := deps.AdminMiddleware
	if adminMiddleware == nil {
		adminMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Everything past the health check requires a bearer token. Catalogue
	// reads are user-gated; mutations additionally hide behind the admin
	// middleware.
	if deps.SkillHandler != nil {
		deps.SkillHandler.Register(api.Group("/skills", jwtMiddleware))

		adminSkills := api.Group("/skills", jwtMiddleware, adminMiddleware)
		deps.SkillHandler.RegisterAdmin(adminSkills)
	}

	if deps.PlaceHandler != nil {
		places := api.Group("/places", jwtMiddleware)
		var upvoteGuards []fiber.Handler
		if deps.UpvoteRateLimit != nil {
			upvoteGuards = append(upvoteGuards, deps.UpvoteRateLimit)
		}
		deps.PlaceHandler.Register(places, upvoteGuards...)

		adminPlaces := api.Group("/places", jwtMiddleware, adminMiddleware)
		deps.PlaceHandler.RegisterAdmin(adminPlaces)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		if deps.SubmissionRateLimit != nil {
			submissions.Use(deps.SubmissionRateLimit)
		}
		deps.SubmissionHandler.Register(submissions)
	}

	admin := api.Group("/admin", jwtMiddleware, adminMiddleware)
	if deps.AdminSubmissionHandler != nil {
		deps.AdminSubmissionHandler.Register(admin.Group("/submissions"))
	}
	if deps.AuditLogHandler != nil {
		deps.AuditLogHandler.Register(admin.Group("/audit-logs"))
	}
}
