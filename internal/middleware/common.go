package middleware

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config controls the shared middleware pipeline.
type Config struct {
	Logger *zerolog.Logger
	// AllowOrigins is the CORS allowlist; empty means any origin, which only
	// suits development.
	AllowOrigins string
}

// Register installs the middleware every route shares: panic recovery, CORS,
// correlation ids, admin metrics and request logging. Route-specific guards
// (JWT, RBAC, rate limits) attach at registration time instead.
func Register(app *fiber.App, cfg Config) {
	requestLogger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		requestLogger = *cfg.Logger
	}

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		// No PATCH: updates go through PUT only.
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(CorrelationID())
	app.Use(Observability(requestLogger))
	app.Use(logger.New())
}
