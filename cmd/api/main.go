package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/streetbars/streetbars-api/internal/config"
	"github.com/streetbars/streetbars-api/internal/database"
	"github.com/streetbars/streetbars-api/internal/handler"
	"github.com/streetbars/streetbars-api/internal/middleware"
	"github.com/streetbars/streetbars-api/internal/models"
	"github.com/streetbars/streetbars-api/internal/repository"
	"github.com/streetbars/streetbars-api/internal/router"
	"github.com/streetbars/streetbars-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Skill{},
		&models.SkillVariant{},
		&models.SkillPrerequisite{},
		&models.Place{},
		&models.PlaceUpvote{},
		&models.Submission{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, list caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, moderation events disabled")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	profileRepo := repository.NewProfileRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	skillCache := service.NewCatalogCache(redisClient, "skills", cfg.ListCacheTTL, logger)
	placeCache := service.NewCatalogCache(redisClient, "places", cfg.ListCacheTTL, logger)

	roleResolver := service.NewRoleResolver(profileRepo, logger)
	skillService := service.NewSkillService(skillRepo, skillCache, validate, logger)
	placeService := service.NewPlaceService(placeRepo, placeCache, validate, logger)
	submissionService, err := service.NewSubmissionService(submissionRepo, skillRepo, placeRepo, roleResolver, validate, logger)
	if err != nil {
		log.Fatalf("failed to create submission service: %v", err)
	}
	moderationService := service.NewModerationService(moderationRepo, skillCache, placeCache, natsConn, "", logger)
	auditService := service.NewAuditService(auditRepo, logger)

	skillHandler := handler.NewSkillHandler(skillService, logger)
	placeHandler := handler.NewPlaceHandler(placeService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	adminSubmissionHandler := handler.NewAdminSubmissionHandler(moderationService, logger)
	auditLogHandler := handler.NewAuditLogHandler(auditService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		SkillHandler:           skillHandler,
		PlaceHandler:           placeHandler,
		SubmissionHandler:      submissionHandler,
		AdminSubmissionHandler: adminSubmissionHandler,
		AuditLogHandler:        auditLogHandler,
		JWTMiddleware:          middleware.JWTProtected(cfg.JWTSecret),
		AdminMiddleware:        middleware.RequireAdmin(roleResolver.Resolve),
		SubmissionRateLimit:    middleware.RateLimit("submissions", cfg.SubmissionRateMax, cfg.SubmissionRateSpan),
		UpvoteRateLimit:        middleware.RateLimit("upvotes", cfg.UpvoteRateMax, cfg.UpvoteRateSpan),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
