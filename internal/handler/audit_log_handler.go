package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/service"
	"github.com/streetbars/streetbars-api/internal/utils"
)

// AuditLogHandler serves the admin-only audit trail.
type AuditLogHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditLogHandler constructs the handler.
func NewAuditLogHandler(service service.AuditService, logger zerolog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_log_handler").Logger(),
	}
}

// Register wires the audit trail route.
func (h *AuditLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditLogHandler) list(c *fiber.Ctx) error {
	req := dto.AuditLogListRequest{
		EntityType: c.Query("entityType"),
		Action:     c.Query("action"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	}

	result, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list audit logs")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}
