package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/streetbars/streetbars-api/internal/service"
	"github.com/streetbars/streetbars-api/internal/utils"
)

// AdminSubmissionHandler serves the moderation endpoints that resolve pending
// submissions.
type AdminSubmissionHandler struct {
	service service.ModerationService
	logger  zerolog.Logger
}

// NewAdminSubmissionHandler constructs the handler.
func NewAdminSubmissionHandler(service service.ModerationService, logger zerolog.Logger) *AdminSubmissionHandler {
	return &AdminSubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_submission_handler").Logger(),
	}
}

// Register wires the moderation routes. The route group applies the admin
// gate before these run.
func (h *AdminSubmissionHandler) Register(router fiber.Router) {
	router.Post("/:id/approve", h.approve)
	router.Post("/:id/reject", h.reject)
}

func (h *AdminSubmissionHandler) approve(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	}

	result, err := h.service.Approve(c.UserContext(), id, userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to approve submission")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *AdminSubmissionHandler) reject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	}

	result, err := h.service.Reject(c.UserContext(), id, userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to reject submission")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}
