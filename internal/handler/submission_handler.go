package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/service"
	"github.com/streetbars/streetbars-api/internal/utils"
)

// SubmissionHandler serves the authenticated submission queue: proposing
// changes, listing own proposals and editing pending ones.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register wires the submission routes. The whole group requires a valid
// token.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Put("/:id", h.edit)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	req := dto.SubmissionListRequest{
		Status:     c.Query("status"),
		EntityType: c.Query("entityType"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	}

	result, err := h.service.List(c.UserContext(), userIDFromContext(c), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list submissions")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var req dto.SubmissionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), userIDFromContext(c), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create submission")
	}

	return utils.SendJSON(c, fiber.StatusCreated, result)
}

func (h *SubmissionHandler) edit(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "submission not found or not editable")
	}

	var req dto.SubmissionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Edit(c.UserContext(), id, userIDFromContext(c), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to edit submission")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}
