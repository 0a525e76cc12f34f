package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/service"
	"github.com/streetbars/streetbars-api/internal/utils"
)

// SkillHandler serves the public skill catalogue and the admin-only direct
// mutations.
type SkillHandler struct {
	service service.SkillService
	logger  zerolog.Logger
}

// NewSkillHandler constructs the handler.
func NewSkillHandler(service service.SkillService, logger zerolog.Logger) *SkillHandler {
	return &SkillHandler{
		service: service,
		logger:  logger.With().Str("component", "skill_handler").Logger(),
	}
}

// Register wires the public skill routes.
func (h *SkillHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAdmin wires the admin-gated skill routes.
func (h *SkillHandler) RegisterAdmin(router fiber.Router) {
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *SkillHandler) list(c *fiber.Ctx) error {
	req := dto.SkillListRequest{
		Level:         c.Query("level"),
		MinDifficulty: queryIntPtr(c, "minDifficulty"),
		MaxDifficulty: queryIntPtr(c, "maxDifficulty"),
		MuscleGroups:  splitAndTrim(c.Query("muscleGroups")),
		Equipment:     splitAndTrim(c.Query("equipment")),
		Page:          queryInt(c, "page"),
		Limit:         queryInt(c, "limit"),
	}

	result, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list skills")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *SkillHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	}

	result, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to fetch skill")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *SkillHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	}

	var req dto.SkillUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), id, req, userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update skill")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *SkillHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	}

	if err := h.service.Delete(c.UserContext(), id, userIDFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete skill")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
