package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/service"
	"github.com/streetbars/streetbars-api/internal/utils"
)

// PlaceHandler serves the public place catalogue, the per-user upvote toggle
// and the admin-only direct mutations.
type PlaceHandler struct {
	service service.PlaceService
	logger  zerolog.Logger
}

// NewPlaceHandler constructs the handler.
func NewPlaceHandler(service service.PlaceService, logger zerolog.Logger) *PlaceHandler {
	return &PlaceHandler{
		service: service,
		logger:  logger.With().Str("component", "place_handler").Logger(),
	}
}

// Register wires the public place routes. The upvote toggle only needs
// authentication, not the admin role, so its guards arrive from the router.
func (h *PlaceHandler) Register(router fiber.Router, upvoteGuards ...fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("/:id/upvote", append(upvoteGuards, h.toggleUpvote)...)
}

// RegisterAdmin wires the admin-gated place routes.
func (h *PlaceHandler) RegisterAdmin(router fiber.Router) {
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *PlaceHandler) list(c *fiber.Ctx) error {
	req := dto.PlaceListRequest{
		Location:  c.Query("location"),
		Amenities: splitAndTrim(c.Query("amenities")),
		Equipment: splitAndTrim(c.Query("equipment")),
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
	}

	result, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list places")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *PlaceHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	}

	result, err := h.service.Get(c.UserContext(), id, userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to fetch place")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *PlaceHandler) toggleUpvote(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	}

	result, err := h.service.ToggleUpvote(c.UserContext(), id, userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to toggle upvote")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *PlaceHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	}

	var req dto.PlaceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), id, req, userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update place")
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *PlaceHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	}

	if err := h.service.Delete(c.UserContext(), id, userIDFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete place")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
