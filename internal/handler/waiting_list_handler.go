package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/middleware"
	"github.com/ratotecki/smartgridlab-api/internal/service"
	"github.com/ratotecki/smartgridlab-api/internal/utils"
)

// WaitingListHandler handles waiting-list signups and the admin view.
type WaitingListHandler struct {
	service service.WaitingListService
	logger  zerolog.Logger
}

// NewWaitingListHandler constructs a waiting-list handler.
func NewWaitingListHandler(svc service.WaitingListService, logger zerolog.Logger) *WaitingListHandler {
	return &WaitingListHandler{
		service: svc,
		logger:  logger.With().Str("component", "waiting_list_handler").Logger(),
	}
}

func (h *WaitingListHandler) Submit(c *fiber.Ctx) error {
	var payload dto.WaitingListCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := h.service.Submit(c.Context(), payload, middleware.RequestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWaitingListDuplicate):
			return utils.SendError(c, fiber.StatusConflict, "Email already registered")
		case errors.Is(err, service.ErrProductNameRequired), isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "Email and product name are required")
		default:
			h.logger.Error().Err(err).Msg("failed to store waiting list entry")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to process signup")
		}
	}

	message := "Added to waiting list"
	if entry.IsDemoRequest {
		message = "Demo request registered"
	}

	return utils.SendCreated(c, fiber.Map{
		"success": true,
		"message": message,
		"id":      entry.ID,
	})
}

func (h *WaitingListHandler) List(c *fiber.Ctx) error {
	entries, err := h.service.List(c.Context(), middleware.RequestMeta(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list waiting list entries")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load waiting list")
	}

	return utils.SendOK(c, fiber.Map{"entries": entries})
}
