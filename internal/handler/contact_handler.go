package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/middleware"
	"github.com/ratotecki/smartgridlab-api/internal/service"
	"github.com/ratotecki/smartgridlab-api/internal/utils"
)

// ContactHandler handles contact form submissions and the admin inbox.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler constructs a contact handler.
func NewContactHandler(svc service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  logger.With().Str("component", "contact_handler").Logger(),
	}
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var payload dto.ContactCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	id, err := h.service.Submit(c.Context(), payload, middleware.RequestMeta(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "Name, email and message are required", err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to store contact message")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit contact form")
	}

	return utils.SendCreated(c, fiber.Map{"success": true, "id": id})
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	messages, err := h.service.List(c.Context(), middleware.RequestMeta(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list contact messages")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load contact messages")
	}

	return utils.SendOK(c, fiber.Map{"messages": messages})
}
