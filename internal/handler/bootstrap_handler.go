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

// BootstrapHandler exposes the one-time admin account creation route.
// The route is disabled outside development.
type BootstrapHandler struct {
	service service.BootstrapService
	logger  zerolog.Logger
}

// NewBootstrapHandler constructs a bootstrap handler.
func NewBootstrapHandler(svc service.BootstrapService, logger zerolog.Logger) *BootstrapHandler {
	return &BootstrapHandler{
		service: svc,
		logger:  logger.With().Str("component", "bootstrap_handler").Logger(),
	}
}

func (h *BootstrapHandler) CreateAdmin(c *fiber.Ctx) error {
	var payload dto.BootstrapAdminRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.CreateAdmin(c.Context(), payload, middleware.RequestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapDisabled):
			return utils.SendError(c, fiber.StatusForbidden, "admin creation is disabled")
		case errors.Is(err, service.ErrEmailInUse):
			return utils.SendError(c, fiber.StatusBadRequest, "Email already in use")
		case isValidationError(err):
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "Name, email and password are required", err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to create admin user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create admin user")
		}
	}

	return utils.SendCreated(c, fiber.Map{"success": true, "user": user})
}
