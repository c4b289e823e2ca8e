package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/middleware"
	"github.com/ratotecki/smartgridlab-api/internal/service"
	"github.com/ratotecki/smartgridlab-api/internal/utils"
)

// AuthHandler manages admin login and logout.
type AuthHandler struct {
	service      service.AuthService
	recorder     service.ActivityRecorder
	cookieName   string
	cookieTTL    time.Duration
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(svc service.AuthService, recorder service.ActivityRecorder, cookieName string, cookieTTL time.Duration, cookieSecure bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      svc,
		recorder:     recorder,
		cookieName:   cookieName,
		cookieTTL:    cookieTTL,
		cookieSecure: cookieSecure,
		logger:       logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	meta := middleware.RequestMeta(c)
	user, token, err := h.service.Authenticate(c.Context(), payload, meta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrNotAuthorized):
			return utils.SendError(c, fiber.StatusUnauthorized, "Invalid credentials")
		default:
			h.logger.Error().Err(err).Msg("login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to process login")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Expires:  time.Now().Add(h.cookieTTL),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return utils.SendOK(c, fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	meta := middleware.RequestMeta(c)
	if principal, ok := middleware.PrincipalFromCtx(c); ok {
		h.recorder.Record(c.Context(), service.ActivityEntry{
			UserID:    &principal.UserID,
			Action:    "logout.success",
			Details:   map[string]interface{}{"email": principal.Email},
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return utils.SendOK(c, fiber.Map{"success": true})
}
