package handler

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler serves liveness checks.
type HealthHandler struct {
	appName string
	version string
}

// NewHealthHandler constructs a health handler.
func NewHealthHandler(appName, version string) *HealthHandler {
	return &HealthHandler{appName: appName, version: version}
}

// Register wires the health route.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"service": h.appName,
		"version": h.version,
	})
}
