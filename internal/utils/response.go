package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the uniform error payload. Details is optional and
// carries a best-effort message string, never internal error internals.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SendOK writes the payload with a 200 status.
func SendOK(c *fiber.Ctx, payload interface{}) error {
	return c.Status(fiber.StatusOK).JSON(payload)
}

// SendCreated writes the payload with a 201 status.
func SendCreated(c *fiber.Ctx, payload interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(payload)
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// SendErrorWithDetails sends an error response including a details string.
func SendErrorWithDetails(c *fiber.Ctx, status int, message, details string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{Error: message, Details: details})
}
