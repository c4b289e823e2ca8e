package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const correlationLocal = "correlation_id"

type correlationCtxKey struct{}

// CorrelationID tags each request with an identifier so log lines and
// audit entries from one request can be tied together. An id supplied
// by the edge wins over a generated one; the chosen id is echoed back
// on the response and propagated on the user context for the service
// layer.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := edgeSuppliedID(c)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(correlationLocal, id)
		c.Set("X-Correlation-ID", id)
		c.SetUserContext(context.WithValue(c.Context(), correlationCtxKey{}, id))

		return c.Next()
	}
}

func edgeSuppliedID(c *fiber.Ctx) string {
	for _, header := range []string{"X-Correlation-ID", "X-Request-ID"} {
		if id := strings.TrimSpace(c.Get(header)); id != "" {
			return strings.Clone(id)
		}
	}
	return ""
}

// GetCorrelationID returns the id bound to the active request, empty
// when the middleware did not run.
func GetCorrelationID(c *fiber.Ctx) string {
	if id, ok := c.Locals(correlationLocal).(string); ok {
		return id
	}
	return CorrelationIDFromContext(c.UserContext())
}

// CorrelationIDFromContext reads the id propagated to the service layer.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationCtxKey{}).(string)
	return id
}
