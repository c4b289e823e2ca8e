package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ratotecki/smartgridlab-api/internal/observability"
)

// Observability attaches Prometheus metrics and structured latency/error
// logging for admin-gated endpoints.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		if !isAdminRequest(c) {
			return err
		}

		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()
		statusLabel := fmt.Sprintf("%d", status)

		observability.AdminRequests().WithLabelValues(method, route, statusLabel).Inc()
		observability.AdminLatency().WithLabelValues(method, route).Observe(duration.Seconds())
		if status >= fiber.StatusBadRequest {
			observability.AdminErrors().WithLabelValues(method, route, statusLabel).Inc()
		}

		requestLogger := logger.With().
			Str("correlation_id", GetCorrelationID(c)).
			Str("route", route).
			Str("method", method).
			Int("status", status).
			Float64("latency_ms", float64(duration)/float64(time.Millisecond)).
			Logger()

		switch {
		case status >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg("admin request failed")
		case status >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg("admin request completed with client error")
		default:
			requestLogger.Info().Msg("admin request completed")
		}

		return err
	}
}

// isAdminRequest reports whether the request targets an admin-gated
// operation: anything under /admin, the admin-only collection reads, and
// news mutations.
func isAdminRequest(c *fiber.Ctx) bool {
	path := c.Path()
	if strings.HasPrefix(path, "/admin") {
		return true
	}

	method := c.Method()
	switch {
	case method == fiber.MethodGet && (path == "/contact" || path == "/waiting-list"):
		return true
	case path == "/news" && method == fiber.MethodPost:
		return true
	case strings.HasPrefix(path, "/news/") && (method == fiber.MethodPut || method == fiber.MethodDelete || method == fiber.MethodPost):
		return true
	}
	return false
}

func routeTemplate(c *fiber.Ctx) string {
	if c.Route() != nil && c.Route().Path != "" {
		return c.Route().Path
	}
	return c.Path()
}
