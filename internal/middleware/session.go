package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ratotecki/smartgridlab-api/internal/service"
)

const principalLocal = "principal"

// Session resolves the session cookie into a typed principal. The token
// is re-validated on every request; claims are never trusted without the
// signature checking out. Requests without a valid token simply carry no
// principal.
func Session(sessions *service.SessionManager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token != "" {
			if principal, err := sessions.Parse(token); err == nil {
				c.Locals(principalLocal, principal)
			}
		}
		return c.Next()
	}
}

// PrincipalFromCtx returns the resolved session principal, if any.
func PrincipalFromCtx(c *fiber.Ctx) (service.Principal, bool) {
	principal, ok := c.Locals(principalLocal).(service.Principal)
	return principal, ok
}

// ClientIP extracts the caller address from the first X-Forwarded-For
// value, falling back to X-Real-IP. Nil when neither header is present.
// The result is copied out of fasthttp's reusable request buffers so it
// stays valid after the handler returns (the audit recorder persists it
// asynchronously).
func ClientIP(c *fiber.Ctx) *string {
	forwarded := strings.TrimSpace(c.Get("X-Forwarded-For"))
	if forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			first = strings.Clone(first)
			return &first
		}
	}
	if realIP := strings.TrimSpace(c.Get("X-Real-IP")); realIP != "" {
		realIP = strings.Clone(realIP)
		return &realIP
	}
	return nil
}

// UserAgent returns a copy of the User-Agent header, nil when absent.
func UserAgent(c *fiber.Ctx) *string {
	if ua := strings.TrimSpace(c.Get(fiber.HeaderUserAgent)); ua != "" {
		ua = strings.Clone(ua)
		return &ua
	}
	return nil
}

// RequestMeta assembles the audit metadata for the current request,
// including the actor when a session principal is present.
func RequestMeta(c *fiber.Ctx) service.RequestMeta {
	meta := service.RequestMeta{
		IPAddress: ClientIP(c),
		UserAgent: UserAgent(c),
	}
	if principal, ok := PrincipalFromCtx(c); ok {
		id := principal.UserID
		meta.UserID = &id
	}
	return meta
}
