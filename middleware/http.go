package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const requestTimeout = 10 * time.Second

// RequestContext assigns a request id
func RequestContext() fiber.Handler {
	return requestid.New()
}

// Timeout bounds the user context used for database calls
func Timeout(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()
	c.SetUserContext(ctx)
	return c.Next()
}

func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}

// ClientIP prefers the first X-Forwarded-For hop over the socket address
func ClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.IP()
}

// RecoveryMiddleware turns panics into errors handled by FiberErrorHandler
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{EnableStackTrace: true})
}

// LeadRateLimiter bounds anonymous lead submissions per IP
func LeadRateLimiter() fiber.Handler {
	return rateLimiter(10, time.Minute, "Too many submissions. Please try again later.")
}

// LoginRateLimiter is stricter for credential endpoints
func LoginRateLimiter() fiber.Handler {
	return rateLimiter(5, time.Minute, "Too many login attempts. Please try again later.")
}

func rateLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return JsonResponse(c, fiber.StatusTooManyRequests, false, message, nil)
		},
	})
}
