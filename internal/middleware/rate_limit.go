package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-client rate limiter middleware instance. It keys
// on the authenticated identity when present, falling back to the client IP
// for public endpoints such as login and registration.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			key := c.IP()
			if identity, ok := IdentityFromCtx(c); ok {
				key = identity.ID.String()
			}
			return fmt.Sprintf("%s:%s", identifier, key)
		},
	})
}
