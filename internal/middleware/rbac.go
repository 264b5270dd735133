package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/utils"
)

// RequireRole returns the role gate: it rejects requests whose authenticated
// identity is missing or whose role is not in the permitted set. It must run
// after Authenticate.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromCtx(c)
		if !ok {
			return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
		}

		if !identity.Role.Permits(roles...) {
			return utils.SendError(c, fiber.StatusForbidden, "you are not allowed to access this resource")
		}

		return c.Next()
	}
}
