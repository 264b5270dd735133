package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/repository"
	"github.com/noah-isme/lentera-go-api/internal/utils"
	"github.com/noah-isme/lentera-go-api/pkg/token"
)

const identityKey = "auth_identity"

// Identity is the authenticated user attached to the request context.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  models.Role
}

// Authenticate returns the authentication gate: it extracts the bearer
// token, verifies it, resolves the user and stores the identity in the
// request locals. A missing or non-Bearer header is rejected before any
// verification happens.
func Authenticate(tokens *token.Service, users repository.UserRepository, logger zerolog.Logger) fiber.Handler {
	authLogger := logger.With().Str("component", "auth_middleware").Logger()

	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")

		const bearer = "Bearer "
		if authorization == "" || !strings.HasPrefix(authorization, bearer) {
			return utils.SendError(c, fiber.StatusForbidden, "token is missing or not provided")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
		}

		user, err := users.GetByID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.SendError(c, fiber.StatusNotFound, "user not found")
			}
			authLogger.Error().Err(err).Msg("failed to resolve authenticated user")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}

		c.Locals(identityKey, Identity{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		})

		return c.Next()
	}
}

// IdentityFromCtx returns the authenticated identity bound to the request,
// if any.
func IdentityFromCtx(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	return identity, ok
}
