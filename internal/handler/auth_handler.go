package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/middleware"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/service"
	"github.com/noah-isme/lentera-go-api/internal/utils"
)

// AuthHandler manages account registration, login and profile endpoints for
// a single role group.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the role-scoped account routes to the provided router
// group. The limiter guards the public register/login endpoints and the
// authenticate gate protects profile edits.
func (h *AuthHandler) Register(router fiber.Router, role models.Role, limiter, authenticate fiber.Handler) {
	router.Post("/register", limiter, h.register(role))
	router.Post("/login", limiter, h.login(role))
	router.Patch("/edit", authenticate, middleware.RequireRole(role), h.edit(role))
}

func (h *AuthHandler) register(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload dto.RegisterRequest
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}

		user, err := h.service.Register(c.Context(), role, payload)
		if err != nil {
			return h.handleError(c, err)
		}

		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account registered", user)
	}
}

func (h *AuthHandler) login(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload dto.LoginRequest
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}

		auth, err := h.service.Login(c.Context(), role, payload)
		if err != nil {
			return h.handleError(c, err)
		}

		return utils.SendSuccess(c, "login successful", auth)
	}
}

func (h *AuthHandler) edit(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
		}

		var payload dto.UpdateProfileRequest
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}

		user, err := h.service.UpdateProfile(c.Context(), identity.ID, role, payload)
		if err != nil {
			return h.handleError(c, err)
		}

		return utils.SendSuccess(c, "profile updated", user)
	}
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAccountExists):
		return utils.SendError(c, fiber.StatusBadRequest, "account already exists")
	case errors.Is(err, service.ErrWeakPassword):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrWeakPassword.Error())
	case errors.Is(err, service.ErrSameEmail):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrSameEmail.Error())
	case errors.Is(err, service.ErrAccountNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "account not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
