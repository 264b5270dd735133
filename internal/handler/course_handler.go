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

// CourseHandler manages course catalogue and enrollment endpoints.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler builds a course handler instance.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *CourseHandler) Register(router fiber.Router, authenticate fiber.Handler) {
	router.Get("/list", h.list)

	router.Post("/create", authenticate, middleware.RequireRole(models.RoleInstructor), h.create)
	router.Patch("/edit/:courseId", authenticate, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), h.update)
	router.Delete("/delete/:courseId", authenticate, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), h.delete)
	router.Post("/join/:courseId", authenticate, middleware.RequireRole(models.RoleStudent), h.join)
	router.Get("/list/students/:courseId", authenticate, middleware.RequireRole(models.RoleInstructor), h.listStudents)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Create(c.Context(), identity.ID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Update(c.Context(), identity.ID, identity.Role, courseID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) delete(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), identity.ID, identity.Role, courseID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "course deleted", nil)
}

func (h *CourseHandler) join(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Join(c.Context(), identity.ID, courseID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "successfully joined the course", nil)
}

func (h *CourseHandler) listStudents(c *fiber.Ctx) error {
	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	roster, err := h.service.ListStudents(c.Context(), courseID, parsePageQuery(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", roster)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	catalog, err := h.service.List(c.Context(), c.Query("search"), parsePageQuery(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "courses retrieved", catalog)
}

func (h *CourseHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrNotInstructor), errors.Is(err, service.ErrNotCourseOwner):
		return utils.SendError(c, fiber.StatusForbidden, "you are not allowed to access this resource")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return utils.SendError(c, fiber.StatusBadRequest, "already enrolled in this course")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
