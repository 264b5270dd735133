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

// ModuleHandler manages course module, lesson and assignment endpoints.
type ModuleHandler struct {
	service service.ModuleService
	logger  zerolog.Logger
}

// NewModuleHandler builds a module handler instance.
func NewModuleHandler(service service.ModuleService, logger zerolog.Logger) *ModuleHandler {
	return &ModuleHandler{
		service: service,
		logger:  logger.With().Str("component", "module_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. Listing is
// public; every mutation requires an authenticated instructor.
func (h *ModuleHandler) Register(router fiber.Router, authenticate fiber.Handler) {
	instructor := []fiber.Handler{authenticate, middleware.RequireRole(models.RoleInstructor)}

	router.Get("/:courseId", h.list)

	router.Post("/:courseId", append(instructor, h.createModule)...)
	router.Patch("/:moduleId/edit", append(instructor, h.updateModule)...)
	router.Delete("/:moduleId/delete", append(instructor, h.deleteModule)...)

	router.Post("/:moduleId/lesson", append(instructor, h.createLesson)...)
	router.Patch("/:moduleId/:lessonId/edit", append(instructor, h.updateLesson)...)
	router.Delete("/:moduleId/:lessonId/delete", append(instructor, h.deleteLesson)...)

	router.Post("/:moduleId/assignment", append(instructor, h.createAssignment)...)
	router.Patch("/:moduleId/assignment/:assignmentId/edit", append(instructor, h.updateAssignment)...)
	router.Delete("/:moduleId/assignment/:assignmentId", append(instructor, h.deleteAssignment)...)
}

func (h *ModuleHandler) list(c *fiber.Ctx) error {
	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	modules, err := h.service.ListModules(c.Context(), courseID, parsePageQuery(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "modules retrieved", modules)
}

func (h *ModuleHandler) createModule(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ModuleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	module, err := h.service.AddModule(c.Context(), identity.ID, courseID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "module created", module)
}

func (h *ModuleHandler) updateModule(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	moduleID, err := parseUUIDParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ModuleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	module, err := h.service.UpdateModule(c.Context(), identity.ID, moduleID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "module updated", module)
}

func (h *ModuleHandler) deleteModule(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	moduleID, err := parseUUIDParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteModule(c.Context(), identity.ID, moduleID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "module deleted", nil)
}

func (h *ModuleHandler) createLesson(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	moduleID, err := parseUUIDParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LessonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lesson, err := h.service.AddLesson(c.Context(), identity.ID, moduleID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson created", lesson)
}

func (h *ModuleHandler) updateLesson(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	moduleID, err := parseUUIDParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lessonID, err := parseUUIDParam(c, "lessonId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LessonUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lesson, err := h.service.UpdateLesson(c.Context(), identity.ID, moduleID, lessonID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "lesson updated", lesson)
}

func (h *ModuleHandler) deleteLesson(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	moduleID, err := parseUUIDParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lessonID, err := parseUUIDParam(c, "lessonId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteLesson(c.Context(), identity.ID, moduleID, lessonID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "lesson deleted", nil)
}

func (h *ModuleHandler) createAssignment(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	moduleID, err := parseUUIDParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.service.AddAssignment(c.Context(), identity.ID, moduleID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

func (h *ModuleHandler) updateAssignment(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	moduleID, err := parseUUIDParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignmentID, err := parseUUIDParam(c, "assignmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.service.UpdateAssignment(c.Context(), identity.ID, moduleID, assignmentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment updated", assignment)
}

func (h *ModuleHandler) deleteAssignment(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	moduleID, err := parseUUIDParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignmentID, err := parseUUIDParam(c, "assignmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteAssignment(c.Context(), identity.ID, moduleID, assignmentID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment deleted", nil)
}

func (h *ModuleHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrModuleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "module not found")
	case errors.Is(err, service.ErrLessonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrNotCourseOwner):
		return utils.SendError(c, fiber.StatusForbidden, "you are not allowed to access this resource")
	case errors.Is(err, service.ErrModuleHasLessons):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrModuleHasLessons.Error())
	case errors.Is(err, service.ErrLessonNotInModule), errors.Is(err, service.ErrAssignmentNotInModule):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
