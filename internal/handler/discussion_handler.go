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

// DiscussionHandler manages course discussion and comment endpoints.
type DiscussionHandler struct {
	service service.DiscussionService
	logger  zerolog.Logger
}

// NewDiscussionHandler builds a discussion handler instance.
func NewDiscussionHandler(service service.DiscussionService, logger zerolog.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		service: service,
		logger:  logger.With().Str("component", "discussion_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. All discussion
// endpoints require an authenticated instructor or student.
func (h *DiscussionHandler) Register(router fiber.Router, authenticate fiber.Handler) {
	participant := middleware.RequireRole(models.RoleInstructor, models.RoleStudent)

	router.Post("/discussion/:courseId", authenticate, participant, h.create)
	router.Post("/:courseId/:discussionId/comment", authenticate, participant, h.addComment)
	router.Get("/:courseId", authenticate, participant, h.list)
	router.Delete("/:commentId", authenticate, participant, h.deleteComment)
}

func (h *DiscussionHandler) create(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DiscussionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	discussion, err := h.service.Create(c.Context(), identity.ID, identity.Role, courseID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "discussion created", discussion)
}

func (h *DiscussionHandler) addComment(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	discussionID, err := parseUUIDParam(c, "discussionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.service.AddComment(c.Context(), identity.ID, courseID, discussionID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment created", comment)
}

func (h *DiscussionHandler) list(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	discussions, err := h.service.List(c.Context(), identity.ID, courseID, parsePageQuery(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "discussions retrieved", discussions)
}

func (h *DiscussionHandler) deleteComment(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role information is missing")
	}

	commentID, err := parseUUIDParam(c, "commentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteComment(c.Context(), identity.ID, commentID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "comment deleted", nil)
}

func (h *DiscussionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrDiscussionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "discussion not found")
	case errors.Is(err, service.ErrCommentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "comment not found")
	case errors.Is(err, service.ErrNotParticipant), errors.Is(err, service.ErrNotCommentAuthor):
		return utils.SendError(c, fiber.StatusForbidden, "you are not allowed to access this resource")
	case errors.Is(err, service.ErrEmptyAfterSanitize):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrEmptyAfterSanitize.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
