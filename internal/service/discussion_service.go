package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/repository"
)

var (
	// ErrDiscussionNotFound indicates the requested discussion does not exist.
	ErrDiscussionNotFound = errors.New("discussion not found")
	// ErrCommentNotFound indicates the requested comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotParticipant blocks users that neither instruct nor attend the course.
	ErrNotParticipant = errors.New("only the course instructor or enrolled students may participate")
	// ErrNotCommentAuthor blocks deleting someone else's comment.
	ErrNotCommentAuthor = errors.New("only the comment author can delete it")
	// ErrEmptyAfterSanitize indicates user content vanished after sanitization.
	ErrEmptyAfterSanitize = errors.New("content empty after sanitization")
)

// DiscussionService exposes course discussion use cases.
type DiscussionService interface {
	Create(ctx context.Context, requesterID uuid.UUID, role models.Role, courseID uuid.UUID, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error)
	AddComment(ctx context.Context, requesterID uuid.UUID, courseID, discussionID uuid.UUID, payload dto.CommentCreateRequest) (dto.CommentResponse, error)
	List(ctx context.Context, requesterID, courseID uuid.UUID, page dto.PageQuery) (dto.DiscussionListResponse, error)
	DeleteComment(ctx context.Context, requesterID, commentID uuid.UUID) error
}

type discussionService struct {
	discussions repository.DiscussionRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
}

// NewDiscussionService constructs a discussion service.
func NewDiscussionService(discussions repository.DiscussionRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) DiscussionService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &discussionService{
		discussions: discussions,
		courses:     courses,
		validator:   validate,
		logger:      logger.With().Str("component", "discussion_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/lentera-go-api/internal/service/discussion"),
		sanitizer:   policy,
	}
}

func (s *discussionService) Create(ctx context.Context, requesterID uuid.UUID, role models.Role, courseID uuid.UUID, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionResponse{}, err
	}

	sanitizedTitle := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if sanitizedTitle == "" {
		return dto.DiscussionResponse{}, ErrEmptyAfterSanitize
	}

	if err := s.requireParticipant(ctx, requesterID, courseID); err != nil {
		return dto.DiscussionResponse{}, err
	}

	attrs := []attribute.KeyValue{
		attribute.String("discussion.course_id", courseID.String()),
		attribute.String("discussion.author_id", requesterID.String()),
	}

	spanCtx, span := s.tracer.Start(ctx, "discussion.create", trace.WithAttributes(attrs...))
	defer span.End()

	discussion := models.Discussion{
		Title:    sanitizedTitle,
		CourseID: courseID,
		UserID:   requesterID,
		Metadata: datatypes.JSONMap{"created_by_role": string(role)},
	}

	if err := s.discussions.CreateDiscussion(spanCtx, &discussion); err != nil {
		span.RecordError(err)
		return dto.DiscussionResponse{}, err
	}

	s.logger.Info().Str("discussion_id", discussion.ID.String()).Str("course_id", courseID.String()).Msg("discussion created")

	return dto.NewDiscussionResponse(discussion), nil
}

func (s *discussionService) AddComment(ctx context.Context, requesterID uuid.UUID, courseID, discussionID uuid.UUID, payload dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	sanitized := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if sanitized == "" {
		return dto.CommentResponse{}, ErrEmptyAfterSanitize
	}

	if err := s.requireParticipant(ctx, requesterID, courseID); err != nil {
		return dto.CommentResponse{}, err
	}

	discussion, err := s.discussions.GetDiscussion(ctx, discussionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CommentResponse{}, ErrDiscussionNotFound
		}
		return dto.CommentResponse{}, err
	}

	if discussion.CourseID != courseID {
		return dto.CommentResponse{}, ErrDiscussionNotFound
	}

	comment := models.Comment{
		Content:      sanitized,
		DiscussionID: discussion.ID,
		UserID:       requesterID,
	}

	if err := s.discussions.CreateComment(ctx, &comment); err != nil {
		return dto.CommentResponse{}, err
	}

	s.logger.Info().Str("comment_id", comment.ID.String()).Str("discussion_id", discussion.ID.String()).Msg("comment added")

	return dto.NewCommentResponse(comment), nil
}

func (s *discussionService) List(ctx context.Context, requesterID, courseID uuid.UUID, page dto.PageQuery) (dto.DiscussionListResponse, error) {
	page = page.Normalize()

	if err := s.requireParticipant(ctx, requesterID, courseID); err != nil {
		return dto.DiscussionListResponse{}, err
	}

	discussions, total, err := s.discussions.ListByCourse(ctx, courseID, page.Page, page.Limit)
	if err != nil {
		return dto.DiscussionListResponse{}, err
	}

	return dto.DiscussionListResponse{
		Discussions: dto.NewDiscussionResponseSlice(discussions),
		PageMeta:    dto.NewPageMeta(total, page),
	}, nil
}

func (s *discussionService) DeleteComment(ctx context.Context, requesterID, commentID uuid.UUID) error {
	comment, err := s.discussions.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if !comment.AuthoredBy(requesterID) {
		return ErrNotCommentAuthor
	}

	if err := s.discussions.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	s.logger.Info().Str("comment_id", commentID.String()).Msg("comment deleted")

	return nil
}

// requireParticipant verifies the requester is the course instructor or an
// enrolled student.
func (s *discussionService) requireParticipant(ctx context.Context, requesterID, courseID uuid.UUID) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if course.OwnedBy(requesterID) {
		return nil
	}

	enrolled, err := s.courses.IsEnrolled(ctx, courseID, requesterID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotParticipant
	}

	return nil
}
