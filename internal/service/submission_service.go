package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/repository"
	"github.com/noah-isme/lentera-go-api/pkg/events"
)

var (
	// ErrSubmissionNotFound indicates the requested submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrNotEnrolled indicates the student has not joined the assignment's course.
	ErrNotEnrolled = errors.New("student is not enrolled in the course")
	// ErrNotSubmissionOwner indicates the requester did not author the submission.
	ErrNotSubmissionOwner = errors.New("only the submitting student can view this grade")
)

// SubmissionService exposes submission and grading use cases. Instructor
// operations authorize against the course that transitively owns the
// submission's assignment.
type SubmissionService interface {
	Submit(ctx context.Context, studentID, assignmentID uuid.UUID, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListByAssignment(ctx context.Context, instructorID, assignmentID uuid.UUID, page dto.PageQuery) (dto.SubmissionListResponse, error)
	Comment(ctx context.Context, instructorID, submissionID uuid.UUID, payload dto.SubmissionCommentRequest) (dto.SubmissionResponse, error)
	AssignGrade(ctx context.Context, instructorID, submissionID uuid.UUID, payload dto.GradeRequest) (dto.GradeResponse, error)
	GetGrade(ctx context.Context, studentID, submissionID uuid.UUID) (dto.GradeViewResponse, bool, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	modules     repository.ModuleRepository
	courses     repository.CourseRepository
	publisher   *events.Publisher
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewSubmissionService builds a new submission service.
func NewSubmissionService(submissions repository.SubmissionRepository, modules repository.ModuleRepository, courses repository.CourseRepository, publisher *events.Publisher, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		modules:     modules,
		courses:     courses,
		publisher:   publisher,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) Submit(ctx context.Context, studentID, assignmentID uuid.UUID, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.modules.GetAssignmentWithCourse(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	enrolled, err := s.courses.IsEnrolled(ctx, assignment.Module.CourseID, studentID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !enrolled {
		return dto.SubmissionResponse{}, ErrNotEnrolled
	}

	submission := models.Submission{
		Content:      payload.Content,
		StudentID:    studentID,
		AssignmentID: assignmentID,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Str("submission_id", submission.ID.String()).Str("assignment_id", assignmentID.String()).Msg("submission received")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListByAssignment(ctx context.Context, instructorID, assignmentID uuid.UUID, page dto.PageQuery) (dto.SubmissionListResponse, error) {
	page = page.Normalize()

	assignment, err := s.modules.GetAssignmentWithCourse(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionListResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionListResponse{}, err
	}

	if !assignment.Module.Course.OwnedBy(instructorID) {
		return dto.SubmissionListResponse{}, ErrNotCourseOwner
	}

	submissions, total, err := s.submissions.ListByAssignment(ctx, assignmentID, page.Page, page.Limit)
	if err != nil {
		return dto.SubmissionListResponse{}, err
	}

	return dto.SubmissionListResponse{
		Submissions: dto.NewSubmissionResponseSlice(submissions),
		PageMeta:    dto.NewPageMeta(total, page),
	}, nil
}

func (s *submissionService) Comment(ctx context.Context, instructorID, submissionID uuid.UUID, payload dto.SubmissionCommentRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.ownedSubmission(ctx, instructorID, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission.InstructorComment = payload.Comment

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.publisher.Publish(ctx, events.SubmissionCommented, dto.NewSubmissionResponse(submission))
	s.logger.Info().Str("submission_id", submission.ID.String()).Msg("submission commented")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) AssignGrade(ctx context.Context, instructorID, submissionID uuid.UUID, payload dto.GradeRequest) (dto.GradeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeResponse{}, err
	}

	submission, err := s.ownedSubmission(ctx, instructorID, submissionID)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	grade, err := s.submissions.UpsertGrade(ctx, submission.ID, *payload.Score, payload.Feedback)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	response := dto.NewGradeResponse(grade)
	s.publisher.Publish(ctx, events.GradeAssigned, response)
	s.logger.Info().Str("submission_id", submission.ID.String()).Int("score", grade.Score).Msg("grade assigned")

	return response, nil
}

// GetGrade returns the grade for a submission to its owning student. The
// second return value is false when the submission has not been graded yet.
func (s *submissionService) GetGrade(ctx context.Context, studentID, submissionID uuid.UUID) (dto.GradeViewResponse, bool, error) {
	submission, err := s.submissions.GetWithGrade(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeViewResponse{}, false, ErrSubmissionNotFound
		}
		return dto.GradeViewResponse{}, false, err
	}

	if !submission.SubmittedBy(studentID) {
		return dto.GradeViewResponse{}, false, ErrNotSubmissionOwner
	}

	if submission.Grade == nil {
		return dto.GradeViewResponse{}, false, nil
	}

	return dto.GradeViewResponse{
		Score:    submission.Grade.Score,
		Feedback: submission.Grade.Feedback,
	}, true, nil
}

// ownedSubmission loads a submission with its assignment chain and verifies
// the requester instructs the owning course.
func (s *submissionService) ownedSubmission(ctx context.Context, instructorID, submissionID uuid.UUID) (models.Submission, error) {
	submission, err := s.submissions.GetWithChain(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	if !submission.Assignment.Module.Course.OwnedBy(instructorID) {
		return models.Submission{}, ErrNotCourseOwner
	}

	return submission, nil
}
