package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/repository"
	"github.com/noah-isme/lentera-go-api/pkg/events"
)

var (
	// ErrCourseNotFound indicates the requested course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrNotInstructor indicates the requester holds no instructor account.
	ErrNotInstructor = errors.New("requester is not an instructor")
	// ErrNotCourseOwner indicates the requester does not own the course.
	ErrNotCourseOwner = errors.New("requester is not the course instructor")
	// ErrAlreadyEnrolled indicates the student already joined the course.
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

const catalogCachePrefix = "catalog:courses"

// CourseService exposes course and enrollment use cases.
type CourseService interface {
	Create(ctx context.Context, instructorID uuid.UUID, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, requesterID uuid.UUID, role models.Role, courseID uuid.UUID, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, requesterID uuid.UUID, role models.Role, courseID uuid.UUID) error
	Join(ctx context.Context, studentID, courseID uuid.UUID) error
	ListStudents(ctx context.Context, courseID uuid.UUID, page dto.PageQuery) (dto.RosterResponse, error)
	List(ctx context.Context, search string, page dto.PageQuery) (dto.CourseListResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	users     repository.UserRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	publisher *events.Publisher
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService builds a new course service. The cache client may be nil,
// disabling catalog caching.
func NewCourseService(courses repository.CourseRepository, users repository.UserRepository, cache *redis.Client, cacheTTL time.Duration, publisher *events.Publisher, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		users:     users,
		cache:     cache,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, instructorID uuid.UUID, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	instructor, err := s.users.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrNotInstructor
		}
		return dto.CourseResponse{}, err
	}

	if instructor.Role != models.RoleInstructor {
		return dto.CourseResponse{}, ErrNotInstructor
	}

	course := models.Course{
		Title:        payload.Title,
		Description:  payload.Description,
		InstructorID: instructorID,
		Instructor:   instructor,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Str("course_id", course.ID.String()).Str("instructor_id", instructorID.String()).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, requesterID uuid.UUID, role models.Role, courseID uuid.UUID, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if role != models.RoleAdmin && !course.OwnedBy(requesterID) {
		return dto.CourseResponse{}, ErrNotCourseOwner
	}

	if payload.Title != nil {
		course.Title = *payload.Title
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Str("course_id", course.ID.String()).Msg("course updated")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, requesterID uuid.UUID, role models.Role, courseID uuid.UUID) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if role != models.RoleAdmin && !course.OwnedBy(requesterID) {
		return ErrNotCourseOwner
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Str("course_id", courseID.String()).Msg("course deleted")

	return nil
}

func (s *courseService) Join(ctx context.Context, studentID, courseID uuid.UUID) error {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	enrolled, err := s.courses.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return err
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}

	enrollment := models.Enrollment{
		CourseID: courseID,
		UserID:   studentID,
	}

	if err := s.courses.CreateEnrollment(ctx, &enrollment); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.publisher.Publish(ctx, events.EnrollmentCreated, enrollment)
	s.logger.Info().Str("course_id", courseID.String()).Str("student_id", studentID.String()).Msg("student enrolled")

	return nil
}

func (s *courseService) ListStudents(ctx context.Context, courseID uuid.UUID, page dto.PageQuery) (dto.RosterResponse, error) {
	page = page.Normalize()

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RosterResponse{}, ErrCourseNotFound
		}
		return dto.RosterResponse{}, err
	}

	students, total, err := s.courses.ListStudents(ctx, courseID, page.Page, page.Limit)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	responses := make([]dto.UserResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.NewUserResponse(student))
	}

	return dto.RosterResponse{
		Course:   course.Title,
		Students: responses,
		PageMeta: dto.NewPageMeta(total, page),
	}, nil
}

func (s *courseService) List(ctx context.Context, search string, page dto.PageQuery) (dto.CourseListResponse, error) {
	page = page.Normalize()
	cacheKey := fmt.Sprintf("%s:%s:%d:%d", catalogCachePrefix, search, page.Page, page.Limit)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.CourseListResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("catalog cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read catalog cache")
		}
	}

	courses, total, err := s.courses.ListWithFilter(ctx, repository.CourseFilter{
		Search:   search,
		Page:     page.Page,
		PageSize: page.Limit,
	})
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	totalStudents, err := s.courses.CountEnrollmentsMatching(ctx, search)
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	response := dto.CourseListResponse{
		Courses:       dto.NewCourseResponseSlice(courses),
		TotalStudents: totalStudents,
		PageMeta:      dto.NewPageMeta(total, page),
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if encoded, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, encoded, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write catalog cache")
			}
		}
	}

	return response, nil
}

// invalidateCatalog drops every cached catalog page after a course or
// enrollment mutation.
func (s *courseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}

	iter := s.cache.Scan(ctx, 0, catalogCachePrefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to evict catalog cache entry")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache scan failed")
	}
}
