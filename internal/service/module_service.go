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
)

var (
	// ErrModuleNotFound indicates the requested module does not exist.
	ErrModuleNotFound = errors.New("module not found")
	// ErrLessonNotFound indicates the requested lesson does not exist.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrModuleHasLessons blocks deleting a module that still has lessons.
	ErrModuleHasLessons = errors.New("module still has lessons and cannot be deleted")
	// ErrLessonNotInModule indicates the lesson belongs to another module.
	ErrLessonNotInModule = errors.New("lesson does not belong to this module")
	// ErrAssignmentNotInModule indicates the assignment belongs to another module.
	ErrAssignmentNotInModule = errors.New("assignment does not belong to this module")
)

// ModuleService exposes module, lesson and assignment use cases. Every
// mutation verifies the requester owns the parent course.
type ModuleService interface {
	AddModule(ctx context.Context, instructorID, courseID uuid.UUID, payload dto.ModuleCreateRequest) (dto.ModuleResponse, error)
	UpdateModule(ctx context.Context, instructorID, moduleID uuid.UUID, payload dto.ModuleUpdateRequest) (dto.ModuleResponse, error)
	DeleteModule(ctx context.Context, instructorID, moduleID uuid.UUID) error
	ListModules(ctx context.Context, courseID uuid.UUID, page dto.PageQuery) (dto.ModuleListResponse, error)

	AddLesson(ctx context.Context, instructorID, moduleID uuid.UUID, payload dto.LessonCreateRequest) (dto.LessonResponse, error)
	UpdateLesson(ctx context.Context, instructorID, moduleID, lessonID uuid.UUID, payload dto.LessonUpdateRequest) (dto.LessonResponse, error)
	DeleteLesson(ctx context.Context, instructorID, moduleID, lessonID uuid.UUID) error

	AddAssignment(ctx context.Context, instructorID, moduleID uuid.UUID, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	UpdateAssignment(ctx context.Context, instructorID, moduleID, assignmentID uuid.UUID, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	DeleteAssignment(ctx context.Context, instructorID, moduleID, assignmentID uuid.UUID) error
}

type moduleService struct {
	modules   repository.ModuleRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewModuleService builds a new module service.
func NewModuleService(modules repository.ModuleRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) ModuleService {
	return &moduleService{
		modules:   modules,
		courses:   courses,
		validator: validate,
		logger:    logger.With().Str("component", "module_service").Logger(),
	}
}

func (s *moduleService) AddModule(ctx context.Context, instructorID, courseID uuid.UUID, payload dto.ModuleCreateRequest) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModuleResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModuleResponse{}, ErrCourseNotFound
		}
		return dto.ModuleResponse{}, err
	}

	if !course.OwnedBy(instructorID) {
		return dto.ModuleResponse{}, ErrNotCourseOwner
	}

	module := models.Module{
		Title:    payload.Title,
		CourseID: courseID,
	}

	if err := s.modules.CreateModule(ctx, &module); err != nil {
		return dto.ModuleResponse{}, err
	}

	s.logger.Info().Str("module_id", module.ID.String()).Str("course_id", courseID.String()).Msg("module created")

	return dto.NewModuleResponse(module), nil
}

func (s *moduleService) UpdateModule(ctx context.Context, instructorID, moduleID uuid.UUID, payload dto.ModuleUpdateRequest) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModuleResponse{}, err
	}

	module, err := s.ownedModule(ctx, instructorID, moduleID)
	if err != nil {
		return dto.ModuleResponse{}, err
	}

	if payload.Title != nil {
		module.Title = *payload.Title
	}

	if err := s.modules.UpdateModule(ctx, &module); err != nil {
		return dto.ModuleResponse{}, err
	}

	return dto.NewModuleResponse(module), nil
}

func (s *moduleService) DeleteModule(ctx context.Context, instructorID, moduleID uuid.UUID) error {
	module, err := s.ownedModule(ctx, instructorID, moduleID)
	if err != nil {
		return err
	}

	lessons, err := s.modules.CountLessons(ctx, module.ID)
	if err != nil {
		return err
	}
	if lessons > 0 {
		return ErrModuleHasLessons
	}

	if err := s.modules.DeleteModule(ctx, module.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		return err
	}

	s.logger.Info().Str("module_id", module.ID.String()).Msg("module deleted")

	return nil
}

func (s *moduleService) ListModules(ctx context.Context, courseID uuid.UUID, page dto.PageQuery) (dto.ModuleListResponse, error) {
	page = page.Normalize()

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModuleListResponse{}, ErrCourseNotFound
		}
		return dto.ModuleListResponse{}, err
	}

	modules, total, err := s.modules.ListByCourse(ctx, courseID, page.Page, page.Limit)
	if err != nil {
		return dto.ModuleListResponse{}, err
	}

	return dto.ModuleListResponse{
		Modules:  dto.NewModuleResponseSlice(modules),
		PageMeta: dto.NewPageMeta(total, page),
	}, nil
}

func (s *moduleService) AddLesson(ctx context.Context, instructorID, moduleID uuid.UUID, payload dto.LessonCreateRequest) (dto.LessonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	module, err := s.ownedModule(ctx, instructorID, moduleID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	lesson := models.Lesson{
		Title:    payload.Title,
		Content:  payload.Content,
		ModuleID: module.ID,
	}

	if err := s.modules.CreateLesson(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	s.logger.Info().Str("lesson_id", lesson.ID.String()).Str("module_id", module.ID.String()).Msg("lesson created")

	return dto.NewLessonResponse(lesson), nil
}

func (s *moduleService) UpdateLesson(ctx context.Context, instructorID, moduleID, lessonID uuid.UUID, payload dto.LessonUpdateRequest) (dto.LessonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	if _, err := s.ownedModule(ctx, instructorID, moduleID); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson, err := s.modules.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonResponse{}, ErrLessonNotFound
		}
		return dto.LessonResponse{}, err
	}

	if lesson.ModuleID != moduleID {
		return dto.LessonResponse{}, ErrLessonNotInModule
	}

	if payload.Title != nil {
		lesson.Title = *payload.Title
	}
	if payload.Content != nil {
		lesson.Content = *payload.Content
	}

	if err := s.modules.UpdateLesson(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	return dto.NewLessonResponse(lesson), nil
}

func (s *moduleService) DeleteLesson(ctx context.Context, instructorID, moduleID, lessonID uuid.UUID) error {
	if _, err := s.ownedModule(ctx, instructorID, moduleID); err != nil {
		return err
	}

	lesson, err := s.modules.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	if lesson.ModuleID != moduleID {
		return ErrLessonNotInModule
	}

	if err := s.modules.DeleteLesson(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	s.logger.Info().Str("lesson_id", lessonID.String()).Msg("lesson deleted")

	return nil
}

func (s *moduleService) AddAssignment(ctx context.Context, instructorID, moduleID uuid.UUID, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	module, err := s.ownedModule(ctx, instructorID, moduleID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:       payload.Title,
		Description: payload.Description,
		ModuleID:    module.ID,
	}

	if err := s.modules.CreateAssignment(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Str("assignment_id", assignment.ID.String()).Str("module_id", module.ID.String()).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *moduleService) UpdateAssignment(ctx context.Context, instructorID, moduleID, assignmentID uuid.UUID, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if _, err := s.ownedModule(ctx, instructorID, moduleID); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.modules.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if assignment.ModuleID != moduleID {
		return dto.AssignmentResponse{}, ErrAssignmentNotInModule
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}

	if err := s.modules.UpdateAssignment(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *moduleService) DeleteAssignment(ctx context.Context, instructorID, moduleID, assignmentID uuid.UUID) error {
	if _, err := s.ownedModule(ctx, instructorID, moduleID); err != nil {
		return err
	}

	assignment, err := s.modules.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	if assignment.ModuleID != moduleID {
		return ErrAssignmentNotInModule
	}

	if err := s.modules.DeleteAssignment(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Str("assignment_id", assignmentID.String()).Msg("assignment deleted")

	return nil
}

// ownedModule loads a module with its course and verifies the requester is
// the course instructor.
func (s *moduleService) ownedModule(ctx context.Context, instructorID, moduleID uuid.UUID) (models.Module, error) {
	module, err := s.modules.GetModuleWithCourse(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Module{}, ErrModuleNotFound
		}
		return models.Module{}, err
	}

	if !module.Course.OwnedBy(instructorID) {
		return models.Module{}, ErrNotCourseOwner
	}

	return module, nil
}
