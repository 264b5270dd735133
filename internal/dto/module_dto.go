package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// ModuleCreateRequest is the payload for adding a module to a course.
type ModuleCreateRequest struct {
	Title string `json:"title" validate:"required,min=3,max=255"`
}

// ModuleUpdateRequest carries optional module changes.
type ModuleUpdateRequest struct {
	Title *string `json:"title" validate:"omitempty,min=3,max=255"`
}

// LessonCreateRequest is the payload for adding a lesson to a module.
type LessonCreateRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=255"`
	Content string `json:"content" validate:"required,min=3"`
}

// LessonUpdateRequest carries optional lesson changes.
type LessonUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=3,max=255"`
	Content *string `json:"content" validate:"omitempty,min=3"`
}

// AssignmentCreateRequest is the payload for adding an assignment.
type AssignmentCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"omitempty,min=3"`
}

// AssignmentUpdateRequest carries optional assignment changes.
type AssignmentUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description" validate:"omitempty,min=3"`
}

// LessonResponse is the API projection of a lesson.
type LessonResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ModuleID  uuid.UUID `json:"module_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLessonResponse maps a lesson model to its API projection.
func NewLessonResponse(lesson models.Lesson) LessonResponse {
	return LessonResponse{
		ID:        lesson.ID,
		Title:     lesson.Title,
		Content:   lesson.Content,
		ModuleID:  lesson.ModuleID,
		CreatedAt: lesson.CreatedAt,
	}
}

// NewLessonResponseSlice maps a slice of lesson models.
func NewLessonResponseSlice(lessons []models.Lesson) []LessonResponse {
	responses := make([]LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		responses = append(responses, NewLessonResponse(lesson))
	}
	return responses
}

// AssignmentResponse is the API projection of an assignment.
type AssignmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ModuleID    uuid.UUID `json:"module_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAssignmentResponse maps an assignment model to its API projection.
func NewAssignmentResponse(assignment models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          assignment.ID,
		Title:       assignment.Title,
		Description: assignment.Description,
		ModuleID:    assignment.ModuleID,
		CreatedAt:   assignment.CreatedAt,
	}
}

// ModuleResponse is the API projection of a module.
type ModuleResponse struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	CourseID  uuid.UUID        `json:"course_id"`
	Lessons   []LessonResponse `json:"lessons,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewModuleResponse maps a module model to its API projection.
func NewModuleResponse(module models.Module) ModuleResponse {
	response := ModuleResponse{
		ID:        module.ID,
		Title:     module.Title,
		CourseID:  module.CourseID,
		CreatedAt: module.CreatedAt,
	}
	if len(module.Lessons) > 0 {
		response.Lessons = NewLessonResponseSlice(module.Lessons)
	}
	return response
}

// NewModuleResponseSlice maps a slice of module models.
func NewModuleResponseSlice(modules []models.Module) []ModuleResponse {
	responses := make([]ModuleResponse, 0, len(modules))
	for _, module := range modules {
		responses = append(responses, NewModuleResponse(module))
	}
	return responses
}

// ModuleListResponse is a page of a course's modules.
type ModuleListResponse struct {
	Modules []ModuleResponse `json:"modules"`
	PageMeta
}
