package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// CourseCreateRequest is the payload for creating a course.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=3,max=300"`
}

// CourseUpdateRequest carries optional course changes.
type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,min=3,max=300"`
}

// InstructorRef is the embedded instructor reference in course payloads.
type InstructorRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// CourseResponse is the API projection of a course.
type CourseResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Instructor  InstructorRef    `json:"instructor"`
	Modules     []ModuleResponse `json:"modules,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewCourseResponse maps a course model to its API projection.
func NewCourseResponse(course models.Course) CourseResponse {
	response := CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Instructor:  InstructorRef{ID: course.InstructorID, Name: course.Instructor.Name},
		CreatedAt:   course.CreatedAt,
	}
	if len(course.Modules) > 0 {
		response.Modules = NewModuleResponseSlice(course.Modules)
	}
	return response
}

// NewCourseResponseSlice maps a slice of course models.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}

// CourseListResponse is the public catalog page.
type CourseListResponse struct {
	Courses       []CourseResponse `json:"courses"`
	TotalStudents int64            `json:"totalStudents"`
	PageMeta
}

// RosterResponse lists the students enrolled in a course.
type RosterResponse struct {
	Course   string         `json:"course"`
	Students []UserResponse `json:"students"`
	PageMeta
}
