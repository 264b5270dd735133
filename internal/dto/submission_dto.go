package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// SubmissionCreateRequest is the payload for submitting assignment work.
type SubmissionCreateRequest struct {
	Content string `json:"content" validate:"required,min=10,max=1000"`
}

// SubmissionCommentRequest is the instructor's comment payload.
type SubmissionCommentRequest struct {
	Comment string `json:"comment" validate:"required,min=10,max=1000"`
}

// GradeRequest is the payload for grading a submission.
type GradeRequest struct {
	Score    *int   `json:"score" validate:"required,min=0,max=100"`
	Feedback string `json:"feedback" validate:"required,min=3,max=1000"`
}

// SubmissionResponse is the API projection of a submission.
type SubmissionResponse struct {
	ID           uuid.UUID `json:"id"`
	Content      string    `json:"content"`
	StudentID    uuid.UUID `json:"student_id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	Comment      string    `json:"comment,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// NewSubmissionResponse maps a submission model to its API projection.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           submission.ID,
		Content:      submission.Content,
		StudentID:    submission.StudentID,
		AssignmentID: submission.AssignmentID,
		Comment:      submission.InstructorComment,
		SubmittedAt:  submission.SubmittedAt,
	}
}

// NewSubmissionResponseSlice maps a slice of submission models.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}

// SubmissionListResponse is a page of an assignment's submissions.
type SubmissionListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	PageMeta
}

// GradeResponse is returned to the instructor after grading.
type GradeResponse struct {
	ID           uuid.UUID `json:"id"`
	Score        int       `json:"score"`
	Feedback     string    `json:"feedback"`
	SubmissionID uuid.UUID `json:"submission_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewGradeResponse maps a grade model to its API projection.
func NewGradeResponse(grade models.Grade) GradeResponse {
	return GradeResponse{
		ID:           grade.ID,
		Score:        grade.Score,
		Feedback:     grade.Feedback,
		SubmissionID: grade.SubmissionID,
		CreatedAt:    grade.CreatedAt,
		UpdatedAt:    grade.UpdatedAt,
	}
}

// GradeViewResponse is the student-facing view of their grade.
type GradeViewResponse struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}
