package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is a student's answer to an assignment. The instructor may
// attach a free-form comment and at most one grade.
type Submission struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content           string     `gorm:"type:text;not null" json:"content"`
	StudentID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	AssignmentID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"assignment_id"`
	InstructorComment string     `gorm:"type:text" json:"instructor_comment,omitempty"`
	Student           User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Assignment        Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Grade             *Grade     `json:"grade,omitempty"`
	SubmittedAt       time.Time  `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (s *Submission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SubmittedBy reports whether the given student owns the submission.
func (s Submission) SubmittedBy(userID uuid.UUID) bool {
	return s.StudentID == userID
}

// Grade is the evaluation of a submission, one-to-one with it.
type Grade struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Score        int       `gorm:"not null" json:"score"`
	Feedback     string    `gorm:"type:text;not null" json:"feedback"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"submission_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (g *Grade) BeforeCreate(_ *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
