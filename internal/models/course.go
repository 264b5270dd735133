package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course is a published course owned by exactly one instructor.
type Course struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string       `gorm:"size:100;not null" json:"title"`
	Description  string       `gorm:"size:300;not null" json:"description"`
	InstructorID uuid.UUID    `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Instructor   User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Modules      []Module     `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	Enrollments  []Enrollment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (c *Course) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether the given user is the course's instructor.
func (c Course) OwnedBy(userID uuid.UUID) bool {
	return c.InstructorID == userID
}

// Enrollment links a student to a course. A student enrolls at most once per
// course, enforced by the composite unique index.
type Enrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_course_user" json:"course_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_course_user" json:"user_id"`
	Course    Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (e *Enrollment) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
