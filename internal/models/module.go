package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Module groups lessons and assignments inside a course. Modules are ordered
// by creation time only.
type Module struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	CourseID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"course_id"`
	Course      Course       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Lessons     []Lesson     `json:"lessons,omitempty"`
	Assignments []Assignment `json:"assignments,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (m *Module) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Lesson is a content unit inside a module.
type Lesson struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ModuleID  uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	Module    Module    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (l *Lesson) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Assignment is gradeable work attached to a module.
type Assignment struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	ModuleID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"module_id"`
	Module      Module       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Submissions []Submission `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (a *Assignment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
