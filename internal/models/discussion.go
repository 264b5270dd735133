package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Discussion is a thread attached to a course, started by the instructor or
// an enrolled student. Metadata records the creator's role at creation time.
type Discussion struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string            `gorm:"size:100;not null" json:"title"`
	CourseID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"course_id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null" json:"user_id"`
	Course    Course            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User      User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	Comments  []Comment         `json:"comments,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (d *Discussion) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Comment is a reply inside a discussion thread.
type Comment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	DiscussionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"discussion_id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	Discussion   Discussion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User         User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// AuthoredBy reports whether the given user wrote the comment.
func (c Comment) AuthoredBy(userID uuid.UUID) bool {
	return c.UserID == userID
}
