package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies the account type a user registered as.
type Role string

const (
	// RoleAdmin marks platform administrators.
	RoleAdmin Role = "admin"
	// RoleInstructor marks users that create and manage courses.
	RoleInstructor Role = "instructor"
	// RoleStudent marks users that enroll in courses and submit work.
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known account types.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	default:
		return false
	}
}

// Permits reports whether the role is contained in the allowed set.
func (r Role) Permits(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}

// User represents an account on the platform. The same email may register
// once per role, hence the composite unique index.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_users_email_role" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;uniqueIndex:idx_users_email_role" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
