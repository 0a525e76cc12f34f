package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile maps an authenticated identity to its platform role.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:160;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// RoleUser is the default, least-privileged role.
	RoleUser = "user"
	// RoleAdmin may mutate entities directly and resolve submissions.
	RoleAdmin = "admin"
)

// IsAdmin reports whether the profile carries the admin role.
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
