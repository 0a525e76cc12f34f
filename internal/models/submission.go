package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission is a user-proposed create/update/delete awaiting admin review.
// The payload is an opaque JSON document shaped like the target entity's
// mutable fields; it is only interpreted when the submission is approved.
type Submission struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType  string         `gorm:"size:16;not null;index" json:"entity_type"`
	Action      string         `gorm:"size:16;not null" json:"action"`
	Status      string         `gorm:"size:16;not null;index;default:pending" json:"status"`
	SubmittedBy uuid.UUID      `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Data        datatypes.JSON `gorm:"type:json" json:"data"`
	OriginalID  *uuid.UUID     `gorm:"type:uuid" json:"original_id"`
	ReviewedBy  *uuid.UUID     `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

const (
	// SubmissionStatusPending marks a submission awaiting review.
	SubmissionStatusPending = "pending"
	// SubmissionStatusApproved is terminal; the payload has been applied.
	SubmissionStatusApproved = "approved"
	// SubmissionStatusRejected is terminal; the payload was discarded.
	SubmissionStatusRejected = "rejected"
)

const (
	SubmissionActionCreate = "create"
	SubmissionActionUpdate = "update"
	SubmissionActionDelete = "delete"
)

const (
	EntityTypeSkill = "skill"
	EntityTypePlace = "place"
)

// IsPending reports whether the submission can still be edited or resolved.
func (s Submission) IsPending() bool {
	return s.Status == SubmissionStatusPending
}

// BeforeCreate assigns a fresh identifier when none was supplied.
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ValidEntityType reports whether entityType names a moderated entity.
func ValidEntityType(entityType string) bool {
	return entityType == EntityTypeSkill || entityType == EntityTypePlace
}

// ValidSubmissionAction reports whether action is a known proposal kind.
func ValidSubmissionAction(action string) bool {
	switch action {
	case SubmissionActionCreate, SubmissionActionUpdate, SubmissionActionDelete:
		return true
	}
	return false
}
