package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of every applied mutation to a skill or
// place. Rows are written inside the mutating transaction and never updated.
type AuditLog struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType string            `gorm:"size:16;not null;index" json:"entity_type"`
	EntityID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"entity_id"`
	Action     string            `gorm:"size:16;not null;index" json:"action"`
	UserID     *uuid.UUID        `gorm:"type:uuid" json:"user_id"`
	Changes    datatypes.JSONMap `gorm:"type:json" json:"changes"`
	CreatedAt  time.Time         `json:"created_at"`
}

// BeforeCreate assigns a fresh identifier when none was supplied.
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
