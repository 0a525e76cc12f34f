package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill is a calisthenics movement in the community catalogue.
type Skill struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Level           string    `gorm:"size:32;not null;index" json:"level"`
	Difficulty      int       `gorm:"not null" json:"difficulty"`
	MuscleGroupsRaw string    `gorm:"column:muscle_groups;type:text" json:"-"`
	EquipmentRaw    string    `gorm:"column:equipment;type:text" json:"-"`
	VideoURLsRaw    string    `gorm:"column:video_urls;type:text" json:"-"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	MuscleGroups    []string  `gorm:"-" json:"muscle_groups"`
	Equipment       []string  `gorm:"-" json:"equipment"`
	VideoURLs       []string  `gorm:"-" json:"video_urls"`
}

// Skill difficulty is constrained to this closed range.
const (
	SkillDifficultyMin = 1
	SkillDifficultyMax = 10
)

const (
	SkillLevelBeginner     = "beginner"
	SkillLevelIntermediate = "intermediate"
	SkillLevelAdvanced     = "advanced"
	SkillLevelElite        = "elite"
)

// ValidSkillLevel reports whether level is one of the known progression tiers.
func ValidSkillLevel(level string) bool {
	switch level {
	case SkillLevelBeginner, SkillLevelIntermediate, SkillLevelAdvanced, SkillLevelElite:
		return true
	}
	return false
}

// BeforeCreate assigns a fresh identifier when none was supplied.
func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// BeforeSave normalises tag and URL data before persisting.
func (s *Skill) BeforeSave(tx *gorm.DB) error {
	s.MuscleGroupsRaw = encodeTags(s.MuscleGroups)
	s.EquipmentRaw = encodeTags(s.Equipment)
	s.VideoURLsRaw = encodeList(s.VideoURLs)
	return nil
}

// AfterFind hydrates tag and URL lists after retrieval.
func (s *Skill) AfterFind(tx *gorm.DB) error {
	s.MuscleGroups = decodeList(s.MuscleGroupsRaw)
	s.Equipment = decodeList(s.EquipmentRaw)
	s.VideoURLs = decodeList(s.VideoURLsRaw)
	return nil
}

// SkillVariant links a skill to an alternate expression of the same movement.
type SkillVariant struct {
	SkillID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"skill_id"`
	VariantSkillID uuid.UUID `gorm:"type:uuid;primaryKey" json:"variant_skill_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// SkillPrerequisite links a skill to a movement that must be mastered first.
type SkillPrerequisite struct {
	SkillID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"skill_id"`
	PrerequisiteSkillID uuid.UUID `gorm:"type:uuid;primaryKey" json:"prerequisite_skill_id"`
	CreatedAt           time.Time `json:"created_at"`
}
