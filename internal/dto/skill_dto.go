package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/streetbars/streetbars-api/internal/models"
)

// SkillListRequest defines filters for browsing the skill catalogue.
type SkillListRequest struct {
	Level         string
	MinDifficulty *int
	MaxDifficulty *int
	MuscleGroups  []string
	Equipment     []string
	Page          int
	Limit         int
}

// SkillResponse serialises a skill for API consumers.
type SkillResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Level        string    `json:"level"`
	Difficulty   int       `json:"difficulty"`
	MuscleGroups []string  `json:"muscle_groups"`
	Equipment    []string  `json:"equipment"`
	VideoURLs    []string  `json:"video_urls"`
	CreatedBy    uuid.UUID `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SkillDetailResponse adds the related variant and prerequisite skills.
type SkillDetailResponse struct {
	SkillResponse
	Variants      []SkillResponse `json:"variants"`
	Prerequisites []SkillResponse `json:"prerequisites"`
}

// SkillListResponse wraps a paginated skill page.
type SkillListResponse struct {
	Data       []SkillResponse `json:"data"`
	Pagination PaginationMeta  `json:"pagination"`
}

// SkillUpdateRequest carries a direct admin update. Nil relation slices leave
// the existing join rows untouched; non-nil slices replace them wholesale.
type SkillUpdateRequest struct {
	Title         *string      `json:"title" validate:"omitempty,min=1,max=255"`
	Description   *string      `json:"description"`
	Level         *string      `json:"level" validate:"omitempty,oneof=beginner intermediate advanced elite"`
	Difficulty    *int         `json:"difficulty" validate:"omitempty,min=1,max=10"`
	MuscleGroups  *[]string    `json:"muscle_groups"`
	Equipment     *[]string    `json:"equipment"`
	VideoURLs     *[]string    `json:"video_urls" validate:"omitempty,dive,url"`
	Variants      *[]uuid.UUID `json:"variants"`
	Prerequisites *[]uuid.UUID `json:"prerequisites"`
}

// NewSkillResponse maps a model onto its API representation.
func NewSkillResponse(skill models.Skill) SkillResponse {
	return SkillResponse{
		ID:           skill.ID,
		Title:        skill.Title,
		Description:  skill.Description,
		Level:        skill.Level,
		Difficulty:   skill.Difficulty,
		MuscleGroups: append([]string(nil), skill.MuscleGroups...),
		Equipment:    append([]string(nil), skill.Equipment...),
		VideoURLs:    append([]string(nil), skill.VideoURLs...),
		CreatedBy:    skill.CreatedBy,
		CreatedAt:    skill.CreatedAt,
		UpdatedAt:    skill.UpdatedAt,
	}
}

// NewSkillResponses maps a slice of models, never returning nil.
func NewSkillResponses(skills []models.Skill) []SkillResponse {
	responses := make([]SkillResponse, 0, len(skills))
	for _, skill := range skills {
		responses = append(responses, NewSkillResponse(skill))
	}
	return responses
}
