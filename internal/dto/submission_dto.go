package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/streetbars/streetbars-api/internal/models"
)

// SubmissionCreateRequest proposes a change to the catalogue. The payload is
// kept opaque here; the service validates it against the entity's schema.
type SubmissionCreateRequest struct {
	EntityType string          `json:"entity_type" validate:"required,oneof=skill place"`
	Action     string          `json:"action" validate:"required,oneof=create update delete"`
	Data       json.RawMessage `json:"data"`
	OriginalID *uuid.UUID      `json:"original_id"`
}

// SubmissionUpdateRequest replaces a pending submission's payload.
type SubmissionUpdateRequest struct {
	Data json.RawMessage `json:"data" validate:"required"`
}

// SubmissionListRequest defines filters for listing submissions.
type SubmissionListRequest struct {
	Status     string
	EntityType string
	Page       int
	Limit      int
}

// SubmissionResponse serialises a submission for API consumers.
type SubmissionResponse struct {
	ID          uuid.UUID       `json:"id"`
	EntityType  string          `json:"entity_type"`
	Action      string          `json:"action"`
	Status      string          `json:"status"`
	SubmittedBy uuid.UUID       `json:"submitted_by"`
	Data        json.RawMessage `json:"data"`
	OriginalID  *uuid.UUID      `json:"original_id"`
	ReviewedBy  *uuid.UUID      `json:"reviewed_by"`
	ReviewedAt  *time.Time      `json:"reviewed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SubmissionListResponse wraps a paginated submission page.
type SubmissionListResponse struct {
	Data       []SubmissionResponse `json:"data"`
	Pagination PaginationMeta       `json:"pagination"`
}

// NewSubmissionResponse maps a model onto its API representation.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:          submission.ID,
		EntityType:  submission.EntityType,
		Action:      submission.Action,
		Status:      submission.Status,
		SubmittedBy: submission.SubmittedBy,
		Data:        json.RawMessage(submission.Data),
		OriginalID:  submission.OriginalID,
		ReviewedBy:  submission.ReviewedBy,
		ReviewedAt:  submission.ReviewedAt,
		CreatedAt:   submission.CreatedAt,
		UpdatedAt:   submission.UpdatedAt,
	}
}

// NewSubmissionResponses maps a slice of models, never returning nil.
func NewSubmissionResponses(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}

// SkillPayload is the tagged-union variant carried by skill submissions.
// Pointer fields distinguish "absent" from zero values so update proposals
// can be partial.
type SkillPayload struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Level        *string   `json:"level"`
	Difficulty   *int      `json:"difficulty"`
	MuscleGroups *[]string `json:"muscle_groups"`
	Equipment    *[]string `json:"equipment"`
	VideoURLs    *[]string `json:"video_urls"`
}

// PlacePayload is the tagged-union variant carried by place submissions.
type PlacePayload struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Address     *string   `json:"address"`
	Lat         *float64  `json:"lat"`
	Lng         *float64  `json:"lng"`
	Amenities   *[]string `json:"amenities"`
	Equipment   *[]string `json:"equipment"`
	PhotosURLs  *[]string `json:"photos_urls"`
}
