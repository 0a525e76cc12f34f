package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/streetbars/streetbars-api/internal/models"
)

// PlaceListRequest defines filters for browsing training locations.
type PlaceListRequest struct {
	Location  string
	Amenities []string
	Equipment []string
	Page      int
	Limit     int
}

// PlaceResponse serialises a place, including its community upvote count.
type PlaceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Address     string    `json:"address"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Amenities   []string  `json:"amenities"`
	Equipment   []string  `json:"equipment"`
	PhotosURLs  []string  `json:"photos_urls"`
	UpvoteCount int64     `json:"upvote_count"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaceDetailResponse adds the caller's own upvote state.
type PlaceDetailResponse struct {
	PlaceResponse
	UserHasUpvoted bool `json:"user_has_upvoted"`
}

// PlaceListResponse wraps a paginated place page.
type PlaceListResponse struct {
	Data       []PlaceResponse `json:"data"`
	Pagination PaginationMeta  `json:"pagination"`
}

// PlaceUpdateRequest carries a direct admin update.
type PlaceUpdateRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string   `json:"description"`
	Location    *string   `json:"location" validate:"omitempty,max=255"`
	Address     *string   `json:"address" validate:"omitempty,max=512"`
	Lat         *float64  `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng         *float64  `json:"lng" validate:"omitempty,min=-180,max=180"`
	Amenities   *[]string `json:"amenities"`
	Equipment   *[]string `json:"equipment"`
	PhotosURLs  *[]string `json:"photos_urls" validate:"omitempty,dive,url"`
}

// UpvoteResponse reports the caller's vote state after a toggle.
type UpvoteResponse struct {
	Upvoted bool `json:"upvoted"`
}

// NewPlaceResponse maps a model onto its API representation.
func NewPlaceResponse(place models.Place) PlaceResponse {
	return PlaceResponse{
		ID:          place.ID,
		Name:        place.Name,
		Description: place.Description,
		Location:    place.Location,
		Address:     place.Address,
		Lat:         place.Lat,
		Lng:         place.Lng,
		Amenities:   append([]string(nil), place.Amenities...),
		Equipment:   append([]string(nil), place.Equipment...),
		PhotosURLs:  append([]string(nil), place.PhotosURLs...),
		UpvoteCount: place.UpvoteCount,
		CreatedBy:   place.CreatedBy,
		CreatedAt:   place.CreatedAt,
		UpdatedAt:   place.UpdatedAt,
	}
}

// NewPlaceResponses maps a slice of models, never returning nil.
func NewPlaceResponses(places []models.Place) []PlaceResponse {
	responses := make([]PlaceResponse, 0, len(places))
	for _, place := range places {
		responses = append(responses, NewPlaceResponse(place))
	}
	return responses
}
