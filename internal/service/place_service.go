package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/models"
	"github.com/streetbars/streetbars-api/internal/observability"
	"github.com/streetbars/streetbars-api/internal/repository"
)

// PlaceService exposes catalogue reads, direct admin mutations and the
// per-user upvote toggle for training locations.
type PlaceService interface {
	List(ctx context.Context, req dto.PlaceListRequest) (dto.PlaceListResponse, error)
	Get(ctx context.Context, id, callerID uuid.UUID) (dto.PlaceDetailResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.PlaceUpdateRequest, actorID uuid.UUID) (dto.PlaceResponse, error)
	Delete(ctx context.Context, id, actorID uuid.UUID) error
	ToggleUpvote(ctx context.Context, placeID, userID uuid.UUID) (dto.UpvoteResponse, error)
}

type placeService struct {
	repo     repository.PlaceRepository
	cache    *CatalogCache
	validate *validator.Validate
	logger   zerolog.Logger
	policy   *bluemonday.Policy
}

// NewPlaceService constructs the place service.
func NewPlaceService(repo repository.PlaceRepository, cache *CatalogCache, validate *validator.Validate, logger zerolog.Logger) PlaceService {
	return &placeService{
		repo:     repo,
		cache:    cache,
		validate: validate,
		logger:   logger.With().Str("component", "place_service").Logger(),
		policy:   bluemonday.StrictPolicy(),
	}
}

func (s *placeService) List(ctx context.Context, req dto.PlaceListRequest) (dto.PlaceListResponse, error) {
	start := time.Now()
	defer func() {
		observability.CatalogLatency().WithLabelValues("places").Observe(time.Since(start).Seconds())
	}()

	page := maxInt(req.Page, 1)
	limit := clampLimit(req.Limit, defaultListLimit)

	cacheKey := s.cache.key(ctx, listCacheSuffix(
		strings.ToLower(strings.TrimSpace(req.Location)),
		tagKey(req.Amenities),
		tagKey(req.Equipment),
		fmt.Sprintf("%d:%d", page, limit),
	))
	var cached dto.PlaceListResponse
	if s.cache.get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	places, total, err := s.repo.List(ctx, repository.PlaceFilter{
		Location:  req.Location,
		Amenities: req.Amenities,
		Equipment: req.Equipment,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return dto.PlaceListResponse{}, err
	}

	response := dto.PlaceListResponse{
		Data:       dto.NewPlaceResponses(places),
		Pagination: dto.NewPaginationMeta(page, limit, total),
	}
	s.cache.set(ctx, cacheKey, response)

	return response, nil
}

func (s *placeService) Get(ctx context.Context, id, callerID uuid.UUID) (dto.PlaceDetailResponse, error) {
	place, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PlaceDetailResponse{}, ErrNotFound
		}
		return dto.PlaceDetailResponse{}, err
	}

	upvoted, err := s.repo.HasUpvoted(ctx, id, callerID)
	if err != nil {
		return dto.PlaceDetailResponse{}, err
	}

	return dto.PlaceDetailResponse{
		PlaceResponse:  dto.NewPlaceResponse(place),
		UserHasUpvoted: upvoted,
	}, nil
}

func (s *placeService) Update(ctx context.Context, id uuid.UUID, req dto.PlaceUpdateRequest, actorID uuid.UUID) (dto.PlaceResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.PlaceResponse{}, err
	}

	place, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PlaceResponse{}, ErrNotFound
		}
		return dto.PlaceResponse{}, err
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		place.Name = s.policy.Sanitize(strings.TrimSpace(*req.Name))
		changes["name"] = place.Name
	}
	if req.Description != nil {
		place.Description = s.policy.Sanitize(*req.Description)
		changes["description"] = place.Description
	}
	if req.Location != nil {
		place.Location = s.policy.Sanitize(strings.TrimSpace(*req.Location))
		changes["location"] = place.Location
	}
	if req.Address != nil {
		place.Address = s.policy.Sanitize(strings.TrimSpace(*req.Address))
		changes["address"] = place.Address
	}
	if req.Lat != nil {
		place.Lat = *req.Lat
		changes["lat"] = place.Lat
	}
	if req.Lng != nil {
		place.Lng = *req.Lng
		changes["lng"] = place.Lng
	}
	if req.Amenities != nil {
		place.Amenities = append([]string(nil), (*req.Amenities)...)
		changes["amenities"] = place.Amenities
	}
	if req.Equipment != nil {
		place.Equipment = append([]string(nil), (*req.Equipment)...)
		changes["equipment"] = place.Equipment
	}
	if req.PhotosURLs != nil {
		place.PhotosURLs = append([]string(nil), (*req.PhotosURLs)...)
		changes["photos_urls"] = place.PhotosURLs
	}

	entry := models.AuditLog{
		EntityType: models.EntityTypePlace,
		EntityID:   place.ID,
		Action:     models.SubmissionActionUpdate,
		UserID:     &actorID,
		Changes:    changes,
	}

	if err := s.repo.Update(ctx, &place, &entry); err != nil {
		return dto.PlaceResponse{}, err
	}
	s.cache.bump(ctx)

	s.logger.Info().Str("place_id", place.ID.String()).Str("actor_id", actorID.String()).Msg("place updated")

	return dto.NewPlaceResponse(place), nil
}

func (s *placeService) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	entry := models.AuditLog{
		EntityType: models.EntityTypePlace,
		EntityID:   id,
		Action:     models.SubmissionActionDelete,
		UserID:     &actorID,
		Changes:    map[string]interface{}{},
	}

	if err := s.repo.Delete(ctx, id, &entry); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.cache.bump(ctx)

	s.logger.Info().Str("place_id", id.String()).Str("actor_id", actorID.String()).Msg("place deleted")

	return nil
}

func (s *placeService) ToggleUpvote(ctx context.Context, placeID, userID uuid.UUID) (dto.UpvoteResponse, error) {
	upvoted, err := s.repo.ToggleUpvote(ctx, placeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UpvoteResponse{}, ErrNotFound
		}
		return dto.UpvoteResponse{}, err
	}

	observability.UpvoteToggles().WithLabelValues(fmt.Sprintf("%t", upvoted)).Inc()
	s.cache.bump(ctx)

	return dto.UpvoteResponse{Upvoted: upvoted}, nil
}
