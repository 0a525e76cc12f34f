package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/models"
	"github.com/streetbars/streetbars-api/internal/repository"
)

// SubmissionService manages the user-facing side of the submission queue:
// proposing changes, listing proposals and editing pending ones.
type SubmissionService interface {
	List(ctx context.Context, callerID uuid.UUID, req dto.SubmissionListRequest) (dto.SubmissionListResponse, error)
	Create(ctx context.Context, callerID uuid.UUID, req dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Edit(ctx context.Context, id, callerID uuid.UUID, req dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	repo     repository.SubmissionRepository
	skills   repository.SkillRepository
	places   repository.PlaceRepository
	roles    RoleResolver
	schemas  *payloadSchemas
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(
	repo repository.SubmissionRepository,
	skills repository.SkillRepository,
	places repository.PlaceRepository,
	roles RoleResolver,
	validate *validator.Validate,
	logger zerolog.Logger,
) (SubmissionService, error) {
	schemas, err := newPayloadSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile payload schemas: %w", err)
	}

	return &submissionService{
		repo:     repo,
		skills:   skills,
		places:   places,
		roles:    roles,
		schemas:  schemas,
		validate: validate,
		logger:   logger.With().Str("component", "submission_service").Logger(),
	}, nil
}

// List returns the caller's own submissions; admins see the whole queue.
func (s *submissionService) List(ctx context.Context, callerID uuid.UUID, req dto.SubmissionListRequest) (dto.SubmissionListResponse, error) {
	page := maxInt(req.Page, 1)
	limit := clampLimit(req.Limit, defaultListLimit)

	filter := repository.SubmissionFilter{
		Status:     req.Status,
		EntityType: req.EntityType,
		Page:       page,
		Limit:      limit,
	}
	if s.roles.Resolve(ctx, callerID) != models.RoleAdmin {
		caller := callerID
		filter.SubmittedBy = &caller
	}

	submissions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.SubmissionListResponse{}, err
	}

	return dto.SubmissionListResponse{
		Data:       dto.NewSubmissionResponses(submissions),
		Pagination: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *submissionService) Create(ctx context.Context, callerID uuid.UUID, req dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.SubmissionResponse{}, err
	}

	switch req.Action {
	case models.SubmissionActionCreate:
		if req.OriginalID != nil {
			return dto.SubmissionResponse{}, fmt.Errorf("%w: create proposals must not reference an original entity", ErrInvalidPayload)
		}
	case models.SubmissionActionUpdate, models.SubmissionActionDelete:
		if req.OriginalID == nil {
			return dto.SubmissionResponse{}, fmt.Errorf("%w: %s proposals must reference an original entity", ErrInvalidPayload, req.Action)
		}
		if err := s.resolveOriginal(ctx, req.EntityType, *req.OriginalID); err != nil {
			return dto.SubmissionResponse{}, err
		}
	}

	if req.Action != models.SubmissionActionDelete {
		if len(req.Data) == 0 {
			return dto.SubmissionResponse{}, fmt.Errorf("%w: payload is required", ErrInvalidPayload)
		}
		if err := s.schemas.Validate(req.EntityType, req.Action, req.Data); err != nil {
			return dto.SubmissionResponse{}, err
		}
	}

	submission := models.Submission{
		EntityType:  req.EntityType,
		Action:      req.Action,
		Status:      models.SubmissionStatusPending,
		SubmittedBy: callerID,
		Data:        datatypes.JSON(req.Data),
		OriginalID:  req.OriginalID,
	}
	if err := s.repo.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Str("submission_id", submission.ID.String()).
		Str("entity_type", submission.EntityType).
		Str("action", submission.Action).
		Msg("submission created")

	return dto.NewSubmissionResponse(submission), nil
}

// Edit replaces the payload of a pending submission owned by the caller. Any
// other case, including a missing submission, yields the same ErrNotEditable.
func (s *submissionService) Edit(ctx context.Context, id, callerID uuid.UUID, req dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.SubmissionResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrNotEditable
		}
		return dto.SubmissionResponse{}, err
	}
	if existing.SubmittedBy != callerID || !existing.IsPending() {
		return dto.SubmissionResponse{}, ErrNotEditable
	}

	if existing.Action != models.SubmissionActionDelete {
		if err := s.schemas.Validate(existing.EntityType, existing.Action, req.Data); err != nil {
			return dto.SubmissionResponse{}, err
		}
	}

	updated, err := s.repo.UpdateData(ctx, id, callerID, datatypes.JSON(req.Data))
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotEditable) {
			return dto.SubmissionResponse{}, ErrNotEditable
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(updated), nil
}

func (s *submissionService) resolveOriginal(ctx context.Context, entityType string, originalID uuid.UUID) error {
	var err error
	switch entityType {
	case models.EntityTypeSkill:
		_, err = s.skills.GetByID(ctx, originalID)
	case models.EntityTypePlace:
		_, err = s.places.GetByID(ctx, originalID)
	default:
		return fmt.Errorf("%w: unknown entity type %q", ErrInvalidPayload, entityType)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
