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

const defaultListLimit = 20

// SkillService exposes catalogue reads and direct admin mutations for skills.
type SkillService interface {
	List(ctx context.Context, req dto.SkillListRequest) (dto.SkillListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.SkillDetailResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SkillUpdateRequest, actorID uuid.UUID) (dto.SkillResponse, error)
	Delete(ctx context.Context, id, actorID uuid.UUID) error
}

type skillService struct {
	repo     repository.SkillRepository
	cache    *CatalogCache
	validate *validator.Validate
	logger   zerolog.Logger
	policy   *bluemonday.Policy
}

// NewSkillService constructs the skill service.
func NewSkillService(repo repository.SkillRepository, cache *CatalogCache, validate *validator.Validate, logger zerolog.Logger) SkillService {
	return &skillService{
		repo:     repo,
		cache:    cache,
		validate: validate,
		logger:   logger.With().Str("component", "skill_service").Logger(),
		policy:   bluemonday.StrictPolicy(),
	}
}

func (s *skillService) List(ctx context.Context, req dto.SkillListRequest) (dto.SkillListResponse, error) {
	start := time.Now()
	defer func() {
		observability.CatalogLatency().WithLabelValues("skills").Observe(time.Since(start).Seconds())
	}()

	page := maxInt(req.Page, 1)
	limit := clampLimit(req.Limit, defaultListLimit)

	cacheKey := s.cache.key(ctx, listCacheSuffix(
		req.Level,
		intPtrKey(req.MinDifficulty),
		intPtrKey(req.MaxDifficulty),
		tagKey(req.MuscleGroups),
		tagKey(req.Equipment),
		fmt.Sprintf("%d:%d", page, limit),
	))
	var cached dto.SkillListResponse
	if s.cache.get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	skills, total, err := s.repo.List(ctx, repository.SkillFilter{
		Level:         req.Level,
		MinDifficulty: req.MinDifficulty,
		MaxDifficulty: req.MaxDifficulty,
		MuscleGroups:  req.MuscleGroups,
		Equipment:     req.Equipment,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return dto.SkillListResponse{}, err
	}

	response := dto.SkillListResponse{
		Data:       dto.NewSkillResponses(skills),
		Pagination: dto.NewPaginationMeta(page, limit, total),
	}
	s.cache.set(ctx, cacheKey, response)

	return response, nil
}

func (s *skillService) Get(ctx context.Context, id uuid.UUID) (dto.SkillDetailResponse, error) {
	skill, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SkillDetailResponse{}, ErrNotFound
		}
		return dto.SkillDetailResponse{}, err
	}

	variants, prerequisites, err := s.repo.GetRelated(ctx, id)
	if err != nil {
		return dto.SkillDetailResponse{}, err
	}

	return dto.SkillDetailResponse{
		SkillResponse: dto.NewSkillResponse(skill),
		Variants:      dto.NewSkillResponses(variants),
		Prerequisites: dto.NewSkillResponses(prerequisites),
	}, nil
}

func (s *skillService) Update(ctx context.Context, id uuid.UUID, req dto.SkillUpdateRequest, actorID uuid.UUID) (dto.SkillResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.SkillResponse{}, err
	}

	skill, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SkillResponse{}, ErrNotFound
		}
		return dto.SkillResponse{}, err
	}

	changes := map[string]interface{}{}
	if req.Title != nil {
		skill.Title = s.policy.Sanitize(strings.TrimSpace(*req.Title))
		changes["title"] = skill.Title
	}
	if req.Description != nil {
		skill.Description = s.policy.Sanitize(*req.Description)
		changes["description"] = skill.Description
	}
	if req.Level != nil {
		skill.Level = *req.Level
		changes["level"] = skill.Level
	}
	if req.Difficulty != nil {
		skill.Difficulty = *req.Difficulty
		changes["difficulty"] = skill.Difficulty
	}
	if req.MuscleGroups != nil {
		skill.MuscleGroups = append([]string(nil), (*req.MuscleGroups)...)
		changes["muscle_groups"] = skill.MuscleGroups
	}
	if req.Equipment != nil {
		skill.Equipment = append([]string(nil), (*req.Equipment)...)
		changes["equipment"] = skill.Equipment
	}
	if req.VideoURLs != nil {
		skill.VideoURLs = append([]string(nil), (*req.VideoURLs)...)
		changes["video_urls"] = skill.VideoURLs
	}
	if req.Variants != nil {
		changes["variants"] = *req.Variants
	}
	if req.Prerequisites != nil {
		changes["prerequisites"] = *req.Prerequisites
	}

	entry := models.AuditLog{
		EntityType: models.EntityTypeSkill,
		EntityID:   skill.ID,
		Action:     models.SubmissionActionUpdate,
		UserID:     &actorID,
		Changes:    changes,
	}

	relations := repository.SkillRelations{Variants: req.Variants, Prerequisites: req.Prerequisites}
	if err := s.repo.Update(ctx, &skill, relations, &entry); err != nil {
		return dto.SkillResponse{}, err
	}
	s.cache.bump(ctx)

	s.logger.Info().Str("skill_id", skill.ID.String()).Str("actor_id", actorID.String()).Msg("skill updated")

	return dto.NewSkillResponse(skill), nil
}

func (s *skillService) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	entry := models.AuditLog{
		EntityType: models.EntityTypeSkill,
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

	s.logger.Info().Str("skill_id", id.String()).Str("actor_id", actorID.String()).Msg("skill deleted")

	return nil
}

func listCacheSuffix(parts ...string) string {
	return strings.Join(parts, ":")
}

func intPtrKey(value *int) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *value)
}

func tagKey(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(strings.ToLower(tag))
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	sortStrings(cleaned)
	return strings.Join(cleaned, ",")
}
