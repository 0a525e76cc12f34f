package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/models"
	"github.com/streetbars/streetbars-api/internal/repository"
)

type skillRepoStub struct {
	skills    []models.Skill
	listCalls int
	updated   *models.Skill
	relations repository.SkillRelations
	audit     *models.AuditLog
	getErr    error
}

func (s *skillRepoStub) List(ctx context.Context, filter repository.SkillFilter) ([]models.Skill, int64, error) {
	s.listCalls++
	return s.skills, int64(len(s.skills)), nil
}

func (s *skillRepoStub) GetByID(ctx context.Context, id uuid.UUID) (models.Skill, error) {
	if s.getErr != nil {
		return models.Skill{}, s.getErr
	}
	for _, skill := range s.skills {
		if skill.ID == id {
			return skill, nil
		}
	}
	return models.Skill{}, gorm.ErrRecordNotFound
}

func (s *skillRepoStub) GetRelated(ctx context.Context, id uuid.UUID) ([]models.Skill, []models.Skill, error) {
	return nil, nil, nil
}

func (s *skillRepoStub) Update(ctx context.Context, skill *models.Skill, relations repository.SkillRelations, entry *models.AuditLog) error {
	s.updated = skill
	s.relations = relations
	s.audit = entry
	return nil
}

func (s *skillRepoStub) Delete(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error {
	s.audit = entry
	return nil
}

func TestSkillServiceListCachesPages(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	repo := &skillRepoStub{skills: []models.Skill{{ID: uuid.New(), Title: "Pull Up", Level: models.SkillLevelBeginner, Difficulty: 3}}}
	cache := NewCatalogCache(redisClient, "skills", time.Minute, testLogger())
	svc := NewSkillService(repo, cache, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	first, err := svc.List(context.Background(), dto.SkillListRequest{})
	require.NoError(t, err)
	require.Len(t, first.Data, 1)
	require.Equal(t, 1, repo.listCalls)

	// Second identical request is served from the cache.
	second, err := svc.List(context.Background(), dto.SkillListRequest{})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.listCalls)

	// A different filter misses.
	_, err = svc.List(context.Background(), dto.SkillListRequest{Level: models.SkillLevelElite})
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls)

	// A mutation bumps the version; the original page is stale now.
	cache.bump(context.Background())
	_, err = svc.List(context.Background(), dto.SkillListRequest{})
	require.NoError(t, err)
	require.Equal(t, 3, repo.listCalls)
}

func TestSkillServiceListWorksWithoutRedis(t *testing.T) {
	repo := &skillRepoStub{skills: []models.Skill{{ID: uuid.New(), Title: "Pull Up"}}}
	cache := NewCatalogCache(nil, "skills", time.Minute, testLogger())
	svc := NewSkillService(repo, cache, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	result, err := svc.List(context.Background(), dto.SkillListRequest{Page: -3, Limit: 10_000})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	require.Equal(t, 1, result.Pagination.Page, "negative pages fall back to the first")
	require.Equal(t, listLimitCap, result.Pagination.Limit, "oversized limits are clamped")
}

func TestSkillServiceGetNotFound(t *testing.T) {
	svc := NewSkillService(&skillRepoStub{}, NewCatalogCache(nil, "skills", time.Minute, testLogger()), validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSkillServiceUpdateSanitizesAndAudits(t *testing.T) {
	skill := models.Skill{ID: uuid.New(), Title: "Pull Up", Level: models.SkillLevelBeginner, Difficulty: 3}
	repo := &skillRepoStub{skills: []models.Skill{skill}}
	svc := NewSkillService(repo, NewCatalogCache(nil, "skills", time.Minute, testLogger()), validator.New(validator.WithRequiredStructEnabled()), testLogger())

	actor := uuid.New()
	title := "<script>alert('x')</script>Strict Pull Up"
	difficulty := 4
	variants := []uuid.UUID{uuid.New()}

	result, err := svc.Update(context.Background(), skill.ID, dto.SkillUpdateRequest{
		Title:      &title,
		Difficulty: &difficulty,
		Variants:   &variants,
	}, actor)
	require.NoError(t, err)
	require.Equal(t, "Strict Pull Up", result.Title, "markup is stripped")
	require.Equal(t, 4, result.Difficulty)

	require.NotNil(t, repo.audit)
	require.Equal(t, models.SubmissionActionUpdate, repo.audit.Action)
	require.Equal(t, actor, *repo.audit.UserID)
	require.Contains(t, repo.audit.Changes, "title")
	require.Contains(t, repo.audit.Changes, "difficulty")
	require.NotContains(t, repo.audit.Changes, "level", "untouched fields stay out of the audit entry")

	require.NotNil(t, repo.relations.Variants)
	require.Nil(t, repo.relations.Prerequisites, "nil relation slices leave joins alone")
}

func TestSkillServiceUpdateRejectsInvalidLevel(t *testing.T) {
	skill := models.Skill{ID: uuid.New(), Title: "Pull Up", Level: models.SkillLevelBeginner, Difficulty: 3}
	repo := &skillRepoStub{skills: []models.Skill{skill}}
	svc := NewSkillService(repo, NewCatalogCache(nil, "skills", time.Minute, testLogger()), validator.New(validator.WithRequiredStructEnabled()), testLogger())

	bad := "legendary"
	_, err := svc.Update(context.Background(), skill.ID, dto.SkillUpdateRequest{Level: &bad}, uuid.New())
	require.Error(t, err)
	require.Nil(t, repo.updated)
}
