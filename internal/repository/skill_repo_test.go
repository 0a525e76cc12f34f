package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/streetbars/streetbars-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Skill{},
		&models.SkillVariant{},
		&models.SkillPrerequisite{},
		&models.Place{},
		&models.PlaceUpvote{},
		&models.Submission{},
		&models.AuditLog{},
	))
	return db
}

func seedSkill(t *testing.T, db *gorm.DB, title, level string, difficulty int, muscleGroups, equipment []string, age time.Duration) models.Skill {
	t.Helper()

	skill := models.Skill{
		Title:        title,
		Level:        level,
		Difficulty:   difficulty,
		MuscleGroups: muscleGroups,
		Equipment:    equipment,
		CreatedBy:    uuid.New(),
		CreatedAt:    time.Now().Add(-age),
	}
	require.NoError(t, db.Create(&skill).Error)
	return skill
}

func TestSkillRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSkillRepository(db)

	pullUp := seedSkill(t, db, "Pull Up", models.SkillLevelBeginner, 3, []string{"back", "biceps"}, []string{"pull-up bar"}, 3*time.Hour)
	muscleUp := seedSkill(t, db, "Muscle Up", models.SkillLevelAdvanced, 8, []string{"back", "chest"}, []string{"pull-up bar"}, 2*time.Hour)
	planche := seedSkill(t, db, "Planche", models.SkillLevelElite, 10, []string{"shoulders", "core"}, []string{"parallettes"}, time.Hour)

	all, total, err := repo.List(context.Background(), SkillFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	require.Equal(t, planche.ID, all[0].ID, "newest first")

	byLevel, total, err := repo.List(context.Background(), SkillFilter{Level: models.SkillLevelAdvanced})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, muscleUp.ID, byLevel[0].ID)

	minDiff := 8
	hard, total, err := repo.List(context.Background(), SkillFilter{MinDifficulty: &minDiff})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, hard, 2)

	maxDiff := 3
	easy, total, err := repo.List(context.Background(), SkillFilter{MaxDifficulty: &maxDiff})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, pullUp.ID, easy[0].ID)

	// Overlap semantics: any shared tag matches.
	backOrCore, total, err := repo.List(context.Background(), SkillFilter{MuscleGroups: []string{"chest", "core"}})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, backOrCore, 2)

	bars, total, err := repo.List(context.Background(), SkillFilter{Equipment: []string{"Pull-Up Bar"}})
	require.NoError(t, err)
	require.Equal(t, int64(2), total, "tag matching is case-insensitive")
	require.Len(t, bars, 2)

	none, total, err := repo.List(context.Background(), SkillFilter{MuscleGroups: []string{"legs"}})
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
	require.Empty(t, none)
}

func TestSkillRepositoryTagOverlapCommutes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSkillRepository(db)

	seedSkill(t, db, "Pull Up", models.SkillLevelBeginner, 3, []string{"back", "biceps"}, nil, 3*time.Hour)
	seedSkill(t, db, "Muscle Up", models.SkillLevelAdvanced, 8, []string{"back", "chest"}, nil, 2*time.Hour)
	seedSkill(t, db, "Planche", models.SkillLevelElite, 10, []string{"shoulders", "core"}, nil, time.Hour)

	forward, forwardTotal, err := repo.List(context.Background(), SkillFilter{MuscleGroups: []string{"chest", "core"}})
	require.NoError(t, err)

	// Overlap is a set operation: request order must not change the result.
	reversed, reversedTotal, err := repo.List(context.Background(), SkillFilter{MuscleGroups: []string{"core", "chest"}})
	require.NoError(t, err)
	require.Equal(t, forwardTotal, reversedTotal)
	require.Len(t, reversed, len(forward))
	for i := range forward {
		require.Equal(t, forward[i].ID, reversed[i].ID)
	}
}

func TestSkillRepositoryTagWildcardsAreLiteral(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSkillRepository(db)

	seedSkill(t, db, "Pull Up", models.SkillLevelBeginner, 3, []string{"back"}, nil, 2*time.Hour)
	odd := seedSkill(t, db, "Max Effort Hold", models.SkillLevelAdvanced, 7, []string{"100% effort"}, nil, time.Hour)

	// LIKE metacharacters in a requested tag match only themselves.
	_, total, err := repo.List(context.Background(), SkillFilter{MuscleGroups: []string{"%"}})
	require.NoError(t, err)
	require.Zero(t, total)

	_, total, err = repo.List(context.Background(), SkillFilter{MuscleGroups: []string{"b_ck"}})
	require.NoError(t, err)
	require.Zero(t, total)

	matched, total, err := repo.List(context.Background(), SkillFilter{MuscleGroups: []string{"100% effort"}})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, odd.ID, matched[0].ID)
}

func TestSkillRepositoryListPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSkillRepository(db)

	for i := 0; i < 5; i++ {
		seedSkill(t, db, fmt.Sprintf("Skill %d", i), models.SkillLevelBeginner, i+1, nil, nil, time.Duration(i)*time.Minute)
	}

	page1, total, err := repo.List(context.Background(), SkillFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, page1, 2)

	page3, total, err := repo.List(context.Background(), SkillFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, page3, 1)

	beyond, total, err := repo.List(context.Background(), SkillFilter{Page: 9, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Empty(t, beyond, "pages past the end are empty, not errors")
}

func TestSkillRepositoryGetRelated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSkillRepository(db)

	muscleUp := seedSkill(t, db, "Muscle Up", models.SkillLevelAdvanced, 8, nil, nil, time.Hour)
	slowMuscleUp := seedSkill(t, db, "Slow Muscle Up", models.SkillLevelElite, 9, nil, nil, time.Hour)
	pullUp := seedSkill(t, db, "Pull Up", models.SkillLevelBeginner, 3, nil, nil, time.Hour)

	require.NoError(t, db.Create(&models.SkillVariant{SkillID: muscleUp.ID, VariantSkillID: slowMuscleUp.ID}).Error)
	require.NoError(t, db.Create(&models.SkillPrerequisite{SkillID: muscleUp.ID, PrerequisiteSkillID: pullUp.ID}).Error)

	variants, prerequisites, err := repo.GetRelated(context.Background(), muscleUp.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	require.Equal(t, slowMuscleUp.ID, variants[0].ID)
	require.Len(t, prerequisites, 1)
	require.Equal(t, pullUp.ID, prerequisites[0].ID)

	variants, prerequisites, err = repo.GetRelated(context.Background(), pullUp.ID)
	require.NoError(t, err)
	require.Empty(t, variants)
	require.Empty(t, prerequisites)
}

func TestSkillRepositoryUpdateReplacesRelationsAndWritesAudit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSkillRepository(db)

	skill := seedSkill(t, db, "Front Lever", models.SkillLevelAdvanced, 8, []string{"core"}, nil, time.Hour)
	old := seedSkill(t, db, "Tuck Front Lever", models.SkillLevelIntermediate, 5, nil, nil, time.Hour)
	replacement := seedSkill(t, db, "Advanced Tuck", models.SkillLevelAdvanced, 6, nil, nil, time.Hour)

	require.NoError(t, db.Create(&models.SkillVariant{SkillID: skill.ID, VariantSkillID: old.ID}).Error)

	actor := uuid.New()
	skill.Difficulty = 9
	variants := []uuid.UUID{replacement.ID, skill.ID} // self reference must be dropped
	entry := models.AuditLog{
		EntityType: models.EntityTypeSkill,
		EntityID:   skill.ID,
		Action:     models.SubmissionActionUpdate,
		UserID:     &actor,
	}
	require.NoError(t, repo.Update(context.Background(), &skill, SkillRelations{Variants: &variants}, &entry))

	stored, err := repo.GetByID(context.Background(), skill.ID)
	require.NoError(t, err)
	require.Equal(t, 9, stored.Difficulty)

	storedVariants, _, err := repo.GetRelated(context.Background(), skill.ID)
	require.NoError(t, err)
	require.Len(t, storedVariants, 1)
	require.Equal(t, replacement.ID, storedVariants[0].ID)

	var audits []models.AuditLog
	require.NoError(t, db.Find(&audits, "entity_id = ?", skill.ID).Error)
	require.Len(t, audits, 1)
	require.Equal(t, models.SubmissionActionUpdate, audits[0].Action)
	require.Equal(t, actor, *audits[0].UserID)
}

func TestSkillRepositoryDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSkillRepository(db)

	skill := seedSkill(t, db, "Back Lever", models.SkillLevelAdvanced, 7, nil, nil, time.Hour)
	other := seedSkill(t, db, "German Hang", models.SkillLevelBeginner, 2, nil, nil, time.Hour)
	require.NoError(t, db.Create(&models.SkillPrerequisite{SkillID: skill.ID, PrerequisiteSkillID: other.ID}).Error)

	actor := uuid.New()
	entry := models.AuditLog{EntityType: models.EntityTypeSkill, EntityID: skill.ID, Action: models.SubmissionActionDelete, UserID: &actor}
	require.NoError(t, repo.Delete(context.Background(), skill.ID, &entry))

	_, err := repo.GetByID(context.Background(), skill.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var joins int64
	require.NoError(t, db.Model(&models.SkillPrerequisite{}).Where("skill_id = ?", skill.ID).Count(&joins).Error)
	require.Zero(t, joins)

	missing := models.AuditLog{EntityType: models.EntityTypeSkill, EntityID: skill.ID, Action: models.SubmissionActionDelete}
	err = repo.Delete(context.Background(), skill.ID, &missing)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
