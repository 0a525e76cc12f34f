package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/streetbars/streetbars-api/internal/models"
)

// SkillFilter narrows skill catalogue queries.
type SkillFilter struct {
	Level         string
	MinDifficulty *int
	MaxDifficulty *int
	MuscleGroups  []string
	Equipment     []string
	Page          int
	Limit         int
}

// SkillRelations describes a relation replacement. Nil slices are left
// untouched; non-nil slices replace the join rows wholesale.
type SkillRelations struct {
	Variants      *[]uuid.UUID
	Prerequisites *[]uuid.UUID
}

// SkillRepository defines data operations for skills.
type SkillRepository interface {
	List(ctx context.Context, filter SkillFilter) ([]models.Skill, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Skill, error)
	GetRelated(ctx context.Context, id uuid.UUID) (variants, prerequisites []models.Skill, err error)
	Update(ctx context.Context, skill *models.Skill, relations SkillRelations, entry *models.AuditLog) error
	Delete(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository instantiates the repository.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) List(ctx context.Context, filter SkillFilter) ([]models.Skill, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Skill{})

	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.MinDifficulty != nil {
		query = query.Where("difficulty >= ?", *filter.MinDifficulty)
	}
	if filter.MaxDifficulty != nil {
		query = query.Where("difficulty <= ?", *filter.MaxDifficulty)
	}
	if condition := tagOverlapCondition(r.db.Session(&gorm.Session{NewDB: true}), "muscle_groups", filter.MuscleGroups); condition != nil {
		query = query.Where(condition)
	}
	if condition := tagOverlapCondition(r.db.Session(&gorm.Session{NewDB: true}), "equipment", filter.Equipment); condition != nil {
		query = query.Where(condition)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.Limit)

	var skills []models.Skill
	if err := query.Order("created_at DESC").Find(&skills).Error; err != nil {
		return nil, 0, err
	}

	return skills, total, nil
}

func (r *skillRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, "id = ?", id).Error; err != nil {
		return models.Skill{}, err
	}
	return skill, nil
}

func (r *skillRepository) GetRelated(ctx context.Context, id uuid.UUID) ([]models.Skill, []models.Skill, error) {
	var variants []models.Skill
	if err := r.db.WithContext(ctx).
		Joins("JOIN skill_variants ON skill_variants.variant_skill_id = skills.id").
		Where("skill_variants.skill_id = ?", id).
		Find(&variants).Error; err != nil {
		return nil, nil, err
	}

	var prerequisites []models.Skill
	if err := r.db.WithContext(ctx).
		Joins("JOIN skill_prerequisites ON skill_prerequisites.prerequisite_skill_id = skills.id").
		Where("skill_prerequisites.skill_id = ?", id).
		Find(&prerequisites).Error; err != nil {
		return nil, nil, err
	}

	return variants, prerequisites, nil
}

func (r *skillRepository) Update(ctx context.Context, skill *models.Skill, relations SkillRelations, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(skill).Error; err != nil {
			return err
		}

		if relations.Variants != nil {
			if err := replaceVariants(tx, skill.ID, *relations.Variants); err != nil {
				return err
			}
		}
		if relations.Prerequisites != nil {
			if err := replacePrerequisites(tx, skill.ID, *relations.Prerequisites); err != nil {
				return err
			}
		}

		// The audit entry shares the transaction: a failed write rolls the
		// whole mutation back.
		return tx.Create(entry).Error
	})
}

func (r *skillRepository) Delete(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("skill_id = ? OR variant_skill_id = ?", id, id).Delete(&models.SkillVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("skill_id = ? OR prerequisite_skill_id = ?", id, id).Delete(&models.SkillPrerequisite{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Skill{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(entry).Error
	})
}

func replaceVariants(tx *gorm.DB, skillID uuid.UUID, variantIDs []uuid.UUID) error {
	if err := tx.Where("skill_id = ?", skillID).Delete(&models.SkillVariant{}).Error; err != nil {
		return err
	}
	rows := make([]models.SkillVariant, 0, len(variantIDs))
	for _, variantID := range variantIDs {
		if variantID == skillID {
			continue // a skill is never its own variant
		}
		rows = append(rows, models.SkillVariant{SkillID: skillID, VariantSkillID: variantID})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func replacePrerequisites(tx *gorm.DB, skillID uuid.UUID, prerequisiteIDs []uuid.UUID) error {
	if err := tx.Where("skill_id = ?", skillID).Delete(&models.SkillPrerequisite{}).Error; err != nil {
		return err
	}
	rows := make([]models.SkillPrerequisite, 0, len(prerequisiteIDs))
	for _, prerequisiteID := range prerequisiteIDs {
		if prerequisiteID == skillID {
			continue // a skill is never its own prerequisite
		}
		rows = append(rows, models.SkillPrerequisite{SkillID: skillID, PrerequisiteSkillID: prerequisiteID})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
