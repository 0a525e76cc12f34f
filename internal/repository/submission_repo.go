package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/streetbars/streetbars-api/internal/models"
)

// SubmissionFilter narrows submission queries.
type SubmissionFilter struct {
	SubmittedBy *uuid.UUID
	Status      string
	EntityType  string
	Page        int
	Limit       int
}

// SubmissionRepository defines data operations for the submission queue.
// Resolving a submission is the ModerationRepository's job.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	UpdateData(ctx context.Context, id, callerID uuid.UUID, data datatypes.JSON) (models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})

	if filter.SubmittedBy != nil {
		query = query.Where("submitted_by = ?", *filter.SubmittedBy)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.Limit)

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// UpdateData replaces a pending submission's payload. The ownership and
// pending checks live in the WHERE clause so a non-owner, a resolved
// submission and a missing id are indistinguishable to the caller.
func (r *submissionRepository) UpdateData(ctx context.Context, id, callerID uuid.UUID, data datatypes.JSON) (models.Submission, error) {
	result := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ? AND submitted_by = ? AND status = ?", id, callerID, models.SubmissionStatusPending).
		Updates(map[string]interface{}{
			"data":       data,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return models.Submission{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Submission{}, ErrSubmissionNotEditable
	}

	return r.GetByID(ctx, id)
}
