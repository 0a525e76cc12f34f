package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/models"
)

// ModerationRepository resolves pending submissions. Approve applies the
// proposed change, writes the audit entry and flips the status inside one
// transaction; a failure anywhere rolls everything back.
type ModerationRepository interface {
	Approve(ctx context.Context, submissionID, reviewerID uuid.UUID) (models.Submission, error)
	Reject(ctx context.Context, submissionID, reviewerID uuid.UUID) (models.Submission, error)
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository instantiates the repository.
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) Approve(ctx context.Context, submissionID, reviewerID uuid.UUID) (models.Submission, error) {
	var submission models.Submission

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serialises concurrent approve calls; the pending check is
		// part of the same transaction, so check-then-act cannot race.
		if err := lockForUpdate(tx).
			First(&submission, "id = ?", submissionID).Error; err != nil {
			return err
		}
		if !submission.IsPending() {
			return ErrSubmissionResolved
		}

		entityID, err := applySubmission(tx, submission)
		if err != nil {
			return err
		}

		changes := datatypes.JSONMap{}
		if len(submission.Data) > 0 {
			if err := json.Unmarshal(submission.Data, &changes); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
			}
		}

		entry := models.AuditLog{
			EntityType: submission.EntityType,
			EntityID:   entityID,
			Action:     submission.Action,
			UserID:     &reviewerID,
			Changes:    changes,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		submission.Status = models.SubmissionStatusApproved
		submission.ReviewedBy = &reviewerID
		submission.ReviewedAt = &now
		return tx.Save(&submission).Error
	})
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *moderationRepository) Reject(ctx context.Context, submissionID, reviewerID uuid.UUID) (models.Submission, error) {
	var submission models.Submission

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&submission, "id = ?", submissionID).Error; err != nil {
			return err
		}
		if !submission.IsPending() {
			return ErrSubmissionResolved
		}

		// Rejection is not a data mutation: no entity change, no audit entry.
		now := time.Now().UTC()
		submission.Status = models.SubmissionStatusRejected
		submission.ReviewedBy = &reviewerID
		submission.ReviewedAt = &now
		return tx.Save(&submission).Error
	})
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// lockForUpdate adds a row lock where the dialect supports one. SQLite has
// no per-row locks; its writers serialise on the database file instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func applySubmission(tx *gorm.DB, submission models.Submission) (uuid.UUID, error) {
	switch submission.EntityType {
	case models.EntityTypeSkill:
		return applySkillSubmission(tx, submission)
	case models.EntityTypePlace:
		return applyPlaceSubmission(tx, submission)
	default:
		return uuid.Nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidSubmission, submission.EntityType)
	}
}

func applySkillSubmission(tx *gorm.DB, submission models.Submission) (uuid.UUID, error) {
	var payload dto.SkillPayload
	if err := json.Unmarshal(submission.Data, &payload); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	switch submission.Action {
	case models.SubmissionActionCreate:
		if payload.Title == nil || payload.Level == nil || payload.Difficulty == nil {
			return uuid.Nil, fmt.Errorf("%w: skill create requires title, level and difficulty", ErrInvalidSubmission)
		}
		skill := models.Skill{
			Title:      *payload.Title,
			Level:      *payload.Level,
			Difficulty: *payload.Difficulty,
			CreatedBy:  submission.SubmittedBy,
		}
		applySkillPayload(&skill, payload)
		if err := tx.Create(&skill).Error; err != nil {
			return uuid.Nil, err
		}
		return skill.ID, nil

	case models.SubmissionActionUpdate:
		if submission.OriginalID == nil {
			return uuid.Nil, fmt.Errorf("%w: update requires an original id", ErrInvalidSubmission)
		}
		var skill models.Skill
		if err := tx.First(&skill, "id = ?", *submission.OriginalID).Error; err != nil {
			return uuid.Nil, err
		}
		applySkillPayload(&skill, payload)
		if err := tx.Save(&skill).Error; err != nil {
			return uuid.Nil, err
		}
		return skill.ID, nil

	case models.SubmissionActionDelete:
		if submission.OriginalID == nil {
			return uuid.Nil, fmt.Errorf("%w: delete requires an original id", ErrInvalidSubmission)
		}
		id := *submission.OriginalID
		if err := tx.Where("skill_id = ? OR variant_skill_id = ?", id, id).Delete(&models.SkillVariant{}).Error; err != nil {
			return uuid.Nil, err
		}
		if err := tx.Where("skill_id = ? OR prerequisite_skill_id = ?", id, id).Delete(&models.SkillPrerequisite{}).Error; err != nil {
			return uuid.Nil, err
		}
		result := tx.Delete(&models.Skill{}, "id = ?", id)
		if result.Error != nil {
			return uuid.Nil, result.Error
		}
		if result.RowsAffected == 0 {
			return uuid.Nil, gorm.ErrRecordNotFound
		}
		return id, nil

	default:
		return uuid.Nil, fmt.Errorf("%w: unknown action %q", ErrInvalidSubmission, submission.Action)
	}
}

func applyPlaceSubmission(tx *gorm.DB, submission models.Submission) (uuid.UUID, error) {
	var payload dto.PlacePayload
	if err := json.Unmarshal(submission.Data, &payload); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	switch submission.Action {
	case models.SubmissionActionCreate:
		if payload.Name == nil {
			return uuid.Nil, fmt.Errorf("%w: place create requires a name", ErrInvalidSubmission)
		}
		place := models.Place{
			Name:      *payload.Name,
			CreatedBy: submission.SubmittedBy,
		}
		applyPlacePayload(&place, payload)
		if err := tx.Create(&place).Error; err != nil {
			return uuid.Nil, err
		}
		return place.ID, nil

	case models.SubmissionActionUpdate:
		if submission.OriginalID == nil {
			return uuid.Nil, fmt.Errorf("%w: update requires an original id", ErrInvalidSubmission)
		}
		var place models.Place
		if err := tx.First(&place, "id = ?", *submission.OriginalID).Error; err != nil {
			return uuid.Nil, err
		}
		applyPlacePayload(&place, payload)
		if err := tx.Save(&place).Error; err != nil {
			return uuid.Nil, err
		}
		return place.ID, nil

	case models.SubmissionActionDelete:
		if submission.OriginalID == nil {
			return uuid.Nil, fmt.Errorf("%w: delete requires an original id", ErrInvalidSubmission)
		}
		id := *submission.OriginalID
		if err := tx.Where("place_id = ?", id).Delete(&models.PlaceUpvote{}).Error; err != nil {
			return uuid.Nil, err
		}
		result := tx.Delete(&models.Place{}, "id = ?", id)
		if result.Error != nil {
			return uuid.Nil, result.Error
		}
		if result.RowsAffected == 0 {
			return uuid.Nil, gorm.ErrRecordNotFound
		}
		return id, nil

	default:
		return uuid.Nil, fmt.Errorf("%w: unknown action %q", ErrInvalidSubmission, submission.Action)
	}
}

func applySkillPayload(skill *models.Skill, payload dto.SkillPayload) {
	if payload.Title != nil {
		skill.Title = *payload.Title
	}
	if payload.Description != nil {
		skill.Description = *payload.Description
	}
	if payload.Level != nil {
		skill.Level = *payload.Level
	}
	if payload.Difficulty != nil {
		skill.Difficulty = *payload.Difficulty
	}
	if payload.MuscleGroups != nil {
		skill.MuscleGroups = append([]string(nil), (*payload.MuscleGroups)...)
	}
	if payload.Equipment != nil {
		skill.Equipment = append([]string(nil), (*payload.Equipment)...)
	}
	if payload.VideoURLs != nil {
		skill.VideoURLs = append([]string(nil), (*payload.VideoURLs)...)
	}
}

func applyPlacePayload(place *models.Place, payload dto.PlacePayload) {
	if payload.Name != nil {
		place.Name = *payload.Name
	}
	if payload.Description != nil {
		place.Description = *payload.Description
	}
	if payload.Location != nil {
		place.Location = *payload.Location
	}
	if payload.Address != nil {
		place.Address = *payload.Address
	}
	if payload.Lat != nil {
		place.Lat = *payload.Lat
	}
	if payload.Lng != nil {
		place.Lng = *payload.Lng
	}
	if payload.Amenities != nil {
		place.Amenities = append([]string(nil), (*payload.Amenities)...)
	}
	if payload.Equipment != nil {
		place.Equipment = append([]string(nil), (*payload.Equipment)...)
	}
	if payload.PhotosURLs != nil {
		place.PhotosURLs = append([]string(nil), (*payload.PhotosURLs)...)
	}
}
