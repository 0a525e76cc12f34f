package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/streetbars/streetbars-api/internal/models"
)

// upvoteCountSelect annotates place rows with their vote tally.
const upvoteCountSelect = "places.*, (SELECT COUNT(*) FROM place_upvotes WHERE place_upvotes.place_id = places.id) AS upvote_count"

// PlaceFilter narrows training-location queries.
type PlaceFilter struct {
	Location  string
	Amenities []string
	Equipment []string
	Page      int
	Limit     int
}

// PlaceRepository defines data operations for places and their upvotes.
type PlaceRepository interface {
	List(ctx context.Context, filter PlaceFilter) ([]models.Place, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Place, error)
	HasUpvoted(ctx context.Context, placeID, userID uuid.UUID) (bool, error)
	ToggleUpvote(ctx context.Context, placeID, userID uuid.UUID) (bool, error)
	Update(ctx context.Context, place *models.Place, entry *models.AuditLog) error
	Delete(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error
}

type placeRepository struct {
	db *gorm.DB
}

// NewPlaceRepository instantiates the repository.
func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) List(ctx context.Context, filter PlaceFilter) ([]models.Place, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Place{})

	if filter.Location != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Location)) + "%"
		query = query.Where("LOWER(location) LIKE ?", pattern)
	}
	if condition := tagOverlapCondition(r.db.Session(&gorm.Session{NewDB: true}), "amenities", filter.Amenities); condition != nil {
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

	var places []models.Place
	if err := query.Select(upvoteCountSelect).Order("created_at DESC").Find(&places).Error; err != nil {
		return nil, 0, err
	}

	return places, total, nil
}

func (r *placeRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Place, error) {
	var place models.Place
	if err := r.db.WithContext(ctx).Model(&models.Place{}).
		Select(upvoteCountSelect).
		First(&place, "places.id = ?", id).Error; err != nil {
		return models.Place{}, err
	}
	return place, nil
}

func (r *placeRepository) HasUpvoted(ctx context.Context, placeID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PlaceUpvote{}).
		Where("place_id = ? AND user_id = ?", placeID, userID).
		Count(&count).Error
	return count > 0, err
}

// ToggleUpvote flips the caller's vote. The statements run outside an
// explicit transaction on purpose: a duplicate insert aborts a postgres
// transaction, so the unique (place_id, user_id) index arbitrates the race
// and the loser retries as a delete.
func (r *placeRepository) ToggleUpvote(ctx context.Context, placeID, userID uuid.UUID) (bool, error) {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Place{}).Where("id = ?", placeID).Count(&exists).Error; err != nil {
		return false, err
	}
	if exists == 0 {
		return false, gorm.ErrRecordNotFound
	}

	result := r.db.WithContext(ctx).
		Where("place_id = ? AND user_id = ?", placeID, userID).
		Delete(&models.PlaceUpvote{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	vote := models.PlaceUpvote{PlaceID: placeID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = r.db.WithContext(ctx).
				Where("place_id = ? AND user_id = ?", placeID, userID).
				Delete(&models.PlaceUpvote{}).Error
			return false, err
		}
		return false, err
	}

	return true, nil
}

func (r *placeRepository) Update(ctx context.Context, place *models.Place, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(place).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *placeRepository) Delete(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("place_id = ?", id).Delete(&models.PlaceUpvote{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Place{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(entry).Error
	})
}
