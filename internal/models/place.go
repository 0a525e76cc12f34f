package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Place is an outdoor or indoor training location.
type Place struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Location      string    `gorm:"size:255;index" json:"location"`
	Address       string    `gorm:"size:512" json:"address"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	AmenitiesRaw  string    `gorm:"column:amenities;type:text" json:"-"`
	EquipmentRaw  string    `gorm:"column:equipment;type:text" json:"-"`
	PhotosURLsRaw string    `gorm:"column:photos_urls;type:text" json:"-"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Amenities     []string  `gorm:"-" json:"amenities"`
	Equipment     []string  `gorm:"-" json:"equipment"`
	PhotosURLs    []string  `gorm:"-" json:"photos_urls"`
	UpvoteCount   int64     `gorm:"->;-:migration" json:"upvote_count"`
}

// BeforeCreate assigns a fresh identifier when none was supplied.
func (p *Place) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeSave normalises tag and URL data before persisting.
func (p *Place) BeforeSave(tx *gorm.DB) error {
	p.AmenitiesRaw = encodeTags(p.Amenities)
	p.EquipmentRaw = encodeTags(p.Equipment)
	p.PhotosURLsRaw = encodeList(p.PhotosURLs)
	return nil
}

// AfterFind hydrates tag and URL lists after retrieval.
func (p *Place) AfterFind(tx *gorm.DB) error {
	p.Amenities = decodeList(p.AmenitiesRaw)
	p.Equipment = decodeList(p.EquipmentRaw)
	p.PhotosURLs = decodeList(p.PhotosURLsRaw)
	return nil
}

// PlaceUpvote records a single user's vote for a place. The composite unique
// index is the correctness guarantee for the toggle under concurrent calls.
type PlaceUpvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlaceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_place_upvotes_place_user" json:"place_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_place_upvotes_place_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
