package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistEntry links a user to a bookmarked product. Re-adding a product
// after a soft delete creates a new row rather than reviving the old one.
type WishlistEntry struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID uuid.UUID      `gorm:"column:product_id;type:uuid;not null;index"`
	AddedAt   time.Time      `gorm:"column:added_at;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (e *WishlistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now().UTC()
	}
	return nil
}
