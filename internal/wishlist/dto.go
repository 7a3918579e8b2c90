package wishlist

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kvarga/webshop-backend/internal/products"
	"github.com/kvarga/webshop-backend/internal/users"
)

// EntryDTO is a wishlist row joined with its product (and owner for admin
// listings). Product is nil when the referenced product has been soft-deleted.
type EntryDTO struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"user_id"`
	ProductID uuid.UUID            `json:"product_id"`
	AddedAt   time.Time            `json:"added_at"`
	CreatedAt time.Time            `json:"created_at"`
	Product   *products.ProductDTO `json:"product"`
	User      *users.UserDTO       `json:"user,omitempty"`
}

// AddEntryRequest is the payload accepted by POST /wishlists.
type AddEntryRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type entryRecord struct {
	ID               uuid.UUID           `gorm:"column:entry_id"`
	UserID           uuid.UUID           `gorm:"column:user_id"`
	ProductID        uuid.UUID           `gorm:"column:product_id"`
	AddedAt          time.Time           `gorm:"column:added_at"`
	CreatedAt        time.Time           `gorm:"column:entry_created_at"`
	ProductName      sql.NullString      `gorm:"column:product_name"`
	ProductCategory  sql.NullString      `gorm:"column:product_category"`
	ProductPrice     decimal.NullDecimal `gorm:"column:product_price"`
	ProductStock     sql.NullInt64       `gorm:"column:product_stock"`
	ProductCreatedAt sql.NullTime        `gorm:"column:product_created_at"`
	ProductUpdatedAt sql.NullTime        `gorm:"column:product_updated_at"`
	OwnerName        sql.NullString      `gorm:"column:owner_name"`
	OwnerEmail       sql.NullString      `gorm:"column:owner_email"`
	OwnerIsAdmin     sql.NullBool        `gorm:"column:owner_is_admin"`
	OwnerCreatedAt   sql.NullTime        `gorm:"column:owner_created_at"`
	OwnerUpdatedAt   sql.NullTime        `gorm:"column:owner_updated_at"`
}

func (r entryRecord) toDTO(includeOwner bool) EntryDTO {
	dto := EntryDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		AddedAt:   r.AddedAt,
		CreatedAt: r.CreatedAt,
	}
	if r.ProductName.Valid {
		dto.Product = &products.ProductDTO{
			ID:        r.ProductID,
			Name:      r.ProductName.String,
			Category:  r.ProductCategory.String,
			Price:     r.ProductPrice.Decimal,
			Stock:     int(r.ProductStock.Int64),
			CreatedAt: r.ProductCreatedAt.Time,
			UpdatedAt: r.ProductUpdatedAt.Time,
		}
	}
	if includeOwner && r.OwnerName.Valid {
		dto.User = &users.UserDTO{
			ID:        r.UserID,
			Name:      r.OwnerName.String,
			Email:     r.OwnerEmail.String,
			IsAdmin:   r.OwnerIsAdmin.Bool,
			CreatedAt: r.OwnerCreatedAt.Time,
			UpdatedAt: r.OwnerUpdatedAt.Time,
		}
	}
	return dto
}
