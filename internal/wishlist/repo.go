package wishlist

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvarga/webshop-backend/pkg/db/models"
)

var entrySelectColumns = []string{
	"we.id AS entry_id",
	"we.user_id AS user_id",
	"we.product_id AS product_id",
	"we.added_at AS added_at",
	"we.created_at AS entry_created_at",
	"p.name AS product_name",
	"p.category AS product_category",
	"p.price AS product_price",
	"p.stock AS product_stock",
	"p.created_at AS product_created_at",
	"p.updated_at AS product_updated_at",
}

var ownerSelectColumns = []string{
	"u.name AS owner_name",
	"u.email AS owner_email",
	"u.is_admin AS owner_is_admin",
	"u.created_at AS owner_created_at",
	"u.updated_at AS owner_updated_at",
}

// Repository encapsulates wishlist persistence. Joined reads pair each entry
// with its active product; a soft-deleted product joins as NULL and surfaces
// as a nil product in the DTO.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveExists reports whether the user already has a live entry for the product.
func (r *Repository) ActiveExists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistEntry{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new entry; re-adding after a soft delete produces a new row.
func (r *Repository) Create(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistEntry, error) {
	entry := &models.WishlistEntry{
		UserID:    userID,
		ProductID: productID,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// FindByID loads an active entry without its associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetJoined loads an active entry together with its active product.
func (r *Repository) GetJoined(ctx context.Context, id uuid.UUID) (*EntryDTO, error) {
	var record entryRecord
	// Take, not First: the select aliases (entry_id) are not columns of we,
	// so an implicit ORDER BY from First would not resolve.
	err := r.baseQuery(ctx).
		Where("we.id = ?", id).
		Take(&record).Error
	if err != nil {
		return nil, err
	}
	dto := record.toDTO(false)
	return &dto, nil
}

// ListForUser returns the user's active entries joined with their products.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error) {
	var records []entryRecord
	if err := r.baseQuery(ctx).
		Where("we.user_id = ?", userID).
		Order("we.added_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]EntryDTO, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDTO(false))
	}
	return items, nil
}

// ListAll returns every active entry joined with owner and product.
func (r *Repository) ListAll(ctx context.Context) ([]EntryDTO, error) {
	columns := append(append([]string{}, entrySelectColumns...), ownerSelectColumns...)
	var records []entryRecord
	if err := r.db.WithContext(ctx).
		Table("wishlist_entries we").
		Select(strings.Join(columns, ", ")).
		Joins("LEFT JOIN products p ON p.id = we.product_id AND p.deleted_at IS NULL").
		Joins("LEFT JOIN users u ON u.id = we.user_id AND u.deleted_at IS NULL").
		Where("we.deleted_at IS NULL").
		Order("we.added_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]EntryDTO, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDTO(true))
	}
	return items, nil
}

// SoftDelete stamps deleted_at on the entry; the row stays in place.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.WishlistEntry{}).Error
}

// SoftDeleteAllForUser tombstones every active entry owned by the user.
func (r *Repository) SoftDeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.WishlistEntry{}).Error
}

func (r *Repository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("wishlist_entries we").
		Select(strings.Join(entrySelectColumns, ", ")).
		Joins("LEFT JOIN products p ON p.id = we.product_id AND p.deleted_at IS NULL").
		Where("we.deleted_at IS NULL")
}
