package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvarga/webshop-backend/pkg/db/models"
)

// Repository exposes catalog persistence operations. Reads exclude
// soft-deleted rows via the gorm.DeletedAt filter on the model.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new product and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateProductDTO) (*models.Product, error) {
	product := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads an active product by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns all active products.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies the non-nil fields and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*models.Product, error) {
	changes := dto.changes()
	if len(changes) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(changes).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// SoftDelete stamps deleted_at; the row stays in place.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{}).Error
}

// FindAnyByID loads the product including soft-deleted rows.
func (r *Repository) FindAnyByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Unscoped().First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
