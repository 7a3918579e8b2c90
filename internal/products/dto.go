package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kvarga/webshop-backend/pkg/db/models"
	pkgerrors "github.com/kvarga/webshop-backend/pkg/errors"
)

// ProductDTO is the transport shape for catalog entries.
type ProductDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateProductDTO holds the fields required to persist a new product.
type CreateProductDTO struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int
}

// UpdateProductDTO carries a partial update; nil fields are left untouched.
type UpdateProductDTO struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	Stock    *int
}

// CreateProductRequest is the payload accepted by POST /products.
type CreateProductRequest struct {
	Name     string           `json:"name" validate:"required,max=255"`
	Category string           `json:"category" validate:"required,max=255"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Stock    *int             `json:"stock" validate:"required,gte=0"`
}

// ToDTO converts the request into a create DTO. The price sign is checked
// here because the validator cannot inspect decimal values.
func (r CreateProductRequest) ToDTO() (CreateProductDTO, error) {
	if r.Price != nil && r.Price.IsNegative() {
		return CreateProductDTO{}, negativePriceError()
	}
	dto := CreateProductDTO{
		Name:     r.Name,
		Category: r.Category,
		Stock:    0,
	}
	if r.Price != nil {
		dto.Price = *r.Price
	}
	if r.Stock != nil {
		dto.Stock = *r.Stock
	}
	return dto, nil
}

// UpdateProductRequest is the partial-update payload accepted by PUT /products/{id}.
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Category *string          `json:"category" validate:"omitempty,min=1,max=255"`
	Price    *decimal.Decimal `json:"price"`
	Stock    *int             `json:"stock" validate:"omitempty,gte=0"`
}

func (r UpdateProductRequest) ToDTO() (UpdateProductDTO, error) {
	if r.Price != nil && r.Price.IsNegative() {
		return UpdateProductDTO{}, negativePriceError()
	}
	return UpdateProductDTO{
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
		Stock:    r.Stock,
	}, nil
}

func negativePriceError() *pkgerrors.Error {
	err := pkgerrors.New(pkgerrors.CodeValidation, "Validation error")
	return err.WithDetails(map[string]string{"price": "The price field must be at least 0."})
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (c CreateProductDTO) ToModel() *models.Product {
	return &models.Product{
		Name:     c.Name,
		Category: c.Category,
		Price:    c.Price,
		Stock:    c.Stock,
	}
}

func (u UpdateProductDTO) changes() map[string]any {
	changes := map[string]any{}
	if u.Name != nil {
		changes["name"] = *u.Name
	}
	if u.Category != nil {
		changes["category"] = *u.Category
	}
	if u.Price != nil {
		changes["price"] = *u.Price
	}
	if u.Stock != nil {
		changes["stock"] = *u.Stock
	}
	return changes
}
