package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvarga/webshop-backend/pkg/db/models"
	pkgerrors "github.com/kvarga/webshop-backend/pkg/errors"
)

const productNotFoundMessage = "Product not found"

// Service exposes catalog business rules.
type Service interface {
	List(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository interface {
	Create(ctx context.Context, dto CreateProductDTO) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*models.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo productRepository
}

type service struct {
	repo productRepository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	product, err := s.repo.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	product, err := s.repo.Update(ctx, id, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}
