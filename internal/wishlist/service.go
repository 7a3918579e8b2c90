package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvarga/webshop-backend/pkg/db/models"
	pkgerrors "github.com/kvarga/webshop-backend/pkg/errors"
)

const (
	entryNotFoundMessage = "Wishlist item not found"
	notOwnerMessage      = "Unauthorized"
	alreadyListedMessage = "Product already in wishlist"
)

// Requester identifies the caller for ownership checks.
type Requester struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// Service exposes business rules for wishlist management.
type Service interface {
	ListOwn(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error)
	ListAll(ctx context.Context) ([]EntryDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (*EntryDTO, error)
	Get(ctx context.Context, req Requester, id uuid.UUID) (*EntryDTO, error)
	Remove(ctx context.Context, req Requester, id uuid.UUID) error
}

type entryRepository interface {
	ActiveExists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Create(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.WishlistEntry, error)
	GetJoined(ctx context.Context, id uuid.UUID) (*EntryDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error)
	ListAll(ctx context.Context) ([]EntryDTO, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo     entryRepository
	Products productFinder
}

type service struct {
	repo     entryRepository
	products productFinder
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wishlist repository is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

func (s *service) ListOwn(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist")
	}
	return items, nil
}

func (s *service) ListAll(ctx context.Context) ([]EntryDTO, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list all wishlists")
	}
	return items, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user wishlist")
	}
	return items, nil
}

// Add bookmarks a product. The duplicate check only considers active rows, so
// a previously removed product can be re-added as a fresh entry.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*EntryDTO, error) {
	if productID == uuid.Nil {
		return nil, invalidProductIDError()
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidProductIDError()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	exists, err := s.repo.ActiveExists(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check duplicate")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadyListedMessage)
	}

	entry, err := s.repo.Create(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create entry")
	}
	joined, err := s.repo.GetJoined(ctx, entry.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load created entry")
	}
	return joined, nil
}

func (s *service) Get(ctx context.Context, req Requester, id uuid.UUID) (*EntryDTO, error) {
	entry, err := s.loadEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(req, entry.UserID); err != nil {
		return nil, err
	}
	joined, err := s.repo.GetJoined(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load entry")
	}
	return joined, nil
}

func (s *service) Remove(ctx context.Context, req Requester, id uuid.UUID) error {
	entry, err := s.loadEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwnership(req, entry.UserID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete entry")
	}
	return nil
}

func (s *service) loadEntry(ctx context.Context, id uuid.UUID) (*models.WishlistEntry, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, entryNotFoundMessage)
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, entryNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load entry")
	}
	return entry, nil
}

func checkOwnership(req Requester, ownerID uuid.UUID) error {
	if req.IsAdmin || req.UserID == ownerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, notOwnerMessage)
}

func invalidProductIDError() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "Validation error").
		WithDetails(map[string]string{"product_id": "The selected product id is invalid."})
}
