package products

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()

	product, err := repo.Create(ctx, CreateProductDTO{
		Name:     "Laptop Dell XPS 15",
		Category: "Electronics",
		Price:    decimal.NewFromFloat(1299.99),
		Stock:    15,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, "Laptop Dell XPS 15", found.Name)
	require.True(t, found.Price.Equal(decimal.NewFromFloat(1299.99)))
	require.Equal(t, 15, found.Stock)
}

func TestRepositoryUpdatePartial(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()

	product, err := repo.Create(ctx, CreateProductDTO{
		Name:     "X",
		Category: "Y",
		Price:    decimal.NewFromInt(10),
		Stock:    5,
	})
	require.NoError(t, err)

	stock := 99
	updated, err := repo.Update(ctx, product.ID, UpdateProductDTO{Stock: &stock})
	require.NoError(t, err)
	require.Equal(t, 99, updated.Stock)
	require.Equal(t, "X", updated.Name)
	require.True(t, updated.Price.Equal(decimal.NewFromInt(10)))
}

func TestRepositorySoftDeleteKeepsRow(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()

	product, err := repo.Create(ctx, CreateProductDTO{
		Name:     "Doomed",
		Category: "Test",
		Price:    decimal.NewFromInt(1),
		Stock:    1,
	})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, product.ID))

	_, err = repo.FindByID(ctx, product.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	ghost, err := repo.FindAnyByID(ctx, product.ID)
	require.NoError(t, err)
	require.True(t, ghost.DeletedAt.Valid)
}

func TestRepositoryListSkipsDeleted(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()

	kept, err := repo.Create(ctx, CreateProductDTO{Name: "Kept", Category: "T", Price: decimal.NewFromInt(1), Stock: 1})
	require.NoError(t, err)
	gone, err := repo.Create(ctx, CreateProductDTO{Name: "Gone", Category: "T", Price: decimal.NewFromInt(1), Stock: 1})
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, gone.ID))

	rows, err := repo.List(ctx)
	require.NoError(t, err)

	seenKept, seenGone := false, false
	for _, row := range rows {
		if row.ID == kept.ID {
			seenKept = true
		}
		if row.ID == gone.ID {
			seenGone = true
		}
	}
	require.True(t, seenKept)
	require.False(t, seenGone)
}
