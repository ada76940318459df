package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/storefront/internal/shop/store"
	"github.com/aussiebroadwan/storefront/internal/shop/store/drivers/memory"
)

func TestProductCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewProductService(memory.NewStore())

	created, err := svc.Create(ctx, ProductInput{Name: "Samba OG", Price: 120, Description: "Classic trainers"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	newPrice := 99.95
	updated, err := svc.Update(ctx, created.ID, ProductUpdate{Price: &newPrice})
	require.NoError(t, err)
	require.Equal(t, newPrice, updated.Price)
	require.Equal(t, "Samba OG", updated.Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestProductValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewProductService(memory.NewStore())

	_, err := svc.Create(ctx, ProductInput{Name: "", Price: 0})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Reasons, "name is required")
	require.Contains(t, verr.Reasons, "price must be positive")

	created, err := svc.Create(ctx, ProductInput{Name: "Gazelle", Price: 100})
	require.NoError(t, err)

	negative := -5.0
	_, err = svc.Update(ctx, created.ID, ProductUpdate{Price: &negative})
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Reasons, "price must be positive")

	// The failed update left the record untouched.
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, got.Price)
}

func TestProductSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewProductService(memory.NewStore())

	require.NoError(t, svc.Seed(ctx))

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "Ultraboost 22", products[0].Name)
	require.Equal(t, 180.0, products[0].Price)
	require.Equal(t, "Tiro Track Jacket", products[1].Name)

	// Seeding again is a no-op on a non-empty catalogue.
	require.NoError(t, svc.Seed(ctx))
	products, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
}
