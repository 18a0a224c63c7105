package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaxsoft/orderflow/pkg/inventory"
	"github.com/gmaxsoft/orderflow/pkg/models"
)

func TestMemory_QuantityMissingProduct(t *testing.T) {
	t.Parallel()

	gateway := inventory.NewMemory()

	// An unknown product reads as quantity zero, never as an error.
	quantity, err := gateway.Quantity(context.Background(), "p-missing")
	require.NoError(t, err)
	assert.Zero(t, quantity)
}

func TestMemory_SaveAndQuantity(t *testing.T) {
	t.Parallel()

	gateway := inventory.NewMemory()
	ctx := context.Background()

	err := gateway.SaveProduct(ctx, models.Product{ProductID: "p1", Name: "Widget", Quantity: 5, Price: 29.99})
	require.NoError(t, err)

	quantity, err := gateway.Quantity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), quantity)
}

func TestMemory_Decrement(t *testing.T) {
	t.Parallel()

	gateway := inventory.NewMemory()
	ctx := context.Background()

	require.NoError(t, gateway.SaveProduct(ctx, models.Product{ProductID: "p1", Quantity: 5}))
	require.NoError(t, gateway.Decrement(ctx, "p1", 2))

	quantity, err := gateway.Quantity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), quantity)
}

func TestMemory_ProductsSorted(t *testing.T) {
	t.Parallel()

	gateway := inventory.NewMemory()
	ctx := context.Background()

	require.NoError(t, gateway.SaveProduct(ctx, models.Product{ProductID: "p2", Quantity: 1}))
	require.NoError(t, gateway.SaveProduct(ctx, models.Product{ProductID: "p1", Quantity: 1}))
	require.NoError(t, gateway.SaveProduct(ctx, models.Product{ProductID: "p3", Quantity: 1}))

	products, err := gateway.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "p1", products[0].ProductID)
	assert.Equal(t, "p2", products[1].ProductID)
	assert.Equal(t, "p3", products[2].ProductID)
}

func TestMemory_SaveProductDefaultsName(t *testing.T) {
	t.Parallel()

	gateway := inventory.NewMemory()
	ctx := context.Background()

	require.NoError(t, gateway.SaveProduct(ctx, models.Product{ProductID: "p1", Quantity: 1}))

	products, err := gateway.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].Name)
}
