// Package inventory provides the per-product quantity gateway consumed by the
// workflow engine and the catalog read-through.
package inventory

import (
	"context"

	"github.com/gmaxsoft/orderflow/pkg/models"
)

// Gateway reads and atomically decrements per-product quantity counters.
type Gateway interface {
	// Quantity returns the available quantity for a product. A missing
	// product yields 0, not an error.
	Quantity(ctx context.Context, productID string) (int64, error)

	// Decrement atomically subtracts amount from the product's counter.
	// Concurrent decrements for the same product must not lose updates.
	Decrement(ctx context.Context, productID string, amount int64) error

	// Products lists the catalog.
	Products(ctx context.Context) ([]models.Product, error)

	// SaveProduct creates or replaces a catalog entry.
	SaveProduct(ctx context.Context, product models.Product) error

	HealthCheck(ctx context.Context) error
}
