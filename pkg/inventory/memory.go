package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/gmaxsoft/orderflow/pkg/models"
)

// Memory is an in-memory inventory gateway for development and tests.
type Memory struct {
	mu       sync.Mutex
	products map[string]models.Product
}

func NewMemory() *Memory {
	return &Memory{
		products: make(map[string]models.Product),
	}
}

func (m *Memory) Quantity(_ context.Context, productID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Missing product is quantity 0, not an error.
	return m.products[productID].Quantity, nil
}

func (m *Memory) Decrement(_ context.Context, productID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[productID]
	if !ok {
		product = models.Product{ProductID: productID, Name: productID}
	}

	product.Quantity -= amount
	m.products[productID] = product

	return nil
}

func (m *Memory) Products(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]models.Product, 0, len(m.products))
	for _, product := range m.products {
		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].ProductID < products[j].ProductID
	})

	return products, nil
}

func (m *Memory) SaveProduct(_ context.Context, product models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if product.Name == "" {
		product.Name = product.ProductID
	}

	m.products[product.ProductID] = product

	return nil
}

func (m *Memory) HealthCheck(_ context.Context) error {
	return nil
}
