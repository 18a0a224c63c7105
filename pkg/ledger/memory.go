package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/gmaxsoft/orderflow/pkg/models"
)

// Memory is an in-memory ledger gateway for development and tests. It keeps
// the same upsert semantics as the PostgreSQL implementation.
type Memory struct {
	mu     sync.Mutex
	orders map[string]*Order
	ids    []string // insertion order, oldest first
}

func NewMemory() *Memory {
	return &Memory{
		orders: make(map[string]*Order),
	}
}

func (m *Memory) UpsertOrder(_ context.Context, orderID, customerID string, totalAmount float64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.orders[orderID]; ok {
		existing.Status = status

		return nil
	}

	m.orders[orderID] = &Order{
		ID:          orderID,
		CustomerID:  customerID,
		TotalAmount: totalAmount,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		Items:       []models.OrderItem{},
	}
	m.ids = append(m.ids, orderID)

	return nil
}

func (m *Memory) InsertLineItem(_ context.Context, orderID, productID string, quantity int, unitPrice float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return &UnknownOrderError{OrderID: orderID}
	}

	order.Items = append(order.Items, models.OrderItem{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})

	return nil
}

func (m *Memory) ConfirmedOrders(_ context.Context, limit int) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]Order, 0, limit)

	for i := len(m.ids) - 1; i >= 0 && len(orders) < limit; i-- {
		order := m.orders[m.ids[i]]

		snapshot := *order
		snapshot.Items = append([]models.OrderItem(nil), order.Items...)

		orders = append(orders, snapshot)
	}

	return orders, nil
}

func (m *Memory) HealthCheck(_ context.Context) error {
	return nil
}

func (m *Memory) Close(_ context.Context) error {
	return nil
}
