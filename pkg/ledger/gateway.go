// Package ledger provides durable storage for confirmed orders and their line
// items, idempotent on order id.
package ledger

import (
	"context"
	"time"

	"github.com/gmaxsoft/orderflow/pkg/models"
)

// StatusConfirmed is the ledger status written when an order's payment
// succeeded and the workflow reached the persist step.
const StatusConfirmed = "confirmed"

// Order is a ledger row with its nested line items.
type Order struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customerId"`
	TotalAmount float64            `json:"totalAmount"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	Items       []models.OrderItem `json:"items"`
}

// Gateway appends confirmed orders to the ledger. UpsertOrder is keyed by
// order id: re-submitting the same id updates the existing row, it never
// duplicates it.
type Gateway interface {
	UpsertOrder(ctx context.Context, orderID, customerID string, totalAmount float64, status string) error
	InsertLineItem(ctx context.Context, orderID, productID string, quantity int, unitPrice float64) error

	// ConfirmedOrders returns the most recent orders with nested line items,
	// newest first.
	ConfirmedOrders(ctx context.Context, limit int) ([]Order, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
