// Package models defines the core domain models for order workflow processing.
package models

// OrderItem is a single line of an order request.
type OrderItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity"  validate:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

// OrderRequest is the input to a workflow execution. OrderID is caller-supplied
// and immutable once an execution starts; TotalAmount is caller-asserted and
// never re-derived by the engine.
type OrderRequest struct {
	OrderID     string      `json:"orderId"     validate:"required"`
	CustomerID  string      `json:"customerId"  validate:"required"`
	Items       []OrderItem `json:"items"       validate:"required,min=1,dive"`
	TotalAmount float64     `json:"totalAmount" validate:"gte=0"`
}

// Product is a catalog entry backed by the inventory gateway.
type Product struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}
