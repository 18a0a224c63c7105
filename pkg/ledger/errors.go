package ledger

import "fmt"

// UnknownOrderError indicates a line item referenced an order id that was
// never upserted.
type UnknownOrderError struct {
	OrderID string
}

func (e *UnknownOrderError) Error() string {
	return fmt.Sprintf("order %s not found in ledger", e.OrderID)
}
