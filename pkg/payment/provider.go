// Package payment defines the payment capability the workflow engine charges
// orders through.
package payment

import "context"

// Result is the outcome of a charge attempt. TransactionID is set only when
// the charge succeeded. A declined charge is a business outcome, not an error;
// the error return is reserved for transport-level failures.
type Result struct {
	Success       bool   `json:"paymentSuccess"`
	TransactionID string `json:"transactionId,omitempty"`
}

// Provider charges a payment for an order. Charging has side effects: callers
// must never retry blindly.
type Provider interface {
	Charge(ctx context.Context, orderID string, amount float64) (Result, error)
}
