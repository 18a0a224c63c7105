// Package notification publishes compensation events when an order could not
// be fulfilled.
package notification

import "time"

// Topic is the event stream compensation events are published to.
const Topic = "orderflow.events"

const (
	EventTypeMetadataKey = "event_type"
	EventKeyMetadataKey  = "key"

	// EventTypeRollback marks a compensation event for a failed order.
	EventTypeRollback = "order.rollback"
)

// RollbackEvent notifies external parties that an order could not be
// fulfilled. It does not reverse committed side effects: rollback is only
// reached before the persist step commits anything.
type RollbackEvent struct {
	OrderID   string    `json:"orderId"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
