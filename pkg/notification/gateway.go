package notification

import "context"

// Gateway publishes compensation events. Delivery is fire-and-forget with
// at-least-once semantics; a publish failure is surfaced to the caller, never
// swallowed.
type Gateway interface {
	PublishRollback(ctx context.Context, event RollbackEvent) error
	Close() error
}
