package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// WatermillGateway publishes rollback events through a watermill publisher,
// Kafka in production and GoChannel in development and tests.
type WatermillGateway struct {
	publisher message.Publisher
}

func NewWatermillGateway(publisher message.Publisher) *WatermillGateway {
	return &WatermillGateway{publisher: publisher}
}

func (g *WatermillGateway) PublishRollback(_ context.Context, event RollbackEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rollback event: %w", err)
	}

	msg := message.NewMessage("msg-"+watermill.NewULID(), payload)
	msg.Metadata.Set(EventKeyMetadataKey, event.OrderID)
	msg.Metadata.Set(EventTypeMetadataKey, EventTypeRollback)

	err = g.publisher.Publish(Topic, msg)
	if err != nil {
		return fmt.Errorf("failed to publish rollback event for order %s: %w", event.OrderID, err)
	}

	return nil
}

func (g *WatermillGateway) Close() error {
	return g.publisher.Close()
}
