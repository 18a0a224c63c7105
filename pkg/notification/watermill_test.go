package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaxsoft/orderflow/pkg/notification"
)

func TestWatermillGateway_PublishRollback(t *testing.T) {
	pubSub := notification.CreateGoChannel(watermill.NopLogger{})
	gateway := notification.NewWatermillGateway(pubSub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, notification.Topic)
	require.NoError(t, err)

	event := notification.RollbackEvent{
		OrderID:   "ord-1",
		Reason:    "Insufficient stock",
		Timestamp: time.Now().UTC(),
	}

	err = gateway.PublishRollback(ctx, event)
	require.NoError(t, err)

	select {
	case msg := <-messages:
		msg.Ack()

		assert.Equal(t, "ord-1", msg.Metadata.Get(notification.EventKeyMetadataKey))
		assert.Equal(t, notification.EventTypeRollback, msg.Metadata.Get(notification.EventTypeMetadataKey))

		var received notification.RollbackEvent

		err = json.Unmarshal(msg.Payload, &received)
		require.NoError(t, err)
		assert.Equal(t, "ord-1", received.OrderID)
		assert.Equal(t, "Insufficient stock", received.Reason)
		assert.False(t, received.Timestamp.IsZero())
	case <-ctx.Done():
		t.Fatal("timed out waiting for rollback event")
	}

	err = gateway.Close()
	require.NoError(t, err)
}

type failingPublisher struct{}

func (p failingPublisher) Publish(_ string, _ ...*message.Message) error {
	return errors.New("broker unavailable")
}

func (p failingPublisher) Close() error {
	return nil
}

func TestWatermillGateway_PublishError(t *testing.T) {
	gateway := notification.NewWatermillGateway(failingPublisher{})

	err := gateway.PublishRollback(context.Background(), notification.RollbackEvent{
		OrderID: "ord-1",
		Reason:  "Payment or processing failed",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ord-1")
	assert.Contains(t, err.Error(), "broker unavailable")
}
