// Package cmd wires gateways from CLI configuration for the orderflow
// binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	redis "github.com/redis/go-redis/v9"

	"github.com/gmaxsoft/orderflow/pkg/inventory"
	"github.com/gmaxsoft/orderflow/pkg/ledger"
	"github.com/gmaxsoft/orderflow/pkg/notification"
	"github.com/gmaxsoft/orderflow/pkg/tracker"
)

// NewLedger selects the ledger implementation from the database URL. An empty
// or "memory" URL yields the in-memory ledger for local development.
func NewLedger(ctx context.Context, logger *slog.Logger, databaseURL string) ledger.Gateway {
	if databaseURL == "" || databaseURL == "memory" {
		return ledger.NewMemory()
	}

	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		postgres, err := ledger.NewPostgres(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create PostgreSQL ledger: %w", err))
		}

		return postgres
	}

	panic("Unsupported ledger database URL: " + databaseURL)
}

// NewInventory selects the inventory implementation from the Redis URL.
func NewInventory(logger *slog.Logger, redisURL string) inventory.Gateway {
	if redisURL == "" || redisURL == "memory" {
		return inventory.NewMemory()
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to parse redis URL: %w", err))
	}

	return inventory.NewRedis(redis.NewClient(options), logger)
}

// NewTracker selects the execution store from the Redis URL. The in-memory
// store is single-process; Redis lets multiple API replicas share one view.
func NewTracker(redisURL string) tracker.Store {
	if redisURL == "" || redisURL == "memory" {
		return tracker.NewMemory()
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to parse redis URL: %w", err))
	}

	return tracker.NewRedis(redis.NewClient(options))
}

// NewNotifications selects the notification gateway from the event bus
// provider name.
func NewNotifications(provider string, logger *slog.Logger) notification.Gateway {
	switch provider {
	case "kafka":
		publisher, err := notification.CreateKafkaPublisher(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka publisher: %w", err))
		}

		return notification.NewWatermillGateway(publisher)
	case "memory", "":
		return notification.NewWatermillGateway(notification.CreateGoChannel(watermill.NewSlogLogger(logger)))
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}
