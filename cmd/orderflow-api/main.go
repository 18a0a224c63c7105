package main

import (
	"context"
	"fmt"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/gmaxsoft/orderflow/pkg/cmd"
	"github.com/gmaxsoft/orderflow/pkg/engine"
	"github.com/gmaxsoft/orderflow/pkg/log"
	"github.com/gmaxsoft/orderflow/pkg/otelhelper"
	"github.com/gmaxsoft/orderflow/pkg/payment"
	"github.com/gmaxsoft/orderflow/pkg/tracker"
)

const (
	defaultPort      = 9094
	defaultRetention = 24 * time.Hour
	sweepSchedule    = "@every 10m"
)

func main() {
	command := &cli.Command{
		Name:                  "orderflow-api",
		Usage:                 "Accept orders and drive their processing workflow",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL connection URL for the order ledger (empty for in-memory)",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis connection URL for inventory and execution tracking (empty for in-memory)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider for rollback notifications (kafka, memory)",
				Value:   "memory",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.DurationFlag{
				Name:    "status-retention",
				Usage:   "How long terminal execution statuses are kept",
				Value:   defaultRetention,
				Sources: cli.EnvVars("STATUS_RETENTION"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing Orderflow API")

			tracerProvider, err := otelhelper.InitTracer(ctx, "orderflow-api")
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}
			defer func() {
				if err := tracerProvider.Shutdown(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
				}
			}()

			ledgerGateway := cmd.NewLedger(ctx, logger, command.String("database-url"))
			defer func() {
				err := ledgerGateway.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close ledger", "error", err)
				}
			}()

			inventoryGateway := cmd.NewInventory(logger, command.String("redis-url"))
			store := cmd.NewTracker(command.String("redis-url"))

			notifications := cmd.NewNotifications(command.String("event-bus"), logger)
			defer func() {
				err := notifications.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close notification gateway", "error", err)
				}
			}()

			workflowEngine := engine.New(
				inventoryGateway,
				payment.NewRandom(time.Now().UnixNano()),
				ledgerGateway,
				notifications,
				store,
				logger,
			)
			defer workflowEngine.Wait()

			sweeper, err := tracker.NewSweeper(store, command.Duration("status-retention"), sweepSchedule, logger)
			if err != nil {
				return err
			}

			sweeper.Start()
			defer sweeper.Stop()

			api := NewAPI(logger, workflowEngine, store, ledgerGateway, inventoryGateway)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
