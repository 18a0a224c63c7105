// Package main provides a status watcher: it polls the Orderflow API until an
// execution reaches a terminal status, then prints the final snapshot.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/gmaxsoft/orderflow/pkg/log"
	"github.com/gmaxsoft/orderflow/pkg/tracker"
	"github.com/gmaxsoft/orderflow/pkg/web"
)

func main() {
	command := &cli.Command{
		Name:  "orderflow-watch",
		Usage: "Poll an order workflow execution until it completes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the Orderflow API",
				Value:   "http://localhost:9094",
				Sources: cli.EnvVars("ORDERFLOW_API_URL"),
			},
			&cli.StringFlag{
				Name:     "execution-id",
				Aliases:  []string{"e"},
				Usage:    "Execution handle returned by POST /orders",
				Required: true,
			},
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Polling interval",
				Value:   tracker.DefaultPollInterval,
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Give up after this long (0 to wait forever)",
				Value:   0,
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

			logger := log.WithModule("watch")

			if timeout := command.Duration("timeout"); timeout > 0 {
				var cancel context.CancelFunc

				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			watcher := &statusWatcher{
				apiURL:      command.String("api-url"),
				executionID: command.String("execution-id"),
				interval:    command.Duration("interval"),
				client:      &http.Client{Timeout: 10 * time.Second},
			}

			logger.InfoContext(ctx, "Watching execution",
				"execution_id", watcher.executionID,
				"interval", watcher.interval)

			final, err := watcher.wait(ctx)
			if err != nil {
				return err
			}

			output, err := json.MarshalIndent(final, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(output))

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

type statusWatcher struct {
	apiURL      string
	executionID string
	interval    time.Duration
	client      *http.Client
}

// wait re-polls the status endpoint until a terminal status is observed or
// ctx is cancelled. RUNNING is the only non-terminal value.
func (w *statusWatcher) wait(ctx context.Context) (*web.StatusResponse, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		status, err := w.fetch(ctx)
		if err != nil {
			return nil, err
		}

		if status.Status.Terminal() {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *statusWatcher) fetch(ctx context.Context) (*web.StatusResponse, error) {
	endpoint := w.apiURL + "/orders/status?executionId=" + url.QueryEscape(w.executionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch execution status: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %d for execution %s", resp.StatusCode, w.executionID)
	}

	var status web.StatusResponse

	err = json.NewDecoder(resp.Body).Decode(&status)
	if err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	return &status, nil
}
