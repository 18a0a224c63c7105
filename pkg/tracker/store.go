// Package tracker holds the run-time status of in-flight and completed
// workflow executions so callers can poll asynchronously for the outcome.
package tracker

import (
	"context"
	"time"

	"github.com/gmaxsoft/orderflow/pkg/models"
)

// Snapshot is a read of one execution, consistent with some point in its
// history: fields are never mixed across transitions. Before the engine has
// recorded any transition the status is RUNNING and all optional fields are
// absent.
type Snapshot struct {
	ExecutionID string                 `json:"executionId"`
	Status      models.ExecutionStatus `json:"status"`
	StartedAt   time.Time              `json:"startedAt"`
	EndedAt     *time.Time             `json:"endedAt,omitempty"`
	Output      *models.StepRecord     `json:"output,omitempty"`
	Error       *models.ExecutionError `json:"error,omitempty"`
}

// Store records execution transitions and serves snapshots. The write side
// (Create, Succeed, Fail) is driven only by the workflow engine; Get is the
// read-mostly polling path. An execution becomes terminal exactly once:
// Succeed and Fail on an already-terminal execution return
// ErrExecutionTerminal.
type Store interface {
	Create(ctx context.Context, execution *models.Execution) error
	Succeed(ctx context.Context, executionID string, output models.StepRecord) error
	Fail(ctx context.Context, executionID string, status models.ExecutionStatus, execErr models.ExecutionError) error

	// Get returns a torn-read-free snapshot. Unknown execution ids yield
	// ErrExecutionNotFound, never a RUNNING status.
	Get(ctx context.Context, executionID string) (Snapshot, error)

	// Sweep removes terminal executions that ended before the cutoff and
	// returns how many were removed.
	Sweep(ctx context.Context, endedBefore time.Time) (int, error)

	HealthCheck(ctx context.Context) error
}
