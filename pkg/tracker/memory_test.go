package tracker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaxsoft/orderflow/pkg/models"
	"github.com/gmaxsoft/orderflow/pkg/tracker"
)

func runningExecution(id string) *models.Execution {
	return &models.Execution{
		ID: id,
		Order: models.OrderRequest{
			OrderID:    "ord-1",
			CustomerID: "cust-1",
			Items: []models.OrderItem{
				{ProductID: "p1", Quantity: 2, UnitPrice: 29.99},
			},
			TotalAmount: 59.98,
		},
		Status:    models.ExecutionStatusRunning,
		StartedAt: time.Now().UTC(),
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()
	ctx := context.Background()

	err := store.Create(ctx, runningExecution("exec-1"))
	require.NoError(t, err)

	snapshot, err := store.Get(ctx, "exec-1")
	require.NoError(t, err)

	assert.Equal(t, "exec-1", snapshot.ExecutionID)
	assert.Equal(t, models.ExecutionStatusRunning, snapshot.Status)
	assert.Nil(t, snapshot.EndedAt)
	assert.Nil(t, snapshot.Output)
	assert.Nil(t, snapshot.Error)
}

func TestMemoryStore_CreateDuplicate(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, runningExecution("exec-1")))

	err := store.Create(ctx, runningExecution("exec-1"))
	assert.ErrorIs(t, err, tracker.ErrExecutionExists)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()

	_, err := store.Get(context.Background(), "exec-missing")
	assert.ErrorIs(t, err, tracker.ErrExecutionNotFound)
	assert.True(t, tracker.IsExecutionNotFound(err))
}

func TestMemoryStore_Succeed(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()
	ctx := context.Background()

	execution := runningExecution("exec-1")
	require.NoError(t, store.Create(ctx, execution))

	output := models.StepRecord{
		OrderRequest:   execution.Order,
		InStock:        true,
		PaymentSuccess: true,
		TransactionID:  "txn-1",
	}
	require.NoError(t, store.Succeed(ctx, "exec-1", output))

	snapshot, err := store.Get(ctx, "exec-1")
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusSucceeded, snapshot.Status)
	require.NotNil(t, snapshot.EndedAt)
	assert.False(t, snapshot.EndedAt.Before(snapshot.StartedAt))
	require.NotNil(t, snapshot.Output)
	assert.Equal(t, "txn-1", snapshot.Output.TransactionID)
	assert.Nil(t, snapshot.Error)
}

func TestMemoryStore_Fail(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, runningExecution("exec-1")))

	execErr := models.ExecutionError{
		Kind:    models.ErrorKindCompensated,
		Message: "Insufficient stock",
	}
	require.NoError(t, store.Fail(ctx, "exec-1", models.ExecutionStatusFailed, execErr))

	snapshot, err := store.Get(ctx, "exec-1")
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusFailed, snapshot.Status)
	require.NotNil(t, snapshot.Error)
	assert.Equal(t, models.ErrorKindCompensated, snapshot.Error.Kind)
	assert.Equal(t, "Insufficient stock", snapshot.Error.Message)
	assert.Nil(t, snapshot.Output)
}

func TestMemoryStore_TerminalOnce(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, runningExecution("exec-1")))
	require.NoError(t, store.Succeed(ctx, "exec-1", models.StepRecord{TransactionID: "txn-1"}))

	// A second transition on a terminal execution is rejected and the stored
	// outcome is unchanged.
	err := store.Fail(ctx, "exec-1", models.ExecutionStatusFailed, models.ExecutionError{
		Kind:    models.ErrorKindGateway,
		Message: "late failure",
	})
	assert.ErrorIs(t, err, tracker.ErrExecutionTerminal)

	err = store.Succeed(ctx, "exec-1", models.StepRecord{TransactionID: "txn-2"})
	assert.ErrorIs(t, err, tracker.ErrExecutionTerminal)

	snapshot, err := store.Get(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusSucceeded, snapshot.Status)
	assert.Equal(t, "txn-1", snapshot.Output.TransactionID)
	assert.Nil(t, snapshot.Error)
}

func TestMemoryStore_TransitionUnknown(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()
	ctx := context.Background()

	err := store.Succeed(ctx, "exec-missing", models.StepRecord{})
	assert.ErrorIs(t, err, tracker.ErrExecutionNotFound)

	err = store.Fail(ctx, "exec-missing", models.ExecutionStatusFailed, models.ExecutionError{})
	assert.ErrorIs(t, err, tracker.ErrExecutionNotFound)
}

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()
	ctx := context.Background()

	execution := runningExecution("exec-1")
	require.NoError(t, store.Create(ctx, execution))
	require.NoError(t, store.Succeed(ctx, "exec-1", models.StepRecord{
		OrderRequest:         execution.Order,
		InsufficientProducts: []string{"productId p1: requested 2, available 1"},
	}))

	first, err := store.Get(ctx, "exec-1")
	require.NoError(t, err)

	// Mutating a returned snapshot must not leak into the store.
	first.Output.TransactionID = "txn-mutated"
	first.Output.Items[0].Quantity = 99
	first.Output.InsufficientProducts[0] = "mutated"

	second, err := store.Get(ctx, "exec-1")
	require.NoError(t, err)
	assert.Empty(t, second.Output.TransactionID)
	assert.Equal(t, 2, second.Output.Items[0].Quantity)
	assert.Equal(t, "productId p1: requested 2, available 1", second.Output.InsufficientProducts[0])
}

func TestMemoryStore_Sweep(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, runningExecution("exec-old")))
	require.NoError(t, store.Create(ctx, runningExecution("exec-new")))
	require.NoError(t, store.Create(ctx, runningExecution("exec-running")))

	require.NoError(t, store.Succeed(ctx, "exec-old", models.StepRecord{}))
	require.NoError(t, store.Succeed(ctx, "exec-new", models.StepRecord{}))

	// Only terminal executions that ended before the cutoff are removed;
	// RUNNING executions are never swept.
	removed, err := store.Sweep(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = store.Get(ctx, "exec-old")
	assert.ErrorIs(t, err, tracker.ErrExecutionNotFound)

	snapshot, err := store.Get(ctx, "exec-running")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, snapshot.Status)
}

func TestMemoryStore_SweepRespectsCutoff(t *testing.T) {
	t.Parallel()

	store := tracker.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, runningExecution("exec-1")))
	require.NoError(t, store.Succeed(ctx, "exec-1", models.StepRecord{}))

	removed, err := store.Sweep(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = store.Get(ctx, "exec-1")
	require.NoError(t, err)
}
