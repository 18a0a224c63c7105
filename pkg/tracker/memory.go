package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/gmaxsoft/orderflow/pkg/models"
)

// Memory is an in-memory execution store. Snapshots are deep copies taken
// under the lock, so a concurrent transition can never produce a torn read.
type Memory struct {
	mu         sync.RWMutex
	executions map[string]*models.Execution
}

func NewMemory() *Memory {
	return &Memory{
		executions: make(map[string]*models.Execution),
	}
}

func (m *Memory) Create(_ context.Context, execution *models.Execution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.executions[execution.ID]; ok {
		return ErrExecutionExists
	}

	stored := *execution
	m.executions[execution.ID] = &stored

	return nil
}

func (m *Memory) Succeed(_ context.Context, executionID string, output models.StepRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	execution, ok := m.executions[executionID]
	if !ok {
		return ErrExecutionNotFound
	}

	if execution.Status.Terminal() {
		return ErrExecutionTerminal
	}

	now := time.Now().UTC()
	execution.Status = models.ExecutionStatusSucceeded
	execution.EndedAt = &now
	execution.Output = &output

	return nil
}

func (m *Memory) Fail(_ context.Context, executionID string, status models.ExecutionStatus, execErr models.ExecutionError) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	execution, ok := m.executions[executionID]
	if !ok {
		return ErrExecutionNotFound
	}

	if execution.Status.Terminal() {
		return ErrExecutionTerminal
	}

	now := time.Now().UTC()
	execution.Status = status
	execution.EndedAt = &now
	execution.Error = &execErr

	return nil
}

func (m *Memory) Get(_ context.Context, executionID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	execution, ok := m.executions[executionID]
	if !ok {
		return Snapshot{}, ErrExecutionNotFound
	}

	return snapshotOf(execution), nil
}

func (m *Memory) Sweep(_ context.Context, endedBefore time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0

	for id, execution := range m.executions {
		if execution.Status.Terminal() && execution.EndedAt != nil && execution.EndedAt.Before(endedBefore) {
			delete(m.executions, id)

			removed++
		}
	}

	return removed, nil
}

func (m *Memory) HealthCheck(_ context.Context) error {
	return nil
}

// snapshotOf copies the execution's observable fields. Intermediate step data
// is exposed only through the terminal output, never while RUNNING.
func snapshotOf(execution *models.Execution) Snapshot {
	snapshot := Snapshot{
		ExecutionID: execution.ID,
		Status:      execution.Status,
		StartedAt:   execution.StartedAt,
	}

	if execution.EndedAt != nil {
		endedAt := *execution.EndedAt
		snapshot.EndedAt = &endedAt
	}

	if execution.Output != nil {
		output := *execution.Output
		output.Items = append([]models.OrderItem(nil), execution.Output.Items...)
		output.InsufficientProducts = append([]string(nil), execution.Output.InsufficientProducts...)
		snapshot.Output = &output
	}

	if execution.Error != nil {
		execErr := *execution.Error
		snapshot.Error = &execErr
	}

	return snapshot
}
