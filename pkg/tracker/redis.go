package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/gmaxsoft/orderflow/pkg/models"
)

const executionKeyPrefix = "orderflow:execution:"

// Redis is an execution store backed by one JSON document per execution.
// Every transition rewrites the whole document in a single SET, so a reader
// always observes a point-in-time state. The engine is the sole writer for an
// execution, which keeps the read-modify-write transitions race-free.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Create(ctx context.Context, execution *models.Execution) error {
	payload, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	created, err := r.client.SetNX(ctx, executionKeyPrefix+execution.ID, payload, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to store execution %s: %w", execution.ID, err)
	}

	if !created {
		return ErrExecutionExists
	}

	return nil
}

func (r *Redis) Succeed(ctx context.Context, executionID string, output models.StepRecord) error {
	return r.transition(ctx, executionID, func(execution *models.Execution) {
		now := time.Now().UTC()
		execution.Status = models.ExecutionStatusSucceeded
		execution.EndedAt = &now
		execution.Output = &output
	})
}

func (r *Redis) Fail(ctx context.Context, executionID string, status models.ExecutionStatus, execErr models.ExecutionError) error {
	return r.transition(ctx, executionID, func(execution *models.Execution) {
		now := time.Now().UTC()
		execution.Status = status
		execution.EndedAt = &now
		execution.Error = &execErr
	})
}

func (r *Redis) transition(ctx context.Context, executionID string, apply func(*models.Execution)) error {
	execution, err := r.load(ctx, executionID)
	if err != nil {
		return err
	}

	if execution.Status.Terminal() {
		return ErrExecutionTerminal
	}

	apply(execution)

	payload, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", executionID, err)
	}

	err = r.client.Set(ctx, executionKeyPrefix+executionID, payload, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to store execution %s: %w", executionID, err)
	}

	return nil
}

func (r *Redis) Get(ctx context.Context, executionID string) (Snapshot, error) {
	execution, err := r.load(ctx, executionID)
	if err != nil {
		return Snapshot{}, err
	}

	return snapshotOf(execution), nil
}

func (r *Redis) Sweep(ctx context.Context, endedBefore time.Time) (int, error) {
	removed := 0

	iter := r.client.Scan(ctx, 0, executionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		execution, err := r.load(ctx, key[len(executionKeyPrefix):])
		if err != nil {
			if IsExecutionNotFound(err) {
				continue
			}

			return removed, err
		}

		if execution.Status.Terminal() && execution.EndedAt != nil && execution.EndedAt.Before(endedBefore) {
			err = r.client.Del(ctx, key).Err()
			if err != nil {
				return removed, fmt.Errorf("failed to delete execution %s: %w", key, err)
			}

			removed++
		}
	}

	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan executions: %w", err)
	}

	return removed, nil
}

func (r *Redis) HealthCheck(ctx context.Context) error {
	err := r.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (r *Redis) load(ctx context.Context, executionID string) (*models.Execution, error) {
	payload, err := r.client.Get(ctx, executionKeyPrefix+executionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to read execution %s: %w", executionID, err)
	}

	var execution models.Execution

	err = json.Unmarshal(payload, &execution)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution %s: %w", executionID, err)
	}

	return &execution, nil
}
