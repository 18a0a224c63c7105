package web_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaxsoft/orderflow/pkg/models"
	"github.com/gmaxsoft/orderflow/pkg/tracker"
	"github.com/gmaxsoft/orderflow/pkg/web"
)

func TestTransformStatusResponse_Running(t *testing.T) {
	t.Parallel()

	started := time.Now().UTC()

	response := web.TransformStatusResponse(tracker.Snapshot{
		ExecutionID: "exec-1",
		Status:      models.ExecutionStatusRunning,
		StartedAt:   started,
	})

	assert.Equal(t, models.ExecutionStatusRunning, response.Status)
	assert.Equal(t, started, response.StartDate)
	assert.Nil(t, response.StopDate)
	assert.Nil(t, response.Output)
	assert.Nil(t, response.Error)
	assert.Nil(t, response.Cause)
}

func TestTransformStatusResponse_Succeeded(t *testing.T) {
	t.Parallel()

	ended := time.Now().UTC()
	output := &models.StepRecord{TransactionID: "txn-1", InStock: true, PaymentSuccess: true}

	response := web.TransformStatusResponse(tracker.Snapshot{
		ExecutionID: "exec-1",
		Status:      models.ExecutionStatusSucceeded,
		StartedAt:   ended.Add(-time.Second),
		EndedAt:     &ended,
		Output:      output,
	})

	assert.Equal(t, models.ExecutionStatusSucceeded, response.Status)
	require.NotNil(t, response.StopDate)
	assert.Equal(t, ended, *response.StopDate)
	assert.Same(t, output, response.Output)
	assert.Nil(t, response.Error)
}

func TestTransformStatusResponse_Failed(t *testing.T) {
	t.Parallel()

	ended := time.Now().UTC()

	response := web.TransformStatusResponse(tracker.Snapshot{
		ExecutionID: "exec-1",
		Status:      models.ExecutionStatusFailed,
		StartedAt:   ended.Add(-time.Second),
		EndedAt:     &ended,
		Error: &models.ExecutionError{
			Kind:    models.ErrorKindCompensated,
			Message: "Insufficient stock",
		},
	})

	assert.Equal(t, models.ExecutionStatusFailed, response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "Compensated", *response.Error)
	require.NotNil(t, response.Cause)
	assert.Equal(t, "Insufficient stock", *response.Cause)
}
