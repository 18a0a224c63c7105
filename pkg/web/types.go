// Package web provides HTTP request and response types for the order API.
package web

import (
	"time"

	"github.com/gmaxsoft/orderflow/pkg/ledger"
	"github.com/gmaxsoft/orderflow/pkg/models"
	"github.com/gmaxsoft/orderflow/pkg/tracker"
)

// CreateOrderResponse is returned when a workflow execution was started.
type CreateOrderResponse struct {
	ExecutionID string `json:"executionId"`
	Message     string `json:"message"`
}

// StatusResponse reports the observable state of one execution. Error carries
// the error kind, Cause the human-readable message.
type StatusResponse struct {
	Status    models.ExecutionStatus `json:"status"`
	StartDate time.Time              `json:"startDate"`
	StopDate  *time.Time             `json:"stopDate,omitempty"`
	Output    *models.StepRecord     `json:"output,omitempty"`
	Error     *string                `json:"error,omitempty"`
	Cause     *string                `json:"cause,omitempty"`
}

// ListOrdersResponse is the read-through listing of recent confirmed orders.
type ListOrdersResponse struct {
	Orders []ledger.Order `json:"orders"`
}

// ListProductsResponse is the catalog read-through.
type ListProductsResponse struct {
	Products []models.Product `json:"products"`
}

// TransformStatusResponse maps a tracker snapshot onto the status contract.
func TransformStatusResponse(snapshot tracker.Snapshot) StatusResponse {
	response := StatusResponse{
		Status:    snapshot.Status,
		StartDate: snapshot.StartedAt,
		StopDate:  snapshot.EndedAt,
		Output:    snapshot.Output,
	}

	if snapshot.Error != nil {
		kind := string(snapshot.Error.Kind)
		cause := snapshot.Error.Message
		response.Error = &kind
		response.Cause = &cause
	}

	return response
}
