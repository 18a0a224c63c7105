package models

import "time"

// ExecutionStatus represents the lifecycle state of a workflow execution.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "RUNNING"
	ExecutionStatusSucceeded ExecutionStatus = "SUCCEEDED"
	ExecutionStatusFailed    ExecutionStatus = "FAILED"
	ExecutionStatusTimedOut  ExecutionStatus = "TIMED_OUT"
	ExecutionStatusAborted   ExecutionStatus = "ABORTED"
)

// Terminal reports whether the status is final. RUNNING is the only
// non-terminal value.
func (s ExecutionStatus) Terminal() bool {
	return s != ExecutionStatusRunning
}

// ErrorKind classifies a terminal execution error.
type ErrorKind string

const (
	// ErrorKindCompensated marks a business-outcome failure that ended in the
	// rollback branch (insufficient stock, payment declined).
	ErrorKindCompensated ErrorKind = "Compensated"

	// ErrorKindGateway marks a transport or storage level failure of one of
	// the external gateways. Fatal, never compensated.
	ErrorKindGateway ErrorKind = "GatewayError"
)

// ExecutionError is the terminal error of a failed execution.
type ExecutionError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// StepRecord is the output contract each pipeline step threads to the next.
// Steps are additive: a later step never discards an earlier step's fields.
type StepRecord struct {
	OrderRequest

	InStock              bool     `json:"inStock"`
	InsufficientProducts []string `json:"insufficientProducts,omitempty"`
	PaymentSuccess       bool     `json:"paymentSuccess"`
	TransactionID        string   `json:"transactionId,omitempty"`
}

// Execution is one run of the workflow state machine for a single order
// request. It is owned exclusively by the workflow engine: mutated only as the
// engine advances through steps, terminal exactly once, immutable after.
type Execution struct {
	ID        string          `json:"id"`
	Order     OrderRequest    `json:"order"`
	Status    ExecutionStatus `json:"status"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Output    *StepRecord     `json:"output,omitempty"`
	Error     *ExecutionError `json:"error,omitempty"`
}
