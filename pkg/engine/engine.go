// Package engine drives a single order through the stock-check, payment and
// persist pipeline, or diverts it to compensation. It owns the state machine,
// the two choice points and the per-step error semantics.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gmaxsoft/orderflow/pkg/inventory"
	"github.com/gmaxsoft/orderflow/pkg/ledger"
	"github.com/gmaxsoft/orderflow/pkg/models"
	"github.com/gmaxsoft/orderflow/pkg/notification"
	"github.com/gmaxsoft/orderflow/pkg/otelhelper"
	"github.com/gmaxsoft/orderflow/pkg/payment"
	"github.com/gmaxsoft/orderflow/pkg/tracker"
)

// Engine executes order workflows. Gateways are injected so tests can
// substitute fakes; the engine never reaches for ambient clients.
type Engine struct {
	inventory     inventory.Gateway
	payments      payment.Provider
	ledger        ledger.Gateway
	notifications notification.Gateway
	tracker       tracker.Store
	logger        *slog.Logger
	tracer        trace.Tracer

	executions sync.WaitGroup
}

func New(
	inventoryGateway inventory.Gateway,
	paymentProvider payment.Provider,
	ledgerGateway ledger.Gateway,
	notificationGateway notification.Gateway,
	store tracker.Store,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		inventory:     inventoryGateway,
		payments:      paymentProvider,
		ledger:        ledgerGateway,
		notifications: notificationGateway,
		tracker:       store,
		logger:        logger.With("module", "workflow_engine"),
		tracer:        otel.Tracer("github.com/gmaxsoft/orderflow/pkg/engine"),
	}
}

// Start records a RUNNING execution and runs the state machine on its own
// goroutine, detached from the caller's context so the execution outlives the
// triggering request. It returns the execution handle immediately.
func (e *Engine) Start(ctx context.Context, order models.OrderRequest) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate execution ID: %w", err)
	}

	execution := &models.Execution{
		ID:        "exec-" + id.String(),
		Order:     order,
		Status:    models.ExecutionStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	err = e.tracker.Create(ctx, execution)
	if err != nil {
		return "", fmt.Errorf("failed to create execution for order %s: %w", order.OrderID, err)
	}

	e.executions.Add(1)

	go e.run(context.WithoutCancel(ctx), execution)

	return execution.ID, nil
}

// Wait blocks until all in-flight executions finish. Used for graceful
// shutdown and by tests.
func (e *Engine) Wait() {
	e.executions.Wait()
}

// run executes the state machine: CheckStock, then the stock choice point,
// ProcessPayment, the payment choice point, and Persist or Rollback. Steps are
// strictly sequential; a gateway error at any step is fatal and ends the
// execution without entering Rollback.
func (e *Engine) run(ctx context.Context, execution *models.Execution) {
	defer e.executions.Done()

	logger := e.logger.With(
		"execution_id", execution.ID,
		"order_id", execution.Order.OrderID,
	)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
		attribute.String(otelhelper.OrderIDKey, execution.Order.OrderID),
		attribute.String(otelhelper.CustomerIDKey, execution.Order.CustomerID),
	)
	defer span.End()

	logger.InfoContext(ctx, "Starting order workflow execution")

	record := models.StepRecord{OrderRequest: execution.Order}

	err := e.checkStock(ctx, logger, &record)
	if err != nil {
		e.fatal(ctx, logger, span, execution.ID, err)

		return
	}

	if !record.InStock {
		e.rollback(ctx, logger, execution.ID, &record, "")

		return
	}

	err = e.processPayment(ctx, logger, &record)
	if err != nil {
		e.fatal(ctx, logger, span, execution.ID, err)

		return
	}

	if !record.PaymentSuccess {
		e.rollback(ctx, logger, execution.ID, &record, "")

		return
	}

	err = e.persist(ctx, logger, &record)
	if err != nil {
		e.fatal(ctx, logger, span, execution.ID, err)

		return
	}

	err = e.tracker.Succeed(ctx, execution.ID, record)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to record execution success", "error", err)

		return
	}

	logger.InfoContext(ctx, "Order workflow execution succeeded",
		"transaction_id", record.TransactionID)
}

// checkStock looks up the available quantity for each item. An insufficiency
// is a business outcome, never an engine error: the step always transitions
// forward and the choice point routes on InStock.
func (e *Engine) checkStock(ctx context.Context, logger *slog.Logger, record *models.StepRecord) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.check_stock",
		attribute.String(otelhelper.StepKey, "check_stock"),
	)
	defer span.End()

	logger.InfoContext(ctx, "Checking stock", "items", len(record.Items))

	insufficient := make([]string, 0)

	for _, item := range record.Items {
		available, err := e.inventory.Quantity(ctx, item.ProductID)
		if err != nil {
			otelhelper.SetError(span, err, attribute.String(otelhelper.ProductIDKey, item.ProductID))

			return fmt.Errorf("check stock for product %s: %w", item.ProductID, err)
		}

		switch {
		case available <= 0:
			insufficient = append(insufficient,
				fmt.Sprintf("productId %s: quantity in inventory is %d (must be > 0)", item.ProductID, available))
		case available < int64(item.Quantity):
			insufficient = append(insufficient,
				fmt.Sprintf("productId %s: requested %d, available %d", item.ProductID, item.Quantity, available))
		}
	}

	record.InStock = len(insufficient) == 0
	if !record.InStock {
		record.InsufficientProducts = insufficient

		logger.WarnContext(ctx, "Insufficient stock", "insufficient_products", insufficient)
	}

	return nil
}

// processPayment charges the caller-asserted total. Only reached when the
// stock choice point routed forward; a declined payment is a business outcome
// routed to Rollback by the next choice point.
func (e *Engine) processPayment(ctx context.Context, logger *slog.Logger, record *models.StepRecord) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.process_payment",
		attribute.String(otelhelper.StepKey, "process_payment"),
		attribute.Float64("orderflow.order.total_amount", record.TotalAmount),
	)
	defer span.End()

	logger.InfoContext(ctx, "Processing payment", "total_amount", record.TotalAmount)

	result, err := e.payments.Charge(ctx, record.OrderID, record.TotalAmount)
	if err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("process payment for order %s: %w", record.OrderID, err)
	}

	record.PaymentSuccess = result.Success
	record.TransactionID = result.TransactionID

	if result.Success {
		logger.InfoContext(ctx, "Payment successful", "transaction_id", result.TransactionID)
	} else {
		logger.WarnContext(ctx, "Payment declined")
	}

	return nil
}

// persist writes the confirmed order to the ledger, then decrements inventory
// for every item. Only reached when payment succeeded. A partial failure here
// is fatal and reported as-is; it is not compensated.
func (e *Engine) persist(ctx context.Context, logger *slog.Logger, record *models.StepRecord) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.persist",
		attribute.String(otelhelper.StepKey, "persist"),
	)
	defer span.End()

	logger.InfoContext(ctx, "Persisting confirmed order")

	err := e.ledger.UpsertOrder(ctx, record.OrderID, record.CustomerID, record.TotalAmount, ledger.StatusConfirmed)
	if err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("persist order %s: %w", record.OrderID, err)
	}

	for _, item := range record.Items {
		err = e.ledger.InsertLineItem(ctx, record.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			otelhelper.SetError(span, err, attribute.String(otelhelper.ProductIDKey, item.ProductID))

			return fmt.Errorf("persist line item %s for order %s: %w", item.ProductID, record.OrderID, err)
		}
	}

	for _, item := range record.Items {
		err = e.inventory.Decrement(ctx, item.ProductID, int64(item.Quantity))
		if err != nil {
			otelhelper.SetError(span, err, attribute.String(otelhelper.ProductIDKey, item.ProductID))

			return fmt.Errorf("decrement inventory for product %s: %w", item.ProductID, err)
		}
	}

	logger.InfoContext(ctx, "Order persisted and inventory decremented")

	return nil
}

// rollback is the compensation sink, reached only from the two choice points.
// It publishes exactly one rollback event and ends the execution FAILED with a
// Compensated error. A publish failure is itself fatal and reported.
func (e *Engine) rollback(ctx context.Context, logger *slog.Logger, executionID string, record *models.StepRecord, stepError string) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.rollback",
		attribute.String(otelhelper.StepKey, "rollback"),
	)
	defer span.End()

	reason := rollbackReason(record, stepError)

	logger.WarnContext(ctx, "Entering rollback", "reason", reason)

	err := e.notifications.PublishRollback(ctx, notification.RollbackEvent{
		OrderID:   record.OrderID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		e.fatal(ctx, logger, span, executionID, fmt.Errorf("publish rollback event for order %s: %w", record.OrderID, err))

		return
	}

	err = e.tracker.Fail(ctx, executionID, models.ExecutionStatusFailed, models.ExecutionError{
		Kind:    models.ErrorKindCompensated,
		Message: reason,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to record compensated execution", "error", err)

		return
	}

	logger.InfoContext(ctx, "Rollback event published", "reason", reason)
}

func (e *Engine) fatal(ctx context.Context, logger *slog.Logger, span trace.Span, executionID string, stepErr error) {
	otelhelper.SetError(span, stepErr)
	logger.ErrorContext(ctx, "Execution failed", "error", stepErr)

	err := e.tracker.Fail(ctx, executionID, models.ExecutionStatusFailed, models.ExecutionError{
		Kind:    models.ErrorKindGateway,
		Message: stepErr.Error(),
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to record execution failure", "error", err)
	}
}

// rollbackReason derives the compensation reason: explicit step error first,
// then the insufficiency outcome, then the generic payment failure.
func rollbackReason(record *models.StepRecord, stepError string) string {
	if stepError != "" {
		return stepError
	}

	if len(record.InsufficientProducts) > 0 {
		return "Insufficient stock"
	}

	return "Payment or processing failed"
}
