package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/gmaxsoft/orderflow/pkg/engine"
	"github.com/gmaxsoft/orderflow/pkg/inventory"
	"github.com/gmaxsoft/orderflow/pkg/ledger"
	"github.com/gmaxsoft/orderflow/pkg/models"
	"github.com/gmaxsoft/orderflow/pkg/tracker"
)

const ordersListLimit = 10

type APIHandlers struct {
	engine    *engine.Engine
	tracker   tracker.Store
	ledger    ledger.Gateway
	inventory inventory.Gateway
	validator *validator.Validate
}

func NewAPIHandlers(
	workflowEngine *engine.Engine,
	store tracker.Store,
	ledgerGateway ledger.Gateway,
	inventoryGateway inventory.Gateway,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		engine:    workflowEngine,
		tracker:   store,
		ledger:    ledgerGateway,
		inventory: inventoryGateway,
		validator: validator,
	}
}

// CreateOrder validates the intake payload and starts a workflow execution.
// It returns the execution handle immediately and never blocks on workflow
// completion.
func (h *APIHandlers) CreateOrder(c fiber.Ctx) error {
	body := c.Body()

	violations, err := models.ValidateOrderPayload(body)
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if len(violations) > 0 {
		return badRequest(c, "Invalid order request: "+strings.Join(violations, "; "))
	}

	var req models.OrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	executionID, err := h.engine.Start(c.Context(), req)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(CreateOrderResponse{
		ExecutionID: executionID,
		Message:     "Order processing started",
	})
}

// GetOrderStatus reports the execution snapshot for the polling path.
func (h *APIHandlers) GetOrderStatus(c fiber.Ctx) error {
	executionID := c.Query("executionId")
	if executionID == "" {
		return badRequest(c, "Missing executionId")
	}

	snapshot, err := h.tracker.Get(c.Context(), executionID)
	if err != nil {
		if tracker.IsExecutionNotFound(err) {
			return notFound(c, "Execution not found")
		}

		return internalError(c, err)
	}

	return c.JSON(TransformStatusResponse(snapshot))
}

// ListOrders is a pure read-through to the ledger, no workflow semantics.
func (h *APIHandlers) ListOrders(c fiber.Ctx) error {
	orders, err := h.ledger.ConfirmedOrders(c.Context(), ordersListLimit)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(ListOrdersResponse{Orders: orders})
}

// ListProducts is a pure read-through to the inventory gateway.
func (h *APIHandlers) ListProducts(c fiber.Ctx) error {
	products, err := h.inventory.Products(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(ListProductsResponse{Products: products})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	ledgerErr := h.ledger.HealthCheck(c.Context())
	inventoryErr := h.inventory.HealthCheck(c.Context())
	trackerErr := h.tracker.HealthCheck(c.Context())

	status := "healthy"
	message := "Orderflow API is healthy"
	httpStatus := http.StatusOK

	if ledgerErr != nil || inventoryErr != nil || trackerErr != nil {
		status = "unhealthy"
		message = "Orderflow API is unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"ledger":    healthResult(ledgerErr),
			"inventory": healthResult(inventoryErr),
			"tracker":   healthResult(trackerErr),
		},
		"timestamp": time.Now().UTC(),
	})
}

func healthResult(err error) string {
	if err != nil {
		return err.Error()
	}

	return "ok"
}
