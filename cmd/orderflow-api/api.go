// Package main provides the Orderflow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/gmaxsoft/orderflow/pkg/engine"
	"github.com/gmaxsoft/orderflow/pkg/inventory"
	"github.com/gmaxsoft/orderflow/pkg/ledger"
	"github.com/gmaxsoft/orderflow/pkg/tracker"
	"github.com/gmaxsoft/orderflow/pkg/web"
)

type API struct {
	logger    *slog.Logger
	engine    *engine.Engine
	tracker   tracker.Store
	ledger    ledger.Gateway
	inventory inventory.Gateway
	validate  *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	workflowEngine *engine.Engine,
	store tracker.Store,
	ledgerGateway ledger.Gateway,
	inventoryGateway inventory.Gateway,
) *API {
	return &API{
		logger:    logger,
		engine:    workflowEngine,
		tracker:   store,
		ledger:    ledgerGateway,
		inventory: inventoryGateway,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.engine, a.tracker, a.ledger, a.inventory, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Orderflow API")
	})

	orders := app.Group("/orders")
	orders.Post("/", handlers.CreateOrder)
	orders.Get("/status", handlers.GetOrderStatus)
	orders.Get("/list", handlers.ListOrders)

	app.Get("/products", handlers.ListProducts)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
