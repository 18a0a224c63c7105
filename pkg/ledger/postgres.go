package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/gmaxsoft/orderflow/pkg/models"
)

// Postgres implements the ledger gateway on PostgreSQL.
type Postgres struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgres opens the database, verifies connectivity and runs migrations.
func NewPostgres(ctx context.Context, logger *slog.Logger, databaseURL string) (*Postgres, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	postgres := &Postgres{
		db:     database,
		logger: logger.With("module", "ledger_postgres"),
	}

	err = newMigrationManager(postgres.logger, database).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

func (p *Postgres) UpsertOrder(ctx context.Context, orderID, customerID string, totalAmount float64, status string) error {
	query := `
		INSERT INTO orders (id, customer_id, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`

	_, err := p.db.ExecContext(ctx, query, orderID, customerID, totalAmount, status)
	if err != nil {
		return fmt.Errorf("failed to upsert order %s: %w", orderID, err)
	}

	return nil
}

func (p *Postgres) InsertLineItem(ctx context.Context, orderID, productID string, quantity int, unitPrice float64) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.db.ExecContext(ctx, query, orderID, productID, quantity, unitPrice)
	if err != nil {
		return fmt.Errorf("failed to insert line item for order %s: %w", orderID, err)
	}

	return nil
}

func (p *Postgres) ConfirmedOrders(ctx context.Context, limit int) ([]Order, error) {
	query := `
		SELECT
			id
		  , customer_id
		  , total_amount
		  , status
		  , created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	orders := make([]Order, 0)

	for rows.Next() {
		var order Order

		err = rows.Scan(&order.ID, &order.CustomerID, &order.TotalAmount, &order.Status, &order.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range orders {
		orders[i].Items, err = p.lineItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (p *Postgres) lineItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `
		SELECT product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := p.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for order %s: %w", orderID, err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	items := make([]models.OrderItem, 0)

	for rows.Next() {
		var item models.OrderItem

		err = rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}

		items = append(items, item)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating line items: %w", err)
	}

	return items, nil
}

func (p *Postgres) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Postgres) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
