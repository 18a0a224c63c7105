package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

const currentSchemaVersion = 1

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE orders (
				id VARCHAR(255) PRIMARY KEY,
				customer_id VARCHAR(255) NOT NULL,
				total_amount NUMERIC(12,2) NOT NULL,
				status VARCHAR(50) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_orders_status ON orders(status);
			CREATE INDEX idx_orders_created_at ON orders(created_at);

			CREATE TABLE order_items (
				id SERIAL PRIMARY KEY,
				order_id VARCHAR(255) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
				product_id VARCHAR(255) NOT NULL,
				quantity INT NOT NULL,
				unit_price NUMERIC(12,2) NOT NULL
			);

			CREATE INDEX idx_order_items_order_id ON order_items(order_id);
		`,
	}
}

// migrationManager handles ledger schema creation and updates.
type migrationManager struct {
	db         *sql.DB
	logger     *slog.Logger
	migrations map[int]string
}

func newMigrationManager(logger *slog.Logger, db *sql.DB) *migrationManager {
	return &migrationManager{
		db:         db,
		logger:     logger,
		migrations: migrations(),
	}
}

func (m *migrationManager) Run(ctx context.Context) error {
	m.logger.InfoContext(ctx, "Starting ledger migrations")

	err := m.createMigrationsTable(ctx)
	if err != nil {
		return err
	}

	currentVersion, err := m.currentSchemaVersion(ctx)
	if err != nil {
		return err
	}

	if currentVersion < currentSchemaVersion {
		err = m.applyMigrations(ctx, currentVersion)
		if err != nil {
			return err
		}
	}

	m.logger.InfoContext(ctx, "Ledger migrations completed", "version", currentSchemaVersion)

	return nil
}

func (m *migrationManager) createMigrationsTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	return nil
}

func (m *migrationManager) currentSchemaVersion(ctx context.Context) (int, error) {
	var version int

	err := m.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to query current schema version: %w", err)
	}

	return version, nil
}

func (m *migrationManager) applyMigrations(ctx context.Context, fromVersion int) error {
	for version := fromVersion + 1; version <= currentSchemaVersion; version++ {
		migration, ok := m.migrations[version]
		if !ok {
			return fmt.Errorf("missing migration for version %d", version)
		}

		m.logger.InfoContext(ctx, "Applying ledger migration", "version", version)

		transaction, err := m.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", version, err)
		}

		_, err = transaction.ExecContext(ctx, migration)
		if err != nil {
			_ = transaction.Rollback()

			return fmt.Errorf("failed to execute migration %d: %w", version, err)
		}

		_, err = transaction.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version)
		if err != nil {
			_ = transaction.Rollback()

			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}

		err = transaction.Commit()
		if err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", version, err)
		}
	}

	return nil
}
