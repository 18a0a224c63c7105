package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/gmaxsoft/orderflow/pkg/models"
)

const productKeyPrefix = "orderflow:product:"

// Redis implements the inventory gateway on a Redis hash per product.
// Decrements use HINCRBY, which is atomic server-side, so concurrent orders
// for the same product never lose updates.
type Redis struct {
	client redis.UniversalClient
	logger *slog.Logger
}

func NewRedis(client redis.UniversalClient, logger *slog.Logger) *Redis {
	return &Redis{
		client: client,
		logger: logger.With("module", "inventory_redis"),
	}
}

func (r *Redis) Quantity(ctx context.Context, productID string) (int64, error) {
	value, err := r.client.HGet(ctx, productKeyPrefix+productID, "quantity").Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to read quantity for product %s: %w", productID, err)
	}

	quantity, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity for product %s: %w", productID, err)
	}

	return quantity, nil
}

func (r *Redis) Decrement(ctx context.Context, productID string, amount int64) error {
	err := r.client.HIncrBy(ctx, productKeyPrefix+productID, "quantity", -amount).Err()
	if err != nil {
		return fmt.Errorf("failed to decrement quantity for product %s: %w", productID, err)
	}

	return nil
}

func (r *Redis) Products(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)

	iter := r.client.Scan(ctx, 0, productKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		fields, err := r.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read product %s: %w", key, err)
		}

		products = append(products, productFromHash(key[len(productKeyPrefix):], fields))
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	return products, nil
}

func (r *Redis) SaveProduct(ctx context.Context, product models.Product) error {
	err := r.client.HSet(ctx, productKeyPrefix+product.ProductID,
		"name", product.Name,
		"quantity", product.Quantity,
		"price", product.Price,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", product.ProductID, err)
	}

	return nil
}

func (r *Redis) HealthCheck(ctx context.Context) error {
	err := r.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func productFromHash(productID string, fields map[string]string) models.Product {
	product := models.Product{
		ProductID: productID,
		Name:      fields["name"],
	}

	if product.Name == "" {
		product.Name = productID
	}

	if quantity, err := strconv.ParseInt(fields["quantity"], 10, 64); err == nil {
		product.Quantity = quantity
	}

	if price, err := strconv.ParseFloat(fields["price"], 64); err == nil {
		product.Price = price
	}

	return product
}
