package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ravitejak99/storefront-go/internal/models"
	"github.com/ravitejak99/storefront-go/internal/orders"
)

const productColumns = "id, name, description, category, price, stock_quantity, image_url, created_at"

// InventoryRepository adjusts product stock counters. The check and the
// decrement happen in a single guarded UPDATE, so concurrent
// reservations for the same product can never both take the last unit.
type InventoryRepository struct {
	q querier
}

func scanProduct(row *sql.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.StockQuantity, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProduct returns the product or orders.ErrProductNotFound.
func (r *InventoryRepository) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	p, err := scanProduct(r.q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, orders.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Reserve decrements stock by qty if enough is available.
func (r *InventoryRepository) Reserve(ctx context.Context, id, qty int) (*models.Product, error) {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $2
		WHERE id = $1 AND stock_quantity >= $2
		RETURNING ` + productColumns

	p, err := scanProduct(r.q.QueryRowContext(ctx, query, id, qty))
	if err == sql.ErrNoRows {
		// Either the product is missing or the stock was short; look it
		// up to tell the two apart.
		var name string
		nameErr := r.q.QueryRowContext(ctx, "SELECT name FROM products WHERE id = $1", id).Scan(&name)
		if nameErr == sql.ErrNoRows {
			return nil, orders.ErrProductNotFound
		}
		if nameErr != nil {
			return nil, fmt.Errorf("failed to check product: %w", nameErr)
		}
		return nil, &orders.InsufficientStockError{ProductName: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}
	return p, nil
}

// Release increments stock by qty.
func (r *InventoryRepository) Release(ctx context.Context, id, qty int) (*models.Product, error) {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $2
		WHERE id = $1
		RETURNING ` + productColumns

	p, err := scanProduct(r.q.QueryRowContext(ctx, query, id, qty))
	if err == sql.ErrNoRows {
		return nil, orders.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to release stock: %w", err)
	}
	return p, nil
}
