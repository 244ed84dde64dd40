package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ravitejak99/storefront-go/internal/models"
	"github.com/ravitejak99/storefront-go/internal/orders"
)

type OrderRepository struct {
	q querier
}

// Create inserts the order and all its items. When run inside a unit of
// work the insert shares the engine's transaction; ids and the creation
// timestamp are written back into order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	orderQuery := `
		INSERT INTO orders (user_id, customer_name, customer_email, shipping_address, status, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.q.QueryRowContext(ctx, orderQuery,
		order.UserID,
		order.CustomerName,
		order.CustomerEmail,
		order.ShippingAddress,
		order.Status,
		order.TotalAmount,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		err = r.q.QueryRowContext(ctx, itemQuery,
			order.ID,
			order.Items[i].ProductID,
			order.Items[i].ProductName,
			order.Items[i].Quantity,
			order.Items[i].PriceAtPurchase,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

// GetAll returns all orders with their items, oldest first.
func (r *OrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	query := `SELECT id, user_id, customer_name, customer_email, shipping_address, status, total_amount, created_at FROM orders ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var list []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.ShippingAddress, &o.Status, &o.TotalAmount, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	for i := range list {
		items, err := r.itemsFor(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Items = items
	}

	return list, nil
}

// GetByID returns a single order with items.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	return r.getByID(ctx, id, false)
}

// GetForUpdate returns the order and holds its row lock until the
// transaction ends. Under read committed two cancellations could
// otherwise both read PENDING and both restore stock; the lock
// serializes them so the second one sees CANCELLED.
func (r *OrderRepository) GetForUpdate(ctx context.Context, id int) (*models.Order, error) {
	return r.getByID(ctx, id, true)
}

func (r *OrderRepository) getByID(ctx context.Context, id int, lock bool) (*models.Order, error) {
	query := `SELECT id, user_id, customer_name, customer_email, shipping_address, status, total_amount, created_at FROM orders WHERE id = $1`
	if lock {
		query += " FOR UPDATE"
	}

	var o models.Order
	err := r.q.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.ShippingAddress, &o.Status, &o.TotalAmount, &o.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, orders.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *OrderRepository) itemsFor(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	query := `SELECT id, order_id, product_id, product_name, quantity, price_at_purchase FROM order_items WHERE order_id = $1 ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.PriceAtPurchase)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus updates order status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return orders.ErrOrderNotFound
	}

	return nil
}

// Delete removes the order and, through ON DELETE CASCADE, all its
// items.
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return orders.ErrOrderNotFound
	}

	return nil
}
