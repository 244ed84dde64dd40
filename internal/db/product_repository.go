package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ravitejak99/storefront-go/internal/models"
	"github.com/ravitejak99/storefront-go/internal/orders"
)

// ProductRepository is the catalog store. Stock mutation does not live
// here; the lifecycle engine adjusts stock through InventoryRepository.
type ProductRepository struct {
	q querier
}

func NewProductRepository(database *PostgresDB) *ProductRepository {
	return &ProductRepository{q: database.Conn}
}

// productFilterQuery builds the catalog listing query. Category matches
// as a case-insensitive substring; price bounds are inclusive.
func productFilterQuery(filter models.ProductFilter) (string, []any) {
	query := "SELECT " + productColumns + " FROM products WHERE TRUE"
	var args []any

	if filter.Category != nil {
		args = append(args, "%"+*filter.Category+"%")
		query += fmt.Sprintf(" AND category ILIKE $%d", len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		query += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	query += " ORDER BY id"
	return query, args
}

// GetAll returns products matching the filter.
func (r *ProductRepository) GetAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query, args := productFilterQuery(filter)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.StockQuantity, &p.ImageURL, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// GetByID returns a single product or orders.ErrProductNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, orders.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	query := `
		INSERT INTO products (name, description, category, price, stock_quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	p, err := scanProduct(r.q.QueryRowContext(ctx, query,
		req.Name, req.Description, req.Category, req.Price, req.StockQuantity, req.ImageURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return p, nil
}

// Update replaces the catalog fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, id int, req models.CreateProductRequest) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, stock_quantity = $5, image_url = $6
		WHERE id = $7
		RETURNING ` + productColumns

	p, err := scanProduct(r.q.QueryRowContext(ctx, query,
		req.Name, req.Description, req.Category, req.Price, req.StockQuantity, req.ImageURL, id))
	if err == sql.ErrNoRows {
		return nil, orders.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return p, nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return orders.ErrProductNotFound
	}

	return nil
}
