package orders

import (
	"context"

	"github.com/ravitejak99/storefront-go/internal/models"
)

// InventoryStore reads products and adjusts their stock counters.
// Reserve and Release must be atomic per call: the stock check and the
// decrement happen as one step, so two concurrent reservations can never
// both succeed on the last unit.
type InventoryStore interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	// Reserve decrements stock by qty if at least qty is available.
	// Returns ErrProductNotFound or *InsufficientStockError on failure.
	Reserve(ctx context.Context, id, qty int) (*models.Product, error)
	// Release increments stock by qty. Returns ErrProductNotFound if the
	// product no longer exists.
	Release(ctx context.Context, id, qty int) (*models.Product, error)
}

// OrderStore persists orders together with their line items.
type OrderStore interface {
	// Create persists the order and all its items as one unit, filling in
	// generated ids and the creation timestamp.
	Create(ctx context.Context, order *models.Order) error
	// GetByID returns the order with its items, or ErrOrderNotFound.
	GetByID(ctx context.Context, id int) (*models.Order, error)
	// GetForUpdate is GetByID but holds the order's row lock for the
	// rest of the transaction, so concurrent status changes and deletes
	// of the same order serialize on the load instead of racing.
	GetForUpdate(ctx context.Context, id int) (*models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error
	// Delete removes the order and all its items. Returns ErrOrderNotFound
	// if no such order exists.
	Delete(ctx context.Context, id int) error
}

// UserStore resolves the order's owner reference.
type UserStore interface {
	// GetByID returns the user or ErrUserNotFound.
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Tx groups the stores visible inside one unit of work.
type Tx interface {
	Inventory() InventoryStore
	Orders() OrderStore
	Users() UserStore
}

// UnitOfWork runs fn inside a single transaction. If fn returns an
// error, every store call it made is rolled back; otherwise all of them
// commit together. A failed commit or rollback surfaces as an error
// distinct from whatever fn returned.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}
