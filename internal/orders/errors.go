package orders

import (
	"errors"
	"fmt"

	"github.com/ravitejak99/storefront-go/internal/models"
)

// Business-rule failures are typed so callers match them structurally
// instead of parsing messages.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderFinalized  = errors.New("cannot change status of delivered order")
	ErrInvalidRequest  = errors.New("invalid order request")
)

// InsufficientStockError reports which product could not cover the
// requested quantity.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product: %s", e.ProductName)
}

// InvalidStatusError reports an unrecognized status value together with
// the allowed set.
type InvalidStatusError struct {
	Value   string
	Allowed []models.OrderStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status: %q, allowed values: %v", e.Value, e.Allowed)
}

// IllegalCancellationError reports a cancellation attempt from a status
// that does not permit it.
type IllegalCancellationError struct {
	Current models.OrderStatus
}

func (e *IllegalCancellationError) Error() string {
	return fmt.Sprintf("can only cancel PENDING or PROCESSING orders, current status: %s", e.Current)
}
