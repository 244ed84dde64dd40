package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ravitejak99/storefront-go/internal/models"
)

// EventPublisher announces lifecycle events after they are committed.
type EventPublisher interface {
	PublishOrderCreated(order *models.Order) error
	PublishOrderCancelled(order *models.Order) error
}

// Service is the order lifecycle engine. Every operation runs as one
// unit of work spanning the inventory store and the order store: either
// all of its reads and writes commit, or none do.
type Service struct {
	store UnitOfWork
	pub   EventPublisher
}

// NewService creates the engine. pub may be nil, in which case no events
// are published.
func NewService(store UnitOfWork, pub EventPublisher) *Service {
	return &Service{store: store, pub: pub}
}

// CreateOrder validates the request, reserves stock for every line item
// and persists the order with status PENDING. Prices are captured at
// reservation time and the total is the sum over the captured prices.
// If any item fails, reservations already made for earlier items in the
// request are rolled back with the transaction.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidRequest)
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1 for product %d", ErrInvalidRequest, item.ProductID)
		}
	}

	order := &models.Order{
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		Status:          models.StatusPending,
		CreatedAt:       time.Now(),
	}

	err := s.store.Do(ctx, func(tx Tx) error {
		if _, err := tx.Users().GetByID(ctx, req.UserID); err != nil {
			return err
		}

		var total float64
		for _, item := range req.Items {
			product, err := tx.Inventory().Reserve(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID:       product.ID,
				ProductName:     product.Name,
				Quantity:        item.Quantity,
				PriceAtPurchase: product.Price,
			})
			total += product.Price * float64(item.Quantity)
		}
		order.TotalAmount = total

		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.pub != nil {
		if err := s.pub.PublishOrderCreated(order); err != nil {
			log.Printf("⚠️ Failed to publish order.created for order #%d: %v", order.ID, err)
		}
	}

	return order, nil
}

// GetOrder returns the order with its items.
func (s *Service) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	var order *models.Order
	err := s.store.Do(ctx, func(tx Tx) error {
		var err error
		order, err = tx.Orders().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns all orders in creation order.
func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	var all []models.Order
	err := s.store.Do(ctx, func(tx Tx) error {
		var err error
		all, err = tx.Orders().GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// UpdateStatus moves the order to the requested status if the policy
// allows it. A transition to CANCELLED restores every item's quantity to
// its product's stock in the same transaction as the status write, so
// the release and the status change are applied together or not at all.
func (s *Service) UpdateStatus(ctx context.Context, id int, requested string) (*models.Order, error) {
	status, err := NormalizeStatus(requested)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.store.Do(ctx, func(tx Tx) error {
		// Lock the order row so two concurrent cancellations cannot both
		// read a cancellable status and both restore stock.
		var err error
		order, err = tx.Orders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := CanTransition(order.Status, status); err != nil {
			return err
		}

		if status == models.StatusCancelled {
			for _, item := range order.Items {
				if _, err := tx.Inventory().Release(ctx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("failed to restore stock for product %d: %w", item.ProductID, err)
				}
			}
		}

		if err := tx.Orders().UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == models.StatusCancelled && s.pub != nil {
		if err := s.pub.PublishOrderCancelled(order); err != nil {
			log.Printf("⚠️ Failed to publish order.cancelled for order #%d: %v", order.ID, err)
		}
	}

	return order, nil
}

// CancelOrder is UpdateStatus with CANCELLED as the target. The same
// policy applies: only PENDING or PROCESSING orders can be cancelled,
// so a second cancellation is rejected and stock is never restored
// twice.
func (s *Service) CancelOrder(ctx context.Context, id int) (*models.Order, error) {
	return s.UpdateStatus(ctx, id, string(models.StatusCancelled))
}

// DeleteOrder removes the order and its items. Stock is not restored;
// deletion is an administrative operation, not a cancellation.
func (s *Service) DeleteOrder(ctx context.Context, id int) error {
	return s.store.Do(ctx, func(tx Tx) error {
		if _, err := tx.Orders().GetForUpdate(ctx, id); err != nil {
			return err
		}
		return tx.Orders().Delete(ctx, id)
	})
}
