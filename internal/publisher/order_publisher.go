package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ravitejak99/storefront-go/internal/messaging"
	"github.com/ravitejak99/storefront-go/internal/models"
)

const (
	OrderCreatedQueue   = "order.created"
	OrderCancelledQueue = "order.cancelled"
)

// OrderPublisher implements the lifecycle engine's EventPublisher on
// RabbitMQ.
type OrderPublisher struct {
	mq *messaging.RabbitMQ
}

func NewOrderPublisher(mq *messaging.RabbitMQ) (*OrderPublisher, error) {
	for _, queue := range []string{OrderCreatedQueue, OrderCancelledQueue} {
		if err := mq.DeclareQueue(queue); err != nil {
			return nil, err
		}
	}

	return &OrderPublisher{mq: mq}, nil
}

// PublishOrderCreated publishes an order.created event
func (p *OrderPublisher) PublishOrderCreated(order *models.Order) error {
	event := models.OrderCreatedEvent{
		OrderID:      order.ID,
		UserID:       order.UserID,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		Items:        itemEvents(order),
	}

	return p.publish(OrderCreatedQueue, event)
}

// PublishOrderCancelled publishes an order.cancelled event
func (p *OrderPublisher) PublishOrderCancelled(order *models.Order) error {
	event := models.OrderCancelledEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       itemEvents(order),
	}

	return p.publish(OrderCancelledQueue, event)
}

func (p *OrderPublisher) publish(queue string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.mq.Publish(context.Background(), queue, data)
}

func itemEvents(order *models.Order) []models.OrderItemEvent {
	var items []models.OrderItemEvent
	for _, item := range order.Items {
		items = append(items, models.OrderItemEvent{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.PriceAtPurchase,
		})
	}
	return items
}
