package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ravitejak99/storefront-go/internal/cache"
	"github.com/ravitejak99/storefront-go/internal/db"
	"github.com/ravitejak99/storefront-go/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Analytics counter keys.
const (
	OrdersPlacedKey    = "analytics:orders:placed"
	OrdersCancelledKey = "analytics:orders:cancelled"
	RevenueKey         = "analytics:revenue"
)

// AnalyticsConsumer keeps storefront counters (orders placed/cancelled,
// revenue, units sold per product) from the order event stream, and
// drops cached product entries whose stock just changed.
type AnalyticsConsumer struct {
	cache *cache.RedisCache
}

func NewAnalyticsConsumer(cache *cache.RedisCache) *AnalyticsConsumer {
	return &AnalyticsConsumer{cache: cache}
}

// UnitsSoldKey is the per-product counter key.
func UnitsSoldKey(productID int) string {
	return fmt.Sprintf("analytics:units_sold:%d", productID)
}

// ProcessOrderCreated handles order.created events
func (c *AnalyticsConsumer) ProcessOrderCreated(messages <-chan amqp.Delivery) {
	ctx := context.Background()

	for msg := range messages {
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			log.Printf("❌ Failed to parse order.created event: %v", err)
			msg.Nack(false, false) // Don't requeue bad messages
			continue
		}

		log.Printf("📥 order.created: Order #%d for %s", event.OrderID, event.CustomerName)

		success := true
		if _, err := c.cache.IncrBy(ctx, OrdersPlacedKey, 1); err != nil {
			log.Printf("❌ Failed to bump order counter: %v", err)
			success = false
		}
		if _, err := c.cache.IncrByFloat(ctx, RevenueKey, event.TotalAmount); err != nil {
			log.Printf("❌ Failed to bump revenue counter: %v", err)
			success = false
		}
		for _, item := range event.Items {
			if _, err := c.cache.IncrBy(ctx, UnitsSoldKey(item.ProductID), int64(item.Quantity)); err != nil {
				log.Printf("❌ Failed to bump units counter for product %d: %v", item.ProductID, err)
				success = false
			}
			c.invalidateProduct(ctx, item.ProductID)
		}

		if success {
			msg.Ack(false)
		} else {
			msg.Nack(false, true) // Requeue for retry
		}
	}
}

// ProcessOrderCancelled handles order.cancelled events
func (c *AnalyticsConsumer) ProcessOrderCancelled(messages <-chan amqp.Delivery) {
	ctx := context.Background()

	for msg := range messages {
		var event models.OrderCancelledEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			log.Printf("❌ Failed to parse order.cancelled event: %v", err)
			msg.Nack(false, false)
			continue
		}

		log.Printf("📥 order.cancelled: Order #%d", event.OrderID)

		success := true
		if _, err := c.cache.IncrBy(ctx, OrdersCancelledKey, 1); err != nil {
			log.Printf("❌ Failed to bump cancellation counter: %v", err)
			success = false
		}
		if _, err := c.cache.IncrByFloat(ctx, RevenueKey, -event.TotalAmount); err != nil {
			log.Printf("❌ Failed to adjust revenue counter: %v", err)
			success = false
		}
		for _, item := range event.Items {
			if _, err := c.cache.IncrBy(ctx, UnitsSoldKey(item.ProductID), -int64(item.Quantity)); err != nil {
				log.Printf("❌ Failed to adjust units counter for product %d: %v", item.ProductID, err)
				success = false
			}
			c.invalidateProduct(ctx, item.ProductID)
		}

		if success {
			msg.Ack(false)
		} else {
			msg.Nack(false, true)
		}
	}
}

// Cached catalog entries carry stock counts, so an order changing stock
// makes them stale.
func (c *AnalyticsConsumer) invalidateProduct(ctx context.Context, productID int) {
	if err := c.cache.Delete(ctx, db.ProductKey(productID)); err != nil {
		log.Printf("⚠️ Failed to invalidate product %d cache: %v", productID, err)
	}
	if err := c.cache.Delete(ctx, db.AllProductsKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate products cache: %v", err)
	}
}
