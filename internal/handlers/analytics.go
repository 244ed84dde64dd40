package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ravitejak99/storefront-go/internal/cache"
	"github.com/ravitejak99/storefront-go/internal/consumer"
)

// AnalyticsHandler serves the counters maintained by the analytics
// consumer.
type AnalyticsHandler struct {
	cache *cache.RedisCache
}

func NewAnalyticsHandler(cache *cache.RedisCache) *AnalyticsHandler {
	return &AnalyticsHandler{cache: cache}
}

// Summary returns storefront totals
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	placed, err := h.cache.GetCounter(ctx, consumer.OrdersPlacedKey)
	if err != nil {
		writeError(c, err)
		return
	}
	cancelled, err := h.cache.GetCounter(ctx, consumer.OrdersCancelledKey)
	if err != nil {
		writeError(c, err)
		return
	}
	revenue, err := h.cache.GetFloatCounter(ctx, consumer.RevenueKey)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders_placed":    placed,
		"orders_cancelled": cancelled,
		"revenue":          revenue,
	})
}
