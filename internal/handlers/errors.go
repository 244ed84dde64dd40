package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ravitejak99/storefront-go/internal/orders"
)

// writeError maps a business error onto an HTTP response. Matching is
// structural: a missing order is 404, every other business-rule
// rejection is 400, and anything unrecognized is an opaque 500 so store
// internals never reach the caller.
func writeError(c *gin.Context, err error) {
	var (
		stockErr  *orders.InsufficientStockError
		statusErr *orders.InvalidStatusError
		cancelErr *orders.IllegalCancellationError
	)

	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrUserNotFound),
		errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, orders.ErrOrderFinalized),
		errors.Is(err, orders.ErrInvalidRequest),
		errors.As(err, &stockErr),
		errors.As(err, &statusErr),
		errors.As(err, &cancelErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// writeNotFoundOr is for direct entity lookups, where a missing product
// or user is 404 rather than the 400 it gets inside an order request.
func writeNotFoundOr(c *gin.Context, err error) {
	if errors.Is(err, orders.ErrProductNotFound) || errors.Is(err, orders.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	writeError(c, err)
}
