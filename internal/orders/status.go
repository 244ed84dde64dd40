package orders

import (
	"strings"

	"github.com/ravitejak99/storefront-go/internal/models"
)

// NormalizeStatus maps a raw status value onto one of the recognized
// statuses. Matching is case-insensitive, surrounding whitespace is
// ignored, and the common misspelling "CANCELED" is accepted as an alias
// for CANCELLED.
func NormalizeStatus(raw string) (models.OrderStatus, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "CANCELED" {
		s = string(models.StatusCancelled)
	}

	for _, known := range models.AllStatuses() {
		if s == string(known) {
			return known, nil
		}
	}
	return "", &InvalidStatusError{Value: raw, Allowed: models.AllStatuses()}
}

// CanTransition decides whether an order currently in status current may
// move to requested. requested must already be normalized.
//
// DELIVERED orders are frozen. Cancellation is only allowed from PENDING
// or PROCESSING. Every other transition is accepted; the lifecycle does
// not force orders through each intermediate state.
func CanTransition(current, requested models.OrderStatus) error {
	if current == models.StatusDelivered {
		return ErrOrderFinalized
	}
	if requested == models.StatusCancelled && current != models.StatusPending && current != models.StatusProcessing {
		return &IllegalCancellationError{Current: current}
	}
	return nil
}
