package orders

import (
	"testing"

	"github.com/ravitejak99/storefront-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want models.OrderStatus
	}{
		{"PENDING", models.StatusPending},
		{"processing", models.StatusProcessing},
		{"  Shipped  ", models.StatusShipped},
		{"delivered", models.StatusDelivered},
		{"CANCELLED", models.StatusCancelled},
		{"CANCELED", models.StatusCancelled},
		{"canceled", models.StatusCancelled},
		{" canceled ", models.StatusCancelled},
	}

	for _, tt := range tests {
		got, err := NormalizeStatus(tt.raw)
		require.NoError(t, err, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}

func TestNormalizeStatusRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "UNKNOWN", "REFUNDED", "PEND ING"} {
		_, err := NormalizeStatus(raw)

		var invalid *InvalidStatusError
		require.ErrorAs(t, err, &invalid, "raw=%q", raw)
		assert.Equal(t, raw, invalid.Value)
		assert.Len(t, invalid.Allowed, 5)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name      string
		current   models.OrderStatus
		requested models.OrderStatus
		wantErr   error
	}{
		{"pending to processing", models.StatusPending, models.StatusProcessing, nil},
		{"pending to shipped skips processing", models.StatusPending, models.StatusShipped, nil},
		{"pending to delivered skips everything", models.StatusPending, models.StatusDelivered, nil},
		{"pending to cancelled", models.StatusPending, models.StatusCancelled, nil},
		{"processing to cancelled", models.StatusProcessing, models.StatusCancelled, nil},
		{"shipped back to pending", models.StatusShipped, models.StatusPending, nil},
		{"delivered is frozen", models.StatusDelivered, models.StatusShipped, ErrOrderFinalized},
		{"delivered cannot cancel", models.StatusDelivered, models.StatusCancelled, ErrOrderFinalized},
		{"delivered to delivered", models.StatusDelivered, models.StatusDelivered, ErrOrderFinalized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.current, tt.requested)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCanTransitionRejectsLateCancellation(t *testing.T) {
	for _, current := range []models.OrderStatus{models.StatusShipped, models.StatusCancelled} {
		err := CanTransition(current, models.StatusCancelled)

		var illegal *IllegalCancellationError
		require.ErrorAs(t, err, &illegal, "current=%s", current)
		assert.Equal(t, current, illegal.Current)
	}
}
