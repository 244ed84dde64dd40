package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/ravitejak99/storefront-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu        sync.Mutex
	created   []int
	cancelled []int
}

func (p *recordingPublisher) PublishOrderCreated(order *models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, order.ID)
	return nil
}

func (p *recordingPublisher) PublishOrderCancelled(order *models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, order.ID)
	return nil
}

func newTestService() (*Service, *memStore, *recordingPublisher) {
	store := newMemStore()
	store.addUser(models.User{ID: 1, Name: "Asha", Email: "asha@example.com", Role: models.RoleUser, Active: true})
	store.addProduct(models.Product{ID: 1, Name: "Keyboard", Price: 100, StockQuantity: 10})
	store.addProduct(models.Product{ID: 2, Name: "Monitor", Price: 300, StockQuantity: 5})

	pub := &recordingPublisher{}
	return NewService(store, pub), store, pub
}

func orderRequest(items ...models.CreateOrderItemRequest) models.CreateOrderRequest {
	return models.CreateOrderRequest{
		UserID:          1,
		CustomerName:    "Asha",
		CustomerEmail:   "asha@example.com",
		ShippingAddress: "12 Elm Street",
		Items:           items,
	}
}

func TestCreateOrderReservesStockAndComputesTotal(t *testing.T) {
	svc, store, pub := newTestService()

	order, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 2},
		models.CreateOrderItemRequest{ProductID: 2, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 500.0, order.TotalAmount)
	assert.Equal(t, 8, store.stock(1))
	assert.Equal(t, 4, store.stock(2))

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Keyboard", order.Items[0].ProductName)
	assert.Equal(t, 100.0, order.Items[0].PriceAtPurchase)
	assert.Equal(t, "Monitor", order.Items[1].ProductName)
	assert.Equal(t, 300.0, order.Items[1].PriceAtPurchase)

	assert.Equal(t, []int{order.ID}, pub.created)
}

func TestCreateOrderCapturesPriceAtPurchase(t *testing.T) {
	svc, store, _ := newTestService()

	order, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 1},
	))
	require.NoError(t, err)

	// A later catalog price change must not affect the stored order.
	p := store.products[1]
	p.Price = 999
	store.products[1] = p

	got, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Items[0].PriceAtPurchase)
	assert.Equal(t, 100.0, got.TotalAmount)
}

func TestCreateOrderUnknownProductRollsBackReservations(t *testing.T) {
	svc, store, pub := newTestService()

	_, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 2},
		models.CreateOrderItemRequest{ProductID: 42, Quantity: 1},
	))
	require.ErrorIs(t, err, ErrProductNotFound)

	// The first item's reservation must not stick.
	assert.Equal(t, 10, store.stock(1))
	assert.Empty(t, pub.created)

	all, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateOrderInsufficientStockRollsBackReservations(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 2},
		models.CreateOrderItemRequest{ProductID: 2, Quantity: 6},
	))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Monitor", stockErr.ProductName)

	assert.Equal(t, 10, store.stock(1))
	assert.Equal(t, 5, store.stock(2))
}

func TestCreateOrderUnknownUser(t *testing.T) {
	svc, store, _ := newTestService()

	req := orderRequest(models.CreateOrderItemRequest{ProductID: 1, Quantity: 1})
	req.UserID = 99

	_, err := svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 10, store.stock(1))
}

func TestCreateOrderRejectsBadItems(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(), orderRequest())
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 0},
	))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetOrderRoundTrip(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 2},
		models.CreateOrderItemRequest{ProductID: 2, Quantity: 1},
	))
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, created.TotalAmount, got.TotalAmount)
	assert.Equal(t, created.Items, got.Items)
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetOrder(context.Background(), 7)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatusShippedLeavesStockAlone(t *testing.T) {
	svc, store, _ := newTestService()

	created, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 2},
	))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, "SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)
	assert.Equal(t, 8, store.stock(1))
}

func TestCancelRestoresStockExactlyOnce(t *testing.T) {
	svc, store, pub := newTestService()

	created, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 2},
		models.CreateOrderItemRequest{ProductID: 2, Quantity: 1},
	))
	require.NoError(t, err)
	require.Equal(t, 8, store.stock(1))

	cancelled, err := svc.CancelOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, 10, store.stock(1))
	assert.Equal(t, 5, store.stock(2))
	assert.Equal(t, []int{created.ID}, pub.cancelled)

	// Second cancellation is rejected and must not restore stock again.
	_, err = svc.CancelOrder(context.Background(), created.ID)
	var illegal *IllegalCancellationError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, models.StatusCancelled, illegal.Current)
	assert.Equal(t, 10, store.stock(1))
	assert.Equal(t, 5, store.stock(2))
	assert.Equal(t, []int{created.ID}, pub.cancelled)
}

func TestCanceledSingleLAliasCancels(t *testing.T) {
	svc, store, _ := newTestService()

	created, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 3},
	))
	require.NoError(t, err)
	require.Equal(t, 7, store.stock(1))

	updated, err := svc.UpdateStatus(context.Background(), created.ID, "CANCELED")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, 10, store.stock(1))
}

func TestDeliveredOrdersRejectEveryTransition(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, "DELIVERED")
	require.NoError(t, err)

	for _, target := range []string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"} {
		_, err := svc.UpdateStatus(context.Background(), created.ID, target)
		assert.ErrorIs(t, err, ErrOrderFinalized, "target=%s", target)
	}
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, "REFUNDED")
	var invalid *InvalidStatusError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "REFUNDED", invalid.Value)
}

func TestDeleteOrderDoesNotRestoreStock(t *testing.T) {
	svc, store, _ := newTestService()

	created, err := svc.CreateOrder(context.Background(), orderRequest(
		models.CreateOrderItemRequest{ProductID: 1, Quantity: 2},
	))
	require.NoError(t, err)
	require.Equal(t, 8, store.stock(1))

	require.NoError(t, svc.DeleteOrder(context.Background(), created.ID))

	_, err = svc.GetOrder(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	// Deletion is administrative, not a cancellation.
	assert.Equal(t, 8, store.stock(1))

	err = svc.DeleteOrder(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	svc, store, _ := newTestService()
	store.addProduct(models.Product{ID: 3, Name: "Dock", Price: 50, StockQuantity: 1})

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateOrder(context.Background(), orderRequest(
				models.CreateOrderItemRequest{ProductID: 3, Quantity: 1},
			))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			var stockErr *InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, store.stock(3))
}

func TestStockNeverNegativeAcrossLifecycle(t *testing.T) {
	svc, store, _ := newTestService()

	for i := 0; i < 4; i++ {
		order, err := svc.CreateOrder(context.Background(), orderRequest(
			models.CreateOrderItemRequest{ProductID: 2, Quantity: 2},
		))
		if err != nil {
			var stockErr *InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
		} else if i%2 == 0 {
			_, err := svc.CancelOrder(context.Background(), order.ID)
			require.NoError(t, err)
		}
		assert.GreaterOrEqual(t, store.stock(2), 0)
	}
}
