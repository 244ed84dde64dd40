package orders

import (
	"context"
	"slices"
	"sync"

	"github.com/ravitejak99/storefront-go/internal/models"
)

// memStore is an in-memory UnitOfWork for engine tests. Do serializes
// callers and restores a snapshot of the whole state when fn fails, so
// it has the same all-or-nothing behavior as the SQL-backed store.
type memStore struct {
	mu sync.Mutex

	users    map[int]models.User
	products map[int]models.Product
	orders   map[int]models.Order

	nextOrderID int
	nextItemID  int
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int]models.User),
		products:    make(map[int]models.Product),
		orders:      make(map[int]models.Order),
		nextOrderID: 1,
		nextItemID:  1,
	}
}

func (s *memStore) addUser(u models.User) {
	s.users[u.ID] = u
}

func (s *memStore) addProduct(p models.Product) {
	s.products[p.ID] = p
}

func (s *memStore) stock(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].StockQuantity
}

func (s *memStore) Do(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapUsers := make(map[int]models.User, len(s.users))
	for k, v := range s.users {
		snapUsers[k] = v
	}
	snapProducts := make(map[int]models.Product, len(s.products))
	for k, v := range s.products {
		snapProducts[k] = v
	}
	snapOrders := make(map[int]models.Order, len(s.orders))
	for k, v := range s.orders {
		v.Items = slices.Clone(v.Items)
		snapOrders[k] = v
	}
	snapOrderID, snapItemID := s.nextOrderID, s.nextItemID

	if err := fn(&memTx{s: s}); err != nil {
		s.users = snapUsers
		s.products = snapProducts
		s.orders = snapOrders
		s.nextOrderID, s.nextItemID = snapOrderID, snapItemID
		return err
	}
	return nil
}

type memTx struct {
	s *memStore
}

func (t *memTx) Inventory() InventoryStore { return &memInventory{s: t.s} }
func (t *memTx) Orders() OrderStore        { return &memOrders{s: t.s} }
func (t *memTx) Users() UserStore          { return &memUsers{s: t.s} }

type memInventory struct {
	s *memStore
}

func (m *memInventory) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (m *memInventory) Reserve(ctx context.Context, id, qty int) (*models.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	if p.StockQuantity < qty {
		return nil, &InsufficientStockError{ProductName: p.Name}
	}
	p.StockQuantity -= qty
	m.s.products[id] = p
	return &p, nil
}

func (m *memInventory) Release(ctx context.Context, id, qty int) (*models.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p.StockQuantity += qty
	m.s.products[id] = p
	return &p, nil
}

type memOrders struct {
	s *memStore
}

func (m *memOrders) Create(ctx context.Context, order *models.Order) error {
	order.ID = m.s.nextOrderID
	m.s.nextOrderID++
	for i := range order.Items {
		order.Items[i].ID = m.s.nextItemID
		order.Items[i].OrderID = order.ID
		m.s.nextItemID++
	}

	stored := *order
	stored.Items = slices.Clone(order.Items)
	m.s.orders[order.ID] = stored
	return nil
}

func (m *memOrders) GetByID(ctx context.Context, id int) (*models.Order, error) {
	o, ok := m.s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o.Items = slices.Clone(o.Items)
	return &o, nil
}

// GetForUpdate needs no real lock here: Do already serializes whole
// units of work, which is stricter than a row lock.
func (m *memOrders) GetForUpdate(ctx context.Context, id int) (*models.Order, error) {
	return m.GetByID(ctx, id)
}

func (m *memOrders) GetAll(ctx context.Context) ([]models.Order, error) {
	ids := make([]int, 0, len(m.s.orders))
	for id := range m.s.orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var all []models.Order
	for _, id := range ids {
		o := m.s.orders[id]
		o.Items = slices.Clone(o.Items)
		all = append(all, o)
	}
	return all, nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error {
	o, ok := m.s.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	m.s.orders[id] = o
	return nil
}

func (m *memOrders) Delete(ctx context.Context, id int) error {
	if _, ok := m.s.orders[id]; !ok {
		return ErrOrderNotFound
	}
	delete(m.s.orders, id)
	return nil
}

type memUsers struct {
	s *memStore
}

func (m *memUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := m.s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}
