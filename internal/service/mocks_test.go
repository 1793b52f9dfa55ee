package service

import (
	"context"

	d "github.com/valed-dm/ecombot/internal/domain"
	r "github.com/valed-dm/ecombot/internal/repository"
	"github.com/valed-dm/ecombot/internal/session"
)

// MockRepository implements r.RepoInterface for testing
type MockRepository struct {
	Products    map[int64]d.Product
	ProductsErr error

	Config    *d.DeliveryConfig
	ConfigErr error

	Profile    *d.Profile // nil means no profile on file
	ProfileErr error

	CreatedOrder     *d.Order // Captures the order passed to CreateOrder
	CreateOrderCalls int
	CreateOrderErr   error

	UpdatedPhone   string
	UpdatedAddress string

	OrderBySession *d.Order
}

func (m *MockRepository) Close() error {
	return nil
}

func (m *MockRepository) RunMigrations(*r.Credentials) error {
	return nil
}

func (m *MockRepository) GetProducts(_ context.Context, _ []int64) (map[int64]d.Product, error) {
	return m.Products, m.ProductsErr
}

func (m *MockRepository) GetDeliveryConfig(_ context.Context) (*d.DeliveryConfig, error) {
	return m.Config, m.ConfigErr
}

func (m *MockRepository) GetProfile(_ context.Context, _ int64) (*d.Profile, error) {
	if m.ProfileErr != nil {
		return nil, m.ProfileErr
	}
	if m.Profile == nil {
		return nil, r.ErrProfileNotFound
	}
	return m.Profile, nil
}

func (m *MockRepository) UpdateProfile(_ context.Context, _ int64, phone, address string) error {
	m.UpdatedPhone = phone
	m.UpdatedAddress = address
	return nil
}

func (m *MockRepository) CreateOrder(_ context.Context, order *d.Order) error {
	m.CreateOrderCalls++
	if m.CreateOrderErr != nil {
		return m.CreateOrderErr
	}
	m.CreatedOrder = order
	return nil
}

func (m *MockRepository) GetOrder(_ context.Context, orderID string) (*d.Order, error) {
	if m.CreatedOrder != nil && m.CreatedOrder.ID == orderID {
		return m.CreatedOrder, nil
	}
	return nil, r.ErrOrderNotFound
}

func (m *MockRepository) GetOrderBySessionID(_ context.Context, _ string) (*d.Order, error) {
	if m.OrderBySession != nil {
		return m.OrderBySession, nil
	}
	return nil, r.ErrOrderNotFound
}

func (m *MockRepository) GetUnprocessedEvents(_ context.Context, _ int) ([]*r.OutboxEvent, error) {
	return nil, nil
}

func (m *MockRepository) MarkEventAsProcessed(_ context.Context, _ int64) error {
	return nil
}

// memoryStore implements session.Store in memory, mirroring the redis store
// for unit tests that do not care about persistence.
type memoryStore struct {
	sessions map[int64]*d.CheckoutSession
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[int64]*d.CheckoutSession)}
}

func (s *memoryStore) Get(_ context.Context, customerID int64) (*d.CheckoutSession, error) {
	sess, ok := s.sessions[customerID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *memoryStore) Put(_ context.Context, sess *d.CheckoutSession) error {
	copied := *sess
	s.sessions[sess.CustomerID] = &copied
	return nil
}

func (s *memoryStore) Delete(_ context.Context, customerID int64) error {
	delete(s.sessions, customerID)
	return nil
}

// MockCartReader implements cart.Reader for testing
type MockCartReader struct {
	Cart     *d.Cart
	GetErr   error
	Cleared  bool
	ClearErr error
}

func (m *MockCartReader) GetCart(_ context.Context, _ int64) (*d.Cart, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Cart, nil
}

func (m *MockCartReader) ClearCart(_ context.Context, _ int64) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Cleared = true
	return nil
}

// newTestCheckoutService wires a CheckoutServiceImpl over mocks and an
// in-memory session store.
func newTestCheckoutService(repo *MockRepository, cartReader *MockCartReader) (*CheckoutServiceImpl, *memoryStore) {
	store := newMemoryStore()
	return NewCheckoutService(repo, store, cartReader), store
}

func testCart(customerID int64) *d.Cart {
	return &d.Cart{
		UserID: customerID,
		Items: []d.CartItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func testProducts() map[int64]d.Product {
	return map[int64]d.Product{
		1: {ID: 1, Name: "Green Tea", Price: 10.00, Stock: 5},
		2: {ID: 2, Name: "Honey", Price: 7.50, Stock: 3},
	}
}

func deliveryConfig() *d.DeliveryConfig {
	return &d.DeliveryConfig{
		DeliveryEnabled: true,
		Options: []d.DeliveryOption{
			{ID: 1, Name: "Courier", Price: 5.00, Active: true},
		},
	}
}

func pickupConfig(points ...d.PickupPoint) *d.DeliveryConfig {
	return &d.DeliveryConfig{
		DeliveryEnabled: false,
		PickupPoints:    points,
	}
}
