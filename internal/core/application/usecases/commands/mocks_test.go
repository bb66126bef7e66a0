package commands_test

import (
	"context"
	"testing"
	"time"

	"hatid/internal/core/application/usecases/commands"
	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/restaurant"
	"hatid/internal/core/domain/model/sla"
	"hatid/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetPendingPlacedBefore(
	ctx context.Context,
	cutoff time.Time,
) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByCustomerSince(
	ctx context.Context,
	customerID kernel.UUID,
	since time.Time,
) (int, error) {
	args := m.Called(ctx, customerID, since)
	return args.Int(0), args.Error(1)
}

type MockRestaurantRepository struct{ mock.Mock }

func (m *MockRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByCity(ctx context.Context, city string) ([]*restaurant.Restaurant, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*restaurant.Restaurant), args.Error(1)
}

type MockSLACheckRepository struct{ mock.Mock }

func (m *MockSLACheckRepository) Seed(ctx context.Context, checks []*sla.Check) error {
	args := m.Called(ctx, checks)
	return args.Error(0)
}

func (m *MockSLACheckRepository) GetDue(ctx context.Context, now time.Time) ([]*sla.Check, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sla.Check), args.Error(1)
}

func (m *MockSLACheckRepository) Complete(ctx context.Context, check *sla.Check) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

func (m *MockSLACheckRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*sla.Check, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sla.Check), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RestaurantRepository() ports.RestaurantRepository {
	args := m.Called()
	return args.Get(0).(ports.RestaurantRepository)
}

func (m *MockUoW) SLACheckRepository() ports.SLACheckRepository {
	args := m.Called()
	return args.Get(0).(ports.SLACheckRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotificationPublisher struct{ mock.Mock }

func (m *MockNotificationPublisher) Publish(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockAdminDirectory struct{ mock.Mock }

func (m *MockAdminDirectory) Contacts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Fixtures shared by the handler tests.

func testAddress(t *testing.T) kernel.Address {
	t.Helper()

	address, err := kernel.NewAddress("Manila", 14.5995, 120.9842)
	require.NoError(t, err)
	return address
}

func testPendingOrder(
	t *testing.T,
	restaurantID *kernel.UUID,
	items []order.Item,
	placedAt time.Time,
) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		restaurantID,
		order.TypeFood,
		order.PriorityNormal,
		testAddress(t),
		items,
		500,
		50,
		placedAt,
	)
	require.NoError(t, err)
	return o
}

func testOpenRestaurant(t *testing.T, id kernel.UUID, menu []restaurant.MenuItem) *restaurant.Restaurant {
	t.Helper()

	r, err := restaurant.NewRestaurant(
		id,
		"Kusina ni Aling Nena",
		true,
		true,
		4.6,
		8*60,
		22*60,
		[]string{"Manila"},
		100,
		menu,
	)
	require.NoError(t, err)
	return r
}

// offPeakPlacedAt is a placement instant outside both peak windows.
func offPeakPlacedAt() time.Time {
	return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
}
