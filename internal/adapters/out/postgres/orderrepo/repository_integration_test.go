package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"hatid/internal/adapters/out/postgres/orderrepo"
	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(placedAt time.Time) *order.Order {
	address, err := kernel.NewAddress("Quezon City", 14.676, 121.0437)
	suite.Require().NoError(err)

	item, err := order.NewItem(kernel.NewUUID(), "Sisig Rice Bowl", 1, 180)
	suite.Require().NoError(err)

	restaurantID := kernel.NewUUID()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		&restaurantID,
		order.TypeFood,
		order.PriorityNormal,
		address,
		[]order.Item{item},
		180,
		49,
		placedAt,
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_Get_RoundTrip() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(time.Now().UTC().Truncate(time.Microsecond))

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(testOrder.ID()))
	suite.True(restored.CustomerID().IsEqual(testOrder.CustomerID()))
	suite.Equal(order.StatusPending, restored.Status())
	suite.Equal(order.TypeFood, restored.OrderType())
	suite.Equal("quezon city", restored.Address().City())
	suite.Len(restored.Items(), 1)
	suite.Equal("Sisig Rice Bowl", restored.Items()[0].Name())
	suite.InDelta(229.0, restored.TotalAmount(), 0.001)
	suite.Equal(1, restored.Version())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_BumpsVersion() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(time.Now().UTC().Truncate(time.Microsecond))

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restaurantID := *testOrder.RestaurantID()
	suite.Require().NoError(testOrder.Confirm(restaurantID))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusConfirmed, restored.Status())
	suite.Equal(2, restored.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersionFails() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(time.Now().UTC().Truncate(time.Microsecond))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// First writer wins.
	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(first.Confirm(*first.RestaurantID()))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	// Second writer carries the stale version.
	suite.Require().NoError(testOrder.Cancel())
	err = suite.repository.Update(ctx, testOrder)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetPendingPlacedBefore() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	old := suite.createTestOrder(now.Add(-10 * time.Minute))
	fresh := suite.createTestOrder(now.Add(-10 * time.Second))
	confirmed := suite.createTestOrder(now.Add(-10 * time.Minute))
	suite.Require().NoError(confirmed.Confirm(*confirmed.RestaurantID()))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	for _, o := range []*order.Order{old, fresh, confirmed} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	pending, err := suite.repository.GetPendingPlacedBefore(ctx, now.Add(-2*time.Minute))
	suite.Require().NoError(err)

	suite.Require().Len(pending, 1)
	suite.True(pending[0].ID().IsEqual(old.ID()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCountByCustomerSince() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := suite.createTestOrder(now.Add(-30 * time.Minute))
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	count, err := suite.repository.CountByCustomerSince(
		ctx, first.CustomerID(), now.Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Equal(1, count)

	count, err = suite.repository.CountByCustomerSince(
		ctx, first.CustomerID(), now.Add(-time.Minute))
	suite.Require().NoError(err)
	suite.Equal(0, count)

	count, err = suite.repository.CountByCustomerSince(
		ctx, kernel.NewUUID(), now.Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Equal(0, count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
