package slarepo_test

import (
	"context"
	"testing"
	"time"

	"hatid/internal/adapters/out/postgres/slarepo"
	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/sla"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SLACheckRepositoryIntegrationTestSuite verifies the durable check schedule
// against a real PostgreSQL instance.
type SLACheckRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *slarepo.GormSLACheckRepository
}

func (suite *SLACheckRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&slarepo.CheckDTO{}))
}

func (suite *SLACheckRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE sla_checks").Error)
	suite.repository = slarepo.NewGormSLACheckRepository(suite.db)
}

func (suite *SLACheckRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *SLACheckRepositoryIntegrationTestSuite) seedOrderChecks(placedAt time.Time) kernel.UUID {
	address, err := kernel.NewAddress("Makati", 14.5547, 121.0244)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		nil,
		order.TypeFood,
		order.PriorityNormal,
		address,
		nil,
		350,
		45,
		placedAt,
	)
	suite.Require().NoError(err)

	checks, err := sla.ScheduleChecks(o, sla.DefaultCatalog())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Seed(context.Background(), checks))

	return o.ID()
}

func (suite *SLACheckRepositoryIntegrationTestSuite) TestSeed_GetByOrder_RoundTrip() {
	placedAt := time.Now().UTC().Truncate(time.Microsecond)
	orderID := suite.seedOrderChecks(placedAt)

	checks, err := suite.repository.GetByOrder(context.Background(), orderID)
	suite.Require().NoError(err)

	suite.Require().Len(checks, 5)
	suite.Equal(sla.PhaseAcceptance, checks[0].Phase())
	suite.Equal(sla.PhaseDelivery, checks[4].Phase())
	suite.False(checks[0].IsCompleted())
	suite.WithinDuration(placedAt.Add(5*time.Minute), checks[0].DueAt(), time.Second)
}

func (suite *SLACheckRepositoryIntegrationTestSuite) TestGetDue_ReturnsOnlyDueUncompleted() {
	placedAt := time.Now().UTC().Add(-30 * time.Minute).Truncate(time.Microsecond)
	orderID := suite.seedOrderChecks(placedAt)

	// 30 minutes in: acceptance (5m) and preparation (25m) are due.
	due, err := suite.repository.GetDue(context.Background(), placedAt.Add(30*time.Minute))
	suite.Require().NoError(err)

	suite.Require().Len(due, 2)
	suite.Equal(sla.PhaseAcceptance, due[0].Phase())
	suite.Equal(sla.PhasePreparation, due[1].Phase())
	suite.True(due[0].OrderID().IsEqual(orderID))
}

func (suite *SLACheckRepositoryIntegrationTestSuite) TestComplete_RetiresExactlyOnce() {
	ctx := context.Background()
	placedAt := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	orderID := suite.seedOrderChecks(placedAt)

	due, err := suite.repository.GetDue(ctx, placedAt.Add(10*time.Minute))
	suite.Require().NoError(err)
	suite.Require().Len(due, 1)

	check := due[0]
	suite.Require().NoError(check.Complete(sla.CheckResult{
		Phase:         check.Phase(),
		TargetMinutes: 5,
		ActualMinutes: 10,
		DelayMinutes:  5,
		ActualStatus:  order.StatusPending,
		Breached:      true,
		CheckedAt:     placedAt.Add(10 * time.Minute),
	}))

	suite.Require().NoError(suite.repository.Complete(ctx, check))

	// The retired row leaves the due set and refuses a second completion.
	due, err = suite.repository.GetDue(ctx, placedAt.Add(10*time.Minute))
	suite.Require().NoError(err)
	suite.Empty(due)

	err = suite.repository.Complete(ctx, check)
	suite.Require().ErrorIs(err, sla.ErrCheckAlreadyCompleted)

	restored, err := suite.repository.GetByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(restored, 5)
	suite.True(restored[0].IsCompleted())
	suite.Require().NotNil(restored[0].Result())
	suite.True(restored[0].Result().Breached)
	suite.InDelta(5.0, restored[0].Result().DelayMinutes, 0.001)
}

func TestSLACheckRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(SLACheckRepositoryIntegrationTestSuite))
}
