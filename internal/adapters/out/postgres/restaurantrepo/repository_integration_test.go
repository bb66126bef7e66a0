package restaurantrepo_test

import (
	"context"
	"testing"
	"time"

	"hatid/internal/adapters/out/postgres/restaurantrepo"
	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/restaurant"
	"hatid/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// RestaurantRepositoryIntegrationTestSuite verifies the vendor read model
// adapter against a real PostgreSQL instance.
type RestaurantRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *restaurantrepo.GormRestaurantRepository
}

func (suite *RestaurantRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(
		&restaurantrepo.RestaurantDTO{},
		&restaurantrepo.RestaurantCityDTO{},
	))
}

func (suite *RestaurantRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE restaurants CASCADE").Error)
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE restaurant_cities").Error)
	suite.repository = restaurantrepo.NewGormRestaurantRepository(suite.db)
}

func (suite *RestaurantRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RestaurantRepositoryIntegrationTestSuite) insertRestaurant(
	name string,
	rating float64,
	cities []string,
) *restaurant.Restaurant {
	menuItemID := kernel.NewUUID()
	r, err := restaurant.NewRestaurant(
		kernel.NewUUID(),
		name,
		true,
		true,
		rating,
		10*60,
		22*60,
		cities,
		150,
		[]restaurant.MenuItem{{ID: menuItemID, Name: "Halo-Halo", Available: true}},
	)
	suite.Require().NoError(err)

	dto, err := restaurantrepo.FromDomain(r)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Create(&dto).Error)

	return r
}

func (suite *RestaurantRepositoryIntegrationTestSuite) TestGet_RoundTrip() {
	seeded := suite.insertRestaurant("Mang Inasal Taft", 4.3, []string{"Manila", "Pasay"})

	restored, err := suite.repository.Get(context.Background(), seeded.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(seeded.ID()))
	suite.Equal("Mang Inasal Taft", restored.Name())
	suite.InDelta(4.3, restored.Rating(), 0.001)
	suite.True(restored.ServesCity("manila"))
	suite.True(restored.ServesCity("Pasay"))
	suite.False(restored.ServesCity("Cebu"))
	suite.Require().Len(restored.Menu(), 1)
	suite.Equal("Halo-Halo", restored.Menu()[0].Name)
	suite.True(restored.Menu()[0].Available)
}

func (suite *RestaurantRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RestaurantRepositoryIntegrationTestSuite) TestGetByCity() {
	inManila := suite.insertRestaurant("Manila Bistro", 4.8, []string{"Manila"})
	suite.insertRestaurant("Cebu Lechon House", 4.9, []string{"Cebu"})
	alsoManila := suite.insertRestaurant("Binondo Noodles", 4.1, []string{"Manila", "Caloocan"})

	found, err := suite.repository.GetByCity(context.Background(), "MANILA")
	suite.Require().NoError(err)

	suite.Require().Len(found, 2)
	ids := map[string]bool{
		found[0].ID().String(): true,
		found[1].ID().String(): true,
	}
	suite.True(ids[inManila.ID().String()])
	suite.True(ids[alsoManila.ID().String()])
}

func (suite *RestaurantRepositoryIntegrationTestSuite) TestGetByCity_EmptyCity() {
	_, err := suite.repository.GetByCity(context.Background(), "   ")

	suite.Require().ErrorIs(err, errs.ErrValueIsRequired)
}

func TestRestaurantRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RestaurantRepositoryIntegrationTestSuite))
}
