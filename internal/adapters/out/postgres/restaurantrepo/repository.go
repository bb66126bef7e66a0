package restaurantrepo

import (
	"context"
	"errors"
	"strings"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/restaurant"
	"hatid/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRestaurantRepository implements RestaurantRepository using GORM.
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewGormRestaurantRepository creates a new GORM restaurant repository.
func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// Get retrieves a restaurant by ID.
func (r *GormRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RestaurantDTO
	err := r.db.WithContext(ctx).
		Preload("Cities").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("restaurant", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByCity retrieves the restaurants servicing the given city.
// City matching is case-insensitive; the link table stores canonical
// lower-case city names.
func (r *GormRestaurantRepository) GetByCity(
	ctx context.Context,
	city string,
) ([]*restaurant.Restaurant, error) {
	canonical := strings.ToLower(strings.TrimSpace(city))
	if canonical == "" {
		return nil, errs.NewValueIsRequiredError("city")
	}

	var dtos []RestaurantDTO
	err := r.db.WithContext(ctx).
		Preload("Cities").
		Joins("JOIN restaurant_cities rc ON rc.restaurant_id = restaurants.id").
		Where("rc.city = ?", canonical).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	restaurants := make([]*restaurant.Restaurant, 0, len(dtos))
	for _, dto := range dtos {
		model, toDomainErr := toDomain(dto)
		if toDomainErr != nil {
			return nil, toDomainErr
		}
		restaurants = append(restaurants, model)
	}

	return restaurants, nil
}
