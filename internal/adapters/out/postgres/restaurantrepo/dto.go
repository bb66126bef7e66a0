// Package restaurantrepo provides data transfer objects and mapping functions for the
// restaurant read model. The engine only reads this data; vendor dashboards own the writes.
package restaurantrepo

import (
	"encoding/json"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
)

// RestaurantDTO represents the database structure for restaurant records.
type RestaurantDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Active          bool      `gorm:"not null"`
	AcceptingOrders bool      `gorm:"not null"`
	Rating          float64   `gorm:"not null"`
	OpeningMinute   int       `gorm:"not null"`
	ClosingMinute   int       `gorm:"not null"`
	MinimumOrder    float64   `gorm:"not null"`
	Menu            []byte    `gorm:"type:jsonb"`

	Cities []RestaurantCityDTO `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for restaurant entities.
// Overrides GORM's default naming convention to use "restaurants".
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// RestaurantCityDTO links a restaurant to one serviced city.
// Kept relational so candidate lookup stays an indexed join.
type RestaurantCityDTO struct {
	RestaurantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	City         string    `gorm:"type:varchar(128);primaryKey;index"`
}

// TableName specifies the database table name for the city link table.
func (RestaurantCityDTO) TableName() string {
	return "restaurant_cities"
}

// menuItemDTO is the JSON shape of one menu item snapshot.
type menuItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Available bool      `json:"available"`
}

// FromDomain converts a restaurant read model to its database representation.
// Exported for test fixtures; production code never writes restaurants.
func FromDomain(r *restaurant.Restaurant) (RestaurantDTO, error) {
	menu := make([]menuItemDTO, 0, len(r.Menu()))
	for _, item := range r.Menu() {
		menu = append(menu, menuItemDTO{
			ID:        item.ID.Bytes(),
			Name:      item.Name,
			Available: item.Available,
		})
	}

	menuJSON, err := json.Marshal(menu)
	if err != nil {
		return RestaurantDTO{}, err
	}

	cities := make([]RestaurantCityDTO, 0, len(r.ServiceCities()))
	for _, city := range r.ServiceCities() {
		cities = append(cities, RestaurantCityDTO{
			RestaurantID: r.ID().Bytes(),
			City:         city,
		})
	}

	return RestaurantDTO{
		ID:              r.ID().Bytes(),
		Name:            r.Name(),
		Active:          r.IsActive(),
		AcceptingOrders: r.IsAcceptingOrders(),
		Rating:          r.Rating(),
		OpeningMinute:   r.OpeningMinute(),
		ClosingMinute:   r.ClosingMinute(),
		MinimumOrder:    r.MinimumOrder(),
		Menu:            menuJSON,
		Cities:          cities,
	}, nil
}

// toDomain converts a database DTO to a restaurant read model.
func toDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var menuDTOs []menuItemDTO
	if len(dto.Menu) > 0 {
		if err = json.Unmarshal(dto.Menu, &menuDTOs); err != nil {
			return nil, err
		}
	}

	menu := make([]restaurant.MenuItem, 0, len(menuDTOs))
	for _, item := range menuDTOs {
		itemID, itemErr := kernel.UUIDFromBytes(item.ID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		menu = append(menu, restaurant.MenuItem{
			ID:        itemID,
			Name:      item.Name,
			Available: item.Available,
		})
	}

	cities := make([]string, 0, len(dto.Cities))
	for _, city := range dto.Cities {
		cities = append(cities, city.City)
	}

	return restaurant.NewRestaurant(
		id,
		dto.Name,
		dto.Active,
		dto.AcceptingOrders,
		dto.Rating,
		dto.OpeningMinute,
		dto.ClosingMinute,
		cities,
		dto.MinimumOrder,
		menu,
	)
}
