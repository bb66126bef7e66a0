// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by status and customer.
type OrderDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	RestaurantID        *uuid.UUID `gorm:"type:uuid;index"`
	OrderType           string     `gorm:"type:varchar(16);not null"`
	Priority            string     `gorm:"type:varchar(16);not null"`
	Status              string     `gorm:"type:varchar(16);not null;index"`
	Subtotal            float64    `gorm:"not null"`
	DeliveryFee         float64    `gorm:"not null"`
	BaseDeliveryFee     float64    `gorm:"not null"`
	TotalAmount         float64    `gorm:"not null"`
	SurgeApplied        bool       `gorm:"not null"`
	PlacedAt            time.Time  `gorm:"not null;index"`
	EstimatedDeliveryAt *time.Time
	Address             AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
	Items               []byte     `gorm:"type:jsonb"`
	NeedsAttention      bool       `gorm:"not null"`
	RiderIncentive      float64    `gorm:"not null"`
	Version             int        `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded delivery address within the order table.
type AddressDTO struct {
	City      string  `gorm:"type:varchar(128);index"`
	Latitude  float64 `gorm:"type:double precision"`
	Longitude float64 `gorm:"type:double precision"`
}

// itemDTO is the JSON shape of one line item snapshot.
type itemDTO struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
}

// fromDomain converts an order domain aggregate to its database representation.
// The version column carries the aggregate's current version; the repository
// bumps it on update as part of the optimistic write.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var restaurantID *uuid.UUID
	if id := aggregate.RestaurantID(); id != nil {
		raw := id.Bytes()
		restaurantID = &raw
	}

	items := make([]itemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemDTO{
			MenuItemID: item.MenuItemID().Bytes(),
			Name:       item.Name(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
		})
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		CustomerID:          aggregate.CustomerID().Bytes(),
		RestaurantID:        restaurantID,
		OrderType:           string(aggregate.OrderType()),
		Priority:            string(aggregate.Priority()),
		Status:              string(aggregate.Status()),
		Subtotal:            aggregate.Subtotal(),
		DeliveryFee:         aggregate.DeliveryFee(),
		BaseDeliveryFee:     aggregate.BaseDeliveryFee(),
		TotalAmount:         aggregate.TotalAmount(),
		SurgeApplied:        aggregate.SurgeApplied(),
		PlacedAt:            aggregate.PlacedAt(),
		EstimatedDeliveryAt: aggregate.EstimatedDeliveryAt(),
		Address: AddressDTO{
			City:      aggregate.Address().City(),
			Latitude:  aggregate.Address().Latitude(),
			Longitude: aggregate.Address().Longitude(),
		},
		Items:          itemsJSON,
		NeedsAttention: aggregate.NeedsAttention(),
		RiderIncentive: aggregate.RiderIncentive(),
		Version:        aggregate.Version(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status, pricing state and
// concurrency version using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var restaurantID *kernel.UUID
	if dto.RestaurantID != nil {
		rID, restaurantErr := kernel.UUIDFromBytes((*dto.RestaurantID)[:])
		if restaurantErr != nil {
			return nil, restaurantErr
		}

		restaurantID = &rID
	}

	address, err := kernel.NewAddress(dto.Address.City, dto.Address.Latitude, dto.Address.Longitude)
	if err != nil {
		return nil, err
	}

	items, err := itemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		customerID,
		restaurantID,
		order.Type(dto.OrderType),
		order.Priority(dto.Priority),
		order.Status(dto.Status),
		address,
		items,
		dto.Subtotal,
		dto.DeliveryFee,
		dto.BaseDeliveryFee,
		dto.TotalAmount,
		dto.SurgeApplied,
		dto.PlacedAt,
		dto.EstimatedDeliveryAt,
		dto.NeedsAttention,
		dto.RiderIncentive,
		dto.Version,
	)
}

func itemsToDomain(raw []byte) ([]order.Item, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var dtos []itemDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
		if err != nil {
			return nil, err
		}

		item, err := order.NewItem(menuItemID, dto.Name, dto.Quantity, dto.UnitPrice)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}
