package ports

import (
	"context"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/restaurant"
)

// RestaurantRepository defines the read contract for the vendor read model.
// The engine never writes restaurants; vendor dashboards own that data.
type RestaurantRepository interface {
	// Get retrieves a restaurant by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such restaurant exists.
	Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error)

	// GetByCity retrieves the restaurants servicing the given city.
	// Candidate filtering (active, accepting orders) and ranking are the
	// orchestrator's concern, not the repository's.
	GetByCity(ctx context.Context, city string) ([]*restaurant.Restaurant, error)
}
