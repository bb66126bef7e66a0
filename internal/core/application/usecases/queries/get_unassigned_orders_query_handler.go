package queries

import (
	"context"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnassignedOrdersQueryHandler retrieves pending orders from the database.
// Results surface the assignment backlog for operations visibility.
//
// Example:
//
//	handler := NewGetUnassignedOrdersQueryHandler(db)
//	query := NewGetUnassignedOrdersQuery()
//
//	waiting, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get unassigned orders: %v", err)
//	    return err
//	}
//
//	if len(waiting) > 0 {
//	    fmt.Printf("%d orders awaiting a restaurant\n", len(waiting))
//	}
type GetUnassignedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnassignedOrdersQueryHandler creates a handler for assignment backlog queries.
// Requires a GORM database connection for query execution.
func NewGetUnassignedOrdersQueryHandler(db *gorm.DB) GetUnassignedOrdersQueryHandler {
	return GetUnassignedOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all orders still in pending status.
// Results are sorted by placement time so the longest-waiting orders come first.
func (h GetUnassignedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnassignedOrdersQuery,
) ([]GetUnassignedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUnassignedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			address_city,
			priority,
			placed_at,
			needs_attention
		FROM orders
		WHERE status = ?
		ORDER BY placed_at
	`, order.StatusPending).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetUnassignedOrdersQueryResponse
		var id uuid.UUID
		var city, priority string
		var placedAt time.Time
		var needsAttention bool

		err = rows.Scan(
			&id,
			&city,
			&priority,
			&placedAt,
			&needsAttention,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		resp.ID = orderID
		resp.City = city
		resp.Priority = order.Priority(priority)
		resp.PlacedAt = placedAt
		resp.NeedsAttention = needsAttention
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
