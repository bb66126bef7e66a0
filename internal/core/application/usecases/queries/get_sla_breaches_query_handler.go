package queries

import (
	"context"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/sla"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSLABreachesQueryHandler retrieves recorded breaches from the database.
type GetSLABreachesQueryHandler struct {
	db *gorm.DB
}

// NewGetSLABreachesQueryHandler creates a handler for breach report queries.
// Requires a GORM database connection for query execution.
func NewGetSLABreachesQueryHandler(db *gorm.DB) GetSLABreachesQueryHandler {
	return GetSLABreachesQueryHandler{db: db}
}

// Handle executes the query to retrieve completed, breached checks within
// the reporting window, most recent first.
func (h GetSLABreachesQueryHandler) Handle(
	ctx context.Context,
	query GetSLABreachesQuery,
) ([]GetSLABreachesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	breaches := make([]GetSLABreachesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			phase,
			target_minutes,
			actual_minutes,
			delay_minutes,
			actual_status,
			checked_at
		FROM sla_checks
		WHERE completed AND breached AND checked_at >= ?
		ORDER BY checked_at DESC
	`, query.Since()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetSLABreachesQueryResponse
		var id uuid.UUID
		var phase, actualStatus string
		var checkedAt time.Time

		err = rows.Scan(
			&id,
			&phase,
			&resp.TargetMinutes,
			&resp.ActualMinutes,
			&resp.DelayMinutes,
			&actualStatus,
			&checkedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		resp.OrderID = orderID
		resp.Phase = sla.Phase(phase)
		resp.ActualStatus = order.Status(actualStatus)
		resp.CheckedAt = checkedAt
		breaches = append(breaches, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return breaches, nil
}
