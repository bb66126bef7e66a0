package slarepo

import (
	"context"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/sla"

	"gorm.io/gorm"
)

// GormSLACheckRepository implements SLACheckRepository using GORM.
type GormSLACheckRepository struct {
	db *gorm.DB
}

// NewGormSLACheckRepository creates a new GORM check schedule repository.
func NewGormSLACheckRepository(db *gorm.DB) *GormSLACheckRepository {
	return &GormSLACheckRepository{db: db}
}

// Seed persists the pending checks for a freshly accepted order.
func (r *GormSLACheckRepository) Seed(ctx context.Context, checks []*sla.Check) error {
	if len(checks) == 0 {
		return nil
	}

	dtos := make([]CheckDTO, 0, len(checks))
	for _, check := range checks {
		dtos = append(dtos, fromDomain(check))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// GetDue retrieves uncompleted checks whose due time is at or before now.
func (r *GormSLACheckRepository) GetDue(ctx context.Context, now time.Time) ([]*sla.Check, error) {
	var dtos []CheckDTO
	err := r.db.WithContext(ctx).
		Where("completed = false AND due_at <= ?", now).
		Order("due_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// Complete retires a check with its evaluation.
// The write is guarded on completed = false so a row retires exactly once;
// a concurrent sweep completing the same row loses with ErrCheckAlreadyCompleted.
func (r *GormSLACheckRepository) Complete(ctx context.Context, check *sla.Check) error {
	dto := fromDomain(check)

	result := r.db.WithContext(ctx).
		Model(&CheckDTO{}).
		Where("order_id = ? AND phase = ? AND completed = false", dto.OrderID, dto.Phase).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return sla.ErrCheckAlreadyCompleted
	}

	return nil
}

// GetByOrder retrieves all checks for one order, completed or not.
func (r *GormSLACheckRepository) GetByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*sla.Check, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CheckDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("due_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []CheckDTO) ([]*sla.Check, error) {
	checks := make([]*sla.Check, 0, len(dtos))
	for _, dto := range dtos {
		check, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}

	return checks, nil
}
