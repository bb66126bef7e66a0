// Package slarepo persists the deferred check schedule. One row per order and
// phase; rows are the engine's durable timers and survive restarts untouched.
package slarepo

import (
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/sla"

	"github.com/google/uuid"
)

// CheckDTO represents the database structure for one scheduled check.
// The evaluation columns stay null until the check completes.
type CheckDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Phase         string    `gorm:"type:varchar(32);primaryKey"`
	DueAt         time.Time `gorm:"not null;index"`
	Completed     bool      `gorm:"not null;index"`
	Breached      bool      `gorm:"not null"`
	TargetMinutes float64
	ActualMinutes float64
	DelayMinutes  float64
	ActualStatus  string `gorm:"type:varchar(16)"`
	CheckedAt     *time.Time
}

// TableName specifies the database table name for check rows.
func (CheckDTO) TableName() string {
	return "sla_checks"
}

// fromDomain converts a check to its database representation.
func fromDomain(check *sla.Check) CheckDTO {
	dto := CheckDTO{
		OrderID:   check.OrderID().Bytes(),
		Phase:     string(check.Phase()),
		DueAt:     check.DueAt(),
		Completed: check.IsCompleted(),
	}

	if result := check.Result(); result != nil {
		dto.Breached = result.Breached
		dto.TargetMinutes = result.TargetMinutes
		dto.ActualMinutes = result.ActualMinutes
		dto.DelayMinutes = result.DelayMinutes
		dto.ActualStatus = string(result.ActualStatus)
		checkedAt := result.CheckedAt
		dto.CheckedAt = &checkedAt
	}

	return dto
}

// toDomain converts a database DTO to a check.
func toDomain(dto CheckDTO) (*sla.Check, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var result *sla.CheckResult
	if dto.Completed && dto.CheckedAt != nil {
		result = &sla.CheckResult{
			Phase:         sla.Phase(dto.Phase),
			TargetMinutes: dto.TargetMinutes,
			ActualMinutes: dto.ActualMinutes,
			DelayMinutes:  dto.DelayMinutes,
			ActualStatus:  order.Status(dto.ActualStatus),
			Breached:      dto.Breached,
			CheckedAt:     *dto.CheckedAt,
		}
	}

	return sla.RestoreCheck(orderID, sla.Phase(dto.Phase), dto.DueAt, dto.Completed, result)
}
