// Package orderrepo provides data transfer objects and mapping functions for production order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting production orders.
// Order numbers are unique per tenant; version backs the compare-and-set progress write.
type OrderDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID          string    `gorm:"size:64;not null;uniqueIndex:ux_orders_tenant_order_no,priority:1"`
	OrderNo           string    `gorm:"size:64;not null;uniqueIndex:ux_orders_tenant_order_no,priority:2"`
	StyleNo           string    `gorm:"size:64;not null;index"`
	Quantity          int       `gorm:"not null"`
	CompletedQuantity int       `gorm:"not null;default:0"`
	Status            string    `gorm:"size:16;not null;index"`
	Progress          int       `gorm:"not null;default:0"`
	CurrentStage      string    `gorm:"size:64"`
	PlannedStart      *time.Time
	PlannedEnd        *time.Time
	ActualStart       *time.Time
	ActualEnd         *time.Time
	Version           int64 `gorm:"not null;default:0"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "production_orders"
}

func fromDomain(aggregate *order.ProductionOrder) OrderDTO {
	s := aggregate.Snapshot()
	return OrderDTO{
		ID:                s.ID.Bytes(),
		TenantID:          s.Tenant.String(),
		OrderNo:           s.OrderNo,
		StyleNo:           s.StyleNo,
		Quantity:          s.Quantity,
		CompletedQuantity: s.CompletedQuantity,
		Status:            s.Status.String(),
		Progress:          s.Progress,
		CurrentStage:      s.CurrentStage,
		PlannedStart:      s.PlannedStart,
		PlannedEnd:        s.PlannedEnd,
		ActualStart:       s.ActualStart,
		ActualEnd:         s.ActualEnd,
		Version:           s.Version,
	}
}

// progressColumns are the fields a progress recompute may change.
func progressColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"completed_quantity": dto.CompletedQuantity,
		"status":             dto.Status,
		"progress":           dto.Progress,
		"current_stage":      dto.CurrentStage,
		"actual_start":       dto.ActualStart,
		"actual_end":         dto.ActualEnd,
		"version":            dto.Version,
	}
}

func toDomain(dto OrderDTO) (*order.ProductionOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreProductionOrder(order.Snapshot{
		ID:                id,
		Tenant:            kernel.RestoreTenantID(dto.TenantID),
		OrderNo:           dto.OrderNo,
		StyleNo:           dto.StyleNo,
		Quantity:          dto.Quantity,
		CompletedQuantity: dto.CompletedQuantity,
		Status:            status,
		Progress:          dto.Progress,
		CurrentStage:      dto.CurrentStage,
		PlannedStart:      dto.PlannedStart,
		PlannedEnd:        dto.PlannedEnd,
		ActualStart:       dto.ActualStart,
		ActualEnd:         dto.ActualEnd,
		Version:           dto.Version,
	})
}
