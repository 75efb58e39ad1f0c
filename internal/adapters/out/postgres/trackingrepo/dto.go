// Package trackingrepo persists the per bundle and process payroll ledger.
package trackingrepo

import (
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/tracking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrackingDTO is the production_process_tracking row, unique per
// (tenant, bundle, process name).
type TrackingDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Seq           int64           `gorm:"autoIncrement;not null"`
	TenantID      string          `gorm:"size:64;not null;uniqueIndex:ux_tracking_bundle_process,priority:1"`
	BundleID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_tracking_bundle_process,priority:2"`
	ProcessName   string          `gorm:"size:64;not null;uniqueIndex:ux_tracking_bundle_process,priority:3"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNo       string          `gorm:"size:64;not null"`
	BundleNo      int             `gorm:"not null"`
	ProcessCode   string          `gorm:"size:32"`
	ProgressStage string          `gorm:"size:64;not null"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,4);not null"`
	Quantity      int             `gorm:"not null;default:0"`
	OperatorID    string          `gorm:"size:64"`
	OperatorName  string          `gorm:"size:64"`
	Settlement    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Completed     bool            `gorm:"not null;default:false"`
	CompletedAt   *time.Time
}

// TableName specifies the database table name for ledger rows.
func (TrackingDTO) TableName() string {
	return "production_process_tracking"
}

func fromDomain(t *tracking.Tracking) TrackingDTO {
	p, s := t.Params(), t.State()
	return TrackingDTO{
		ID:            p.ID.Bytes(),
		TenantID:      p.Tenant.String(),
		BundleID:      p.BundleID.Bytes(),
		ProcessName:   p.ProcessName,
		OrderID:       p.OrderID.Bytes(),
		OrderNo:       p.OrderNo,
		BundleNo:      p.BundleNo,
		ProcessCode:   p.ProcessCode,
		ProgressStage: p.ProgressStage,
		UnitPrice:     p.UnitPrice,
		Quantity:      s.Quantity,
		OperatorID:    s.Operator.ID(),
		OperatorName:  s.Operator.Name(),
		Settlement:    s.Settlement,
		Completed:     s.Completed,
		CompletedAt:   s.CompletedAt,
	}
}

func toDomain(dto TrackingDTO) (*tracking.Tracking, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	bundleID, err := kernel.UUIDFromBytes(dto.BundleID[:])
	if err != nil {
		return nil, err
	}

	return tracking.RestoreTracking(tracking.Params{
		ID:            id,
		Tenant:        kernel.RestoreTenantID(dto.TenantID),
		OrderID:       orderID,
		OrderNo:       dto.OrderNo,
		BundleID:      bundleID,
		BundleNo:      dto.BundleNo,
		ProcessCode:   dto.ProcessCode,
		ProcessName:   dto.ProcessName,
		ProgressStage: dto.ProgressStage,
		UnitPrice:     dto.UnitPrice,
	}, tracking.State{
		Quantity:    dto.Quantity,
		Operator:    kernel.RestoreOperator(dto.OperatorID, dto.OperatorName),
		Settlement:  dto.Settlement,
		Completed:   dto.Completed,
		CompletedAt: dto.CompletedAt,
	})
}
