// Package warehousingrepo persists the finished goods stock-in ledger.
package warehousingrepo

import (
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/warehousing"

	"github.com/google/uuid"
)

// EntryDTO is the product_warehousing row, unique per (tenant, order, bundle key).
type EntryDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID     string     `gorm:"size:64;not null;uniqueIndex:ux_warehousing_slot,priority:1"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_warehousing_slot,priority:2"`
	BundleKey    string     `gorm:"size:128;not null;uniqueIndex:ux_warehousing_slot,priority:3"`
	OrderNo      string     `gorm:"size:64;not null"`
	BundleID     *uuid.UUID `gorm:"type:uuid"`
	CandidateQty int        `gorm:"not null;default:0"`
	StockedQty   int        `gorm:"not null;default:0"`
	Warehouse    string     `gorm:"size:64"`
	OperatorID   string     `gorm:"size:64"`
	OperatorName string     `gorm:"size:64"`
	Status       string     `gorm:"size:16;not null"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime:false"`
}

// TableName specifies the database table name for ledger entries.
func (EntryDTO) TableName() string {
	return "product_warehousing"
}

func fromDomain(e *warehousing.Entry) EntryDTO {
	ref, s := e.Ref(), e.State()

	var bundleID *uuid.UUID
	if ref.BundleID != nil {
		raw := ref.BundleID.Bytes()
		bundleID = &raw
	}

	return EntryDTO{
		ID:           ref.ID.Bytes(),
		TenantID:     ref.Tenant.String(),
		OrderID:      ref.OrderID.Bytes(),
		BundleKey:    ref.BundleKey,
		OrderNo:      ref.OrderNo,
		BundleID:     bundleID,
		CandidateQty: s.CandidateQty,
		StockedQty:   s.StockedQty,
		Warehouse:    s.Warehouse,
		OperatorID:   s.Operator.ID(),
		OperatorName: s.Operator.Name(),
		Status:       string(s.Status),
		UpdatedAt:    s.UpdatedAt,
	}
}

func toDomain(dto EntryDTO) (*warehousing.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var bundleID *kernel.UUID
	if dto.BundleID != nil {
		bID, bundleErr := kernel.UUIDFromBytes((*dto.BundleID)[:])
		if bundleErr != nil {
			return nil, bundleErr
		}
		bundleID = &bID
	}

	return warehousing.RestoreEntry(warehousing.Ref{
		ID:        id,
		Tenant:    kernel.RestoreTenantID(dto.TenantID),
		OrderID:   orderID,
		OrderNo:   dto.OrderNo,
		BundleKey: dto.BundleKey,
		BundleID:  bundleID,
	}, warehousing.State{
		CandidateQty: dto.CandidateQty,
		StockedQty:   dto.StockedQty,
		Warehouse:    dto.Warehouse,
		Operator:     kernel.RestoreOperator(dto.OperatorID, dto.OperatorName),
		Status:       warehousing.Status(dto.Status),
		UpdatedAt:    dto.UpdatedAt,
	})
}
