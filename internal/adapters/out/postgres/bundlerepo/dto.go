// Package bundlerepo persists cutting bundles.
package bundlerepo

import (
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BundleDTO is the cutting_bundles row. QR codes are unique per tenant.
type BundleDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID         string    `gorm:"size:64;not null;uniqueIndex:ux_bundles_tenant_qr,priority:1"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderNo          string    `gorm:"size:64;not null"`
	StyleNo          string    `gorm:"size:64;not null"`
	BundleNo         int       `gorm:"not null"`
	Color            string    `gorm:"size:32"`
	Size             string    `gorm:"size:16"`
	Quantity         int       `gorm:"not null"`
	QRCode           string    `gorm:"column:qr_code;size:128;not null;uniqueIndex:ux_bundles_tenant_qr,priority:2"`
	Status           string    `gorm:"size:16;not null"`
	PendingRepairQty int       `gorm:"not null;default:0"`
	ScrappedQty      int       `gorm:"not null;default:0"`
}

// TableName specifies the database table name for bundles.
func (BundleDTO) TableName() string {
	return "cutting_bundles"
}

func fromDomain(b *bundle.CuttingBundle) BundleDTO {
	spec := b.Spec()
	return BundleDTO{
		ID:               spec.ID.Bytes(),
		TenantID:         spec.Tenant.String(),
		OrderID:          spec.OrderID.Bytes(),
		OrderNo:          spec.OrderNo,
		StyleNo:          spec.StyleNo,
		BundleNo:         spec.BundleNo,
		Color:            spec.Color,
		Size:             spec.Size,
		Quantity:         spec.Quantity,
		QRCode:           spec.QRCode,
		Status:           b.Status().String(),
		PendingRepairQty: b.PendingRepairQty(),
		ScrappedQty:      b.ScrappedQty(),
	}
}

func toDomain(dto BundleDTO) (*bundle.CuttingBundle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := bundle.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return bundle.RestoreCuttingBundle(bundle.Spec{
		ID:       id,
		Tenant:   kernel.RestoreTenantID(dto.TenantID),
		OrderID:  orderID,
		OrderNo:  dto.OrderNo,
		StyleNo:  dto.StyleNo,
		BundleNo: dto.BundleNo,
		Color:    dto.Color,
		Size:     dto.Size,
		Quantity: dto.Quantity,
		QRCode:   dto.QRCode,
	}, status, dto.PendingRepairQty, dto.ScrappedQty)
}
