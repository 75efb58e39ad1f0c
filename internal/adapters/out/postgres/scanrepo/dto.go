// Package scanrepo persists scan records. A unique index over the scan tuple
// keeps a single active record per (tenant, order, bundle key, type, process,
// quality stage).
package scanrepo

import (
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"

	"github.com/google/uuid"
)

// ScanRecordDTO is the scan_records row.
type ScanRecordDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Seq            int64      `gorm:"autoIncrement;not null"`
	TenantID       string     `gorm:"size:64;not null;uniqueIndex:ux_scan_key,priority:1"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_scan_key,priority:2"`
	BundleKey      string     `gorm:"size:128;not null;uniqueIndex:ux_scan_key,priority:3"`
	ScanType       string     `gorm:"size:16;not null;uniqueIndex:ux_scan_key,priority:4"`
	ProcessName    string     `gorm:"size:64;not null;uniqueIndex:ux_scan_key,priority:5"`
	QualityStage   string     `gorm:"size:16;not null;default:'';uniqueIndex:ux_scan_key,priority:6"`
	OrderNo        string     `gorm:"size:64;not null"`
	BundleID       *uuid.UUID `gorm:"type:uuid"`
	ScanCode       string     `gorm:"size:128;index"`
	Color          string     `gorm:"size:32"`
	Size           string     `gorm:"size:16"`
	ProcessCode    string     `gorm:"size:32"`
	Quantity       int        `gorm:"not null"`
	QualityResult  string     `gorm:"size:16"`
	QualifiedQty   int
	UnqualifiedQty int
	DefectCategory string `gorm:"size:64"`
	DefectRemark   string `gorm:"size:16"`
	Warehouse      string `gorm:"size:64"`
	OperatorID     string `gorm:"size:64;not null"`
	OperatorName   string `gorm:"size:64"`
	ScannedAt      time.Time
	Result         string `gorm:"size:16;not null"`
}

// TableName specifies the database table name for scan records.
func (ScanRecordDTO) TableName() string {
	return "scan_records"
}

func fromDomain(r *scan.Record) ScanRecordDTO {
	p := r.Params()

	var bundleID *uuid.UUID
	if p.BundleID != nil {
		raw := p.BundleID.Bytes()
		bundleID = &raw
	}

	return ScanRecordDTO{
		ID:             p.ID.Bytes(),
		TenantID:       p.Key.Tenant.String(),
		OrderID:        p.Key.OrderID.Bytes(),
		BundleKey:      p.Key.BundleKey,
		ScanType:       string(p.Key.ScanType),
		ProcessName:    p.Key.ProcessName,
		QualityStage:   string(p.Key.QualityStage),
		OrderNo:        p.OrderNo,
		BundleID:       bundleID,
		ScanCode:       p.ScanCode,
		Color:          p.Color,
		Size:           p.Size,
		ProcessCode:    p.ProcessCode,
		Quantity:       p.Quantity,
		QualityResult:  string(p.Outcome.Result),
		QualifiedQty:   p.Outcome.QualifiedQty,
		UnqualifiedQty: p.Outcome.UnqualifiedQty,
		DefectCategory: p.Outcome.DefectCategory,
		DefectRemark:   string(p.Outcome.DefectRemark),
		Warehouse:      p.Warehouse,
		OperatorID:     p.Operator.ID(),
		OperatorName:   p.Operator.Name(),
		ScannedAt:      p.ScannedAt,
		Result:         string(r.Result()),
	}
}

// mutableColumns are the fields a rescan or reassignment rewrites.
func mutableColumns(dto ScanRecordDTO) map[string]any {
	return map[string]any{
		"process_code":    dto.ProcessCode,
		"quantity":        dto.Quantity,
		"quality_result":  dto.QualityResult,
		"qualified_qty":   dto.QualifiedQty,
		"unqualified_qty": dto.UnqualifiedQty,
		"defect_category": dto.DefectCategory,
		"defect_remark":   dto.DefectRemark,
		"warehouse":       dto.Warehouse,
		"operator_id":     dto.OperatorID,
		"operator_name":   dto.OperatorName,
		"scanned_at":      dto.ScannedAt,
		"result":          dto.Result,
	}
}

func toDomain(dto ScanRecordDTO) (*scan.Record, error) {
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

	return scan.RestoreRecord(scan.Params{
		ID: id,
		Key: scan.Key{
			Tenant:       kernel.RestoreTenantID(dto.TenantID),
			OrderID:      orderID,
			BundleKey:    dto.BundleKey,
			ScanType:     scan.Type(dto.ScanType),
			ProcessName:  dto.ProcessName,
			QualityStage: scan.QualityStage(dto.QualityStage),
		},
		OrderNo:     dto.OrderNo,
		BundleID:    bundleID,
		ScanCode:    dto.ScanCode,
		Color:       dto.Color,
		Size:        dto.Size,
		ProcessCode: dto.ProcessCode,
		Quantity:    dto.Quantity,
		Outcome: scan.Outcome{
			Result:         scan.QualityResult(dto.QualityResult),
			QualifiedQty:   dto.QualifiedQty,
			UnqualifiedQty: dto.UnqualifiedQty,
			DefectCategory: dto.DefectCategory,
			DefectRemark:   scan.DefectRemark(dto.DefectRemark),
		},
		Warehouse: dto.Warehouse,
		Operator:  kernel.RestoreOperator(dto.OperatorID, dto.OperatorName),
		ScannedAt: dto.ScannedAt,
	}, scan.Result(dto.Result))
}
