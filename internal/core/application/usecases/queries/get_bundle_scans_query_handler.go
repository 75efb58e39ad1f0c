package queries

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetBundleScansQueryHandler lists a bundle's scan history.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetBundleScansQueryHandler(db)
//	query, _ := NewGetBundleScansQuery("factory-1", "QR-PO1-001")
//
//	scans, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for _, s := range scans {
//	    fmt.Printf("%s %s x%d by %s\n", s.ScanType, s.ProcessName, s.Quantity, s.OperatorName)
//	}
type GetBundleScansQueryHandler struct {
	db *gorm.DB
}

// NewGetBundleScansQueryHandler creates a GetBundleScansQueryHandler.
func NewGetBundleScansQueryHandler(db *gorm.DB) GetBundleScansQueryHandler {
	return GetBundleScansQueryHandler{db: db}
}

// Handle returns the successful scans recorded against the bundle code,
// oldest first. Rescans keep the position of the original insert when they
// share a timestamp.
func (h GetBundleScansQueryHandler) Handle(
	ctx context.Context,
	query GetBundleScansQuery,
) ([]GetBundleScansQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	scans := make([]GetBundleScansQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_no,
			scan_type,
			process_name,
			process_code,
			quality_stage,
			quantity,
			quality_result,
			qualified_qty,
			unqualified_qty,
			defect_remark,
			warehouse,
			operator_id,
			operator_name,
			scanned_at
		FROM scan_records
		WHERE tenant_id = ? AND scan_code = ? AND result = 'success'
		ORDER BY scanned_at, seq
	`, query.Tenant().String(), query.ScanCode()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s GetBundleScansQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&s.OrderNo,
			&s.ScanType,
			&s.ProcessName,
			&s.ProcessCode,
			&s.QualityStage,
			&s.Quantity,
			&s.QualityResult,
			&s.QualifiedQty,
			&s.UnqualifiedQty,
			&s.DefectRemark,
			&s.Warehouse,
			&s.OperatorID,
			&s.OperatorName,
			&s.ScannedAt,
		)
		if err != nil {
			return nil, err
		}

		scanID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		s.ID = scanID

		scans = append(scans, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return scans, nil
}
