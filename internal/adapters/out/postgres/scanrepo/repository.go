package scanrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormScanRecordRepository implements ports.ScanRecordRepository using GORM.
type GormScanRecordRepository struct {
	db *gorm.DB
}

var _ ports.ScanRecordRepository = (*GormScanRecordRepository)(nil)

// NewGormScanRecordRepository creates a new GORM scan record repository.
func NewGormScanRecordRepository(db *gorm.DB) *GormScanRecordRepository {
	return &GormScanRecordRepository{db: db}
}

// Add inserts a record. The insert runs in a nested transaction, so inside a
// unit of work a unique violation rolls back to a savepoint and the outer
// transaction stays usable. The connection must translate dialect errors
// (gorm.Config.TranslateError) for the violation to surface as ErrDuplicateScan.
func (r *GormScanRecordRepository) Add(ctx context.Context, record *scan.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Seq").Create(&dto).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrDuplicateScan
	}
	return err
}

// Update rewrites the mutable columns of a record.
func (r *GormScanRecordRepository) Update(ctx context.Context, record *scan.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).
		Model(&ScanRecordDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Updates(mutableColumns(dto))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("scan record", record.ID().String())
	}
	return nil
}

// FindByKey returns the record of a scan tuple.
func (r *GormScanRecordRepository) FindByKey(ctx context.Context, key scan.Key) (*scan.Record, error) {
	var dto ScanRecordDTO
	err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND order_id = ? AND bundle_key = ? AND scan_type = ? AND process_name = ? AND quality_stage = ?",
			key.Tenant.String(), key.OrderID.Bytes(), key.BundleKey,
			string(key.ScanType), key.ProcessName, string(key.QualityStage),
		).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("scan record", describeKey(key))
		}
		return nil, err
	}

	return toDomain(dto)
}

// SumQuantity adds up the successful records matching the filter.
func (r *GormScanRecordRepository) SumQuantity(ctx context.Context, filter ports.ScanQuantityFilter) (int, error) {
	query := r.db.WithContext(ctx).
		Model(&ScanRecordDTO{}).
		Where("tenant_id = ? AND order_id = ? AND result = ?", filter.Tenant.String(), filter.OrderID.Bytes(), string(scan.Success)).
		Where("scan_type = ? AND process_name = ? AND quality_stage = ?",
			string(filter.ScanType), filter.ProcessName, string(filter.QualityStage))
	if filter.BundleKey != "" {
		query = query.Where("bundle_key = ?", filter.BundleKey)
	}
	if filter.ExcludeID != nil {
		query = query.Where("id <> ?", filter.ExcludeID.Bytes())
	}

	var total int64
	if err := query.Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

// ListByOrder returns the successful records of an order in scan order.
func (r *GormScanRecordRepository) ListByOrder(
	ctx context.Context,
	tenant kernel.TenantID,
	orderID kernel.UUID,
) ([]*scan.Record, error) {
	return r.list(r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenant.String(), orderID.Bytes()))
}

// ListByBundle returns the successful records of one bundle key in scan order.
func (r *GormScanRecordRepository) ListByBundle(
	ctx context.Context,
	tenant kernel.TenantID,
	orderID kernel.UUID,
	bundleKey string,
) ([]*scan.Record, error) {
	return r.list(r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ? AND bundle_key = ?", tenant.String(), orderID.Bytes(), bundleKey))
}

func (r *GormScanRecordRepository) list(query *gorm.DB) ([]*scan.Record, error) {
	var dtos []ScanRecordDTO
	if err := query.Where("result = ?", string(scan.Success)).Order("seq").Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]*scan.Record, 0, len(dtos))
	for _, dto := range dtos {
		rec, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func describeKey(k scan.Key) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", k.OrderID, k.BundleKey, k.ScanType, k.ProcessName, k.QualityStage)
}
