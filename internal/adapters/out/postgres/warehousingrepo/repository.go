package warehousingrepo

import (
	"context"
	"errors"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/warehousing"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWarehousingRepository implements ports.WarehousingRepository using GORM.
type GormWarehousingRepository struct {
	db *gorm.DB
}

var _ ports.WarehousingRepository = (*GormWarehousingRepository)(nil)

// NewGormWarehousingRepository creates a new GORM warehousing repository.
func NewGormWarehousingRepository(db *gorm.DB) *GormWarehousingRepository {
	return &GormWarehousingRepository{db: db}
}

// Add saves a new ledger entry.
func (r *GormWarehousingRepository) Add(ctx context.Context, entry *warehousing.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the quantities and status of an entry.
func (r *GormWarehousingRepository) Update(ctx context.Context, entry *warehousing.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	result := r.db.WithContext(ctx).
		Model(&EntryDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Updates(map[string]any{
			"candidate_qty": dto.CandidateQty,
			"stocked_qty":   dto.StockedQty,
			"warehouse":     dto.Warehouse,
			"operator_id":   dto.OperatorID,
			"operator_name": dto.OperatorName,
			"status":        dto.Status,
			"updated_at":    dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("warehousing", entry.ID().String())
	}
	return nil
}

// FindByBundleKey returns the ledger entry of one bundle slot.
func (r *GormWarehousingRepository) FindByBundleKey(
	ctx context.Context,
	tenant kernel.TenantID,
	orderID kernel.UUID,
	bundleKey string,
) (*warehousing.Entry, error) {
	var dto EntryDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ? AND bundle_key = ?", tenant.String(), orderID.Bytes(), bundleKey).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("warehousing", bundleKey)
		}
		return nil, err
	}

	return toDomain(dto)
}
