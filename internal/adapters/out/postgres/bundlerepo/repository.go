package bundlerepo

import (
	"context"
	"errors"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormBundleRepository implements ports.BundleRepository using GORM.
type GormBundleRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

var _ ports.BundleRepository = (*GormBundleRepository)(nil)

// NewGormBundleRepository creates a new GORM bundle repository.
func NewGormBundleRepository(db *gorm.DB, tracker aggregateTracker) *GormBundleRepository {
	return &GormBundleRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new bundle.
func (r *GormBundleRepository) Add(ctx context.Context, aggregate *bundle.CuttingBundle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the quality state of a bundle.
func (r *GormBundleRepository) Update(ctx context.Context, aggregate *bundle.CuttingBundle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&BundleDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Updates(map[string]any{
			"status":             dto.Status,
			"pending_repair_qty": dto.PendingRepairQty,
			"scrapped_qty":       dto.ScrappedQty,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("bundle", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByQRCode retrieves a bundle by the code printed on its tag.
func (r *GormBundleRepository) GetByQRCode(
	ctx context.Context,
	tenant kernel.TenantID,
	qrCode string,
) (*bundle.CuttingBundle, error) {
	var dto BundleDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND qr_code = ?", tenant.String(), qrCode).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bundle", qrCode)
		}
		return nil, err
	}

	return toDomain(dto)
}
