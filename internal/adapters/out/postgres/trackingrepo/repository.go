package trackingrepo

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/tracking"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTrackingRepository implements ports.TrackingRepository using GORM.
type GormTrackingRepository struct {
	db *gorm.DB
}

var _ ports.TrackingRepository = (*GormTrackingRepository)(nil)

// NewGormTrackingRepository creates a new GORM tracking repository.
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// AddMissing inserts the rows with ON CONFLICT DO NOTHING on the
// (tenant, bundle, process) index.
func (r *GormTrackingRepository) AddMissing(ctx context.Context, rows []*tracking.Tracking) error {
	if len(rows) == 0 {
		return nil
	}

	dtos := make([]TrackingDTO, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(row))
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "bundle_id"}, {Name: "process_name"}},
			DoNothing: true,
		}).
		Omit("Seq").
		Create(&dtos).Error
}

// Update writes the scan-driven state of a row.
func (r *GormTrackingRepository) Update(ctx context.Context, row *tracking.Tracking) error {
	if err := row.Validate(); err != nil {
		return err
	}

	dto := fromDomain(row)
	result := r.db.WithContext(ctx).
		Model(&TrackingDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Updates(map[string]any{
			"quantity":      dto.Quantity,
			"operator_id":   dto.OperatorID,
			"operator_name": dto.OperatorName,
			"settlement":    dto.Settlement,
			"completed":     dto.Completed,
			"completed_at":  dto.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("tracking", row.ID().String())
	}
	return nil
}

// ListByBundle returns a bundle's rows in insertion order.
func (r *GormTrackingRepository) ListByBundle(
	ctx context.Context,
	tenant kernel.TenantID,
	bundleID kernel.UUID,
) ([]*tracking.Tracking, error) {
	var dtos []TrackingDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND bundle_id = ?", tenant.String(), bundleID.Bytes()).
		Order("seq").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	rows := make([]*tracking.Tracking, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		rows = append(rows, t)
	}
	return rows, nil
}
