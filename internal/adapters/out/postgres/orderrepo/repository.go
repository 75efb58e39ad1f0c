package orderrepo

import (
	"context"
	"errors"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.ProductionOrder) error {
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

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, tenant kernel.TenantID, id kernel.UUID) (*order.ProductionOrder, error) {
	return r.first(r.db.WithContext(ctx), id.String(), "tenant_id = ? AND id = ?", tenant.String(), id.Bytes())
}

// GetByOrderNo retrieves an order by its business number.
func (r *GormOrderRepository) GetByOrderNo(
	ctx context.Context,
	tenant kernel.TenantID,
	orderNo string,
) (*order.ProductionOrder, error) {
	return r.first(r.db.WithContext(ctx), orderNo, "tenant_id = ? AND order_no = ?", tenant.String(), orderNo)
}

// Lock retrieves an order with SELECT ... FOR UPDATE. Outside a transaction
// the lock is released as soon as the statement completes.
func (r *GormOrderRepository) Lock(ctx context.Context, tenant kernel.TenantID, id kernel.UUID) (*order.ProductionOrder, error) {
	return r.first(r.forUpdate(ctx), id.String(), "tenant_id = ? AND id = ?", tenant.String(), id.Bytes())
}

// LockByOrderNo is Lock addressed by business number.
func (r *GormOrderRepository) LockByOrderNo(
	ctx context.Context,
	tenant kernel.TenantID,
	orderNo string,
) (*order.ProductionOrder, error) {
	return r.first(r.forUpdate(ctx), orderNo, "tenant_id = ? AND order_no = ?", tenant.String(), orderNo)
}

// UpdateIfVersion writes the progress columns only while the stored version
// still equals expectedVersion.
func (r *GormOrderRepository) UpdateIfVersion(
	ctx context.Context,
	aggregate *order.ProductionOrder,
	expectedVersion int64,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND tenant_id = ? AND version = ?", dto.ID, dto.TenantID, expectedVersion).
		Updates(progressColumns(dto))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrStaleVersion
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// ListScannable retrieves pending and in-production orders of every tenant.
func (r *GormOrderRepository) ListScannable(ctx context.Context) ([]*order.ProductionOrder, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{order.Pending.String(), order.Production.String()}).
		Order("tenant_id, order_no").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.ProductionOrder, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) forUpdate(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *GormOrderRepository) first(db *gorm.DB, ref string, query string, args ...any) (*order.ProductionOrder, error) {
	var dto OrderDTO
	if err := db.Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", ref)
		}
		return nil, err
	}

	return toDomain(dto)
}
