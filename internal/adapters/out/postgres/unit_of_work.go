// Package postgres provides the GORM-based Unit of Work over the scan
// workflow tables.
//
// A unit of work hands out repositories bound to its transaction once Begin
// has been called, and to the plain connection before that. Each command
// creates its own instance; instances must not be shared between goroutines.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().Lock(ctx, tenant, orderID)
//	if err != nil {
//	    return err
//	}
//	// ... record the scan and recompute progress
//
//	return uow.Commit(ctx)
package postgres

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/bundlerepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/orderrepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/patternrepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/scanrepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/templaterepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/trackingrepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/warehousingrepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances on one GORM connection.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new unit of work with no transaction open.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create returning the concrete type, for callers that inspect
// tracked aggregates.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and records the
// aggregates written through its order and bundle repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

var (
	_ ports.UnitOfWork        = (*GormUnitOfWork)(nil)
	_ ports.UnitOfWorkFactory = (*GormUnitOfWorkFactory)(nil)
)

// Begin starts a transaction. Calling Begin twice keeps the first transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. Returns gorm.ErrInvalidTransaction when
// none is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction and forgets tracked aggregates. Returns
// gorm.ErrInvalidTransaction when none is open, which makes the deferred
// rollback after a successful Commit a harmless no-op.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// InTransaction reports whether Begin has been called without a matching
// Commit or Rollback.
func (uow *GormUnitOfWork) InTransaction() bool {
	return uow.tx != nil
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) BundleRepository() ports.BundleRepository {
	return bundlerepo.NewGormBundleRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ScanRecordRepository() ports.ScanRecordRepository {
	return scanrepo.NewGormScanRecordRepository(uow.conn())
}

func (uow *GormUnitOfWork) TrackingRepository() ports.TrackingRepository {
	return trackingrepo.NewGormTrackingRepository(uow.conn())
}

func (uow *GormUnitOfWork) TemplateRepository() ports.TemplateRepository {
	return templaterepo.NewGormTemplateRepository(uow.conn())
}

func (uow *GormUnitOfWork) WarehousingRepository() ports.WarehousingRepository {
	return warehousingrepo.NewGormWarehousingRepository(uow.conn())
}

func (uow *GormUnitOfWork) PatternRepository() ports.PatternRepository {
	return patternrepo.NewGormPatternRepository(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedIDs returns the ids of the aggregates written so far, in write order.
func (uow *GormUnitOfWork) TrackedIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		ids = append(ids, t.ID)
	}
	return ids
}
