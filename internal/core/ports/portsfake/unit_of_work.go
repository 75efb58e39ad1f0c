package portsfake

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
)

// UnitOfWork implements ports.UnitOfWork over a Store.
type UnitOfWork struct {
	store *Store
	tx    *tables
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.tx != nil {
		return nil
	}
	u.store.mu.Lock()
	cp := u.store.data.clone()
	u.store.mu.Unlock()
	u.tx = &cp
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	u.store.mu.Lock()
	u.store.data = *u.tx
	u.store.mu.Unlock()
	u.tx = nil
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	u.tx = nil
	return nil
}

// view runs fn against the transaction copy, or the committed state when no
// transaction is open.
func (u *UnitOfWork) view(fn func(t *tables) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(&u.store.data)
}

func (u *UnitOfWork) takeStale() bool {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if u.store.staleUpdates > 0 {
		u.store.staleUpdates--
		return true
	}
	return false
}

func (u *UnitOfWork) trackingFailure() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return u.store.trackingError
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return orderRepo{u}
}

func (u *UnitOfWork) BundleRepository() ports.BundleRepository {
	return bundleRepo{u}
}

func (u *UnitOfWork) ScanRecordRepository() ports.ScanRecordRepository {
	return scanRepo{u}
}

func (u *UnitOfWork) TrackingRepository() ports.TrackingRepository {
	return trackingRepo{u}
}

func (u *UnitOfWork) TemplateRepository() ports.TemplateRepository {
	return templateRepo{u}
}

func (u *UnitOfWork) WarehousingRepository() ports.WarehousingRepository {
	return warehousingRepo{u}
}

func (u *UnitOfWork) PatternRepository() ports.PatternRepository {
	return patternRepo{u}
}
