// Package ports defines the persistence and cache contracts of the scan workflow.
// Every repository call is scoped by an explicit tenant.
package ports

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for production orders.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.ProductionOrder) error

	// Get loads an order by id without locking.
	Get(ctx context.Context, tenant kernel.TenantID, id kernel.UUID) (*order.ProductionOrder, error)

	// GetByOrderNo loads an order by its business number without locking.
	GetByOrderNo(ctx context.Context, tenant kernel.TenantID, orderNo string) (*order.ProductionOrder, error)

	// Lock loads an order by id and holds its row lock until the transaction ends.
	// Scans on the same order serialize on this lock.
	Lock(ctx context.Context, tenant kernel.TenantID, id kernel.UUID) (*order.ProductionOrder, error)

	// LockByOrderNo is Lock addressed by business number.
	LockByOrderNo(ctx context.Context, tenant kernel.TenantID, orderNo string) (*order.ProductionOrder, error)

	// UpdateIfVersion writes the aggregate only when the stored version still
	// equals expectedVersion. Returns ErrStaleVersion otherwise.
	UpdateIfVersion(ctx context.Context, aggregate *order.ProductionOrder, expectedVersion int64) error

	// ListScannable returns pending and in-production orders of every tenant.
	ListScannable(ctx context.Context) ([]*order.ProductionOrder, error)
}
