package ports

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/tracking"
)

// TrackingRepository defines the persistence contract for payroll tracking rows.
type TrackingRepository interface {
	// AddMissing inserts rows whose (tenant, bundle, process) is not stored yet
	// and silently skips the others.
	AddMissing(ctx context.Context, rows []*tracking.Tracking) error

	Update(ctx context.Context, row *tracking.Tracking) error

	// ListByBundle returns a bundle's rows in insertion order.
	ListByBundle(ctx context.Context, tenant kernel.TenantID, bundleID kernel.UUID) ([]*tracking.Tracking, error)
}
