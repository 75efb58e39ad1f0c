package ports

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
)

// ScanQuantityFilter selects records whose quantities are summed.
// Empty BundleKey sums the whole order; ExcludeID leaves one record out,
// typically the record about to be replaced.
type ScanQuantityFilter struct {
	Tenant       kernel.TenantID
	OrderID      kernel.UUID
	ScanType     scan.Type
	ProcessName  string
	QualityStage scan.QualityStage
	BundleKey    string
	ExcludeID    *kernel.UUID
}

// ScanRecordRepository defines the persistence contract for scan records.
type ScanRecordRepository interface {
	// Add inserts a new record. Returns ErrDuplicateScan when the key is taken;
	// the surrounding transaction stays usable.
	Add(ctx context.Context, record *scan.Record) error

	Update(ctx context.Context, record *scan.Record) error

	// FindByKey returns the active record of a scan tuple or an ObjectNotFoundError.
	FindByKey(ctx context.Context, key scan.Key) (*scan.Record, error)

	// SumQuantity adds up the successful records matching the filter.
	SumQuantity(ctx context.Context, filter ScanQuantityFilter) (int, error)

	// ListByOrder returns the successful records of an order in scan order.
	ListByOrder(ctx context.Context, tenant kernel.TenantID, orderID kernel.UUID) ([]*scan.Record, error)

	// ListByBundle returns the successful records of one bundle key in scan order.
	ListByBundle(ctx context.Context, tenant kernel.TenantID, orderID kernel.UUID, bundleKey string) ([]*scan.Record, error)
}
