package ports

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/warehousing"
)

// WarehousingRepository defines the persistence contract for the finished goods ledger.
type WarehousingRepository interface {
	Add(ctx context.Context, entry *warehousing.Entry) error
	Update(ctx context.Context, entry *warehousing.Entry) error

	// FindByBundleKey returns the ledger entry of one bundle slot or an ObjectNotFoundError.
	FindByBundleKey(ctx context.Context, tenant kernel.TenantID, orderID kernel.UUID, bundleKey string) (*warehousing.Entry, error)
}
