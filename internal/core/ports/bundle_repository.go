package ports

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
)

// BundleRepository defines the persistence contract for cutting bundles.
type BundleRepository interface {
	Add(ctx context.Context, aggregate *bundle.CuttingBundle) error
	Update(ctx context.Context, aggregate *bundle.CuttingBundle) error

	// GetByQRCode resolves the code printed on a bundle tag.
	GetByQRCode(ctx context.Context, tenant kernel.TenantID, qrCode string) (*bundle.CuttingBundle, error)
}
