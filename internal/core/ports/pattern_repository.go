package ports

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
)

// PatternRepository answers whether a style has its pattern file on record.
// Cutting is refused until it does.
type PatternRepository interface {
	HasPattern(ctx context.Context, tenant kernel.TenantID, styleNo string) (bool, error)
}
