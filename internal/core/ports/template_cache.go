package ports

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
)

// TemplateCache stores resolved templates by key.
// Implementations treat backend failures as misses.
type TemplateCache interface {
	Get(ctx context.Context, key string) (template.Resolved, bool)
	Put(ctx context.Context, key string, value template.Resolved)
	Invalidate(ctx context.Context, keys ...string)
}
