package ports

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
)

// TemplateReader finds the active template of one scope.
// An empty styleNo addresses the default template of the tenant;
// kernel.GlobalTenant addresses the global defaults.
type TemplateReader interface {
	FindActive(ctx context.Context, tenant kernel.TenantID, kind template.Type, styleNo string) (*template.Library, error)
}

// TemplateRepository defines the persistence contract for template libraries.
type TemplateRepository interface {
	TemplateReader

	Add(ctx context.Context, aggregate *template.Library) error
	Update(ctx context.Context, aggregate *template.Library) error
	Get(ctx context.Context, id kernel.UUID) (*template.Library, error)
}
