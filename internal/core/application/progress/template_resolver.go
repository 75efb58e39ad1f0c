package progress

import (
	"context"
	"errors"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const globalScope = "_global"

// TemplateResolver finds the stage list of a style.
//
// Resolution order: the style's process template, the style's progress
// template, the tenant default (process then progress), the global default,
// and finally an empty list. Style and default lookups are cached under
// separate keys; a style without its own template caches a not-found marker
// so that saving a default never leaves a stale style entry behind.
type TemplateResolver struct {
	templates ports.TemplateReader
	cache     ports.TemplateCache
	logger    *zap.Logger
}

// NewTemplateResolver creates a TemplateResolver.
func NewTemplateResolver(templates ports.TemplateReader, cache ports.TemplateCache, logger *zap.Logger) *TemplateResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateResolver{
		templates: templates,
		cache:     cache,
		logger:    logger.With(zap.String("component", "template_resolver")),
	}
}

// Resolve returns the resolved template of a style. The result's Source is
// template.SourceNone when nothing is configured at any level.
func (r *TemplateResolver) Resolve(ctx context.Context, tenant kernel.TenantID, styleNo string) (template.Resolved, error) {
	if styleNo = strings.TrimSpace(styleNo); styleNo != "" {
		res, err := r.cached(ctx, StyleCacheKey(tenant, styleNo), func() (template.Resolved, error) {
			return r.lookup(ctx, tenant, styleNo, template.SourceStyleProcess, template.SourceStyleProgress)
		})
		if err != nil || res.Found() {
			return res, err
		}
	}

	if !tenant.IsGlobal() {
		res, err := r.cached(ctx, DefaultCacheKey(tenant), func() (template.Resolved, error) {
			return r.lookup(ctx, tenant, "", template.SourceTenantDefault, template.SourceTenantDefault)
		})
		if err != nil || res.Found() {
			return res, err
		}
	}

	return r.cached(ctx, DefaultCacheKey(kernel.GlobalTenant), func() (template.Resolved, error) {
		return r.lookup(ctx, kernel.GlobalTenant, "", template.SourceGlobalDefault, template.SourceGlobalDefault)
	})
}

// ResolveProgressNodes returns the ordered stage names of a style.
func (r *TemplateResolver) ResolveProgressNodes(ctx context.Context, tenant kernel.TenantID, styleNo string) ([]string, error) {
	res, err := r.Resolve(ctx, tenant, styleNo)
	if err != nil {
		return nil, err
	}
	return res.StageNames(), nil
}

// ResolveProgressNodeUnitPrices returns the ordered stages with their unit prices.
func (r *TemplateResolver) ResolveProgressNodeUnitPrices(
	ctx context.Context,
	tenant kernel.TenantID,
	styleNo string,
) ([]template.Node, error) {
	res, err := r.Resolve(ctx, tenant, styleNo)
	if err != nil {
		return nil, err
	}
	return res.Nodes, nil
}

// ResolveTotalUnitPrice sums the positive stage prices of a style.
func (r *TemplateResolver) ResolveTotalUnitPrice(ctx context.Context, tenant kernel.TenantID, styleNo string) (decimal.Decimal, error) {
	res, err := r.Resolve(ctx, tenant, styleNo)
	if err != nil {
		return decimal.Zero, err
	}
	return res.TotalUnitPrice(), nil
}

// Invalidate drops the cached entries a template write can affect.
func (r *TemplateResolver) Invalidate(ctx context.Context, tenant kernel.TenantID, styleNo string) {
	keys := []string{DefaultCacheKey(tenant)}
	if styleNo = strings.TrimSpace(styleNo); styleNo != "" {
		keys = append(keys, StyleCacheKey(tenant, styleNo))
	}
	r.cache.Invalidate(ctx, keys...)
	r.logger.Debug("template cache invalidated", zap.Strings("keys", keys))
}

func (r *TemplateResolver) cached(
	ctx context.Context,
	key string,
	load func() (template.Resolved, error),
) (template.Resolved, error) {
	if res, ok := r.cache.Get(ctx, key); ok {
		return res, nil
	}

	res, err := load()
	if err != nil {
		return template.Resolved{}, err
	}
	r.cache.Put(ctx, key, res)
	return res, nil
}

func (r *TemplateResolver) lookup(
	ctx context.Context,
	tenant kernel.TenantID,
	styleNo string,
	processSource, progressSource template.Source,
) (template.Resolved, error) {
	candidates := []struct {
		kind   template.Type
		source template.Source
	}{
		{template.Process, processSource},
		{template.Progress, progressSource},
	}

	for _, c := range candidates {
		lib, err := r.templates.FindActive(ctx, tenant, c.kind, styleNo)
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return template.Resolved{}, err
		}

		res, err := template.ResolvedFrom(lib, c.source)
		if err != nil {
			return template.Resolved{}, err
		}
		if res.Found() {
			return res, nil
		}
	}

	return template.Resolved{Source: template.SourceNone}, nil
}

// StyleCacheKey is the cache key of a style-level resolution.
func StyleCacheKey(tenant kernel.TenantID, styleNo string) string {
	return "tpl:" + scope(tenant) + ":style:" + strings.TrimSpace(styleNo)
}

// DefaultCacheKey is the cache key of a tenant or global default resolution.
func DefaultCacheKey(tenant kernel.TenantID) string {
	return "tpl:" + scope(tenant) + ":default"
}

func scope(tenant kernel.TenantID) string {
	if tenant.IsGlobal() {
		return globalScope
	}
	return tenant.String()
}
