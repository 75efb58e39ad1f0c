package progress_test

import (
	"testing"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports/portsfake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	styleProcess = `{"steps":[
		{"processCode":"C01","processName":"裁片","progressStage":"裁剪","unitPrice":0.5},
		{"processCode":"S01","processName":"上领","progressStage":"车缝","unitPrice":1.2},
		{"processCode":"S02","processName":"上袖","progressStage":"车缝","unitPrice":0.8},
		{"processCode":"P01","processName":"包装","unitPrice":0.3}
	]}`
	globalProgress = `{"nodes":[{"name":"裁剪"},{"name":"车缝"},{"name":"整烫"}]}`
	tenantProgress = `{"nodes":[{"name":"裁剪","unitPrice":1},{"name":"车缝","unitPrice":2.005}]}`
)

func newResolver(store *portsfake.Store, cache *portsfake.Cache) *progress.TemplateResolver {
	return progress.NewTemplateResolver(store.Create().TemplateRepository(), cache, nil)
}

func TestTemplateResolver_ResolutionOrder(t *testing.T) {
	ctx := t.Context()
	store := portsfake.NewStore()
	tenant := tenantID(t, "factory-1")

	seedTemplate(t, store, kernel.GlobalTenant, template.Progress, "", globalProgress)
	seedTemplate(t, store, tenant, template.Process, "FZ001", styleProcess)
	seedTemplate(t, store, tenant, template.Progress, "FZ001", globalProgress)

	r := newResolver(store, portsfake.NewCache())

	t.Run("style process template wins", func(t *testing.T) {
		res, err := r.Resolve(ctx, tenant, "FZ001")

		require.NoError(t, err)
		assert.Equal(t, template.SourceStyleProcess, res.Source)
		assert.Equal(t, []string{"裁剪", "车缝", "包装"}, res.StageNames())
	})

	t.Run("unknown style falls back to global default", func(t *testing.T) {
		nodes, err := r.ResolveProgressNodes(ctx, tenant, "FZ999")

		require.NoError(t, err)
		assert.Equal(t, []string{"裁剪", "车缝", "整烫"}, nodes)
	})

	t.Run("unit prices", func(t *testing.T) {
		nodes, err := r.ResolveProgressNodeUnitPrices(ctx, tenant, "FZ001")
		require.NoError(t, err)
		require.Len(t, nodes, 3)
		assert.Equal(t, "2", nodes[1].UnitPrice.String())

		total, err := r.ResolveTotalUnitPrice(ctx, tenant, "FZ001")
		require.NoError(t, err)
		assert.Equal(t, "2.80", total.StringFixed(2))
	})
}

func TestTemplateResolver_TenantDefaultBeatsGlobal(t *testing.T) {
	ctx := t.Context()
	store := portsfake.NewStore()
	tenant := tenantID(t, "factory-1")
	cache := portsfake.NewCache()
	r := newResolver(store, cache)

	seedTemplate(t, store, kernel.GlobalTenant, template.Progress, "", globalProgress)

	res, err := r.Resolve(ctx, tenant, "FZ001")
	require.NoError(t, err)
	assert.Equal(t, template.SourceGlobalDefault, res.Source)
	assert.True(t, cache.Has(progress.StyleCacheKey(tenant, "FZ001")), "style miss is cached as a marker")

	seedTemplate(t, store, tenant, template.Progress, "", tenantProgress)
	r.Invalidate(ctx, tenant, "")

	res, err = r.Resolve(ctx, tenant, "FZ001")
	require.NoError(t, err)
	assert.Equal(t, template.SourceTenantDefault, res.Source)
	assert.Equal(t, "3.01", res.TotalUnitPrice().StringFixed(2))
}

func TestTemplateResolver_Cache(t *testing.T) {
	ctx := t.Context()
	store := portsfake.NewStore()
	tenant := tenantID(t, "factory-1")
	cache := portsfake.NewCache()
	r := newResolver(store, cache)

	seedTemplate(t, store, tenant, template.Process, "FZ001", styleProcess)

	_, err := r.Resolve(ctx, tenant, "FZ001")
	require.NoError(t, err)
	_, err = r.Resolve(ctx, tenant, "FZ001")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Hits)

	r.Invalidate(ctx, tenant, "FZ001")
	assert.False(t, cache.Has(progress.StyleCacheKey(tenant, "FZ001")))
	assert.False(t, cache.Has(progress.DefaultCacheKey(tenant)))
}

func TestTemplateResolver_NothingConfigured(t *testing.T) {
	r := newResolver(portsfake.NewStore(), portsfake.NewCache())

	res, err := r.Resolve(t.Context(), tenantID(t, "factory-1"), "FZ001")

	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.Empty(t, res.StageNames())
}

func TestCacheKeys(t *testing.T) {
	tenant := tenantID(t, "factory-1")

	assert.Equal(t, "tpl:factory-1:style:FZ001", progress.StyleCacheKey(tenant, " FZ001 "))
	assert.Equal(t, "tpl:factory-1:default", progress.DefaultCacheKey(tenant))
	assert.Equal(t, "tpl:_global:default", progress.DefaultCacheKey(kernel.GlobalTenant))
}
