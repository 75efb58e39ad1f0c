package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports/portsfake"

	"github.com/stretchr/testify/require"
)

const (
	testTenant = "factory-1"
	testStyle  = "FZ001"

	styleProcess = `{"steps":[
		{"processCode":"C01","processName":"裁片","progressStage":"裁剪","unitPrice":0.5},
		{"processCode":"S01","processName":"上领","progressStage":"车缝","unitPrice":1.2},
		{"processCode":"S02","processName":"上袖","progressStage":"车缝","unitPrice":0.8},
		{"processCode":"P01","processName":"包装","unitPrice":0.3}
	]}`
)

var fixedNow = time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store      *portsfake.Store
	tenant     kernel.TenantID
	operator   kernel.Operator
	aggregator *progress.Aggregator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := portsfake.NewStore()
	tenant, err := kernel.NewTenantID(testTenant)
	require.NoError(t, err)
	operator, err := kernel.NewOperator("W-1", "Li")
	require.NoError(t, err)

	clock := ports.ClockFunc(func() time.Time { return fixedNow })
	resolver := progress.NewTemplateResolver(store.Create().TemplateRepository(), portsfake.NewCache(), nil)

	return &fixture{
		store:      store,
		tenant:     tenant,
		operator:   operator,
		aggregator: progress.NewAggregator(resolver, clock, nil),
	}
}

func (f *fixture) seedOrder(t *testing.T, orderNo string, qty int) *order.ProductionOrder {
	t.Helper()
	o, err := order.NewProductionOrder(kernel.NewUUID(), f.tenant, orderNo, testStyle, qty)
	require.NoError(t, err)
	require.NoError(t, f.store.Create().OrderRepository().Add(context.Background(), o))
	return o
}

func (f *fixture) seedTemplate(t *testing.T, content string) {
	t.Helper()
	l, err := template.NewLibrary(kernel.NewUUID(), f.tenant, template.Process, testStyle, "", []byte(content), fixedNow)
	require.NoError(t, err)
	require.NoError(t, f.store.Create().TemplateRepository().Add(context.Background(), l))
}

func (f *fixture) seedScan(t *testing.T, o *order.ProductionOrder, bundleKey, processName string, qty int, result scan.Result) {
	t.Helper()
	r, err := scan.RestoreRecord(scan.Params{
		ID: kernel.NewUUID(),
		Key: scan.Key{
			Tenant: f.tenant, OrderID: o.ID(), BundleKey: bundleKey,
			ScanType: scan.Production, ProcessName: processName,
		},
		OrderNo: o.OrderNo(), Color: "red", Size: "M",
		Quantity: qty, Operator: f.operator, ScannedAt: fixedNow,
	}, result)
	require.NoError(t, err)
	require.NoError(t, f.store.Create().ScanRecordRepository().Add(context.Background(), r))
}
