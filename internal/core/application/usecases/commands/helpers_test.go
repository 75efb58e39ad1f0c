package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/commands"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
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

type scanUoWs struct{ store *portsfake.Store }

func (f scanUoWs) Create() commands.ScanUoW { return f.store.Create() }

type progressUoWs struct{ store *portsfake.Store }

func (f progressUoWs) Create() commands.ProgressUoW { return f.store.Create() }

type trackingUoWs struct{ store *portsfake.Store }

func (f trackingUoWs) Create() commands.TrackingUoW { return f.store.Create() }

type templateUoWs struct{ store *portsfake.Store }

func (f templateUoWs) Create() commands.TemplateUoW { return f.store.Create() }

type bundleUoWs struct{ store *portsfake.Store }

func (f bundleUoWs) Create() commands.BundleUoW { return f.store.Create() }

// fixture wires the scan pipeline against one in-memory store.
type fixture struct {
	store      *portsfake.Store
	tenant     kernel.TenantID
	clock      ports.Clock
	cache      *portsfake.Cache
	resolver   *progress.TemplateResolver
	aggregator *progress.Aggregator
	ledger     *commands.PayrollLedger
	submit     *commands.SubmitScanCommandHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := portsfake.NewStore()
	tenant, err := kernel.NewTenantID(testTenant)
	require.NoError(t, err)

	clock := ports.ClockFunc(func() time.Time { return fixedNow })
	cache := portsfake.NewCache()
	resolver := progress.NewTemplateResolver(store.Create().TemplateRepository(), cache, nil)
	aggregator := progress.NewAggregator(resolver, clock, nil, progress.WithRetryInterval(time.Millisecond))
	ledger := commands.NewPayrollLedger(trackingUoWs{store})

	return &fixture{
		store:      store,
		tenant:     tenant,
		clock:      clock,
		cache:      cache,
		resolver:   resolver,
		aggregator: aggregator,
		ledger:     ledger,
		submit:     commands.NewSubmitScanCommandHandler(scanUoWs{store}, aggregator, ledger, clock, nil),
	}
}

func (f *fixture) seedOrder(t *testing.T, orderNo string, qty int) *order.ProductionOrder {
	t.Helper()
	o, err := order.NewProductionOrder(kernel.NewUUID(), f.tenant, orderNo, testStyle, qty)
	require.NoError(t, err)
	require.NoError(t, f.store.Create().OrderRepository().Add(context.Background(), o))
	return o
}

func (f *fixture) seedBundle(t *testing.T, o *order.ProductionOrder, qrCode string, qty int) *bundle.CuttingBundle {
	t.Helper()
	return f.seedBundleOf(t, o, qrCode, 1, "M", qty)
}

func (f *fixture) seedBundleOf(
	t *testing.T,
	o *order.ProductionOrder,
	qrCode string,
	bundleNo int,
	size string,
	qty int,
) *bundle.CuttingBundle {
	t.Helper()
	b, err := bundle.NewCuttingBundle(bundle.Spec{
		ID:       kernel.NewUUID(),
		Tenant:   f.tenant,
		OrderID:  o.ID(),
		OrderNo:  o.OrderNo(),
		StyleNo:  o.StyleNo(),
		BundleNo: bundleNo,
		Color:    "red",
		Size:     size,
		Quantity: qty,
		QRCode:   qrCode,
	})
	require.NoError(t, err)
	require.NoError(t, f.store.Create().BundleRepository().Add(context.Background(), b))
	return b
}

func (f *fixture) seedTemplate(t *testing.T, kind template.Type, styleNo, content string) *template.Library {
	t.Helper()
	l, err := template.NewLibrary(kernel.NewUUID(), f.tenant, kind, styleNo, "", []byte(content), fixedNow)
	require.NoError(t, err)
	require.NoError(t, f.store.Create().TemplateRepository().Add(context.Background(), l))
	return l
}

// bundleScan builds a bundle scan envelope; mutate adjusts it before validation.
func bundleScan(qrCode, scanType string, qty int, operatorID string, mutate ...func(*commands.SubmitScanParams)) commands.SubmitScanParams {
	p := commands.SubmitScanParams{
		TenantID:     testTenant,
		ScanCode:     qrCode,
		Quantity:     qty,
		ScanType:     scanType,
		OperatorID:   operatorID,
		OperatorName: "worker " + operatorID,
	}
	for _, fn := range mutate {
		fn(&p)
	}
	return p
}

func process(name string) func(*commands.SubmitScanParams) {
	return func(p *commands.SubmitScanParams) { p.ProcessName = name }
}

func qualityStage(stage string) func(*commands.SubmitScanParams) {
	return func(p *commands.SubmitScanParams) { p.QualityStage = stage }
}

func (f *fixture) scan(t *testing.T, p commands.SubmitScanParams) (commands.SubmitScanResult, error) {
	t.Helper()
	cmd, err := commands.NewSubmitScanCommand(p)
	require.NoError(t, err)
	return f.submit.Handle(t.Context(), cmd)
}

func (f *fixture) mustScan(t *testing.T, p commands.SubmitScanParams) commands.SubmitScanResult {
	t.Helper()
	res, err := f.scan(t, p)
	require.NoError(t, err)
	require.True(t, res.Success)
	return res
}
