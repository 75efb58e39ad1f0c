package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports/portsfake"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC)

func tenantID(t *testing.T, v string) kernel.TenantID {
	t.Helper()
	tenant, err := kernel.NewTenantID(v)
	require.NoError(t, err)
	return tenant
}

func seedTemplate(
	t *testing.T,
	store *portsfake.Store,
	tenant kernel.TenantID,
	kind template.Type,
	styleNo, content string,
) *template.Library {
	t.Helper()
	l, err := template.NewLibrary(kernel.NewUUID(), tenant, kind, styleNo, "", []byte(content), fixedNow)
	require.NoError(t, err)
	require.NoError(t, store.Create().TemplateRepository().Add(context.Background(), l))
	return l
}

func seedOrder(t *testing.T, store *portsfake.Store, tenant kernel.TenantID, qty int) *order.ProductionOrder {
	t.Helper()
	o, err := order.NewProductionOrder(kernel.NewUUID(), tenant, "PO-"+kernel.NewUUID().String()[:8], "FZ001", qty)
	require.NoError(t, err)
	require.NoError(t, store.Create().OrderRepository().Add(context.Background(), o))
	return o
}

func seedScan(
	t *testing.T,
	store *portsfake.Store,
	o *order.ProductionOrder,
	kind scan.Type,
	stage scan.QualityStage,
	processName string,
	qty int,
) {
	t.Helper()
	op, err := kernel.NewOperator("W-1", "Li")
	require.NoError(t, err)

	p := scan.Params{
		ID: kernel.NewUUID(),
		Key: scan.Key{
			Tenant:       o.Tenant(),
			OrderID:      o.ID(),
			BundleKey:    "sku:red/M",
			ScanType:     kind,
			ProcessName:  processName,
			QualityStage: stage,
		},
		OrderNo:   o.OrderNo(),
		Quantity:  qty,
		Operator:  op,
		ScannedAt: fixedNow,
	}
	if stage == scan.Confirm {
		p.Outcome = scan.Outcome{Result: scan.ResultQualified}
	}
	rec, err := scan.NewRecord(p)
	require.NoError(t, err)
	require.NoError(t, store.Create().ScanRecordRepository().Add(context.Background(), rec))
}
