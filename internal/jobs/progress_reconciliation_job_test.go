package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/commands"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports/portsfake"
	"github.com/chenguojun06-star/fz66666-sub006/internal/jobs"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC)

type progressUoWs struct{ store *portsfake.Store }

func (f progressUoWs) Create() commands.ProgressUoW { return f.store.Create() }

type MockRecomputer struct {
	mock.Mock
}

func (m *MockRecomputer) Handle(
	ctx context.Context,
	command commands.RecomputeProgressCommand,
) (commands.RecomputeProgressResult, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(commands.RecomputeProgressResult), args.Error(1)
}

type MockLister struct {
	mock.Mock
}

func (m *MockLister) ListScannable(ctx context.Context) ([]*order.ProductionOrder, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*order.ProductionOrder)
	return orders, args.Error(1)
}

func newPool(t *testing.T) *worker.Pool {
	t.Helper()
	pool, err := worker.NewPool("reconcile-test", 4, nil)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Release(time.Second) })
	return pool
}

func seedOrder(t *testing.T, store *portsfake.Store, tenant kernel.TenantID, orderNo string, sewn int) *order.ProductionOrder {
	t.Helper()
	o, err := order.NewProductionOrder(kernel.NewUUID(), tenant, orderNo, "FZ001", 50)
	require.NoError(t, err)
	require.NoError(t, store.Create().OrderRepository().Add(t.Context(), o))

	if sewn > 0 {
		operator, err := kernel.NewOperator("W-1", "Li")
		require.NoError(t, err)
		r, err := scan.RestoreRecord(scan.Params{
			ID: kernel.NewUUID(),
			Key: scan.Key{
				Tenant: tenant, OrderID: o.ID(), BundleKey: "QR-" + orderNo,
				ScanType: scan.Production, ProcessName: "sewing",
			},
			OrderNo: orderNo, Color: "red", Size: "M",
			Quantity: sewn, Operator: operator, ScannedAt: fixedNow,
		}, scan.Success)
		require.NoError(t, err)
		require.NoError(t, store.Create().ScanRecordRepository().Add(t.Context(), r))
	}
	return o
}

func TestProgressReconciliationJob_RunOnce(t *testing.T) {
	store := portsfake.NewStore()
	clock := ports.ClockFunc(func() time.Time { return fixedNow })
	resolver := progress.NewTemplateResolver(store.Create().TemplateRepository(), portsfake.NewCache(), nil)
	aggregator := progress.NewAggregator(resolver, clock, nil)
	handler := commands.NewRecomputeProgressCommandHandler(progressUoWs{store}, aggregator)

	factory1, err := kernel.NewTenantID("factory-1")
	require.NoError(t, err)
	factory2, err := kernel.NewTenantID("factory-2")
	require.NoError(t, err)

	drifted := seedOrder(t, store, factory1, "PO-1", 50)
	other := seedOrder(t, store, factory2, "PO-2", 25)
	seedOrder(t, store, factory1, "PO-3", 0)

	job := jobs.NewProgressReconciliationJob(store.Create().OrderRepository(), handler, newPool(t), "", nil)

	report, err := job.RunOnce(t.Context())
	require.NoError(t, err)
	assert.Equal(t, jobs.RunReport{Orders: 3, Changed: 2}, report)

	stored, ok := store.Order(drifted.ID())
	require.True(t, ok)
	assert.Equal(t, 40, stored.Progress())

	stored, ok = store.Order(other.ID())
	require.True(t, ok)
	assert.Equal(t, 20, stored.Progress())

	t.Run("second pass is a no-op", func(t *testing.T) {
		report, err := job.RunOnce(t.Context())
		require.NoError(t, err)
		assert.Equal(t, jobs.RunReport{Orders: 3}, report)
	})
}

func TestProgressReconciliationJob_FailuresAreCounted(t *testing.T) {
	store := portsfake.NewStore()
	tenant, err := kernel.NewTenantID("factory-1")
	require.NoError(t, err)
	seedOrder(t, store, tenant, "PO-1", 0)
	seedOrder(t, store, tenant, "PO-2", 0)

	recomputer := &MockRecomputer{}
	recomputer.On("Handle", mock.Anything, mock.MatchedBy(func(c commands.RecomputeProgressCommand) bool {
		return c.OrderNo() == "PO-1"
	})).Return(commands.RecomputeProgressResult{}, progress.ErrConcurrentUpdateExhausted).Once()
	recomputer.On("Handle", mock.Anything, mock.MatchedBy(func(c commands.RecomputeProgressCommand) bool {
		return c.OrderNo() == "PO-2"
	})).Return(commands.RecomputeProgressResult{OrderNo: "PO-2", Status: order.Pending}, nil).Once()

	job := jobs.NewProgressReconciliationJob(store.Create().OrderRepository(), recomputer, newPool(t), "", nil)

	report, err := job.RunOnce(t.Context())
	require.NoError(t, err)
	assert.Equal(t, jobs.RunReport{Orders: 2, Failed: 1}, report)
	recomputer.AssertExpectations(t)
}

func TestProgressReconciliationJob_ListingFails(t *testing.T) {
	lister := &MockLister{}
	lister.On("ListScannable", mock.Anything).Return(nil, errors.New("database error")).Once()
	recomputer := &MockRecomputer{}

	job := jobs.NewProgressReconciliationJob(lister, recomputer, newPool(t), "", nil)

	_, err := job.RunOnce(t.Context())
	require.EqualError(t, err, "database error")
	recomputer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestProgressReconciliationJob_StartStop(t *testing.T) {
	ran := make(chan struct{}, 1)
	lister := &MockLister{}
	lister.On("ListScannable", mock.Anything).Return([]*order.ProductionOrder{}, nil).Run(func(mock.Arguments) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	job := jobs.NewProgressReconciliationJob(lister, &MockRecomputer{}, newPool(t), "* * * * * *", nil)
	require.NoError(t, job.Start())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
	job.Stop()

	bad := jobs.NewProgressReconciliationJob(lister, &MockRecomputer{}, newPool(t), "not a schedule", nil)
	require.Error(t, bad.Start())
}
