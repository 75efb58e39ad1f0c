package order_test

import (
	"testing"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenant(t *testing.T) kernel.TenantID {
	t.Helper()
	tenant, err := kernel.NewTenantID("factory-1")
	require.NoError(t, err)
	return tenant
}

func TestNewProductionOrder(t *testing.T) {
	tenant := newTenant(t)

	t.Run("should create a pending order", func(t *testing.T) {
		id := kernel.NewUUID()
		o, err := order.NewProductionOrder(id, tenant, "PO-001", "FZ001", 100)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, "PO-001", o.OrderNo())
		assert.Equal(t, "FZ001", o.StyleNo())
		assert.Equal(t, 100, o.Quantity())
		assert.Equal(t, order.Pending, o.Status())
		assert.Zero(t, o.Progress())
		assert.Zero(t, o.Version())
		assert.Nil(t, o.ActualStart())
	})

	t.Run("should join every validation error", func(t *testing.T) {
		o, err := order.NewProductionOrder(kernel.UUID{}, kernel.GlobalTenant, " ", "", 0)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "tenantId")
		assert.Contains(t, err.Error(), "orderNo")
		assert.Contains(t, err.Error(), "styleNo")
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o order.ProductionOrder
		assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())

		var nilOrder *order.ProductionOrder
		assert.Equal(t, order.ErrOrderIsNotConstructed, nilOrder.Validate())
	})
}

func TestRestoreProductionOrder(t *testing.T) {
	tenant := newTenant(t)
	base := order.Snapshot{
		ID:       kernel.NewUUID(),
		Tenant:   tenant,
		OrderNo:  "PO-002",
		StyleNo:  "FZ002",
		Quantity: 50,
		Status:   order.Production,
		Progress: 40,
		Version:  7,
	}

	t.Run("round trips through snapshot", func(t *testing.T) {
		o, err := order.RestoreProductionOrder(base)

		require.NoError(t, err)
		assert.Equal(t, base, o.Snapshot())
	})

	t.Run("rejects progress out of range", func(t *testing.T) {
		s := base
		s.Progress = 101

		_, err := order.RestoreProductionOrder(s)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects completed above quantity", func(t *testing.T) {
		s := base
		s.CompletedQuantity = 51

		_, err := order.RestoreProductionOrder(s)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		s := base
		s.Status = "lost"

		_, err := order.RestoreProductionOrder(s)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestProductionOrder_Lifecycle(t *testing.T) {
	tenant := newTenant(t)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("first scan starts production once", func(t *testing.T) {
		o, _ := order.NewProductionOrder(kernel.NewUUID(), tenant, "PO-1", "FZ001", 10)

		require.NoError(t, o.StartProduction(now))
		require.NoError(t, o.StartProduction(now.Add(time.Hour)))

		assert.Equal(t, order.Production, o.Status())
		assert.Equal(t, now, *o.ActualStart())
	})

	t.Run("progress is clamped", func(t *testing.T) {
		o, _ := order.NewProductionOrder(kernel.NewUUID(), tenant, "PO-1", "FZ001", 10)

		o.ApplyProgress(140, "sewing")
		assert.Equal(t, 100, o.Progress())
		assert.Equal(t, "sewing", o.CurrentStage())

		o.ApplyProgress(-3, "order created")
		assert.Equal(t, 0, o.Progress())
	})

	t.Run("reaching the quantity completes the order", func(t *testing.T) {
		o, _ := order.NewProductionOrder(kernel.NewUUID(), tenant, "PO-1", "FZ001", 10)
		require.NoError(t, o.StartProduction(now))

		o.ApplyCompletedQuantity(4, now)
		assert.Equal(t, order.Production, o.Status())

		o.ApplyCompletedQuantity(15, now)
		assert.Equal(t, 10, o.CompletedQuantity())
		assert.Equal(t, order.Completed, o.Status())
		assert.Equal(t, now, *o.ActualEnd())
	})

	t.Run("terminal order rejects scans", func(t *testing.T) {
		o, _ := order.NewProductionOrder(kernel.NewUUID(), tenant, "PO-9", "FZ001", 10)
		require.NoError(t, o.Cancel())

		err := o.StartProduction(now)
		require.ErrorIs(t, err, order.ErrOrderAlreadyFinal)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Contains(t, err.Error(), "PO-9")

		require.ErrorIs(t, o.Cancel(), order.ErrOrderAlreadyFinal)
	})

	t.Run("plan window must be ordered", func(t *testing.T) {
		o, _ := order.NewProductionOrder(kernel.NewUUID(), tenant, "PO-1", "FZ001", 10)

		require.Error(t, o.SetPlan(now, now.Add(-time.Hour)))
		require.NoError(t, o.SetPlan(now, now.Add(72*time.Hour)))
		assert.Equal(t, now, *o.PlannedStart())
	})

	t.Run("version increments", func(t *testing.T) {
		o, _ := order.NewProductionOrder(kernel.NewUUID(), tenant, "PO-1", "FZ001", 10)
		o.IncrementVersion()
		o.IncrementVersion()
		assert.Equal(t, int64(2), o.Version())
	})
}
