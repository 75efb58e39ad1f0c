package commands_test

import (
	"testing"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/commands"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeProgressCommandHandler(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, "PO-1", 50)
	f.seedBundle(t, o, "QR-1", 50)
	scanned := f.mustScan(t, bundleScan("QR-1", "production", 50, "W-1", process("sewing")))

	handler := commands.NewRecomputeProgressCommandHandler(progressUoWs{f.store}, f.aggregator)

	t.Run("rebuilds from stored scans", func(t *testing.T) {
		before, ok := f.store.Order(o.ID())
		require.True(t, ok)

		cmd, err := commands.NewRecomputeProgressCommand(testTenant, "PO-1")
		require.NoError(t, err)

		res, err := handler.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "PO-1", res.OrderNo)
		assert.Equal(t, scanned.Progress, res.Progress)
		assert.Equal(t, scanned.CurrentStage, res.CurrentStage)
		assert.Greater(t, res.Version, before.Version())
		assert.NotEmpty(t, res.Breakdown.Stages)
	})

	t.Run("unknown order", func(t *testing.T) {
		cmd, err := commands.NewRecomputeProgressCommand(testTenant, "PO-404")
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("order number is required", func(t *testing.T) {
		_, err := commands.NewRecomputeProgressCommand(testTenant, " ")
		require.ErrorIs(t, err, commands.ErrOrderNoIsRequired)
	})

	t.Run("zero command", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), commands.RecomputeProgressCommand{})
		require.ErrorIs(t, err, commands.ErrRecomputeProgressCommandIsNotConstructed)
	})
}

func TestMarkBundleRepairedCommandHandler(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, "PO-1", 50)
	b := f.seedBundle(t, o, "QR-1", 50)
	handler := commands.NewMarkBundleRepairedCommandHandler(bundleUoWs{f.store})

	repair := func(t *testing.T, code string) (commands.MarkBundleRepairedResult, error) {
		t.Helper()
		cmd, err := commands.NewMarkBundleRepairedCommand(testTenant, code)
		require.NoError(t, err)
		return handler.Handle(t.Context(), cmd)
	}

	t.Run("nothing pending", func(t *testing.T) {
		_, err := repair(t, "QR-1")

		require.ErrorIs(t, err, bundle.ErrNothingToRepair)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("releases the pending balance once", func(t *testing.T) {
		for _, stage := range []string{"receive", "inspect"} {
			f.mustScan(t, bundleScan("QR-1", "quality", 50, "W-2", qualityStage(stage)))
		}
		f.mustScan(t, bundleScan("QR-1", "quality", 50, "W-2", qualityStage("confirm"),
			func(p *commands.SubmitScanParams) { p.UnqualifiedQuantity, p.DefectRemark = 3, "repair" }))

		res, err := repair(t, "QR-1")
		require.NoError(t, err)
		assert.Equal(t, 3, res.ReleasedQty)

		stored, ok := f.store.Bundle(b.ID())
		require.True(t, ok)
		require.NoError(t, stored.EnsureWarehousable())

		_, err = repair(t, "QR-1")
		require.ErrorIs(t, err, bundle.ErrNothingToRepair)
	})

	t.Run("unknown bundle", func(t *testing.T) {
		_, err := repair(t, "QR-404")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("scan code is required", func(t *testing.T) {
		_, err := commands.NewMarkBundleRepairedCommand(testTenant, "")
		require.ErrorIs(t, err, commands.ErrScanCodeIsRequired)
	})
}
