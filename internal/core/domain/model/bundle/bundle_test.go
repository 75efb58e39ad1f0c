package bundle_test

import (
	"testing"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec(t *testing.T) bundle.Spec {
	t.Helper()
	tenant, err := kernel.NewTenantID("factory-1")
	require.NoError(t, err)

	return bundle.Spec{
		ID:       kernel.NewUUID(),
		Tenant:   tenant,
		OrderID:  kernel.NewUUID(),
		OrderNo:  "PO-001",
		StyleNo:  "FZ001",
		BundleNo: 3,
		Color:    "red",
		Size:     "M",
		Quantity: 50,
		QRCode:   "PO-001-3",
	}
}

func TestNewCuttingBundle(t *testing.T) {
	t.Run("valid bundle starts cut and unblocked", func(t *testing.T) {
		b, err := bundle.NewCuttingBundle(validSpec(t))

		require.NoError(t, err)
		require.NoError(t, b.Validate())
		assert.Equal(t, bundle.Cut, b.Status())
		assert.False(t, b.IsBlocked())
		assert.Equal(t, "sku:red/M", b.SkuKey())
		assert.Equal(t, 50, b.Quantity())
	})

	t.Run("missing fields are joined", func(t *testing.T) {
		spec := validSpec(t)
		spec.QRCode = " "
		spec.Quantity = 0
		spec.OrderID = kernel.UUID{}

		_, err := bundle.NewCuttingBundle(spec)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "qrCode")
		assert.Contains(t, err.Error(), "quantity is invalid")
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("restore rejects balances above quantity", func(t *testing.T) {
		_, err := bundle.RestoreCuttingBundle(validSpec(t), bundle.Unqualified, 40, 20)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestCuttingBundle_QualityAndRepair(t *testing.T) {
	t.Run("all qualified", func(t *testing.T) {
		b, _ := bundle.NewCuttingBundle(validSpec(t))

		require.NoError(t, b.RecordQualityOutcome(0, 0))
		assert.Equal(t, bundle.Qualified, b.Status())
		assert.NoError(t, b.EnsureWarehousable())
	})

	t.Run("repair blocks warehousing until repaired", func(t *testing.T) {
		b, _ := bundle.NewCuttingBundle(validSpec(t))

		require.NoError(t, b.RecordQualityOutcome(5, 2))
		assert.Equal(t, bundle.Unqualified, b.Status())
		assert.True(t, b.IsBlocked())

		err := b.EnsureWarehousable()
		require.ErrorIs(t, err, bundle.ErrDefectPendingRepair)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)

		released, err := b.MarkRepaired()
		require.NoError(t, err)
		assert.Equal(t, 5, released)
		assert.Equal(t, bundle.Repaired, b.Status())
		assert.Equal(t, 2, b.ScrappedQty())
		assert.NoError(t, b.EnsureWarehousable())
	})

	t.Run("scrap alone does not block", func(t *testing.T) {
		b, _ := bundle.NewCuttingBundle(validSpec(t))

		require.NoError(t, b.RecordQualityOutcome(0, 4))
		assert.False(t, b.IsBlocked())
	})

	t.Run("repair without pending balance", func(t *testing.T) {
		b, _ := bundle.NewCuttingBundle(validSpec(t))

		_, err := b.MarkRepaired()
		require.ErrorIs(t, err, bundle.ErrNothingToRepair)
	})

	t.Run("outcome cannot exceed bundle quantity", func(t *testing.T) {
		b, _ := bundle.NewCuttingBundle(validSpec(t))

		require.NoError(t, b.RecordQualityOutcome(30, 0))
		require.ErrorIs(t, b.RecordQualityOutcome(21, 0), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, b.RecordQualityOutcome(-1, 0), errs.ErrValueIsOutOfRange)
	})

	t.Run("revert before re-recording", func(t *testing.T) {
		b, _ := bundle.NewCuttingBundle(validSpec(t))

		require.NoError(t, b.RecordQualityOutcome(3, 0))
		b.RevertQualityOutcome(3, 0)
		assert.Equal(t, bundle.Cut, b.Status())
		assert.False(t, b.IsBlocked())

		require.NoError(t, b.RecordQualityOutcome(0, 1))
		assert.Equal(t, 1, b.ScrappedQty())
	})
}
