package services_test

import (
	"testing"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityValidator(t *testing.T) {
	v := services.NewQuantityValidator()

	t.Run("bundle limit", func(t *testing.T) {
		err := v.Validate(services.QuantityCheck{
			OrderNo:        "PO-1",
			OrderQuantity:  100,
			BundleScoped:   true,
			BundleCode:     "PO-1-1",
			BundleQuantity: 50,
			Requested:      60,
		})

		require.ErrorIs(t, err, services.ErrQuantityExceeded)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "PO-1-1")
	})

	t.Run("order limit", func(t *testing.T) {
		err := v.Validate(services.QuantityCheck{
			OrderNo:       "PO-1",
			OrderQuantity: 100,
			OrderAccepted: 90,
			Requested:     11,
		})

		require.ErrorIs(t, err, services.ErrQuantityExceeded)
		assert.Contains(t, err.Error(), "order PO-1")
	})

	t.Run("exactly at the limit", func(t *testing.T) {
		err := v.Validate(services.QuantityCheck{
			OrderQuantity:  100,
			OrderAccepted:  50,
			BundleScoped:   true,
			BundleQuantity: 50,
			BundleAccepted: 0,
			Requested:      50,
		})

		require.NoError(t, err)
	})

	t.Run("non positive request", func(t *testing.T) {
		err := v.Validate(services.QuantityCheck{OrderQuantity: 10, Requested: 0})

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("written off bundle", func(t *testing.T) {
		err := v.Validate(services.QuantityCheck{
			OrderQuantity: 100,
			BundleScoped:  true,
			BundleCode:    "PO-1-2",
			Requested:     1,
		})

		require.ErrorIs(t, err, services.ErrQuantityExceeded)
	})
}
