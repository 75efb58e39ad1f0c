package order_test

import (
	"testing"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "production", "completed", "cancelled", "closed", "archived"} {
		t.Run(s, func(t *testing.T) {
			status, err := order.ParseStatus(s)

			require.NoError(t, err)
			assert.Equal(t, s, status.String())
		})
	}

	t.Run("unknown value", func(t *testing.T) {
		_, err := order.ParseStatus("shipped")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "shipped")
	})
}

func TestStatusHelpers(t *testing.T) {
	testCases := []struct {
		status    order.Status
		final     bool
		canCancel bool
		canScan   bool
	}{
		{order.Pending, false, true, true},
		{order.Production, false, true, true},
		{order.Completed, true, false, false},
		{order.Cancelled, true, false, false},
		{order.Closed, true, false, false},
		{order.Archived, true, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.status.String(), func(t *testing.T) {
			assert.Equal(t, tc.final, order.IsFinal(tc.status))
			assert.Equal(t, tc.canCancel, order.CanCancel(tc.status))
			assert.Equal(t, tc.canScan, order.CanScan(tc.status))
		})
	}
}
