package queries_test

import (
	"testing"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/queries"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrderProgressQueryHandler_ComputesBreakdown(t *testing.T) {
	f := newFixture(t)
	f.seedTemplate(t, styleProcess)
	o := f.seedOrder(t, "PO-1", 100)
	f.seedScan(t, o, "bundle-1", "裁剪", 100, scan.Success)
	f.seedScan(t, o, "bundle-1", "车缝", 50, scan.Success)
	f.seedScan(t, o, "bundle-2", "车缝", 40, scan.Failure)

	handler := queries.NewGetOrderProgressQueryHandler(f.store.Create(), f.aggregator)
	query, err := queries.NewGetOrderProgressQuery(testTenant, "PO-1")
	require.NoError(t, err)

	view, err := handler.Handle(t.Context(), query)
	require.NoError(t, err)

	assert.True(t, view.OrderID.IsEqual(o.ID()))
	assert.Equal(t, testStyle, view.StyleNo)
	assert.Equal(t, "pending", view.Status)
	assert.Equal(t, 0, view.Progress, "stored progress is untouched by reads")
	assert.Equal(t, 40, view.ComputedPercent)
	assert.Equal(t, "style_process", view.TemplateSource)

	require.Len(t, view.Stages, 5)
	assert.Equal(t, "裁剪", view.Stages[2].Name)
	assert.Equal(t, 100, view.Stages[2].Quantity)
	assert.True(t, view.Stages[2].Ratio.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "车缝", view.Stages[3].Name)
	assert.Equal(t, 50, view.Stages[3].Quantity, "failed scans do not count")
	assert.True(t, view.Stages[3].Ratio.Equal(decimal.RequireFromString("0.5")))
}

func TestGetOrderProgressQueryHandler_UnknownOrder(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "PO-1", 100)

	handler := queries.NewGetOrderProgressQueryHandler(f.store.Create(), f.aggregator)
	query, err := queries.NewGetOrderProgressQuery("factory-2", "PO-1")
	require.NoError(t, err)

	_, err = handler.Handle(t.Context(), query)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetOrderProgressQueryHandler_RejectsZeroQuery(t *testing.T) {
	f := newFixture(t)
	handler := queries.NewGetOrderProgressQueryHandler(f.store.Create(), f.aggregator)

	_, err := handler.Handle(t.Context(), queries.GetOrderProgressQuery{})
	require.ErrorIs(t, err, queries.ErrGetOrderProgressQueryIsNotConstructed)
}
