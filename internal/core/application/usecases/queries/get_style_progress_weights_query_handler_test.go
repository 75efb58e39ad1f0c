package queries_test

import (
	"testing"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/queries"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStyleProgressWeightsQueryHandler_FromProcessTemplate(t *testing.T) {
	f := newFixture(t)
	f.seedTemplate(t, styleProcess)

	handler := queries.NewGetStyleProgressWeightsQueryHandler(f.aggregator)
	query, err := queries.NewGetStyleProgressWeightsQuery(testTenant, testStyle)
	require.NoError(t, err)

	view, err := handler.Handle(t.Context(), query)
	require.NoError(t, err)

	assert.Equal(t, "style_process", view.TemplateSource)
	assert.Equal(t, 1, view.TemplateVersion)
	assert.NotEmpty(t, view.TemplateID)
	assert.True(t, view.TotalWeight.Equal(decimal.NewFromInt(100)))
	assert.True(t, view.TotalUnitPrice.Equal(decimal.RequireFromString("2.8")))

	require.Len(t, view.Stages, 5)
	assert.Equal(t, services.StageOrderCreated, view.Stages[0].Name)
	assert.True(t, view.Stages[0].Weight.Equal(decimal.NewFromInt(5)))
	assert.True(t, view.Stages[0].UnitPrice.IsZero())
	assert.Equal(t, "车缝", view.Stages[3].Name)
	assert.True(t, view.Stages[3].Weight.Equal(decimal.RequireFromString("26.666667")))
	assert.True(t, view.Stages[3].UnitPrice.Equal(decimal.NewFromInt(2)))
	assert.True(t, view.Stages[4].Weight.Equal(decimal.RequireFromString("26.666666")))
}

func TestGetStyleProgressWeightsQueryHandler_FallsBackToDefaults(t *testing.T) {
	f := newFixture(t)

	handler := queries.NewGetStyleProgressWeightsQueryHandler(f.aggregator)
	query, err := queries.NewGetStyleProgressWeightsQuery(testTenant, "UNKNOWN")
	require.NoError(t, err)

	view, err := handler.Handle(t.Context(), query)
	require.NoError(t, err)

	assert.Equal(t, "none", view.TemplateSource)
	assert.Empty(t, view.TemplateID)
	assert.True(t, view.TotalUnitPrice.IsZero())

	names := make([]string, 0, len(view.Stages))
	for _, s := range view.Stages {
		names = append(names, s.Name)
	}
	assert.Equal(t, services.DefaultStages(), names)
}
