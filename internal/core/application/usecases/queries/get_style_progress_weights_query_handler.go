package queries

import (
	"context"

	"github.com/shopspring/decimal"
)

// GetStyleProgressWeightsQueryHandler reads a style's stage weights.
//
// Example:
//
//	handler := NewGetStyleProgressWeightsQueryHandler(aggregator)
//	query, _ := NewGetStyleProgressWeightsQuery("factory-1", "FZ001")
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d stages, %s per piece\n", len(view.Stages), view.TotalUnitPrice)
type GetStyleProgressWeightsQueryHandler struct {
	calculator ProgressCalculator
}

// NewGetStyleProgressWeightsQueryHandler creates a GetStyleProgressWeightsQueryHandler.
func NewGetStyleProgressWeightsQueryHandler(calculator ProgressCalculator) GetStyleProgressWeightsQueryHandler {
	return GetStyleProgressWeightsQueryHandler{calculator: calculator}
}

// Handle executes the query.
func (h GetStyleProgressWeightsQueryHandler) Handle(
	ctx context.Context,
	query GetStyleProgressWeightsQuery,
) (GetStyleProgressWeightsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStyleProgressWeightsQueryResponse{}, err
	}

	table, resolved, err := h.calculator.WeightTable(ctx, query.Tenant(), query.StyleNo())
	if err != nil {
		return GetStyleProgressWeightsQueryResponse{}, err
	}

	prices := make(map[string]decimal.Decimal, len(resolved.Nodes))
	for _, n := range resolved.Nodes {
		prices[n.Name] = n.UnitPrice
	}

	stages := make([]StageWeightView, 0, len(table.Stages()))
	for _, sw := range table.Stages() {
		stages = append(stages, StageWeightView{
			Name:      sw.Name,
			Weight:    sw.Weight,
			UnitPrice: prices[sw.Name],
		})
	}

	return GetStyleProgressWeightsQueryResponse{
		StyleNo:         query.StyleNo(),
		TemplateSource:  string(resolved.Source),
		TemplateID:      resolved.TemplateID,
		TemplateVersion: resolved.Version,
		Stages:          stages,
		TotalWeight:     table.Total(),
		TotalUnitPrice:  resolved.TotalUnitPrice(),
	}, nil
}
