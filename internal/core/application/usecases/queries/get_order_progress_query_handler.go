package queries

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"
)

// ProgressCalculator derives stage weights and breakdowns without writing.
type ProgressCalculator interface {
	WeightTable(ctx context.Context, tenant kernel.TenantID, styleNo string) (services.WeightTable, template.Resolved, error)
	Breakdown(orderQty int, table services.WeightTable, res template.Resolved, records []*scan.Record) progress.Breakdown
}

// GetOrderProgressQueryHandler reads an order and computes its breakdown.
type GetOrderProgressQueryHandler struct {
	reader     progress.Repositories
	calculator ProgressCalculator
}

// NewGetOrderProgressQueryHandler creates a handler reading through reader
// outside of any transaction.
func NewGetOrderProgressQueryHandler(
	reader progress.Repositories,
	calculator ProgressCalculator,
) GetOrderProgressQueryHandler {
	return GetOrderProgressQueryHandler{reader: reader, calculator: calculator}
}

// Handle executes the query.
func (h GetOrderProgressQueryHandler) Handle(
	ctx context.Context,
	query GetOrderProgressQuery,
) (GetOrderProgressQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderProgressQueryResponse{}, err
	}

	o, err := h.reader.OrderRepository().GetByOrderNo(ctx, query.Tenant(), query.OrderNo())
	if err != nil {
		return GetOrderProgressQueryResponse{}, err
	}

	table, resolved, err := h.calculator.WeightTable(ctx, query.Tenant(), o.StyleNo())
	if err != nil {
		return GetOrderProgressQueryResponse{}, err
	}

	records, err := h.reader.ScanRecordRepository().ListByOrder(ctx, query.Tenant(), o.ID())
	if err != nil {
		return GetOrderProgressQueryResponse{}, err
	}

	bd := h.calculator.Breakdown(o.Quantity(), table, resolved, records)
	stages := make([]StageProgressView, 0, len(bd.Stages))
	for _, s := range bd.Stages {
		stages = append(stages, StageProgressView{
			Name:     s.Name,
			Weight:   s.Weight,
			Quantity: s.Quantity,
			Ratio:    s.Ratio,
		})
	}

	return GetOrderProgressQueryResponse{
		OrderID:           o.ID(),
		OrderNo:           o.OrderNo(),
		StyleNo:           o.StyleNo(),
		Status:            string(o.Status()),
		Quantity:          o.Quantity(),
		CompletedQuantity: o.CompletedQuantity(),
		Progress:          o.Progress(),
		CurrentStage:      o.CurrentStage(),
		Version:           o.Version(),
		ComputedPercent:   bd.Percent,
		WarehousedQty:     bd.WarehousedQty,
		TemplateSource:    string(resolved.Source),
		Stages:            stages,
	}, nil
}
