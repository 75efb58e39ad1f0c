package commands

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
)

// ProgressRewriter rewrites the stored progress of one order.
type ProgressRewriter interface {
	Recompute(
		ctx context.Context,
		repos progress.Repositories,
		tenant kernel.TenantID,
		orderID kernel.UUID,
		mutate func(*order.ProductionOrder) error,
	) (*order.ProductionOrder, progress.Breakdown, error)
}

// RecomputeProgressResult is the order state after a recompute.
type RecomputeProgressResult struct {
	OrderNo           string
	Status            order.Status
	Progress          int
	CurrentStage      string
	CompletedQuantity int
	Version           int64
	Breakdown         progress.Breakdown
}

// RecomputeProgressCommandHandler rebuilds an order's progress from its scans.
//
// Example:
//
//	handler := NewRecomputeProgressCommandHandler(uowFactory, aggregator)
//	cmd, _ := NewRecomputeProgressCommand("factory-1", "PO-20260511-01")
//	result, err := handler.Handle(ctx, cmd)
type RecomputeProgressCommandHandler struct {
	uowFactory ProgressUoWFactory
	rewriter   ProgressRewriter
}

// NewRecomputeProgressCommandHandler creates a RecomputeProgressCommandHandler.
func NewRecomputeProgressCommandHandler(
	uowFactory ProgressUoWFactory,
	rewriter ProgressRewriter,
) *RecomputeProgressCommandHandler {
	return &RecomputeProgressCommandHandler{
		uowFactory: uowFactory,
		rewriter:   rewriter,
	}
}

// Handle recomputes and stores the order's progress in one transaction.
func (h *RecomputeProgressCommandHandler) Handle(
	ctx context.Context,
	command RecomputeProgressCommand,
) (RecomputeProgressResult, error) {
	if err := command.Validate(); err != nil {
		return RecomputeProgressResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RecomputeProgressResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetByOrderNo(ctx, command.Tenant(), command.OrderNo())
	if err != nil {
		return RecomputeProgressResult{}, err
	}

	updated, bd, err := h.rewriter.Recompute(ctx, uow, command.Tenant(), o.ID(), nil)
	if err != nil {
		return RecomputeProgressResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RecomputeProgressResult{}, err
	}

	return RecomputeProgressResult{
		OrderNo:           updated.OrderNo(),
		Status:            updated.Status(),
		Progress:          updated.Progress(),
		CurrentStage:      updated.CurrentStage(),
		CompletedQuantity: updated.CompletedQuantity(),
		Version:           updated.Version(),
		Breakdown:         bd,
	}, nil
}
