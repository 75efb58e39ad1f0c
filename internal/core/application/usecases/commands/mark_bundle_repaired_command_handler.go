package commands

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
)

// MarkBundleRepairedResult reports the released pieces.
type MarkBundleRepairedResult struct {
	ScanCode    string
	ReleasedQty int
	Status      bundle.Status
}

// MarkBundleRepairedCommandHandler clears a bundle's pending-repair balance.
// Bundles with nothing pending are rejected with bundle.ErrNothingToRepair.
type MarkBundleRepairedCommandHandler struct {
	uowFactory BundleUoWFactory
}

// NewMarkBundleRepairedCommandHandler creates a MarkBundleRepairedCommandHandler.
func NewMarkBundleRepairedCommandHandler(uowFactory BundleUoWFactory) *MarkBundleRepairedCommandHandler {
	return &MarkBundleRepairedCommandHandler{uowFactory: uowFactory}
}

// Handle marks the bundle repaired in one transaction.
func (h *MarkBundleRepairedCommandHandler) Handle(
	ctx context.Context,
	command MarkBundleRepairedCommand,
) (MarkBundleRepairedResult, error) {
	if err := command.Validate(); err != nil {
		return MarkBundleRepairedResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return MarkBundleRepairedResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.BundleRepository()
	b, err := repo.GetByQRCode(ctx, command.Tenant(), command.ScanCode())
	if err != nil {
		return MarkBundleRepairedResult{}, err
	}

	released, err := b.MarkRepaired()
	if err != nil {
		return MarkBundleRepairedResult{}, err
	}

	if err = repo.Update(ctx, b); err != nil {
		return MarkBundleRepairedResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return MarkBundleRepairedResult{}, err
	}

	return MarkBundleRepairedResult{
		ScanCode:    b.QRCode(),
		ReleasedQty: released,
		Status:      b.Status(),
	}, nil
}
