package commands

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// TemplateLockResult is the lock state after the command.
type TemplateLockResult struct {
	TemplateID string
	Locked     bool
	Changed    bool
}

// TemplateLockCommandHandler locks or unlocks a template. A tenant can lock its
// own templates and the global defaults.
type TemplateLockCommandHandler struct {
	uowFactory  TemplateUoWFactory
	invalidator TemplateInvalidator
	clock       ports.Clock
}

// NewTemplateLockCommandHandler creates a TemplateLockCommandHandler.
func NewTemplateLockCommandHandler(
	uowFactory TemplateUoWFactory,
	invalidator TemplateInvalidator,
	clock ports.Clock,
) *TemplateLockCommandHandler {
	return &TemplateLockCommandHandler{
		uowFactory:  uowFactory,
		invalidator: invalidator,
		clock:       clock,
	}
}

// Handle applies the lock change. Repeating the current state is a no-op.
func (h *TemplateLockCommandHandler) Handle(ctx context.Context, command TemplateLockCommand) (TemplateLockResult, error) {
	if err := command.Validate(); err != nil {
		return TemplateLockResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TemplateLockResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TemplateRepository()
	lib, err := repo.Get(ctx, command.TemplateID())
	if err != nil {
		return TemplateLockResult{}, err
	}
	if lib.Tenant() != command.Tenant() && !lib.Tenant().IsGlobal() {
		return TemplateLockResult{}, errs.NewObjectNotFoundError("template", command.TemplateID().String())
	}

	now := h.clock.Now()
	var changed bool
	if command.Locked() {
		changed = lib.Lock(now)
	} else {
		changed = lib.Unlock(now)
	}
	if !changed {
		return TemplateLockResult{TemplateID: lib.ID().String(), Locked: lib.Locked()}, nil
	}

	if err = repo.Update(ctx, lib); err != nil {
		return TemplateLockResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return TemplateLockResult{}, err
	}
	h.invalidator.Invalidate(ctx, lib.Tenant(), lib.StyleNo())

	return TemplateLockResult{TemplateID: lib.ID().String(), Locked: lib.Locked(), Changed: true}, nil
}
