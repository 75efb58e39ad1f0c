package commands

import (
	"context"
	"errors"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// TemplateInvalidator drops cached resolutions a template write can affect.
type TemplateInvalidator interface {
	Invalidate(ctx context.Context, tenant kernel.TenantID, styleNo string)
}

// SaveTemplateResult identifies the stored template version.
type SaveTemplateResult struct {
	TemplateID string
	Version    int
	Created    bool
}

// SaveTemplateCommandHandler writes a template and invalidates its cache keys.
// Locked templates are rejected with template.ErrTemplateLocked.
type SaveTemplateCommandHandler struct {
	uowFactory  TemplateUoWFactory
	invalidator TemplateInvalidator
	clock       ports.Clock
}

// NewSaveTemplateCommandHandler creates a SaveTemplateCommandHandler.
func NewSaveTemplateCommandHandler(
	uowFactory TemplateUoWFactory,
	invalidator TemplateInvalidator,
	clock ports.Clock,
) *SaveTemplateCommandHandler {
	return &SaveTemplateCommandHandler{
		uowFactory:  uowFactory,
		invalidator: invalidator,
		clock:       clock,
	}
}

// Handle creates or revises the template of the command's scope.
func (h *SaveTemplateCommandHandler) Handle(ctx context.Context, command SaveTemplateCommand) (SaveTemplateResult, error) {
	if err := command.Validate(); err != nil {
		return SaveTemplateResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SaveTemplateResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TemplateRepository()
	now := h.clock.Now()
	created := false

	lib, err := repo.FindActive(ctx, command.Tenant(), command.Type(), command.StyleNo())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		lib, err = template.NewLibrary(kernel.NewUUID(), command.Tenant(), command.Type(),
			command.StyleNo(), command.Name(), command.Content(), now)
		if err != nil {
			return SaveTemplateResult{}, err
		}
		if err = repo.Add(ctx, lib); err != nil {
			return SaveTemplateResult{}, err
		}
		created = true
	case err != nil:
		return SaveTemplateResult{}, err
	default:
		if err = lib.Revise(command.Name(), command.Content(), now); err != nil {
			return SaveTemplateResult{}, err
		}
		if err = repo.Update(ctx, lib); err != nil {
			return SaveTemplateResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return SaveTemplateResult{}, err
	}
	h.invalidator.Invalidate(ctx, command.Tenant(), command.StyleNo())

	return SaveTemplateResult{
		TemplateID: lib.ID().String(),
		Version:    lib.Version(),
		Created:    created,
	}, nil
}
