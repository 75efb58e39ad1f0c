package commands

import (
	"errors"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/guard"
)

var ErrTemplateLockCommandIsNotConstructed = errors.New(
	"TemplateLockCommand must be created via NewLockTemplateCommand or NewUnlockTemplateCommand",
)

// TemplateLockCommand locks a template against edits, or lifts the lock as
// a supervisor rollback.
type TemplateLockCommand struct { //nolint:recvcheck //using for validation
	tenant     kernel.TenantID
	templateID kernel.UUID
	locked     bool

	guard guard.ConstructorGuard
}

// NewLockTemplateCommand creates a command that locks a template.
func NewLockTemplateCommand(tenantID, templateID string) (TemplateLockCommand, error) {
	return newTemplateLockCommand(tenantID, templateID, true)
}

// NewUnlockTemplateCommand creates a command that unlocks a template.
func NewUnlockTemplateCommand(tenantID, templateID string) (TemplateLockCommand, error) {
	return newTemplateLockCommand(tenantID, templateID, false)
}

func newTemplateLockCommand(tenantID, templateID string, locked bool) (TemplateLockCommand, error) {
	command := TemplateLockCommand{
		locked: locked,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTenant(tenantID),
		command.setTemplateID(templateID),
	); err != nil {
		return TemplateLockCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through a constructor.
func (c TemplateLockCommand) Validate() error {
	return c.guard.Validate(ErrTemplateLockCommandIsNotConstructed)
}

func (c TemplateLockCommand) Tenant() kernel.TenantID { return c.tenant }
func (c TemplateLockCommand) TemplateID() kernel.UUID { return c.templateID }
func (c TemplateLockCommand) Locked() bool { return c.locked }

func (c *TemplateLockCommand) setTenant(value string) error {
	tenant, err := kernel.NewTenantID(value)
	if err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}

func (c *TemplateLockCommand) setTemplateID(value string) error {
	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return err
	}
	c.templateID = id
	return nil
}
