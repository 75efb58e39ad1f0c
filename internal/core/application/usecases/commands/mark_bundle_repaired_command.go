package commands

import (
	"errors"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/guard"
)

var (
	ErrMarkBundleRepairedCommandIsNotConstructed = errors.New(
		"MarkBundleRepairedCommand must be created via NewMarkBundleRepairedCommand constructor",
	)
	ErrScanCodeIsRequired = errs.NewValueIsRequiredError("scanCode")
)

// MarkBundleRepairedCommand confirms that the pieces a quality confirm sent to
// repair are fixed, lifting the warehousing block of the bundle.
type MarkBundleRepairedCommand struct { //nolint:recvcheck //using for validation
	tenant   kernel.TenantID
	scanCode string

	guard guard.ConstructorGuard
}

// NewMarkBundleRepairedCommand creates a MarkBundleRepairedCommand.
func NewMarkBundleRepairedCommand(tenantID, scanCode string) (MarkBundleRepairedCommand, error) {
	command := MarkBundleRepairedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTenant(tenantID),
		command.setScanCode(scanCode),
	); err != nil {
		return MarkBundleRepairedCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkBundleRepairedCommand) Validate() error {
	return c.guard.Validate(ErrMarkBundleRepairedCommandIsNotConstructed)
}

func (c MarkBundleRepairedCommand) Tenant() kernel.TenantID { return c.tenant }
func (c MarkBundleRepairedCommand) ScanCode() string { return c.scanCode }

func (c *MarkBundleRepairedCommand) setTenant(value string) error {
	tenant, err := kernel.NewTenantID(value)
	if err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}

func (c *MarkBundleRepairedCommand) setScanCode(code string) error {
	if code = strings.TrimSpace(code); code == "" {
		return ErrScanCodeIsRequired
	}
	c.scanCode = code
	return nil
}
