package commands

import (
	"errors"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/guard"
)

var (
	ErrRecomputeProgressCommandIsNotConstructed = errors.New(
		"RecomputeProgressCommand must be created via NewRecomputeProgressCommand constructor",
	)
	ErrOrderNoIsRequired = errs.NewValueIsRequiredError("orderNo")
)

// RecomputeProgressCommand asks for an order's progress to be rebuilt from its
// scans. Used by supervisors after template edits and by the reconciliation job.
type RecomputeProgressCommand struct { //nolint:recvcheck //using for validation
	tenant  kernel.TenantID
	orderNo string

	guard guard.ConstructorGuard
}

// NewRecomputeProgressCommand creates a RecomputeProgressCommand.
func NewRecomputeProgressCommand(tenantID, orderNo string) (RecomputeProgressCommand, error) {
	command := RecomputeProgressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTenant(tenantID),
		command.setOrderNo(orderNo),
	); err != nil {
		return RecomputeProgressCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RecomputeProgressCommand) Validate() error {
	return c.guard.Validate(ErrRecomputeProgressCommandIsNotConstructed)
}

func (c RecomputeProgressCommand) Tenant() kernel.TenantID { return c.tenant }
func (c RecomputeProgressCommand) OrderNo() string { return c.orderNo }

func (c *RecomputeProgressCommand) setTenant(value string) error {
	tenant, err := kernel.NewTenantID(value)
	if err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}

func (c *RecomputeProgressCommand) setOrderNo(orderNo string) error {
	if orderNo = strings.TrimSpace(orderNo); orderNo == "" {
		return ErrOrderNoIsRequired
	}
	c.orderNo = orderNo
	return nil
}
