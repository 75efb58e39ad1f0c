package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/guard"
)

var (
	ErrSaveTemplateCommandIsNotConstructed = errors.New(
		"SaveTemplateCommand must be created via NewSaveTemplateCommand constructor",
	)
	ErrTemplateContentIsRequired = errs.NewValueIsRequiredError("content")
)

// SaveTemplateParams describes a template write.
// Global writes the shared default and ignores TenantID.
type SaveTemplateParams struct {
	TenantID     string
	Global       bool
	TemplateType string
	StyleNo      string
	Name         string
	Content      []byte
}

// SaveTemplateCommand creates a template or revises the active one of its scope.
// An empty style number addresses the default template.
type SaveTemplateCommand struct { //nolint:recvcheck //using for validation
	tenant  kernel.TenantID
	kind    template.Type
	styleNo string
	name    string
	content []byte

	guard guard.ConstructorGuard
}

// NewSaveTemplateCommand creates a SaveTemplateCommand. Content is parsed later
// by the template itself; here it only has to be present.
func NewSaveTemplateCommand(p SaveTemplateParams) (SaveTemplateCommand, error) {
	command := SaveTemplateCommand{
		styleNo: strings.TrimSpace(p.StyleNo),
		name:    strings.TrimSpace(p.Name),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTenant(p.TenantID, p.Global),
		command.setKind(p.TemplateType),
		command.setContent(p.Content),
	); err != nil {
		return SaveTemplateCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SaveTemplateCommand) Validate() error {
	return c.guard.Validate(ErrSaveTemplateCommandIsNotConstructed)
}

func (c SaveTemplateCommand) Tenant() kernel.TenantID { return c.tenant }
func (c SaveTemplateCommand) Type() template.Type { return c.kind }
func (c SaveTemplateCommand) StyleNo() string { return c.styleNo }
func (c SaveTemplateCommand) Name() string { return c.name }
func (c SaveTemplateCommand) Content() []byte { return c.content }

func (c *SaveTemplateCommand) setTenant(value string, global bool) error {
	if global {
		if c.styleNo != "" {
			return errs.NewValueIsInvalidErrorWithCause("styleNo",
				fmt.Errorf("global templates are defaults, got style %q", c.styleNo))
		}
		c.tenant = kernel.GlobalTenant
		return nil
	}
	tenant, err := kernel.NewTenantID(value)
	if err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}

func (c *SaveTemplateCommand) setKind(value string) error {
	kind, err := template.ParseType(strings.TrimSpace(value))
	if err != nil {
		return err
	}
	c.kind = kind
	return nil
}

func (c *SaveTemplateCommand) setContent(content []byte) error {
	if len(strings.TrimSpace(string(content))) == 0 {
		return ErrTemplateContentIsRequired
	}
	c.content = append([]byte(nil), content...)
	return nil
}
