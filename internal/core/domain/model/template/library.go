package template

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

var (
	ErrLibraryIsNotConstructed = errors.New("Library must be created via NewLibrary or RestoreLibrary")

	// ErrTemplateLocked rejects edits to a template referenced by live orders.
	ErrTemplateLocked = errs.NewPreconditionError("TEMPLATE_LOCKED", "template is referenced by orders in production")
)

// Type distinguishes current process templates from legacy progress templates.
type Type string

const (
	Process  Type = "process"
	Progress Type = "progress"
)

// ParseType validates a template type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Process, Progress:
		return Type(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("templateType", fmt.Errorf("%q is not one of process, progress", s))
	}
}

// Library is a named, versioned template document.
type Library struct {
	id        kernel.UUID
	tenant    kernel.TenantID
	kind      Type
	styleNo   string
	name      string
	content   []byte
	version   int
	locked    bool
	updatedAt time.Time

	isConstructed bool
}

// NewLibrary validates content and creates version 1 of a template.
// An empty styleNo makes the template a default.
func NewLibrary(
	id kernel.UUID,
	tenant kernel.TenantID,
	kind Type,
	styleNo, name string,
	content []byte,
	now time.Time,
) (*Library, error) {
	l := &Library{
		id:            id,
		tenant:        tenant,
		kind:          kind,
		styleNo:       strings.TrimSpace(styleNo),
		name:          strings.TrimSpace(name),
		version:       1,
		updatedAt:     now,
		isConstructed: true,
	}

	_, kindErr := ParseType(string(kind))
	if err := errors.Join(id.Validate(), kindErr, l.setContent(content)); err != nil {
		return nil, err
	}
	if l.name == "" {
		l.name = l.defaultName()
	}
	return l, nil
}

// RestoreLibrary rebuilds a template from storage.
func RestoreLibrary(
	id kernel.UUID,
	tenant kernel.TenantID,
	kind Type,
	styleNo, name string,
	content []byte,
	version int,
	locked bool,
	updatedAt time.Time,
) (*Library, error) {
	l, err := NewLibrary(id, tenant, kind, styleNo, name, content, updatedAt)
	if err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewValueIsOutOfRangeError("version", version, 1, "unbounded")
	}
	l.version = version
	l.locked = locked
	return l, nil
}

// Validate ensures the template was built by a constructor.
func (l *Library) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLibraryIsNotConstructed
	}
	return nil
}

func (l *Library) ID() kernel.UUID { return l.id }
func (l *Library) Tenant() kernel.TenantID { return l.tenant }
func (l *Library) Type() Type { return l.kind }
func (l *Library) StyleNo() string { return l.styleNo }
func (l *Library) Name() string { return l.name }
func (l *Library) Content() []byte { return l.content }
func (l *Library) Version() int { return l.version }
func (l *Library) Locked() bool { return l.locked }
func (l *Library) UpdatedAt() time.Time { return l.updatedAt }

// IsDefault reports whether the template applies to every style of its tenant.
func (l *Library) IsDefault() bool {
	return l.styleNo == ""
}

// Document parses the stored content.
func (l *Library) Document() (Document, error) {
	return ParseDocument(l.content)
}

// Revise replaces the content and bumps the version.
func (l *Library) Revise(name string, content []byte, now time.Time) error {
	if l.locked {
		return ErrTemplateLocked.WithDetail("%s template %q v%d", l.kind, l.describeScope(), l.version)
	}
	if err := l.setContent(content); err != nil {
		return err
	}
	if name = strings.TrimSpace(name); name != "" {
		l.name = name
	}
	l.version++
	l.updatedAt = now
	return nil
}

// Lock marks the template as referenced by live orders. Locking twice is a no-op.
func (l *Library) Lock(now time.Time) bool {
	if l.locked {
		return false
	}
	l.locked = true
	l.updatedAt = now
	return true
}

// Unlock is the supervisor rollback that allows edits again.
func (l *Library) Unlock(now time.Time) bool {
	if !l.locked {
		return false
	}
	l.locked = false
	l.updatedAt = now
	return true
}

func (l *Library) setContent(content []byte) error {
	doc, err := ParseDocument(content)
	if err != nil {
		return err
	}
	if doc.IsEmpty() {
		return errs.NewValueIsInvalidErrorWithCause("template content", errors.New("no nodes or steps with a name"))
	}
	l.content = append([]byte(nil), content...)
	return nil
}

func (l *Library) describeScope() string {
	if l.IsDefault() {
		return "default"
	}
	return l.styleNo
}

func (l *Library) defaultName() string {
	return fmt.Sprintf("%s-%s", l.describeScope(), l.kind)
}
