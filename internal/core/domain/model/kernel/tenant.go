package kernel

import (
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// TenantID scopes every repository call. The empty value is reserved for
// global default templates and is never a valid request tenant.
type TenantID struct {
	value string
}

// GlobalTenant is the scope of templates shared by all tenants.
var GlobalTenant = TenantID{}

// NewTenantID trims and validates a tenant identifier.
func NewTenantID(value string) (TenantID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TenantID{}, errs.NewValueIsRequiredError("tenantId")
	}
	if len(value) > 64 {
		return TenantID{}, errs.NewValueIsOutOfRangeError("tenantId length", len(value), 1, 64)
	}
	return TenantID{value: value}, nil
}

// RestoreTenantID rebuilds a tenant from storage without validation.
func RestoreTenantID(value string) TenantID {
	return TenantID{value: value}
}

func (t TenantID) String() string {
	return t.value
}

// IsGlobal reports whether t is the global default scope.
func (t TenantID) IsGlobal() bool {
	return t.value == ""
}

// Validate rejects the global scope where a concrete tenant is required.
func (t TenantID) Validate() error {
	if t.IsGlobal() {
		return errs.NewValueIsRequiredError("tenantId")
	}
	return nil
}
