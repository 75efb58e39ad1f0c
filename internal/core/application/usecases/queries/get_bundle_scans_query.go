package queries

import (
	"errors"
	"strings"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/guard"
)

var (
	ErrGetBundleScansQueryIsNotConstructed = errors.New(
		"GetBundleScansQuery must be created via NewGetBundleScansQuery constructor",
	)
	ErrScanCodeIsRequired = errs.NewValueIsRequiredError("scanCode")
)

// GetBundleScansQuery lists the accepted scans of one bundle code.
type GetBundleScansQuery struct { //nolint:recvcheck //using for validation
	tenant   kernel.TenantID
	scanCode string

	guard guard.ConstructorGuard
}

// NewGetBundleScansQuery creates a GetBundleScansQuery.
func NewGetBundleScansQuery(tenantID, scanCode string) (GetBundleScansQuery, error) {
	query := GetBundleScansQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setTenant(tenantID),
		query.setScanCode(scanCode),
	); err != nil {
		return GetBundleScansQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetBundleScansQuery) Validate() error {
	return q.guard.Validate(ErrGetBundleScansQueryIsNotConstructed)
}

func (q GetBundleScansQuery) Tenant() kernel.TenantID { return q.tenant }
func (q GetBundleScansQuery) ScanCode() string { return q.scanCode }

func (q *GetBundleScansQuery) setTenant(value string) error {
	tenant, err := kernel.NewTenantID(value)
	if err != nil {
		return err
	}
	q.tenant = tenant
	return nil
}

func (q *GetBundleScansQuery) setScanCode(scanCode string) error {
	if scanCode = strings.TrimSpace(scanCode); scanCode == "" {
		return ErrScanCodeIsRequired
	}
	q.scanCode = scanCode
	return nil
}

// GetBundleScansQueryResponse is one accepted scan of a bundle.
type GetBundleScansQueryResponse struct {
	ID             kernel.UUID
	OrderNo        string
	ScanType       string
	ProcessName    string
	ProcessCode    string
	QualityStage   string
	Quantity       int
	QualityResult  string
	QualifiedQty   int
	UnqualifiedQty int
	DefectRemark   string
	Warehouse      string
	OperatorID     string
	OperatorName   string
	ScannedAt      time.Time
}
