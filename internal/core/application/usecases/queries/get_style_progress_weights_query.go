package queries

import (
	"errors"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetStyleProgressWeightsQueryIsNotConstructed = errors.New(
		"GetStyleProgressWeightsQuery must be created via NewGetStyleProgressWeightsQuery constructor",
	)
	ErrStyleNoIsRequired = errs.NewValueIsRequiredError("styleNo")
)

// GetStyleProgressWeightsQuery reads the weighted stage list a style's orders
// are measured against.
type GetStyleProgressWeightsQuery struct { //nolint:recvcheck //using for validation
	tenant  kernel.TenantID
	styleNo string

	guard guard.ConstructorGuard
}

// NewGetStyleProgressWeightsQuery creates a GetStyleProgressWeightsQuery.
func NewGetStyleProgressWeightsQuery(tenantID, styleNo string) (GetStyleProgressWeightsQuery, error) {
	query := GetStyleProgressWeightsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setTenant(tenantID),
		query.setStyleNo(styleNo),
	); err != nil {
		return GetStyleProgressWeightsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStyleProgressWeightsQuery) Validate() error {
	return q.guard.Validate(ErrGetStyleProgressWeightsQueryIsNotConstructed)
}

func (q GetStyleProgressWeightsQuery) Tenant() kernel.TenantID { return q.tenant }
func (q GetStyleProgressWeightsQuery) StyleNo() string { return q.styleNo }

func (q *GetStyleProgressWeightsQuery) setTenant(value string) error {
	tenant, err := kernel.NewTenantID(value)
	if err != nil {
		return err
	}
	q.tenant = tenant
	return nil
}

func (q *GetStyleProgressWeightsQuery) setStyleNo(styleNo string) error {
	if styleNo = strings.TrimSpace(styleNo); styleNo == "" {
		return ErrStyleNoIsRequired
	}
	q.styleNo = styleNo
	return nil
}

// StageWeightView is one weighted stage. UnitPrice is zero for stages that
// come from the built-in default list.
type StageWeightView struct {
	Name      string
	Weight    decimal.Decimal
	UnitPrice decimal.Decimal
}

// GetStyleProgressWeightsQueryResponse is the weight table read model.
type GetStyleProgressWeightsQueryResponse struct {
	StyleNo         string
	TemplateSource  string
	TemplateID      string
	TemplateVersion int
	Stages          []StageWeightView
	TotalWeight     decimal.Decimal
	TotalUnitPrice  decimal.Decimal
}
