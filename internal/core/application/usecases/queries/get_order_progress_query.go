// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for the scanning terminals and supervisors.
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
	ErrGetOrderProgressQueryIsNotConstructed = errors.New(
		"GetOrderProgressQuery must be created via NewGetOrderProgressQuery constructor",
	)
	ErrOrderNoIsRequired = errs.NewValueIsRequiredError("orderNo")
)

// GetOrderProgressQuery reads an order header together with a per-stage
// breakdown computed from its accepted scans.
//
// Example:
//
//	query, err := NewGetOrderProgressQuery("factory-1", "PO-20260511-01")
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	for _, stage := range view.Stages {
//	    fmt.Printf("%s %s%% of order, %d pieces\n", stage.Name, stage.Weight, stage.Quantity)
//	}
type GetOrderProgressQuery struct { //nolint:recvcheck //using for validation
	tenant  kernel.TenantID
	orderNo string

	guard guard.ConstructorGuard
}

// NewGetOrderProgressQuery creates a GetOrderProgressQuery.
func NewGetOrderProgressQuery(tenantID, orderNo string) (GetOrderProgressQuery, error) {
	query := GetOrderProgressQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setTenant(tenantID),
		query.setOrderNo(orderNo),
	); err != nil {
		return GetOrderProgressQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderProgressQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderProgressQueryIsNotConstructed)
}

func (q GetOrderProgressQuery) Tenant() kernel.TenantID { return q.tenant }
func (q GetOrderProgressQuery) OrderNo() string { return q.orderNo }

func (q *GetOrderProgressQuery) setTenant(value string) error {
	tenant, err := kernel.NewTenantID(value)
	if err != nil {
		return err
	}
	q.tenant = tenant
	return nil
}

func (q *GetOrderProgressQuery) setOrderNo(orderNo string) error {
	if orderNo = strings.TrimSpace(orderNo); orderNo == "" {
		return ErrOrderNoIsRequired
	}
	q.orderNo = orderNo
	return nil
}

// StageProgressView is one stage of an order's progress breakdown.
type StageProgressView struct {
	Name     string
	Weight   decimal.Decimal
	Quantity int
	Ratio    decimal.Decimal
}

// GetOrderProgressQueryResponse is the order progress read model.
// Progress and CurrentStage are the stored values; ComputedPercent is what the
// scans add up to right now. They differ only while a recompute is pending.
type GetOrderProgressQueryResponse struct {
	OrderID           kernel.UUID
	OrderNo           string
	StyleNo           string
	Status            string
	Quantity          int
	CompletedQuantity int
	Progress          int
	CurrentStage      string
	Version           int64
	ComputedPercent   int
	WarehousedQty     int
	TemplateSource    string
	Stages            []StageProgressView
}
