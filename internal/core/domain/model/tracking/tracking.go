// Package tracking provides ProductionProcessTracking, the per bundle and
// process payroll ledger row. Rows are generated when a bundle is cut and
// are updated, never duplicated, when the matching scan is recorded.
package tracking

import (
	"errors"
	"strings"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrTrackingIsNotConstructed = errors.New("Tracking must be created via NewTracking or RestoreTracking")

// Tracking is one payroll ledger row.
type Tracking struct {
	id            kernel.UUID
	tenant        kernel.TenantID
	orderID       kernel.UUID
	orderNo       string
	bundleID      kernel.UUID
	bundleNo      int
	processCode   string
	processName   string
	progressStage string
	unitPrice     decimal.Decimal

	quantity    int
	operator    kernel.Operator
	settlement  decimal.Decimal
	completed   bool
	completedAt *time.Time

	isConstructed bool
}

// Params describes a ledger row at generation time.
type Params struct {
	ID            kernel.UUID
	Tenant        kernel.TenantID
	OrderID       kernel.UUID
	OrderNo       string
	BundleID      kernel.UUID
	BundleNo      int
	ProcessCode   string
	ProcessName   string
	ProgressStage string
	UnitPrice     decimal.Decimal
}

// State is the mutable part of a ledger row.
type State struct {
	Quantity    int
	Operator    kernel.Operator
	Settlement  decimal.Decimal
	Completed   bool
	CompletedAt *time.Time
}

// NewTracking validates p and creates an open ledger row.
func NewTracking(p Params) (*Tracking, error) {
	t := &Tracking{
		id:            p.ID,
		tenant:        p.Tenant,
		orderID:       p.OrderID,
		orderNo:       strings.TrimSpace(p.OrderNo),
		bundleID:      p.BundleID,
		bundleNo:      p.BundleNo,
		processCode:   strings.TrimSpace(p.ProcessCode),
		processName:   strings.TrimSpace(p.ProcessName),
		progressStage: strings.TrimSpace(p.ProgressStage),
		unitPrice:     p.UnitPrice,
		settlement:    decimal.Zero,
		isConstructed: true,
	}

	var nameErr, priceErr error
	if t.processName == "" {
		nameErr = errs.NewValueIsRequiredError("processName")
	}
	if p.UnitPrice.IsNegative() {
		priceErr = errs.NewValueIsOutOfRangeError("unitPrice", p.UnitPrice.String(), 0, "unbounded")
	}
	if t.progressStage == "" {
		t.progressStage = t.processName
	}

	if err := errors.Join(
		p.ID.Validate(),
		p.Tenant.Validate(),
		p.OrderID.Validate(),
		p.BundleID.Validate(),
		nameErr,
		priceErr,
	); err != nil {
		return nil, err
	}
	return t, nil
}

// RestoreTracking rebuilds a ledger row from storage.
func RestoreTracking(p Params, s State) (*Tracking, error) {
	t, err := NewTracking(p)
	if err != nil {
		return nil, err
	}
	if s.Quantity < 0 {
		return nil, errs.NewValueIsOutOfRangeError("quantity", s.Quantity, 0, "unbounded")
	}
	t.quantity = s.Quantity
	t.operator = s.Operator
	t.settlement = s.Settlement
	t.completed = s.Completed
	t.completedAt = s.CompletedAt
	return t, nil
}

// Validate ensures the row was built by a constructor.
func (t *Tracking) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTrackingIsNotConstructed
	}
	return nil
}

func (t *Tracking) ID() kernel.UUID { return t.id }
func (t *Tracking) Tenant() kernel.TenantID { return t.tenant }
func (t *Tracking) OrderID() kernel.UUID { return t.orderID }
func (t *Tracking) OrderNo() string { return t.orderNo }
func (t *Tracking) BundleID() kernel.UUID { return t.bundleID }
func (t *Tracking) BundleNo() int { return t.bundleNo }
func (t *Tracking) ProcessCode() string { return t.processCode }
func (t *Tracking) ProcessName() string { return t.processName }
func (t *Tracking) ProgressStage() string { return t.progressStage }
func (t *Tracking) UnitPrice() decimal.Decimal { return t.unitPrice }
func (t *Tracking) Quantity() int { return t.quantity }
func (t *Tracking) Operator() kernel.Operator { return t.operator }
func (t *Tracking) Settlement() decimal.Decimal { return t.settlement }
func (t *Tracking) Completed() bool { return t.completed }
func (t *Tracking) CompletedAt() *time.Time { return t.completedAt }

// Params exports the generation-time fields.
func (t *Tracking) Params() Params {
	return Params{
		ID:            t.id,
		Tenant:        t.tenant,
		OrderID:       t.orderID,
		OrderNo:       t.orderNo,
		BundleID:      t.bundleID,
		BundleNo:      t.bundleNo,
		ProcessCode:   t.processCode,
		ProcessName:   t.processName,
		ProgressStage: t.progressStage,
		UnitPrice:     t.unitPrice,
	}
}

// State exports the mutable fields.
func (t *Tracking) State() State {
	return State{
		Quantity:    t.quantity,
		Operator:    t.operator,
		Settlement:  t.settlement,
		Completed:   t.completed,
		CompletedAt: t.completedAt,
	}
}

// Record books a scan against the row and marks it completed.
// The settlement is quantity x unit price rounded to cents, half-up.
func (t *Tracking) Record(op kernel.Operator, quantity int, at time.Time) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if op.IsZero() {
		return errs.NewValueIsRequiredError("operatorId")
	}
	t.quantity = quantity
	t.operator = op
	t.settlement = Settle(t.unitPrice, quantity)
	t.completed = true
	t.completedAt = &at
	return nil
}

// Settle returns quantity x unitPrice rounded to 2 decimals, half-up.
func Settle(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
