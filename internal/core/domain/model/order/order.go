package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when a ProductionOrder bypassed its constructor.
	ErrOrderIsNotConstructed = errors.New("ProductionOrder must be created via NewProductionOrder or RestoreProductionOrder")

	// ErrOrderAlreadyFinal rejects scans and mutations on terminal orders.
	ErrOrderAlreadyFinal = errs.NewPreconditionError("ORDER_ALREADY_FINAL", "order is already in a final state")
)

// ProductionOrder is the aggregate root a scan ultimately mutates.
//
// Invariants:
//   - quantity is positive and completedQuantity stays within [0, quantity]
//   - progress stays within [0, 100]
//   - version only grows; every persisted progress change bumps it by one
type ProductionOrder struct {
	id      kernel.UUID
	tenant  kernel.TenantID
	orderNo string
	styleNo string

	quantity          int
	completedQuantity int

	status       Status
	progress     int
	currentStage string

	plannedStart *time.Time
	plannedEnd   *time.Time
	actualStart  *time.Time
	actualEnd    *time.Time

	version int64

	isConstructed bool
}

// NewProductionOrder creates a pending order with zero progress.
func NewProductionOrder(
	id kernel.UUID,
	tenant kernel.TenantID,
	orderNo, styleNo string,
	quantity int,
) (*ProductionOrder, error) {
	o := &ProductionOrder{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenant(tenant),
		o.setOrderNo(orderNo),
		o.setStyleNo(styleNo),
		o.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries the persisted state of an order.
type Snapshot struct {
	ID                kernel.UUID
	Tenant            kernel.TenantID
	OrderNo           string
	StyleNo           string
	Quantity          int
	CompletedQuantity int
	Status            Status
	Progress          int
	CurrentStage      string
	PlannedStart      *time.Time
	PlannedEnd        *time.Time
	ActualStart       *time.Time
	ActualEnd         *time.Time
	Version           int64
}

// RestoreProductionOrder rebuilds an order from storage, re-checking its invariants.
func RestoreProductionOrder(s Snapshot) (*ProductionOrder, error) {
	o, err := NewProductionOrder(s.ID, s.Tenant, s.OrderNo, s.StyleNo, s.Quantity)
	if err != nil {
		return nil, err
	}

	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	if s.CompletedQuantity < 0 || s.CompletedQuantity > s.Quantity {
		return nil, errs.NewValueIsOutOfRangeError("completedQuantity", s.CompletedQuantity, 0, s.Quantity)
	}
	if s.Progress < 0 || s.Progress > 100 {
		return nil, errs.NewValueIsOutOfRangeError("progress", s.Progress, 0, 100)
	}
	if s.Version < 0 {
		return nil, errs.NewValueIsOutOfRangeError("version", s.Version, 0, "unbounded")
	}

	o.status = s.Status
	o.completedQuantity = s.CompletedQuantity
	o.progress = s.Progress
	o.currentStage = s.CurrentStage
	o.plannedStart = s.PlannedStart
	o.plannedEnd = s.PlannedEnd
	o.actualStart = s.ActualStart
	o.actualEnd = s.ActualEnd
	o.version = s.Version
	return o, nil
}

// Validate ensures the order was built by a constructor.
func (o *ProductionOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Snapshot exports the current state for persistence.
func (o *ProductionOrder) Snapshot() Snapshot {
	return Snapshot{
		ID:                o.id,
		Tenant:            o.tenant,
		OrderNo:           o.orderNo,
		StyleNo:           o.styleNo,
		Quantity:          o.quantity,
		CompletedQuantity: o.completedQuantity,
		Status:            o.status,
		Progress:          o.progress,
		CurrentStage:      o.currentStage,
		PlannedStart:      o.plannedStart,
		PlannedEnd:        o.plannedEnd,
		ActualStart:       o.actualStart,
		ActualEnd:         o.actualEnd,
		Version:           o.version,
	}
}

func (o *ProductionOrder) ID() kernel.UUID { return o.id }
func (o *ProductionOrder) Tenant() kernel.TenantID { return o.tenant }
func (o *ProductionOrder) OrderNo() string { return o.orderNo }
func (o *ProductionOrder) StyleNo() string { return o.styleNo }
func (o *ProductionOrder) Quantity() int { return o.quantity }
func (o *ProductionOrder) CompletedQuantity() int { return o.completedQuantity }
func (o *ProductionOrder) Status() Status { return o.status }
func (o *ProductionOrder) Progress() int { return o.progress }
func (o *ProductionOrder) CurrentStage() string { return o.currentStage }
func (o *ProductionOrder) Version() int64 { return o.version }
func (o *ProductionOrder) ActualStart() *time.Time { return o.actualStart }
func (o *ProductionOrder) ActualEnd() *time.Time { return o.actualEnd }
func (o *ProductionOrder) PlannedStart() *time.Time { return o.plannedStart }
func (o *ProductionOrder) PlannedEnd() *time.Time { return o.plannedEnd }

// SetPlan records the planned production window.
func (o *ProductionOrder) SetPlan(start, end time.Time) error {
	if end.Before(start) {
		return errs.NewValueIsInvalidErrorWithCause("plannedEnd", fmt.Errorf("%s is before %s", end, start))
	}
	o.plannedStart = &start
	o.plannedEnd = &end
	return nil
}

// EnsureScannable returns ErrOrderAlreadyFinal for terminal orders.
func (o *ProductionOrder) EnsureScannable() error {
	if !CanScan(o.status) {
		return ErrOrderAlreadyFinal.WithDetail("order %s is %s", o.orderNo, o.status)
	}
	return nil
}

// StartProduction moves a pending order into production on its first accepted
// scan and stamps the actual start. It is a no-op for orders already in production.
func (o *ProductionOrder) StartProduction(now time.Time) error {
	if err := o.EnsureScannable(); err != nil {
		return err
	}
	if o.status == Pending {
		o.status = Production
	}
	if o.actualStart == nil {
		o.actualStart = &now
	}
	return nil
}

// ApplyProgress records a recomputed percentage and stage label.
// The percentage is clamped to [0, 100].
func (o *ProductionOrder) ApplyProgress(percent int, stage string) {
	o.progress = max(0, min(100, percent))
	o.currentStage = stage
}

// ApplyCompletedQuantity sets the warehoused quantity, clamped to the order
// quantity. Reaching the order quantity completes an order in production.
func (o *ProductionOrder) ApplyCompletedQuantity(qty int, now time.Time) {
	o.completedQuantity = max(0, min(o.quantity, qty))
	if o.completedQuantity == o.quantity && o.status == Production {
		o.status = Completed
		o.actualEnd = &now
	}
}

// Cancel terminates a pending or in-production order.
func (o *ProductionOrder) Cancel() error {
	if !CanCancel(o.status) {
		return ErrOrderAlreadyFinal.WithDetail("order %s is %s and cannot be cancelled", o.orderNo, o.status)
	}
	o.status = Cancelled
	return nil
}

// IncrementVersion advances the concurrency token before a compare-and-swap write.
func (o *ProductionOrder) IncrementVersion() {
	o.version++
}

func (o *ProductionOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *ProductionOrder) setTenant(tenant kernel.TenantID) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	o.tenant = tenant
	return nil
}

func (o *ProductionOrder) setOrderNo(orderNo string) error {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return errs.NewValueIsRequiredError("orderNo")
	}
	o.orderNo = orderNo
	return nil
}

func (o *ProductionOrder) setStyleNo(styleNo string) error {
	styleNo = strings.TrimSpace(styleNo)
	if styleNo == "" {
		return errs.NewValueIsRequiredError("styleNo")
	}
	o.styleNo = styleNo
	return nil
}

func (o *ProductionOrder) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	o.quantity = quantity
	return nil
}
