package scan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

var (
	ErrRecordIsNotConstructed = errors.New("ScanRecord must be created via NewRecord or RestoreRecord")

	// ErrOperatorConflict rejects a scan on a tuple claimed by a different operator.
	ErrOperatorConflict = errs.NewConflictError("OPERATOR_CONFLICT", "scan is already claimed by another operator")
)

// Key identifies the single active record of a scan tuple.
// BundleKey is the bundle id, or the order slot key in scan-to-order mode.
// ProcessName is the resolved stage name; quality records also carry their sub-stage.
type Key struct {
	Tenant       kernel.TenantID
	OrderID      kernel.UUID
	BundleKey    string
	ScanType     Type
	ProcessName  string
	QualityStage QualityStage
}

// Outcome carries the quality split of inspect and confirm scans.
type Outcome struct {
	Result         QualityResult
	QualifiedQty   int
	UnqualifiedQty int
	DefectCategory string
	DefectRemark   DefectRemark
}

// Params describes a new scan record.
type Params struct {
	ID          kernel.UUID
	Key         Key
	OrderNo     string
	BundleID    *kernel.UUID
	ScanCode    string
	Color       string
	Size        string
	ProcessCode string
	Quantity    int
	Outcome     Outcome
	Warehouse   string
	Operator    kernel.Operator
	ScannedAt   time.Time
}

// Record is one accepted physical scan.
type Record struct {
	id          kernel.UUID
	key         Key
	orderNo     string
	bundleID    *kernel.UUID
	scanCode    string
	color       string
	size        string
	processCode string
	quantity    int
	outcome     Outcome
	warehouse   string
	operator    kernel.Operator
	scannedAt   time.Time
	result      Result

	isConstructed bool
}

// NewRecord validates p and creates a successful record.
func NewRecord(p Params) (*Record, error) {
	r := &Record{
		id:            p.ID,
		key:           p.Key,
		orderNo:       strings.TrimSpace(p.OrderNo),
		bundleID:      p.BundleID,
		scanCode:      strings.TrimSpace(p.ScanCode),
		color:         strings.TrimSpace(p.Color),
		size:          strings.TrimSpace(p.Size),
		processCode:   strings.TrimSpace(p.ProcessCode),
		warehouse:     strings.TrimSpace(p.Warehouse),
		operator:      p.Operator,
		scannedAt:     p.ScannedAt,
		result:        Success,
		isConstructed: true,
	}
	r.key.BundleKey = strings.TrimSpace(r.key.BundleKey)
	r.key.ProcessName = strings.TrimSpace(r.key.ProcessName)

	if err := errors.Join(
		p.ID.Validate(),
		r.validateKey(),
		r.validateOperator(),
		r.setQuantity(p.Quantity, p.Outcome),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRecord rebuilds a record from storage.
func RestoreRecord(p Params, result Result) (*Record, error) {
	r, err := NewRecord(p)
	if err != nil {
		return nil, err
	}
	if result != Success && result != Failure {
		return nil, errs.NewValueIsInvalidErrorWithCause("scan result", fmt.Errorf("%q", result))
	}
	r.result = result
	return r, nil
}

// Validate ensures the record was built by a constructor.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

func (r *Record) ID() kernel.UUID { return r.id }
func (r *Record) Key() Key { return r.key }
func (r *Record) OrderNo() string { return r.orderNo }
func (r *Record) BundleID() *kernel.UUID { return r.bundleID }
func (r *Record) ScanCode() string { return r.scanCode }
func (r *Record) Color() string { return r.color }
func (r *Record) Size() string { return r.size }
func (r *Record) ProcessName() string { return r.key.ProcessName }
func (r *Record) ProcessCode() string { return r.processCode }
func (r *Record) Quantity() int { return r.quantity }
func (r *Record) Outcome() Outcome { return r.outcome }
func (r *Record) Warehouse() string { return r.warehouse }
func (r *Record) Operator() kernel.Operator { return r.operator }
func (r *Record) ScannedAt() time.Time { return r.scannedAt }
func (r *Record) Result() Result { return r.result }

// Params exports the record for persistence.
func (r *Record) Params() Params {
	return Params{
		ID:          r.id,
		Key:         r.key,
		OrderNo:     r.orderNo,
		BundleID:    r.bundleID,
		ScanCode:    r.scanCode,
		Color:       r.color,
		Size:        r.size,
		ProcessCode: r.processCode,
		Quantity:    r.quantity,
		Outcome:     r.outcome,
		Warehouse:   r.warehouse,
		Operator:    r.operator,
		ScannedAt:   r.scannedAt,
	}
}

// EnsureOwnedBy returns ErrOperatorConflict when op did not make this record.
func (r *Record) EnsureOwnedBy(op kernel.Operator) error {
	if !r.operator.Same(op) {
		return ErrOperatorConflict.WithDetail("%s %s is held by operator %s",
			r.key.ProcessName, r.describeTarget(), r.operator.ID())
	}
	return nil
}

// Refresh applies a rescan by the owning operator.
func (r *Record) Refresh(op kernel.Operator, quantity int, outcome Outcome, at time.Time) error {
	if err := r.EnsureOwnedBy(op); err != nil {
		return err
	}
	if err := r.setQuantity(quantity, outcome); err != nil {
		return err
	}
	r.operator = op
	r.scannedAt = at
	r.result = Success
	return nil
}

// Reassign hands the record to op, replacing quantity and outcome.
func (r *Record) Reassign(op kernel.Operator, quantity int, outcome Outcome, at time.Time) error {
	if op.IsZero() {
		return errs.NewValueIsRequiredError("operatorId")
	}
	if err := r.setQuantity(quantity, outcome); err != nil {
		return err
	}
	r.operator = op
	r.scannedAt = at
	r.result = Success
	return nil
}

func (r *Record) describeTarget() string {
	if r.scanCode != "" {
		return "bundle " + r.scanCode
	}
	return "order " + r.orderNo + " " + r.key.BundleKey
}

func (r *Record) validateKey() error {
	var errList []error
	if err := r.key.Tenant.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := r.key.OrderID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if r.key.BundleKey == "" {
		errList = append(errList, errs.NewValueIsRequiredError("bundleKey"))
	}
	if r.key.ProcessName == "" {
		errList = append(errList, errs.NewValueIsRequiredError("processName"))
	}
	if _, err := ParseType(string(r.key.ScanType)); err != nil {
		errList = append(errList, err)
	}
	if r.key.ScanType == Quality && r.key.QualityStage == NoQualityStage {
		errList = append(errList, errs.NewValueIsRequiredError("qualityStage"))
	}
	if r.key.ScanType != Quality && r.key.QualityStage != NoQualityStage {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("qualityStage",
			fmt.Errorf("%s scans carry no quality stage", r.key.ScanType)))
	}
	return errors.Join(errList...)
}

func (r *Record) validateOperator() error {
	if r.operator.IsZero() {
		return errs.NewValueIsRequiredError("operatorId")
	}
	return nil
}

func (r *Record) setQuantity(quantity int, outcome Outcome) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if outcome.UnqualifiedQty < 0 || outcome.UnqualifiedQty > quantity {
		return errs.NewValueIsOutOfRangeError("unqualifiedQuantity", outcome.UnqualifiedQty, 0, quantity)
	}
	switch {
	case outcome.Result == ResultQualified && outcome.UnqualifiedQty > 0:
		return errs.NewValueIsInvalidErrorWithCause("qualityResult",
			fmt.Errorf("qualified with %d unqualified pieces", outcome.UnqualifiedQty))
	case outcome.Result == ResultUnqualified && outcome.UnqualifiedQty == 0 && r.key.QualityStage == Confirm:
		return errs.NewValueIsInvalidErrorWithCause("qualityResult",
			errors.New("unqualified confirm without unqualified pieces"))
	}
	if outcome.Result != NoQualityResult {
		outcome.QualifiedQty = quantity - outcome.UnqualifiedQty
	}
	r.quantity = quantity
	r.outcome = outcome
	return nil
}
