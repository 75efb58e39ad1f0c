// Package warehousing provides the stock-in ledger entry of a bundle (or of an
// order slot in scan-to-order mode).
//
// A quality confirm with qualified pieces opens a candidate entry; the
// warehouse scan merges into the same entry and marks it stocked.
package warehousing

import (
	"errors"
	"strings"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry")

// Status of a ledger entry.
type Status string

const (
	Candidate Status = "candidate"
	Stocked   Status = "stocked"
)

// Entry is one stock-in ledger row.
type Entry struct {
	id        kernel.UUID
	tenant    kernel.TenantID
	orderID   kernel.UUID
	orderNo   string
	bundleKey string
	bundleID  *kernel.UUID

	candidateQty int
	stockedQty   int
	warehouse    string
	operator     kernel.Operator
	status       Status
	updatedAt    time.Time

	isConstructed bool
}

// Ref identifies the ledger entry of one bundle or order slot.
type Ref struct {
	ID        kernel.UUID
	Tenant    kernel.TenantID
	OrderID   kernel.UUID
	OrderNo   string
	BundleKey string
	BundleID  *kernel.UUID
}

// State is the mutable part of an entry.
type State struct {
	CandidateQty int
	StockedQty   int
	Warehouse    string
	Operator     kernel.Operator
	Status       Status
	UpdatedAt    time.Time
}

// NewEntry creates an empty candidate entry.
func NewEntry(ref Ref, now time.Time) (*Entry, error) {
	e := &Entry{
		id:            ref.ID,
		tenant:        ref.Tenant,
		orderID:       ref.OrderID,
		orderNo:       strings.TrimSpace(ref.OrderNo),
		bundleKey:     strings.TrimSpace(ref.BundleKey),
		bundleID:      ref.BundleID,
		status:        Candidate,
		updatedAt:     now,
		isConstructed: true,
	}

	var keyErr error
	if e.bundleKey == "" {
		keyErr = errs.NewValueIsRequiredError("bundleKey")
	}
	if err := errors.Join(ref.ID.Validate(), ref.Tenant.Validate(), ref.OrderID.Validate(), keyErr); err != nil {
		return nil, err
	}
	return e, nil
}

// RestoreEntry rebuilds an entry from storage.
func RestoreEntry(ref Ref, s State) (*Entry, error) {
	e, err := NewEntry(ref, s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.Status != Candidate && s.Status != Stocked {
		return nil, errs.NewValueIsInvalidError("warehousing status")
	}
	e.candidateQty = s.CandidateQty
	e.stockedQty = s.StockedQty
	e.warehouse = s.Warehouse
	e.operator = s.Operator
	e.status = s.Status
	return e, nil
}

// Validate ensures the entry was built by a constructor.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// Ref returns the identity of the entry.
func (e *Entry) Ref() Ref {
	return Ref{
		ID:        e.id,
		Tenant:    e.tenant,
		OrderID:   e.orderID,
		OrderNo:   e.orderNo,
		BundleKey: e.bundleKey,
		BundleID:  e.bundleID,
	}
}

// State returns the mutable fields.
func (e *Entry) State() State {
	return State{
		CandidateQty: e.candidateQty,
		StockedQty:   e.stockedQty,
		Warehouse:    e.warehouse,
		Operator:     e.operator,
		Status:       e.status,
		UpdatedAt:    e.updatedAt,
	}
}

func (e *Entry) ID() kernel.UUID { return e.id }
func (e *Entry) CandidateQty() int { return e.candidateQty }
func (e *Entry) StockedQty() int { return e.stockedQty }
func (e *Entry) Status() Status { return e.status }
func (e *Entry) Warehouse() string { return e.warehouse }

// OfferCandidate records the qualified quantity of a quality confirm.
func (e *Entry) OfferCandidate(qty int, now time.Time) error {
	if qty < 0 {
		return errs.NewValueIsOutOfRangeError("qualifiedQuantity", qty, 0, "unbounded")
	}
	e.candidateQty = qty
	e.updatedAt = now
	return nil
}

// StockIn merges a warehouse scan into the entry.
func (e *Entry) StockIn(qty int, warehouse string, op kernel.Operator, now time.Time) error {
	if qty <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", qty, 1, "unbounded")
	}
	e.stockedQty = qty
	if warehouse = strings.TrimSpace(warehouse); warehouse != "" {
		e.warehouse = warehouse
	}
	e.operator = op
	e.status = Stocked
	e.updatedAt = now
	return nil
}
