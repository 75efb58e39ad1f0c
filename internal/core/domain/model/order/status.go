package order

import (
	"fmt"

	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// Status is the lifecycle state of a production order.
//
//	pending ──> production ──> completed ──> closed ──> archived
//	   │            │
//	   └────────────┴──> cancelled
type Status string

const (
	Pending    Status = "pending"
	Production Status = "production"
	Completed  Status = "completed"
	Cancelled  Status = "cancelled"
	Closed     Status = "closed"
	Archived   Status = "archived"
)

// ParseStatus converts a stored value into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate rejects values outside the closed set.
func (s Status) Validate() error {
	switch s {
	case Pending, Production, Completed, Cancelled, Closed, Archived:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

// IsFinal reports whether s is terminal. Terminal orders are immutable to scanning.
func IsFinal(s Status) bool {
	switch s {
	case Completed, Cancelled, Closed, Archived:
		return true
	default:
		return false
	}
}

// CanCancel reports whether an order in s may be cancelled.
func CanCancel(s Status) bool {
	return s == Pending || s == Production
}

// CanScan reports whether an order in s accepts shop-floor scans.
func CanScan(s Status) bool {
	return s == Pending || s == Production
}
