package bundle

import (
	"fmt"

	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// Status reflects the quality outcome of a bundle.
type Status string

const (
	// Cut is the initial state before any quality confirmation.
	Cut         Status = "cut"
	Qualified   Status = "qualified"
	Unqualified Status = "unqualified"
	Repaired    Status = "repaired"
)

// ParseStatus converts a stored value into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case Cut, Qualified, Unqualified, Repaired:
		return Status(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("bundle status", fmt.Errorf("%q is not a valid bundle status", s))
	}
}

func (s Status) String() string {
	return string(s)
}
