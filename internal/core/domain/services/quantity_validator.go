package services

import (
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// ErrQuantityExceeded rejects a scan that would push accepted quantity past its limit.
var ErrQuantityExceeded = errs.NewConflictError("QUANTITY_EXCEEDED", "scanned quantity exceeds the allowed quantity")

// QuantityCheck carries the sums a scan is validated against. Accepted sums
// must exclude the record being refreshed. Bundle fields are only read when
// BundleScoped is set.
type QuantityCheck struct {
	OrderNo        string
	OrderQuantity  int
	OrderAccepted  int
	BundleScoped   bool
	BundleCode     string
	BundleQuantity int
	BundleAccepted int
	Requested      int
}

// QuantityValidator guards against over-production.
type QuantityValidator struct{}

// NewQuantityValidator creates a QuantityValidator.
func NewQuantityValidator() QuantityValidator {
	return QuantityValidator{}
}

// Validate fails with ErrQuantityExceeded when accepted + requested exceeds the
// order quantity or, for bundle-scoped scans, the bundle quantity.
func (QuantityValidator) Validate(c QuantityCheck) error {
	if c.Requested <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", c.Requested, 1, c.OrderQuantity)
	}
	if c.BundleScoped && c.BundleAccepted+c.Requested > c.BundleQuantity {
		return ErrQuantityExceeded.WithDetail("bundle %s: %d already accepted + %d requested > %d",
			c.BundleCode, c.BundleAccepted, c.Requested, c.BundleQuantity)
	}
	if c.OrderAccepted+c.Requested > c.OrderQuantity {
		return ErrQuantityExceeded.WithDetail("order %s: %d already accepted + %d requested > %d",
			c.OrderNo, c.OrderAccepted, c.Requested, c.OrderQuantity)
	}
	return nil
}
