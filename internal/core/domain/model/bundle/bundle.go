package bundle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

var (
	ErrBundleIsNotConstructed = errors.New("CuttingBundle must be created via NewCuttingBundle or RestoreCuttingBundle")

	// ErrDefectPendingRepair blocks warehousing of a bundle with open repair quantity.
	ErrDefectPendingRepair = errs.NewPreconditionError("DEFECT_PENDING_REPAIR", "bundle has unqualified pieces pending repair")

	// ErrNothingToRepair rejects a repair confirmation on a bundle that is not blocked.
	ErrNothingToRepair = errs.NewPreconditionError("NOTHING_TO_REPAIR", "bundle has no pieces pending repair")
)

// CuttingBundle is a unit of cut fabric tracked through the workshop.
type CuttingBundle struct {
	id       kernel.UUID
	tenant   kernel.TenantID
	orderID  kernel.UUID
	orderNo  string
	styleNo  string
	bundleNo int
	color    string
	size     string
	quantity int
	qrCode   string
	status   Status

	pendingRepairQty int
	scrappedQty      int

	isConstructed bool
}

// Spec describes a bundle at cutting time.
type Spec struct {
	ID       kernel.UUID
	Tenant   kernel.TenantID
	OrderID  kernel.UUID
	OrderNo  string
	StyleNo  string
	BundleNo int
	Color    string
	Size     string
	Quantity int
	QRCode   string
}

// NewCuttingBundle validates spec and creates a bundle in the Cut state.
func NewCuttingBundle(spec Spec) (*CuttingBundle, error) {
	b := &CuttingBundle{
		id:            spec.ID,
		tenant:        spec.Tenant,
		orderID:       spec.OrderID,
		orderNo:       strings.TrimSpace(spec.OrderNo),
		styleNo:       strings.TrimSpace(spec.StyleNo),
		bundleNo:      spec.BundleNo,
		color:         strings.TrimSpace(spec.Color),
		size:          strings.TrimSpace(spec.Size),
		quantity:      spec.Quantity,
		qrCode:        strings.TrimSpace(spec.QRCode),
		status:        Cut,
		isConstructed: true,
	}

	var orderNoErr, qrErr, qtyErr error
	if b.orderNo == "" {
		orderNoErr = errs.NewValueIsRequiredError("orderNo")
	}
	if b.qrCode == "" {
		qrErr = errs.NewValueIsRequiredError("qrCode")
	}
	if b.quantity <= 0 {
		qtyErr = errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", b.quantity))
	}

	if err := errors.Join(
		spec.ID.Validate(),
		spec.Tenant.Validate(),
		spec.OrderID.Validate(),
		orderNoErr,
		qrErr,
		qtyErr,
	); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreCuttingBundle rebuilds a bundle from storage.
func RestoreCuttingBundle(spec Spec, status Status, pendingRepairQty, scrappedQty int) (*CuttingBundle, error) {
	b, err := NewCuttingBundle(spec)
	if err != nil {
		return nil, err
	}
	if _, err = ParseStatus(string(status)); err != nil {
		return nil, err
	}
	if pendingRepairQty < 0 || scrappedQty < 0 || pendingRepairQty+scrappedQty > b.quantity {
		return nil, errs.NewValueIsOutOfRangeError("pendingRepairQty+scrappedQty", pendingRepairQty+scrappedQty, 0, b.quantity)
	}

	b.status = status
	b.pendingRepairQty = pendingRepairQty
	b.scrappedQty = scrappedQty
	return b, nil
}

// Validate ensures the bundle was built by a constructor.
func (b *CuttingBundle) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBundleIsNotConstructed
	}
	return nil
}

func (b *CuttingBundle) ID() kernel.UUID { return b.id }
func (b *CuttingBundle) Tenant() kernel.TenantID { return b.tenant }
func (b *CuttingBundle) OrderID() kernel.UUID { return b.orderID }
func (b *CuttingBundle) OrderNo() string { return b.orderNo }
func (b *CuttingBundle) StyleNo() string { return b.styleNo }
func (b *CuttingBundle) BundleNo() int { return b.bundleNo }
func (b *CuttingBundle) Color() string { return b.color }
func (b *CuttingBundle) Size() string { return b.size }
func (b *CuttingBundle) Quantity() int { return b.quantity }
func (b *CuttingBundle) QRCode() string { return b.qrCode }
func (b *CuttingBundle) Status() Status { return b.status }
func (b *CuttingBundle) PendingRepairQty() int { return b.pendingRepairQty }
func (b *CuttingBundle) ScrappedQty() int { return b.scrappedQty }

// Spec returns the immutable cutting-time description of the bundle.
func (b *CuttingBundle) Spec() Spec {
	return Spec{
		ID:       b.id,
		Tenant:   b.tenant,
		OrderID:  b.orderID,
		OrderNo:  b.orderNo,
		StyleNo:  b.styleNo,
		BundleNo: b.bundleNo,
		Color:    b.color,
		Size:     b.size,
		Quantity: b.quantity,
		QRCode:   b.qrCode,
	}
}

// IsBlocked reports whether the bundle has an open pending-repair balance.
func (b *CuttingBundle) IsBlocked() bool {
	return b.pendingRepairQty > 0
}

// EnsureWarehousable returns ErrDefectPendingRepair for blocked bundles.
func (b *CuttingBundle) EnsureWarehousable() error {
	if b.IsBlocked() {
		return ErrDefectPendingRepair.WithDetail("bundle %s has %d pieces pending repair", b.qrCode, b.pendingRepairQty)
	}
	return nil
}

// RecordQualityOutcome applies a confirmed inspection split. Pieces marked for
// repair block the bundle; scrapped pieces are written off.
func (b *CuttingBundle) RecordQualityOutcome(repairQty, scrapQty int) error {
	if repairQty < 0 || scrapQty < 0 {
		return errs.NewValueIsOutOfRangeError("unqualifiedQuantity", min(repairQty, scrapQty), 0, b.quantity)
	}
	if total := b.pendingRepairQty + b.scrappedQty + repairQty + scrapQty; total > b.quantity {
		return errs.NewValueIsOutOfRangeError("unqualifiedQuantity", total, 0, b.quantity)
	}

	b.pendingRepairQty += repairQty
	b.scrappedQty += scrapQty
	if repairQty > 0 || scrapQty > 0 {
		b.status = Unqualified
	} else if b.status == Cut {
		b.status = Qualified
	}
	return nil
}

// RevertQualityOutcome withdraws a split recorded earlier, used when a confirm
// scan is rescanned with a new result. Pieces already repaired stay released.
func (b *CuttingBundle) RevertQualityOutcome(repairQty, scrapQty int) {
	b.pendingRepairQty = max(0, b.pendingRepairQty-repairQty)
	b.scrappedQty = max(0, b.scrappedQty-scrapQty)
	if b.status == Unqualified && b.pendingRepairQty == 0 && b.scrappedQty == 0 {
		b.status = Cut
	}
}

// MarkRepaired clears the pending-repair balance and lifts the warehousing block.
// It returns the number of pieces released.
func (b *CuttingBundle) MarkRepaired() (int, error) {
	if !b.IsBlocked() {
		return 0, ErrNothingToRepair.WithDetail("bundle %s", b.qrCode)
	}
	released := b.pendingRepairQty
	b.pendingRepairQty = 0
	b.status = Repaired
	return released, nil
}

// SkuKey identifies the bundle's color and size slot within its order.
func (b *CuttingBundle) SkuKey() string {
	return SkuKey(b.color, b.size)
}

// SkuKey builds the slot key used when scanning by order without a bundle.
func SkuKey(color, size string) string {
	return "sku:" + strings.TrimSpace(color) + "/" + strings.TrimSpace(size)
}
