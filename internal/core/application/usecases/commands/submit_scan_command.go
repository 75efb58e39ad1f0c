package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/guard"
)

var (
	ErrSubmitScanCommandIsNotConstructed = errors.New(
		"SubmitScanCommand must be created via NewSubmitScanCommand constructor",
	)
	ErrScanTargetIsRequired = errs.NewValueIsRequiredError("scanCode or orderNo, color and size")
	ErrQuantityIsInvalid    = errs.NewValueIsInvalidErrorWithCause("quantity", errors.New("must be greater than 0"))
	ErrDefectRemarkRequired = errs.NewValueIsRequiredError("defectRemark")

	// ErrQualityResultMismatch rejects a qualified result that carries rejected pieces.
	ErrQualityResultMismatch = errs.NewValueIsInvalidErrorWithCause("qualityResult",
		errors.New("qualified scans carry no unqualified quantity"))
)

// SubmitScanParams is the raw scan envelope as received from a scanner.
type SubmitScanParams struct {
	TenantID            string
	ScanCode            string
	OrderNo             string
	Color               string
	Size                string
	ProcessName         string
	Quantity            int
	ScanType            string
	QualityStage        string
	QualityResult       string
	UnqualifiedQuantity int
	DefectCategory      string
	DefectRemark        string
	Warehouse           string
	OperatorID          string
	OperatorName        string
	Reassign            bool
}

// SubmitScanCommand is one validated physical scan.
//
// A scan addresses either a bundle by its printed code (scan-to-bundle) or an
// order slot by order number, color and size (scan-to-order). Omitting the
// process name lets the production executor pick the next stage.
//
// Example:
//
//	cmd, err := NewSubmitScanCommand(SubmitScanParams{
//	    TenantID: "factory-1", ScanCode: "QR-0001", ProcessName: "车缝",
//	    Quantity: 20, ScanType: "production", OperatorID: "W-7", OperatorName: "Li",
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type SubmitScanCommand struct { //nolint:recvcheck //using for validation
	tenant         kernel.TenantID
	scanCode       string
	orderNo        string
	color          string
	size           string
	processName    string
	quantity       int
	scanType       scan.Type
	qualityStage   scan.QualityStage
	qualityResult  scan.QualityResult
	unqualifiedQty int
	defectCategory string
	defectRemark   scan.DefectRemark
	warehouse      string
	operator       kernel.Operator
	reassign       bool

	guard guard.ConstructorGuard
}

// NewSubmitScanCommand validates the envelope. Every field error is reported at once.
func NewSubmitScanCommand(p SubmitScanParams) (SubmitScanCommand, error) {
	cmd := SubmitScanCommand{
		scanCode:       strings.TrimSpace(p.ScanCode),
		orderNo:        strings.TrimSpace(p.OrderNo),
		color:          strings.TrimSpace(p.Color),
		size:           strings.TrimSpace(p.Size),
		processName:    strings.TrimSpace(p.ProcessName),
		defectCategory: strings.TrimSpace(p.DefectCategory),
		warehouse:      strings.TrimSpace(p.Warehouse),
		reassign:       p.Reassign,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTenant(p.TenantID),
		cmd.setTarget(),
		cmd.setQuantity(p.Quantity),
		cmd.setOperator(p.OperatorID, p.OperatorName),
		cmd.setScanType(p.ScanType, p.QualityStage),
		cmd.setQualityOutcome(p.QualityResult, p.UnqualifiedQuantity, p.DefectRemark),
	); err != nil {
		return SubmitScanCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitScanCommand) Validate() error {
	return c.guard.Validate(ErrSubmitScanCommandIsNotConstructed)
}

func (c SubmitScanCommand) Tenant() kernel.TenantID { return c.tenant }
func (c SubmitScanCommand) ScanCode() string { return c.scanCode }
func (c SubmitScanCommand) OrderNo() string { return c.orderNo }
func (c SubmitScanCommand) Color() string { return c.color }
func (c SubmitScanCommand) Size() string { return c.size }
func (c SubmitScanCommand) ProcessName() string { return c.processName }
func (c SubmitScanCommand) Quantity() int { return c.quantity }
func (c SubmitScanCommand) ScanType() scan.Type { return c.scanType }
func (c SubmitScanCommand) QualityStage() scan.QualityStage { return c.qualityStage }
func (c SubmitScanCommand) QualityResult() scan.QualityResult { return c.qualityResult }
func (c SubmitScanCommand) UnqualifiedQuantity() int { return c.unqualifiedQty }
func (c SubmitScanCommand) DefectCategory() string { return c.defectCategory }
func (c SubmitScanCommand) DefectRemark() scan.DefectRemark { return c.defectRemark }
func (c SubmitScanCommand) Warehouse() string { return c.warehouse }
func (c SubmitScanCommand) Operator() kernel.Operator { return c.operator }
func (c SubmitScanCommand) Reassign() bool { return c.reassign }

// IsBundleScan reports whether the scan addresses a bundle by code.
func (c SubmitScanCommand) IsBundleScan() bool {
	return c.scanCode != ""
}

// Outcome returns the quality split carried by the scan.
func (c SubmitScanCommand) Outcome() scan.Outcome {
	return scan.Outcome{
		Result:         c.qualityResult,
		UnqualifiedQty: c.unqualifiedQty,
		DefectCategory: c.defectCategory,
		DefectRemark:   c.defectRemark,
	}
}

// SlotKey is the bundle key used in scan-to-order mode.
func (c SubmitScanCommand) SlotKey() string {
	return bundle.SkuKey(c.color, c.size)
}

func (c *SubmitScanCommand) setTenant(value string) error {
	tenant, err := kernel.NewTenantID(value)
	if err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}

func (c *SubmitScanCommand) setTarget() error {
	if c.scanCode != "" {
		return nil
	}
	if c.orderNo == "" || c.color == "" || c.size == "" {
		return ErrScanTargetIsRequired
	}
	return nil
}

func (c *SubmitScanCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrQuantityIsInvalid
	}
	c.quantity = quantity
	return nil
}

func (c *SubmitScanCommand) setOperator(id, name string) error {
	op, err := kernel.NewOperator(id, name)
	if err != nil {
		return err
	}
	c.operator = op
	return nil
}

func (c *SubmitScanCommand) setScanType(rawType, rawStage string) error {
	scanType, err := scan.ParseType(rawType)
	if err != nil {
		return err
	}
	c.scanType = scanType

	stage, err := scan.ParseQualityStage(rawStage)
	if err != nil {
		return err
	}
	switch {
	case scanType == scan.Quality && stage == scan.NoQualityStage:
		return errs.NewValueIsRequiredError("qualityStage")
	case scanType != scan.Quality && stage != scan.NoQualityStage:
		return errs.NewValueIsInvalidErrorWithCause("qualityStage",
			fmt.Errorf("%s scans carry no quality stage", scanType))
	}
	c.qualityStage = stage
	return nil
}

func (c *SubmitScanCommand) setQualityOutcome(rawResult string, unqualified int, rawRemark string) error {
	result, err := scan.ParseQualityResult(rawResult)
	if err != nil {
		return err
	}
	remark, err := scan.ParseDefectRemark(rawRemark)
	if err != nil {
		return err
	}
	if unqualified < 0 || (c.quantity > 0 && unqualified > c.quantity) {
		return errs.NewValueIsOutOfRangeError("unqualifiedQuantity", unqualified, 0, c.quantity)
	}
	if result == scan.ResultQualified && unqualified > 0 {
		return ErrQualityResultMismatch
	}
	if c.qualityStage == scan.Confirm {
		switch {
		case result == scan.NoQualityResult && unqualified > 0:
			result = scan.ResultUnqualified
		case result == scan.NoQualityResult:
			result = scan.ResultQualified
		case result == scan.ResultUnqualified && unqualified == 0:
			// an unqualified confirm without a split rejects the whole scan
			unqualified = c.quantity
		}
		if unqualified > 0 && remark == scan.NoDefectRemark {
			return ErrDefectRemarkRequired
		}
	}

	c.qualityResult = result
	c.unqualifiedQty = unqualified
	c.defectRemark = remark
	return nil
}
