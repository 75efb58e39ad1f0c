package commands

import (
	"context"
	"errors"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/node"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/warehousing"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// scanContext is the resolved target of one scan inside its transaction.
type scanContext struct {
	cmd      SubmitScanCommand
	uow      ScanUoW
	order    *order.ProductionOrder
	bundle   *bundle.CuttingBundle
	template template.Resolved
	table    services.WeightTable
	now      time.Time
}

// bundleKey is the bundle id, or the color/size slot in scan-to-order mode.
func (s *scanContext) bundleKey() string {
	if s.bundle != nil {
		return s.bundle.ID().String()
	}
	return s.cmd.SlotKey()
}

func (s *scanContext) bundleID() *kernel.UUID {
	if s.bundle == nil {
		return nil
	}
	id := s.bundle.ID()
	return &id
}

func (s *scanContext) key(processName string) scan.Key {
	return scan.Key{
		Tenant:       s.cmd.Tenant(),
		OrderID:      s.order.ID(),
		BundleKey:    s.bundleKey(),
		ScanType:     s.cmd.ScanType(),
		ProcessName:  processName,
		QualityStage: s.cmd.QualityStage(),
	}
}

// draft builds the record a first scan would insert.
func (s *scanContext) draft(processName, processCode string, outcome scan.Outcome) scan.Params {
	color, size := s.cmd.Color(), s.cmd.Size()
	if s.bundle != nil {
		color, size = s.bundle.Color(), s.bundle.Size()
	}
	return scan.Params{
		ID:          kernel.NewUUID(),
		Key:         s.key(processName),
		OrderNo:     s.order.OrderNo(),
		BundleID:    s.bundleID(),
		ScanCode:    s.cmd.ScanCode(),
		Color:       color,
		Size:        size,
		ProcessCode: processCode,
		Quantity:    s.cmd.Quantity(),
		Outcome:     outcome,
		Warehouse:   s.cmd.Warehouse(),
		Operator:    s.cmd.Operator(),
		ScannedAt:   s.now,
	}
}

// checkQuantity validates the requested quantity against what was already
// accepted for the same process, leaving out the record being replaced.
// Bundle scans are limited by the bundle's usable quantity as well as the order's.
func (s *scanContext) checkQuantity(
	ctx context.Context,
	validator services.QuantityValidator,
	processName string,
	bundleLimit int,
	existing *scan.Record,
) error {
	filter := ports.ScanQuantityFilter{
		Tenant:       s.cmd.Tenant(),
		OrderID:      s.order.ID(),
		ScanType:     s.cmd.ScanType(),
		ProcessName:  processName,
		QualityStage: s.cmd.QualityStage(),
	}
	if existing != nil {
		id := existing.ID()
		filter.ExcludeID = &id
	}

	repo := s.uow.ScanRecordRepository()
	orderAccepted, err := repo.SumQuantity(ctx, filter)
	if err != nil {
		return err
	}

	check := services.QuantityCheck{
		OrderNo:       s.order.OrderNo(),
		OrderQuantity: s.order.Quantity(),
		OrderAccepted: orderAccepted,
		Requested:     s.cmd.Quantity(),
	}
	if s.bundle != nil {
		filter.BundleKey = s.bundleKey()
		bundleAccepted, sumErr := repo.SumQuantity(ctx, filter)
		if sumErr != nil {
			return sumErr
		}
		check.BundleScoped = true
		check.BundleCode = s.bundle.QRCode()
		check.BundleQuantity = max(bundleLimit, 0)
		check.BundleAccepted = bundleAccepted
	}
	return validator.Validate(check)
}

// stageFor picks the template stage of a category, or the canonical node label
// when the template has none.
func stageFor(table services.WeightTable, matcher services.StageNameMatcher, category services.Category, fallback node.Node) string {
	for _, name := range table.Names() {
		if matcher.Category(name) == category {
			return name
		}
	}
	return node.Label(fallback)
}

// ledgerEntry loads the stock-in entry of the scanned slot. A missing entry is
// built in memory and reported as new; it is written by saveEntry.
func (s *scanContext) ledgerEntry(ctx context.Context) (*warehousing.Entry, bool, error) {
	entry, err := s.uow.WarehousingRepository().FindByBundleKey(ctx, s.cmd.Tenant(), s.order.ID(), s.bundleKey())
	if err == nil {
		return entry, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	entry, err = warehousing.NewEntry(warehousing.Ref{
		ID:        kernel.NewUUID(),
		Tenant:    s.cmd.Tenant(),
		OrderID:   s.order.ID(),
		OrderNo:   s.order.OrderNo(),
		BundleKey: s.bundleKey(),
		BundleID:  s.bundleID(),
	}, s.now)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

func (s *scanContext) saveEntry(ctx context.Context, entry *warehousing.Entry, isNew bool) error {
	if isNew {
		return s.uow.WarehousingRepository().Add(ctx, entry)
	}
	return s.uow.WarehousingRepository().Update(ctx, entry)
}
