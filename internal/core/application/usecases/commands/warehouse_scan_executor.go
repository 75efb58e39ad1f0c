package commands

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/node"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"
)

// warehouseExecutor records the final stock-in. Bundles with pieces pending
// repair are refused; scrapped pieces no longer count toward the bundle.
type warehouseExecutor struct {
	matcher   services.StageNameMatcher
	validator services.QuantityValidator
	recorder  scanRecorder
}

func newWarehouseExecutor(matcher services.StageNameMatcher, validator services.QuantityValidator) warehouseExecutor {
	return warehouseExecutor{matcher: matcher, validator: validator}
}

func (e warehouseExecutor) execute(ctx context.Context, sc *scanContext) (executed, error) {
	name := stageFor(sc.table, e.matcher, services.CategoryShipment, node.Warehousing)

	limit := 0
	if sc.bundle != nil {
		if err := sc.bundle.EnsureWarehousable(); err != nil {
			return executed{}, err
		}
		limit = sc.bundle.Quantity() - sc.bundle.ScrappedQty()
	}

	out, err := e.recorder.record(ctx, sc.uow.ScanRecordRepository(), recordRequest{
		draft:    sc.draft(name, "", scan.Outcome{}),
		reassign: sc.cmd.Reassign(),
		check: func(existing *scan.Record) error {
			return sc.checkQuantity(ctx, e.validator, name, limit, existing)
		},
	})
	if err != nil {
		return executed{}, err
	}

	entry, isNew, err := sc.ledgerEntry(ctx)
	if err != nil {
		return executed{}, err
	}
	if err = entry.StockIn(out.record.Quantity(), sc.cmd.Warehouse(), sc.cmd.Operator(), sc.now); err != nil {
		return executed{}, err
	}
	if err = sc.saveEntry(ctx, entry, isNew); err != nil {
		return executed{}, err
	}
	return executed{record: out.record, created: out.created}, nil
}
