package commands

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/node"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"
)

// qualityExecutor records the receive, inspect and confirm sub-stages of a
// bundle. Each sub-stage needs its predecessor, recorded by the same operator.
// A confirm splits the scanned quantity, blocks the bundle for pieces sent to
// repair and offers the qualified pieces to the warehouse.
type qualityExecutor struct {
	matcher   services.StageNameMatcher
	validator services.QuantityValidator
	recorder  scanRecorder
}

func newQualityExecutor(matcher services.StageNameMatcher, validator services.QuantityValidator) qualityExecutor {
	return qualityExecutor{matcher: matcher, validator: validator}
}

func (e qualityExecutor) execute(ctx context.Context, sc *scanContext) (executed, error) {
	name := stageFor(sc.table, e.matcher, services.CategoryQuality, node.Quality)
	stage := sc.cmd.QualityStage()

	if err := e.checkSequence(ctx, sc, stage); err != nil {
		return executed{}, err
	}

	outcome := sc.cmd.Outcome()
	if stage == scan.Receive {
		outcome = scan.Outcome{}
	}

	limit := 0
	if sc.bundle != nil {
		limit = sc.bundle.Quantity()
	}

	out, err := e.recorder.record(ctx, sc.uow.ScanRecordRepository(), recordRequest{
		draft:    sc.draft(name, "", outcome),
		reassign: sc.cmd.Reassign(),
		check: func(existing *scan.Record) error {
			return sc.checkQuantity(ctx, e.validator, name, limit, existing)
		},
	})
	if err != nil {
		return executed{}, err
	}

	if stage == scan.Confirm {
		if err = e.applyConfirm(ctx, sc, out); err != nil {
			return executed{}, err
		}
	}
	return executed{record: out.record, created: out.created}, nil
}

// checkSequence validates a first scan of stage against the sub-stages already
// recorded for the slot. Rescans of a recorded sub-stage are left to the recorder.
func (e qualityExecutor) checkSequence(ctx context.Context, sc *scanContext, stage scan.QualityStage) error {
	records, err := sc.uow.ScanRecordRepository().ListByBundle(ctx, sc.cmd.Tenant(), sc.order.ID(), sc.bundleKey())
	if err != nil {
		return err
	}

	byStage := make(map[scan.QualityStage]*scan.Record)
	stages := make([]scan.QualityStage, 0, 3)
	for _, rec := range records {
		if rec.Key().ScanType != scan.Quality {
			continue
		}
		byStage[rec.Key().QualityStage] = rec
		stages = append(stages, rec.Key().QualityStage)
	}
	if _, ok := byStage[stage]; ok {
		return nil
	}

	if err = scan.NewQualityMachine(stages).Advance(ctx, stage); err != nil {
		return err
	}
	if prev, ok := scan.Predecessor(stage); ok {
		if rec := byStage[prev]; rec != nil {
			return rec.EnsureOwnedBy(sc.cmd.Operator())
		}
	}
	return nil
}

func (e qualityExecutor) applyConfirm(ctx context.Context, sc *scanContext, out recorded) error {
	if sc.bundle != nil {
		if out.previous != nil {
			sc.bundle.RevertQualityOutcome(defectSplit(*out.previous))
		}
		if err := sc.bundle.RecordQualityOutcome(defectSplit(out.record.Outcome())); err != nil {
			return err
		}
		if err := sc.uow.BundleRepository().Update(ctx, sc.bundle); err != nil {
			return err
		}
	}

	qualified := out.record.Outcome().QualifiedQty
	entry, isNew, err := sc.ledgerEntry(ctx)
	if err != nil {
		return err
	}
	if isNew && qualified == 0 {
		return nil
	}
	if err = entry.OfferCandidate(qualified, sc.now); err != nil {
		return err
	}
	return sc.saveEntry(ctx, entry, isNew)
}

// defectSplit returns the pieces sent to repair and to scrap.
func defectSplit(o scan.Outcome) (int, int) {
	switch {
	case o.UnqualifiedQty <= 0:
		return 0, 0
	case o.DefectRemark == scan.RemarkScrap:
		return 0, o.UnqualifiedQty
	default:
		return o.UnqualifiedQty, 0
	}
}
