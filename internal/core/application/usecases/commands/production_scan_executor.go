package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/node"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

var (
	// ErrPatternMissing rejects cutting scans for a style without a pattern file.
	ErrPatternMissing = errs.NewPreconditionError("PATTERN_MISSING", "pattern file required before cutting scan")

	// ErrNoPendingStage rejects a scan without process name when every
	// production stage of the slot is already scanned.
	ErrNoPendingStage = errs.NewPreconditionError("NO_PENDING_STAGE", "every production stage is already scanned")
)

// productionExecutor records single-phase stages: one scan completes the
// stage for its bundle or order slot.
type productionExecutor struct {
	matcher   services.StageNameMatcher
	validator services.QuantityValidator
	recorder  scanRecorder
}

func newProductionExecutor(matcher services.StageNameMatcher, validator services.QuantityValidator) productionExecutor {
	return productionExecutor{matcher: matcher, validator: validator}
}

func (e productionExecutor) execute(ctx context.Context, sc *scanContext) (executed, error) {
	name, stage, err := e.processName(ctx, sc)
	if err != nil {
		return executed{}, err
	}

	if e.matcher.Category(stage) == services.CategoryCutting || e.matcher.Category(name) == services.CategoryCutting {
		hasPattern, patternErr := sc.uow.PatternRepository().HasPattern(ctx, sc.cmd.Tenant(), sc.order.StyleNo())
		if patternErr != nil {
			return executed{}, patternErr
		}
		if !hasPattern {
			return executed{}, ErrPatternMissing.WithDetail("style %s", sc.order.StyleNo())
		}
	}

	limit := 0
	if sc.bundle != nil {
		limit = sc.bundle.Quantity()
	}

	out, err := e.recorder.record(ctx, sc.uow.ScanRecordRepository(), recordRequest{
		draft:    sc.draft(name, e.processCode(sc.template, name), scan.Outcome{}),
		reassign: sc.cmd.Reassign(),
		check: func(existing *scan.Record) error {
			return sc.checkQuantity(ctx, e.validator, name, limit, existing)
		},
	})
	if err != nil {
		return executed{}, err
	}
	return executed{record: out.record, created: out.created}, nil
}

// processName resolves the explicit name onto the template vocabulary, or
// picks the earliest unscanned stage or step when the scan carries none. It
// returns the recorded name and the stage that name rolls up into.
func (e productionExecutor) processName(ctx context.Context, sc *scanContext) (string, string, error) {
	if sc.cmd.ProcessName() == "" {
		return e.nextPending(ctx, sc)
	}

	name, stage := e.normalize(sc.template, sc.table, sc.cmd.ProcessName())
	switch e.matcher.Category(stage) {
	case services.CategoryQuality, services.CategoryShipment:
		return "", "", errs.NewValueIsInvalidErrorWithCause("processName",
			fmt.Errorf("%q is recorded by quality or warehouse scans", name))
	default:
		return name, stage, nil
	}
}

// normalize maps a scanned name onto a process step or a stage. Exact step
// names and codes win, then stage names, then fuzzy step names.
func (e productionExecutor) normalize(res template.Resolved, table services.WeightTable, name string) (string, string) {
	if step, ok := res.StepNamed(name); ok {
		if step.IsSubStep() {
			return strings.TrimSpace(step.ProcessName), step.Stage()
		}
		name = step.Stage()
	}

	names := table.Names()
	if idx := e.matcher.IndexOf(names, name); idx >= 0 {
		return names[idx], names[idx]
	}
	for _, step := range res.Steps {
		if step.IsSubStep() && e.matcher.Matches(step.ProcessName, name) {
			return strings.TrimSpace(step.ProcessName), step.Stage()
		}
	}
	if n, ok := e.matcher.CanonicalNode(name); ok {
		return node.Label(n), node.Label(n)
	}
	return name, name
}

// nextPending walks the stage list in template order and returns the first
// production stage this slot has not finished. A stage with process steps is
// finished by a scan under its own name or by a scan of every step; otherwise
// its first unscanned step is picked. Order-level stages and the quality and
// warehouse stages are never picked.
func (e productionExecutor) nextPending(ctx context.Context, sc *scanContext) (string, string, error) {
	records, err := sc.uow.ScanRecordRepository().ListByBundle(ctx, sc.cmd.Tenant(), sc.order.ID(), sc.bundleKey())
	if err != nil {
		return "", "", err
	}

	for _, stage := range sc.table.Names() {
		switch e.matcher.Category(stage) {
		case services.CategoryOrderCreated, services.CategoryProcurement,
			services.CategoryQuality, services.CategoryShipment:
			continue
		}
		if e.scannedStage(records, sc.template, stage) {
			continue
		}

		steps := sc.template.SubSteps(stage)
		if len(steps) == 0 {
			return stage, stage, nil
		}
		for _, step := range steps {
			if !scannedStep(records, step.ProcessName) {
				return strings.TrimSpace(step.ProcessName), stage, nil
			}
		}
	}
	return "", "", ErrNoPendingStage.WithDetail("order %s %s", sc.order.OrderNo(), sc.bundleKey())
}

// scannedStage reports a production record booked under the stage itself.
// Step records are left to scannedStep.
func (e productionExecutor) scannedStage(records []*scan.Record, res template.Resolved, stage string) bool {
	for _, rec := range records {
		if rec.Key().ScanType != scan.Production {
			continue
		}
		if step, ok := res.StepNamed(rec.ProcessName()); ok && step.IsSubStep() {
			continue
		}
		if e.matcher.Matches(rec.ProcessName(), stage) {
			return true
		}
	}
	return false
}

func scannedStep(records []*scan.Record, processName string) bool {
	processName = strings.TrimSpace(processName)
	for _, rec := range records {
		if rec.Key().ScanType == scan.Production && rec.ProcessName() == processName {
			return true
		}
	}
	return false
}

// processCode returns the code of the template step recorded under name.
func (e productionExecutor) processCode(res template.Resolved, name string) string {
	if step, ok := res.StepNamed(name); ok {
		return step.ProcessCode
	}
	for _, step := range res.Steps {
		if e.matcher.Matches(step.Stage(), name) {
			return step.ProcessCode
		}
	}
	return ""
}
