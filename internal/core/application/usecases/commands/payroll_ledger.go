package commands

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/tracking"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

// LedgerEntry is an accepted scan handed to the payroll ledger after commit.
type LedgerEntry struct {
	Tenant   kernel.TenantID
	OrderID  kernel.UUID
	OrderNo  string
	Bundle   *bundle.CuttingBundle
	Record   *scan.Record
	Template template.Resolved
}

// PayrollLedger books accepted bundle scans onto ProductionProcessTracking rows
// in its own transaction.
//
// A cutting scan generates one open row per process step of the style (or per
// progress node when the style only has a progress template). Later scans
// complete the row of their process; a scan on a stage completes every step
// rolled up into that stage. Scans with no matching row get an ad-hoc row.
type PayrollLedger struct {
	uowFactory TrackingUoWFactory
	matcher    services.StageNameMatcher
}

// NewPayrollLedger creates a PayrollLedger.
func NewPayrollLedger(uowFactory TrackingUoWFactory) *PayrollLedger {
	return &PayrollLedger{
		uowFactory: uowFactory,
		matcher:    services.NewStageNameMatcher(),
	}
}

// Sync upserts the tracking rows of one accepted scan. Order slot scans and
// quality sub-stages before confirm carry no payroll and are ignored.
func (l *PayrollLedger) Sync(ctx context.Context, e LedgerEntry) error {
	if e.Bundle == nil || e.Record == nil {
		return nil
	}
	key := e.Record.Key()
	if key.ScanType == scan.Quality && key.QualityStage != scan.Confirm {
		return nil
	}

	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TrackingRepository()
	name := e.Record.ProcessName()

	if key.ScanType == scan.Production && l.matcher.Category(name) == services.CategoryCutting {
		planned, err := l.plan(e)
		if err != nil {
			return err
		}
		if err = repo.AddMissing(ctx, planned); err != nil {
			return err
		}
	}

	rows, err := repo.ListByBundle(ctx, e.Tenant, e.Bundle.ID())
	if err != nil {
		return err
	}

	op, qty, at := e.Record.Operator(), e.Record.Quantity(), e.Record.ScannedAt()
	targets := l.targets(rows, name)
	if len(targets) == 0 {
		row, adhocErr := l.adhoc(e)
		if adhocErr != nil {
			return adhocErr
		}
		if err = row.Record(op, qty, at); err != nil {
			return err
		}
		if err = repo.AddMissing(ctx, []*tracking.Tracking{row}); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	for _, row := range targets {
		if err = row.Record(op, qty, at); err != nil {
			return err
		}
		if err = repo.Update(ctx, row); err != nil {
			return err
		}
	}
	return uow.Commit(ctx)
}

// plan builds the open rows generated at cutting time.
func (l *PayrollLedger) plan(e LedgerEntry) ([]*tracking.Tracking, error) {
	var rows []*tracking.Tracking
	add := func(code, name, stage string, price decimal.Decimal) error {
		row, err := tracking.NewTracking(l.params(e, code, name, stage, price))
		if err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	}

	if len(e.Template.Steps) > 0 {
		for _, step := range e.Template.Steps {
			if err := add(step.ProcessCode, step.ProcessName, step.Stage(), step.UnitPrice); err != nil {
				return nil, err
			}
		}
		return rows, nil
	}
	for _, n := range e.Template.Nodes {
		if err := add(n.ID, n.Name, n.Name, n.UnitPrice); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (l *PayrollLedger) targets(rows []*tracking.Tracking, name string) []*tracking.Tracking {
	for _, row := range rows {
		if row.ProcessName() == name {
			return []*tracking.Tracking{row}
		}
	}
	var staged []*tracking.Tracking
	for _, row := range rows {
		if l.matcher.Matches(row.ProgressStage(), name) {
			staged = append(staged, row)
		}
	}
	return staged
}

// adhoc builds a row for a process the template does not list, priced from
// the matching progress node when there is one.
func (l *PayrollLedger) adhoc(e LedgerEntry) (*tracking.Tracking, error) {
	name := e.Record.ProcessName()
	price := decimal.Zero
	for _, n := range e.Template.Nodes {
		if l.matcher.Matches(n.Name, name) {
			price = n.UnitPrice
			break
		}
	}
	return tracking.NewTracking(l.params(e, e.Record.ProcessCode(), name, name, price))
}

func (l *PayrollLedger) params(e LedgerEntry, code, name, stage string, price decimal.Decimal) tracking.Params {
	if price.IsNegative() {
		price = decimal.Zero
	}
	return tracking.Params{
		ID:            kernel.NewUUID(),
		Tenant:        e.Tenant,
		OrderID:       e.OrderID,
		OrderNo:       e.OrderNo,
		BundleID:      e.Bundle.ID(),
		BundleNo:      e.Bundle.BundleNo(),
		ProcessCode:   code,
		ProcessName:   name,
		ProgressStage: stage,
		UnitPrice:     price,
	}
}
