package commands

import (
	"context"
	"errors"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"go.uber.org/zap"
)

// ProgressRecomputer resolves weight tables and rewrites order progress.
// It is implemented by progress.Aggregator.
type ProgressRecomputer interface {
	WeightTable(ctx context.Context, tenant kernel.TenantID, styleNo string) (services.WeightTable, template.Resolved, error)
	Recompute(
		ctx context.Context,
		repos progress.Repositories,
		tenant kernel.TenantID,
		orderID kernel.UUID,
		mutate func(*order.ProductionOrder) error,
	) (*order.ProductionOrder, progress.Breakdown, error)
}

// LedgerSyncer books an accepted scan onto the payroll ledger.
type LedgerSyncer interface {
	Sync(ctx context.Context, entry LedgerEntry) error
}

// SubmitScanResult is the outcome of an accepted scan.
type SubmitScanResult struct {
	Success      bool
	Message      string
	Progress     int
	CurrentStage string
	RecordID     string
	ProcessName  string
	Created      bool
	Warnings     []string
}

// SubmitScanCommandHandler runs a scan through its executor.
//
// Target lookup, preconditions, the scan write, bundle and stock-in updates and
// the progress recompute share one transaction, serialized per order by the
// order row lock. The payroll ledger is updated after commit; its failure is
// reported as a warning and never undoes the scan.
//
// Example:
//
//	handler := NewSubmitScanCommandHandler(uowFactory, aggregator, ledger, ports.SystemClock, logger)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, scan.ErrOperatorConflict):
//	    // another operator holds the tuple
//	case err != nil:
//	    return err
//	}
//	fmt.Println(result.Progress, result.CurrentStage)
type SubmitScanCommandHandler struct {
	uowFactory ScanUoWFactory
	progress   ProgressRecomputer
	ledger     LedgerSyncer
	clock      ports.Clock
	executors  map[scan.Type]scanExecutor
	logger     *zap.Logger
}

// NewSubmitScanCommandHandler creates a SubmitScanCommandHandler.
func NewSubmitScanCommandHandler(
	uowFactory ScanUoWFactory,
	recomputer ProgressRecomputer,
	ledger LedgerSyncer,
	clock ports.Clock,
	logger *zap.Logger,
) *SubmitScanCommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	matcher := services.NewStageNameMatcher()
	validator := services.NewQuantityValidator()
	return &SubmitScanCommandHandler{
		uowFactory: uowFactory,
		progress:   recomputer,
		ledger:     ledger,
		clock:      clock,
		executors: map[scan.Type]scanExecutor{
			scan.Production: newProductionExecutor(matcher, validator),
			scan.Quality:    newQualityExecutor(matcher, validator),
			scan.Warehouse:  newWarehouseExecutor(matcher, validator),
		},
		logger: logger.With(zap.String("component", "submit_scan")),
	}
}

// Handle validates, records and aggregates one scan.
func (h *SubmitScanCommandHandler) Handle(ctx context.Context, command SubmitScanCommand) (SubmitScanResult, error) {
	if err := command.Validate(); err != nil {
		return SubmitScanResult{}, err
	}

	result, entry, err := h.submit(ctx, command)
	if err != nil {
		h.logRejection(command, err)
		return SubmitScanResult{}, err
	}

	if entry != nil && h.ledger != nil {
		if syncErr := h.ledger.Sync(ctx, *entry); syncErr != nil {
			h.logger.Warn("payroll ledger not updated",
				zap.String("tenant", command.Tenant().String()),
				zap.String("record_id", result.RecordID),
				zap.String("process", result.ProcessName),
				zap.Error(syncErr))
			result.Warnings = append(result.Warnings, "payroll ledger not updated: "+syncErr.Error())
		}
	}
	return result, nil
}

func (h *SubmitScanCommandHandler) submit(
	ctx context.Context,
	command SubmitScanCommand,
) (SubmitScanResult, *LedgerEntry, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SubmitScanResult{}, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sc, err := h.resolve(ctx, uow, command)
	if err != nil {
		return SubmitScanResult{}, nil, err
	}

	done, err := h.executors[command.ScanType()].execute(ctx, sc)
	if err != nil {
		return SubmitScanResult{}, nil, err
	}

	wasPending := sc.order.Status() == order.Pending
	updated, _, err := h.progress.Recompute(ctx, uow, command.Tenant(), sc.order.ID(),
		func(o *order.ProductionOrder) error {
			return o.StartProduction(sc.now)
		})
	if err != nil {
		return SubmitScanResult{}, nil, err
	}

	if wasPending {
		if err = h.lockTemplate(ctx, uow, sc); err != nil {
			return SubmitScanResult{}, nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return SubmitScanResult{}, nil, err
	}

	message := "scan recorded"
	if !done.created {
		message = "scan refreshed"
	}
	result := SubmitScanResult{
		Success:      true,
		Message:      message,
		Progress:     updated.Progress(),
		CurrentStage: updated.CurrentStage(),
		RecordID:     done.record.ID().String(),
		ProcessName:  done.record.ProcessName(),
		Created:      done.created,
	}
	entry := &LedgerEntry{
		Tenant:   command.Tenant(),
		OrderID:  sc.order.ID(),
		OrderNo:  sc.order.OrderNo(),
		Bundle:   sc.bundle,
		Record:   done.record,
		Template: sc.template,
	}
	return result, entry, nil
}

// resolve locks the scanned order and loads everything the executors read.
// A bundle is read again after the lock so that it reflects the last
// committed scan on the order.
func (h *SubmitScanCommandHandler) resolve(ctx context.Context, uow ScanUoW, command SubmitScanCommand) (*scanContext, error) {
	tenant := command.Tenant()
	sc := &scanContext{cmd: command, uow: uow, now: h.clock.Now()}

	var err error
	if command.IsBundleScan() {
		b, lookupErr := uow.BundleRepository().GetByQRCode(ctx, tenant, command.ScanCode())
		if lookupErr != nil {
			return nil, lookupErr
		}
		if sc.order, err = uow.OrderRepository().Lock(ctx, tenant, b.OrderID()); err != nil {
			return nil, err
		}
		if sc.bundle, err = uow.BundleRepository().GetByQRCode(ctx, tenant, command.ScanCode()); err != nil {
			return nil, err
		}
	} else if sc.order, err = uow.OrderRepository().LockByOrderNo(ctx, tenant, command.OrderNo()); err != nil {
		return nil, err
	}

	if err = sc.order.EnsureScannable(); err != nil {
		return nil, err
	}

	if sc.table, sc.template, err = h.progress.WeightTable(ctx, tenant, sc.order.StyleNo()); err != nil {
		return nil, err
	}
	return sc, nil
}

// lockTemplate freezes the style template once an order of the style enters
// production. Defaults are shared by every style and are never locked here.
func (h *SubmitScanCommandHandler) lockTemplate(ctx context.Context, uow ScanUoW, sc *scanContext) error {
	switch sc.template.Source {
	case template.SourceStyleProcess, template.SourceStyleProgress:
	default:
		return nil
	}

	id, err := kernel.UUIDFromString(sc.template.TemplateID)
	if err != nil {
		return err
	}
	repo := uow.TemplateRepository()
	lib, err := repo.Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !lib.Lock(sc.now) {
		return nil
	}
	return repo.Update(ctx, lib)
}

func (h *SubmitScanCommandHandler) logRejection(command SubmitScanCommand, err error) {
	fields := []zap.Field{
		zap.String("tenant", command.Tenant().String()),
		zap.String("scan_type", string(command.ScanType())),
		zap.String("scan_code", command.ScanCode()),
		zap.String("order_no", command.OrderNo()),
		zap.String("operator_id", command.Operator().ID()),
	}
	if code, ok := errs.RuleCode(err); ok {
		h.logger.Info("scan rejected", append(fields, zap.String("code", code), zap.Error(err))...)
		return
	}
	if isInputError(err) {
		h.logger.Info("scan rejected", append(fields, zap.Error(err))...)
		return
	}
	h.logger.Error("scan failed", append(fields, zap.Error(err))...)
}

func isInputError(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) ||
		errors.Is(err, errs.ErrValueIsRequired)
}
