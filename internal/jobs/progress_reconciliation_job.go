package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/commands"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/worker"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultReconcileSchedule runs the reconciliation every five minutes.
const DefaultReconcileSchedule = "0 */5 * * * *"

// ScannableOrderLister returns the orders that can still receive scans.
type ScannableOrderLister interface {
	ListScannable(ctx context.Context) ([]*order.ProductionOrder, error)
}

// ProgressRecomputer rebuilds the stored progress of one order.
type ProgressRecomputer interface {
	Handle(ctx context.Context, command commands.RecomputeProgressCommand) (commands.RecomputeProgressResult, error)
}

// RunReport summarizes one reconciliation pass.
type RunReport struct {
	Orders  int
	Changed int
	Failed  int
}

// ProgressReconciliationJob periodically recomputes the progress of every
// open order so that drift left by best-effort writes heals on its own.
type ProgressReconciliationJob struct {
	lister     ScannableOrderLister
	recomputer ProgressRecomputer
	pool       *worker.Pool
	schedule   string
	cron       *cron.Cron
	logger     *zap.Logger
}

// NewProgressReconciliationJob creates the job. An empty schedule falls back
// to DefaultReconcileSchedule.
func NewProgressReconciliationJob(
	lister ScannableOrderLister,
	recomputer ProgressRecomputer,
	pool *worker.Pool,
	schedule string,
	logger *zap.Logger,
) *ProgressReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ProgressReconciliationJob{
		lister:     lister,
		recomputer: recomputer,
		pool:       pool,
		schedule:   schedule,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With(zap.String("component", "progress_reconciliation_job")),
	}
}

// Start schedules the job.
func (j *ProgressReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("progress reconciliation failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("progress reconciliation job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *ProgressReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("progress reconciliation job stopped")
}

// RunOnce recomputes every open order on the worker pool. Per-order failures
// are logged and counted; only a listing or submission failure is returned.
func (j *ProgressReconciliationJob) RunOnce(ctx context.Context) (RunReport, error) {
	orders, err := j.lister.ListScannable(ctx)
	if err != nil {
		return RunReport{}, err
	}

	results := make(chan outcome, len(orders))
	tasks := make([]worker.Task, 0, len(orders))
	for _, o := range orders {
		tasks = append(tasks, func(ctx context.Context) {
			results <- j.reconcile(ctx, o)
		})
	}

	runErr := j.pool.RunAll(ctx, tasks)
	close(results)

	report := RunReport{Orders: len(orders)}
	for res := range results {
		switch res {
		case changed:
			report.Changed++
		case failed:
			report.Failed++
		case unchanged:
		}
	}

	j.logger.Debug("progress reconciliation pass finished",
		zap.Int("orders", report.Orders),
		zap.Int("changed", report.Changed),
		zap.Int("failed", report.Failed),
	)
	return report, runErr
}

type outcome int

const (
	unchanged outcome = iota
	changed
	failed
)

func (j *ProgressReconciliationJob) reconcile(ctx context.Context, o *order.ProductionOrder) outcome {
	log := j.logger.With(
		zap.String("tenant", o.Tenant().String()),
		zap.String("order_no", o.OrderNo()),
	)

	cmd, err := commands.NewRecomputeProgressCommand(o.Tenant().String(), o.OrderNo())
	if err != nil {
		log.Error("invalid order for reconciliation", zap.Error(err))
		return failed
	}

	res, err := j.recomputer.Handle(ctx, cmd)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn("progress reconciliation interrupted", zap.Error(err))
		} else {
			log.Error("progress reconciliation failed for order", zap.Error(err))
		}
		return failed
	}

	if res.Progress != o.Progress() || res.Status != o.Status() {
		log.Info("progress reconciled",
			zap.Int("from", o.Progress()),
			zap.Int("to", res.Progress),
			zap.String("status", string(res.Status)),
		)
		return changed
	}
	return unchanged
}
