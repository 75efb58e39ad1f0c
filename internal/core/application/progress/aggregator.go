package progress

import (
	"context"
	"errors"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrConcurrentUpdateExhausted is returned when the order kept changing under
// every compare-and-set attempt. Callers may retry later.
var ErrConcurrentUpdateExhausted = errs.NewConflictError(
	"CONCURRENT_UPDATE_EXHAUSTED",
	"order progress was updated concurrently, retry later",
)

const (
	DefaultMaxAttempts   = 3
	defaultRetryInterval = 20 * time.Millisecond
)

// TemplateSource resolves the template of a style.
type TemplateSource interface {
	Resolve(ctx context.Context, tenant kernel.TenantID, styleNo string) (template.Resolved, error)
}

// Repositories is the subset of a unit of work the aggregator reads and writes.
type Repositories interface {
	OrderRepository() ports.OrderRepository
	ScanRecordRepository() ports.ScanRecordRepository
}

// StageProgress is the contribution of one stage.
type StageProgress struct {
	Name     string
	Weight   decimal.Decimal
	Quantity int
	Ratio    decimal.Decimal
}

// Breakdown is the computed progress of one order.
type Breakdown struct {
	Stages        []StageProgress
	Percent       int
	CurrentStage  string
	WarehousedQty int
}

// Aggregator recomputes an order's progress from its accepted scans.
type Aggregator struct {
	templates     TemplateSource
	weights       services.ProgressWeightCalculator
	matcher       services.StageNameMatcher
	clock         ports.Clock
	maxAttempts   int
	retryInterval time.Duration
	logger        *zap.Logger
}

// AggregatorOption customizes an Aggregator.
type AggregatorOption func(*Aggregator)

// WithMaxAttempts bounds the compare-and-set attempts. Values below 1 are ignored.
func WithMaxAttempts(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n >= 1 {
			a.maxAttempts = n
		}
	}
}

// WithRetryInterval sets the initial wait between attempts.
func WithRetryInterval(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		a.retryInterval = d
	}
}

// NewAggregator creates an Aggregator.
func NewAggregator(templates TemplateSource, clock ports.Clock, logger *zap.Logger, opts ...AggregatorOption) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	matcher := services.NewStageNameMatcher()
	a := &Aggregator{
		templates:     templates,
		weights:       services.NewProgressWeightCalculator(matcher),
		matcher:       matcher,
		clock:         clock,
		maxAttempts:   DefaultMaxAttempts,
		retryInterval: defaultRetryInterval,
		logger:        logger.With(zap.String("component", "progress_aggregator")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WeightTable resolves a style's template and its stage weights.
func (a *Aggregator) WeightTable(
	ctx context.Context,
	tenant kernel.TenantID,
	styleNo string,
) (services.WeightTable, template.Resolved, error) {
	res, err := a.templates.Resolve(ctx, tenant, styleNo)
	if err != nil {
		return services.WeightTable{}, template.Resolved{}, err
	}
	return a.weights.Calculate(res.StageNames()), res, nil
}

// Breakdown attributes each counted record to the first stage whose name it
// matches and weights the per-stage completion ratios. Quality records count
// only at the confirm sub-stage. Ratios are capped at 1.
//
// Production records of a process step roll up into the step's stage: per
// bundle, a stage is done for the smallest quantity booked on any of its steps,
// or for the quantity scanned under the stage name when that is larger.
func (a *Aggregator) Breakdown(orderQty int, table services.WeightTable, res template.Resolved, records []*scan.Record) Breakdown {
	names := table.Names()
	direct := make(map[stageSlot]int)
	stepped := make(map[stageSlot]map[string]int)
	warehoused := 0

	for _, rec := range records {
		if rec.Result() != scan.Success {
			continue
		}
		if rec.Key().ScanType == scan.Warehouse {
			warehoused += rec.Quantity()
		}
		if rec.Key().ScanType == scan.Quality && rec.Key().QualityStage != scan.Confirm {
			continue
		}

		if rec.Key().ScanType == scan.Production {
			if step, ok := res.StepNamed(rec.ProcessName()); ok && step.IsSubStep() {
				if idx := a.matcher.IndexOf(names, step.Stage()); idx >= 0 {
					slot := stageSlot{stage: idx, bundleKey: rec.Key().BundleKey}
					if stepped[slot] == nil {
						stepped[slot] = make(map[string]int)
					}
					stepped[slot][step.ProcessName] += rec.Quantity()
				}
				continue
			}
		}
		if idx := a.matcher.IndexOf(names, rec.ProcessName()); idx >= 0 {
			direct[stageSlot{stage: idx, bundleKey: rec.Key().BundleKey}] += rec.Quantity()
		}
	}

	quantities := make([]int, len(names))
	for slot, qty := range direct {
		quantities[slot.stage] += max(qty, minStepQuantity(res.SubSteps(names[slot.stage]), stepped[slot]))
	}
	for slot, byStep := range stepped {
		if _, ok := direct[slot]; ok {
			continue
		}
		quantities[slot.stage] += minStepQuantity(res.SubSteps(names[slot.stage]), byStep)
	}

	one := decimal.NewFromInt(1)
	total := decimal.Zero
	stages := make([]StageProgress, 0, len(names))
	for i, sw := range table.Stages() {
		ratio := decimal.Zero
		if orderQty > 0 {
			ratio = decimal.NewFromInt(int64(quantities[i])).DivRound(decimal.NewFromInt(int64(orderQty)), 6)
		}
		if ratio.GreaterThan(one) {
			ratio = one
		}
		total = total.Add(sw.Weight.Mul(ratio))
		stages = append(stages, StageProgress{
			Name:     sw.Name,
			Weight:   sw.Weight,
			Quantity: quantities[i],
			Ratio:    ratio,
		})
	}

	percent := int(total.Round(0).IntPart())
	percent = max(0, min(100, percent))

	current := ""
	if len(names) > 0 {
		current = names[services.PercentToNodeIndex(len(names), float64(percent))]
	}

	return Breakdown{
		Stages:        stages,
		Percent:       percent,
		CurrentStage:  current,
		WarehousedQty: warehoused,
	}
}

// stageSlot is one stage of one bundle or color/size slot.
type stageSlot struct {
	stage     int
	bundleKey string
}

// minStepQuantity is the quantity every step of a stage has reached. A stage
// without sub-steps, or with one still unscanned, has reached nothing.
func minStepQuantity(steps []template.Step, byStep map[string]int) int {
	if len(steps) == 0 {
		return 0
	}
	least := -1
	for _, s := range steps {
		qty := byStep[s.ProcessName]
		if least < 0 || qty < least {
			least = qty
		}
	}
	return least
}

// Recompute reloads the order and its scans, applies mutate (may be nil) and
// the recomputed progress, and writes the order with a compare-and-set on its
// version. A stale version is retried with backoff up to the configured
// attempts, after which ErrConcurrentUpdateExhausted is returned.
func (a *Aggregator) Recompute(
	ctx context.Context,
	repos Repositories,
	tenant kernel.TenantID,
	orderID kernel.UUID,
	mutate func(*order.ProductionOrder) error,
) (*order.ProductionOrder, Breakdown, error) {
	type outcome struct {
		order     *order.ProductionOrder
		breakdown Breakdown
	}

	attempt := 0
	operation := func() (outcome, error) {
		attempt++
		o, bd, err := a.recomputeOnce(ctx, repos, tenant, orderID, mutate)
		if errors.Is(err, ports.ErrStaleVersion) {
			return outcome{}, err
		}
		if err != nil {
			return outcome{}, backoff.Permanent(err)
		}
		return outcome{order: o, breakdown: bd}, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = a.retryInterval
	policy.MaxInterval = 10 * a.retryInterval
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		a.logger.Debug("progress update lost the version race, retrying",
			zap.String("order_id", orderID.String()),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	res, err := backoff.RetryNotifyWithData(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(a.maxAttempts-1)), ctx),
		notify,
	)
	if errors.Is(err, ports.ErrStaleVersion) {
		return nil, Breakdown{}, ErrConcurrentUpdateExhausted.
			WithDetail("order %s after %d attempts", orderID, attempt).
			WithCause(err)
	}
	if err != nil {
		return nil, Breakdown{}, err
	}
	return res.order, res.breakdown, nil
}

func (a *Aggregator) recomputeOnce(
	ctx context.Context,
	repos Repositories,
	tenant kernel.TenantID,
	orderID kernel.UUID,
	mutate func(*order.ProductionOrder) error,
) (*order.ProductionOrder, Breakdown, error) {
	o, err := repos.OrderRepository().Get(ctx, tenant, orderID)
	if err != nil {
		return nil, Breakdown{}, err
	}

	table, res, err := a.WeightTable(ctx, tenant, o.StyleNo())
	if err != nil {
		return nil, Breakdown{}, err
	}

	records, err := repos.ScanRecordRepository().ListByOrder(ctx, tenant, orderID)
	if err != nil {
		return nil, Breakdown{}, err
	}

	if mutate != nil {
		if err = mutate(o); err != nil {
			return nil, Breakdown{}, err
		}
	}

	bd := a.Breakdown(o.Quantity(), table, res, records)
	expected := o.Version()
	o.ApplyProgress(bd.Percent, bd.CurrentStage)
	o.ApplyCompletedQuantity(bd.WarehousedQty, a.clock.Now())
	o.IncrementVersion()

	if err = repos.OrderRepository().UpdateIfVersion(ctx, o, expected); err != nil {
		return nil, Breakdown{}, err
	}
	return o, bd, nil
}
