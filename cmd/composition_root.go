package cmd

import (
	"context"
	"fmt"
	"time"

	httpadapter "github.com/chenguojun06-star/fz66666-sub006/internal/adapters/in/http"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/cache"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/commands"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/queries"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/jobs"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *zap.Logger
	clock      ports.Clock

	rdb        *redis.Client
	resolver   *progress.TemplateResolver
	aggregator *progress.Aggregator
	pool       *worker.Pool
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		clock:      ports.SystemClock,
	}

	templateCache, err := c.newTemplateCache()
	if err != nil {
		return nil, err
	}

	c.resolver = progress.NewTemplateResolver(
		c.uowFactory.Create().TemplateRepository(),
		templateCache,
		logger.With(zap.String("component", "template_resolver")),
	)
	c.aggregator = progress.NewAggregator(
		c.resolver,
		c.clock,
		logger.With(zap.String("component", "progress_aggregator")),
		progress.WithMaxAttempts(cfg.ProgressMaxAttempts),
	)

	c.pool, err = worker.NewPool("reconcile", cfg.WorkerPoolSize, logger)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return c, nil
}

// newTemplateCache shares resolved templates through redis when REDIS_ADDR is
// set and keeps them in process otherwise.
func (c *CompositionRoot) newTemplateCache() (ports.TemplateCache, error) {
	if c.cfg.RedisAddr == "" {
		return cache.NewMemoryTemplateCache(c.cfg.TemplateCacheSize, c.cfg.TemplateCacheTTL), nil
	}

	c.rdb = redis.NewClient(&redis.Options{
		Addr:     c.cfg.RedisAddr,
		Password: c.cfg.RedisPassword,
		DB:       c.cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		_ = c.rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", c.cfg.RedisAddr, err)
	}

	return cache.NewRedisTemplateCache(c.rdb, c.cfg.TemplateCacheTTL,
		c.logger.With(zap.String("component", "template_cache"))), nil
}

func (c *CompositionRoot) CreateSubmitScanCommandHandler() *commands.SubmitScanCommandHandler {
	var f commands.ScanUoWFactory = FuncScanUoWFactory(func() commands.ScanUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitScanCommandHandler(f, c.aggregator, c.CreatePayrollLedger(), c.clock,
		c.logger.With(zap.String("component", "submit_scan")))
}

func (c *CompositionRoot) CreatePayrollLedger() *commands.PayrollLedger {
	var f commands.TrackingUoWFactory = FuncTrackingUoWFactory(func() commands.TrackingUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPayrollLedger(f)
}

func (c *CompositionRoot) CreateRecomputeProgressCommandHandler() *commands.RecomputeProgressCommandHandler {
	var f commands.ProgressUoWFactory = FuncProgressUoWFactory(func() commands.ProgressUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecomputeProgressCommandHandler(f, c.aggregator)
}

func (c *CompositionRoot) CreateSaveTemplateCommandHandler() *commands.SaveTemplateCommandHandler {
	return commands.NewSaveTemplateCommandHandler(c.templateUoWFactory(), c.resolver, c.clock)
}

func (c *CompositionRoot) CreateTemplateLockCommandHandler() *commands.TemplateLockCommandHandler {
	return commands.NewTemplateLockCommandHandler(c.templateUoWFactory(), c.resolver, c.clock)
}

func (c *CompositionRoot) CreateMarkBundleRepairedCommandHandler() *commands.MarkBundleRepairedCommandHandler {
	var f commands.BundleUoWFactory = FuncBundleUoWFactory(func() commands.BundleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkBundleRepairedCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderProgressQueryHandler() queries.GetOrderProgressQueryHandler {
	return queries.NewGetOrderProgressQueryHandler(c.uowFactory.Create(), c.aggregator)
}

func (c *CompositionRoot) CreateGetStyleProgressWeightsQueryHandler() queries.GetStyleProgressWeightsQueryHandler {
	return queries.NewGetStyleProgressWeightsQueryHandler(c.aggregator)
}

func (c *CompositionRoot) CreateGetBundleScansQueryHandler() queries.GetBundleScansQueryHandler {
	return queries.NewGetBundleScansQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		SubmitScan:         c.CreateSubmitScanCommandHandler(),
		RecomputeProgress:  c.CreateRecomputeProgressCommandHandler(),
		SaveTemplate:       c.CreateSaveTemplateCommandHandler(),
		LockTemplate:       c.CreateTemplateLockCommandHandler(),
		MarkBundleRepaired: c.CreateMarkBundleRepairedCommandHandler(),
		OrderProgress:      c.CreateGetOrderProgressQueryHandler(),
		StyleWeights:       c.CreateGetStyleProgressWeightsQueryHandler(),
		BundleScans:        c.CreateGetBundleScansQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	reconcile := jobs.NewProgressReconciliationJob(
		c.uowFactory.Create().OrderRepository(),
		c.CreateRecomputeProgressCommandHandler(),
		c.pool,
		c.cfg.ReconcileSchedule,
		c.logger,
	)
	return jobs.NewJobManager(reconcile)
}

// Close releases the worker pool and the redis client.
func (c *CompositionRoot) Close() {
	c.pool.Release(10 * time.Second)
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			c.logger.Warn("close redis", zap.Error(err))
		}
	}
}

func (c *CompositionRoot) templateUoWFactory() commands.TemplateUoWFactory {
	return FuncTemplateUoWFactory(func() commands.TemplateUoW {
		return c.uowFactory.Create()
	})
}

type FuncScanUoWFactory func() commands.ScanUoW

func (f FuncScanUoWFactory) Create() commands.ScanUoW {
	return f()
}

type FuncProgressUoWFactory func() commands.ProgressUoW

func (f FuncProgressUoWFactory) Create() commands.ProgressUoW {
	return f()
}

type FuncTrackingUoWFactory func() commands.TrackingUoW

func (f FuncTrackingUoWFactory) Create() commands.TrackingUoW {
	return f()
}

type FuncTemplateUoWFactory func() commands.TemplateUoW

func (f FuncTemplateUoWFactory) Create() commands.TemplateUoW {
	return f()
}

type FuncBundleUoWFactory func() commands.BundleUoW

func (f FuncBundleUoWFactory) Create() commands.BundleUoW {
	return f()
}
