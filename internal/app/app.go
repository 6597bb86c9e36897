package app

import (
	"context"
	"fmt"
	"time"

	"nbrb-rates/internal/adapter/nbrb"
	"nbrb-rates/internal/adapter/postgres"
	rdb "nbrb-rates/internal/adapter/redis"
	"nbrb-rates/internal/handler"
	"nbrb-rates/internal/metrics"
	"nbrb-rates/internal/scheduler"
	"nbrb-rates/internal/service"
	"nbrb-rates/internal/usecase"
	"nbrb-rates/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const scheduledImportTimeout = 5 * time.Minute

// App holds every wired layer of the service.
type App struct {
	cfg       *config.Config
	logger    *logrus.Logger
	registry  *prometheus.Registry
	pool      *pgxpool.Pool
	publisher *rdb.Publisher

	Service *service.RateService
	Usecase *usecase.CurrencyUsecase
}

func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	a := &App{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(cfg.Postgres, logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.InitDBPool(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("init db pool: %w", err)
	}
	a.pool = pool
	logger.Info("Initialized database pool")

	var notifier service.ImportNotifier
	if cfg.Redis.Addr != "" {
		a.publisher, err = rdb.InitPublisher(ctx, &goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.Channel, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		notifier = a.publisher
	} else {
		logger.Info("Redis address not set, import notifications disabled")
	}

	m := metrics.New(a.registry)
	client := nbrb.NewClient(cfg.NBRB.BaseURL, cfg.NBRB.Timeout, logger, m)
	repo := postgres.NewPostgresRepo(pool, logger)

	catalog := service.NewCatalogService(client, repo, logger, m)
	a.Service = service.NewRateService(client, repo, catalog, notifier, logger, m)
	logger.Info("Initialized service layer")

	a.Usecase = usecase.NewCurrencyUsecase(a.Service, logger)
	logger.Info("Initialized usecase layer")

	return a, nil
}

func (a *App) importLimiter() (*limiter.Limiter, error) {
	if a.cfg.RateLimit.Import == "" {
		return nil, nil
	}

	rate, err := limiter.NewRateFromFormatted(a.cfg.RateLimit.Import)
	if err != nil {
		return nil, fmt.Errorf("parse import rate limit %q: %w", a.cfg.RateLimit.Import, err)
	}

	store := memory.NewStore()
	if a.publisher != nil {
		store, err = sredis.NewStoreWithOptions(a.publisher.Client(), limiter.StoreOptions{
			Prefix:   a.cfg.App.Name + "_limiter",
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("limiter redis store: %w", err)
		}
	}
	return limiter.New(store, rate), nil
}

func (a *App) Router() (*gin.Engine, error) {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	lim, err := a.importLimiter()
	if err != nil {
		return nil, err
	}

	h := handler.NewRateHandler(a.Usecase, a.logger)
	return handler.NewRouter(h, handler.RouterOptions{
		Logger:        a.logger,
		AllowOrigins:  a.cfg.CORS.AllowOrigins,
		ImportLimiter: lim,
		Metrics:       promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
	})
}

func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	return scheduler.New(a.cfg.Scheduler.Spec, a.Service, scheduledImportTimeout, a.logger)
}

func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close redis client")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
