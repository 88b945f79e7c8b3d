package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	scheduleservice "tranche/contexts/token-vesting/schedule-service"
	"tranche/contexts/token-vesting/schedule-service/adapters/addressing"
	postgresadapter "tranche/contexts/token-vesting/schedule-service/adapters/postgres"
	workerapp "tranche/contexts/token-vesting/schedule-service/application/workers"
	"tranche/internal/platform/config"
	"tranche/internal/platform/db"
	"tranche/internal/platform/httpserver"
	"tranche/internal/platform/messaging"
	"tranche/internal/platform/metrics"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server      *httpserver.Server
	postgres    *db.Postgres
	metricsAddr string
	logger      *slog.Logger
}

type WorkerApp struct {
	postgres    *db.Postgres
	scheduler   *gocron.Scheduler
	outboxRelay workerapp.OutboxRelay
	runner      *workerapp.ReleaseRunner
	drift       *workerapp.DriftMonitor
	cfg         config.Config
	logger      *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	module := scheduleservice.NewModule(newPostgresDeps(pg.DB, cfg, logger).moduleDependencies(logger))

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:      server,
		postgres:    pg,
		metricsAddr: normalizeAddr(cfg.MetricsPort),
		logger:      logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	deps := newPostgresDeps(pg.DB, cfg, logger)
	module := scheduleservice.NewModule(deps.moduleDependencies(logger))

	app := &WorkerApp{
		postgres:  pg,
		scheduler: gocron.NewScheduler(time.UTC),
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    deps.repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			Topic:     cfg.OutboxTopic,
			BatchSize: 100,
			Logger:    logger,
		},
		cfg:    cfg,
		logger: logger,
	}

	if cfg.EnableReleaseRunner && cfg.ScheduleID != "" && cfg.Distributor != "" {
		app.runner = &workerapp.ReleaseRunner{
			Service:     module.Service,
			ScheduleID:  cfg.ScheduleID,
			Distributor: cfg.Distributor,
			Logger:      logger,
		}
	}
	if cfg.EnableDriftMonitor && cfg.ScheduleID != "" {
		app.drift = &workerapp.DriftMonitor{
			Repo:       deps.repo,
			Ledger:     deps.ledger,
			Addresses:  deps.deriver,
			ScheduleID: cfg.ScheduleID,
			Logger:     logger,
		}
	}
	return app, nil
}

// postgresDeps bundles the durable adapters every process composes against.
// Schedule state and custody balances share one database: the worker and the
// provisioner see the vault the api created, and balances survive restarts.
type postgresDeps struct {
	repo    *postgresadapter.Repository
	ledger  *postgresadapter.Ledger
	deriver addressing.Deriver
}

func newPostgresDeps(gdb *gorm.DB, cfg config.Config, logger *slog.Logger) postgresDeps {
	return postgresDeps{
		repo:    postgresadapter.NewRepository(gdb, logger),
		ledger:  postgresadapter.NewLedger(gdb, logger),
		deriver: addressing.NewDeriver(cfg.AddressNamespace),
	}
}

func (d postgresDeps) moduleDependencies(logger *slog.Logger) scheduleservice.Dependencies {
	return scheduleservice.Dependencies{
		Repository:  d.repo,
		Ledger:      d.ledger,
		Addresses:   d.deriver,
		Outbox:      d.repo,
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.UUIDGenerator{},
		Logger:      logger,
	}
}

func (a *APIApp) Run(_ context.Context) error {
	metrics.Serve(a.metricsAddr, a.logger)
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	metrics.Serve(normalizeAddr(w.cfg.MetricsPort), w.logger)

	w.scheduler.Every(w.cfg.OutboxRelayInterval).SingletonMode().Do(func() {
		_ = w.outboxRelay.RunOnce(ctx)
	})
	if w.runner != nil {
		w.scheduler.Every(w.cfg.ReleaseRunnerInterval).SingletonMode().Do(func() {
			_ = w.runner.RunOnce(ctx)
		})
	}
	if w.drift != nil {
		w.scheduler.Every(w.cfg.DriftMonitorInterval).SingletonMode().Do(func() {
			_ = w.drift.RunOnce(ctx)
		})
	}

	w.scheduler.StartAsync()
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"outbox_relay_interval", w.cfg.OutboxRelayInterval.String(),
		"release_runner_enabled", w.runner != nil,
		"drift_monitor_enabled", w.drift != nil,
	)

	<-ctx.Done()
	w.scheduler.Stop()
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
