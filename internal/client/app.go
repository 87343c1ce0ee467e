package client

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/service"
	"github.com/ascentlog/crag-sync/internal/workers"
)

type App struct {
	services *service.ClientServices
	workers  *workers.Workers
	cfg      *config.ClientConfig
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	if services == nil || services.SyncEngine == nil {
		return nil, errors.New("sync engine is not initialised")
	}
	if cfg == nil {
		return nil, errors.New("client config is nil")
	}

	background := workers.NewWorkers(
		&eventsWorker{engine: services.SyncEngine, logger: logger},
		&syncWorker{engine: services.SyncEngine, userID: cfg.App.UserID, interval: cfg.Workers.SyncInterval},
	)

	return &App{
		services: services,
		workers:  background,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Run starts the background workers and blocks until a stop signal arrives,
// then shuts the engine down gracefully.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	a.workers.Run()

	// first pass so a fresh start converges before the first tick
	if err := a.services.SyncEngine.SyncAll(ctx, a.cfg.App.UserID, ""); err != nil {
		a.logger.Warn().
			Err(err).
			Int64("user_id", a.cfg.App.UserID).
			Msg("initial sync failed")
	}

	<-ctx.Done()
	a.logger.Info().Msg("shutdown signal received")

	a.workers.Stop()
	a.services.SyncEngine.Close()

	return nil
}
