package service

import (
	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/store"
)

type Services struct {
	SyncService    SyncService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfoSvc, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	syncSvc := NewSyncValidationService().Wrap(NewSyncService(storages.SnapshotRepository, logger))

	return &Services{
		SyncService:    syncSvc,
		AppInfoService: appInfoSvc,
	}, nil
}
