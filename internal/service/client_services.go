package service

import (
	"github.com/ascentlog/crag-sync/internal/adapter"
	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/repository"
	"github.com/ascentlog/crag-sync/internal/store"
)

type ClientServices struct {
	SyncEngine ClientSyncEngine
}

func NewClientServices(storages *store.ClientStorages, registry *repository.Registry, serverAdapter adapter.ServerAdapter, cfg config.ClientSync, logger *logger.Logger) *ClientServices {
	return &ClientServices{
		SyncEngine: NewClientSyncEngine(storages, registry, serverAdapter, cfg, logger),
	}
}
