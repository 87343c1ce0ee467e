package main

import (
	"fmt"

	"github.com/ascentlog/crag-sync/internal/adapter"
	"github.com/ascentlog/crag-sync/internal/client"
	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/repository"
	"github.com/ascentlog/crag-sync/internal/service"
	"github.com/ascentlog/crag-sync/internal/store"
	"github.com/ascentlog/crag-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// entityTypes are the document kinds the demo client syncs.
var entityTypes = []string{"climb", "session"}

func main() {
	printBuildInfo(buildInfo())

	log := logger.NewLogger(logger.RoleClient)

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log = logger.NewLoggerWithLevel(logger.RoleClient, cfg.App.LogLevel)
	log.Debug().Any("config", cfg).Msg("received configs")

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server adapter")
	}

	localStorage, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating local storage")
	}

	registry := repository.NewRegistry(log)
	for _, entityType := range entityTypes {
		repo, repoErr := repository.NewDocumentAdapter(entityType, localStorage.LocalRecordRepository, log)
		if repoErr != nil {
			log.Fatal().Err(repoErr).Str("entity_type", entityType).Msg("error creating repository adapter")
		}
		if regErr := registry.Register(repo); regErr != nil {
			log.Fatal().Err(regErr).Str("entity_type", entityType).Msg("error registering repository")
		}
	}

	services := service.NewClientServices(localStorage, registry, serverAdapter, cfg.Sync, log)

	app, err := client.NewApp(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func buildInfo() models.AppBuildInfo {
	version, date, commit := buildVersion, buildDate, buildCommit
	if version == "" {
		version = "N/A"
	}
	if date == "" {
		date = "N/A"
	}
	if commit == "" {
		commit = "N/A"
	}

	return models.NewAppBuildInfo(version, date, commit)
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
