package main

import (
	"context"
	"fmt"

	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/handler/http"
	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/server"
	"github.com/ascentlog/crag-sync/internal/service"
	"github.com/ascentlog/crag-sync/internal/store"
	"github.com/ascentlog/crag-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	info := buildInfo()
	printBuildInfo(info)

	log := logger.NewLogger(logger.RoleServer)

	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log = logger.NewLoggerWithLevel(logger.RoleServer, cfg.App.LogLevel)
	log.Debug().Any("config", cfg).Msg("received configs")

	// the version endpoint serves the configured version, falling back to
	// the one linked into the binary
	if cfg.App.Version == "" {
		cfg.App.Version = info.BuildVersion()
	}

	storages, err := store.NewStorages(context.Background(), cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services, err := service.NewServices(storages, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers := http.NewHandler(services, log)

	srv, err := server.NewServer(handlers.Init(), cfg.HTTP, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
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
