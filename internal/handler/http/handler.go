package http

import (
	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/service"
)

// Handler owns the HTTP surface of the reference sync server: the upload
// and download endpoints plus the version probe. It holds no per-request
// state; everything request-scoped travels through the context.
type Handler struct {
	services *service.Services

	logger *logger.Logger
}

// NewHandler wires the service layer into an HTTP handler. Routes are
// attached separately via [Handler.Init].
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}
