package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without caller identity
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)
	})

	// sync routes require an identified caller
	router.Group(func(r chi.Router) {
		r.Use(h.identity)

		r.Post("/api/sync/{entityType}/upload", h.uploadBatch)
		r.Get("/api/sync/{entityType}/download", h.downloadSince)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
