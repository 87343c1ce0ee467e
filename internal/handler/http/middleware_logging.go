package http

import (
	"net/http"
	"time"

	"github.com/ascentlog/crag-sync/internal/logger"
)

// withLogging emits one access log line per request once the handler chain
// has finished. Status and size come from the wrapping responseWriter, so
// the line reflects what actually went out on the wire, gzip included.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		logger.FromRequest(r).Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
