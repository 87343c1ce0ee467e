package http

import (
	"net/http"

	"github.com/ascentlog/crag-sync/internal/logger"
)

// getServerVersion reports the server build as plain text. Clients log it
// next to their own version when diagnosing sync mismatches.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	version := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte(version)); err != nil {
		logger.FromRequest(r).Err(err).
			Str("func", "Handler.getServerVersion").
			Msg("error writing version response")
	}
}
