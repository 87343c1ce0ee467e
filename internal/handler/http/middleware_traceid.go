package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ascentlog/crag-sync/internal/utils"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID correlates server log lines with the client engine's. The
// client transport stamps every upload and download request with an
// X-Trace-ID; adopting it here means one grep joins both halves of a sync
// exchange. Requests arriving without one get a fresh id minted.
//
// The id is attached to the request-scoped logger and echoed back in the
// response header.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = utils.NewUUID()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
