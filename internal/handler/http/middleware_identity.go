package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/utils"
)

const userIDHeader = "X-User-ID"

// identity is an HTTP middleware that resolves the calling user.
//
// It reads the "X-User-ID" header, parses it as a positive integer, and on
// success stores the caller's ID in the request context under
// [utils.UserIDCtxKey] before delegating to the next handler. Bearer tokens
// carried in the "Authorization" header are treated as opaque and passed
// through untouched; verifying them belongs to the deployment's auth gateway,
// not to the reference server.
//
// The middleware rejects requests with HTTP 401 Unauthorized when the header
// is absent ([ErrMissingUserIDHeader]) or does not parse as a positive
// integer ([ErrInvalidUserIDHeader]). Rejections are logged using the
// context-scoped logger obtained via [logger.FromRequest].
func (h *Handler) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		rawUserID := r.Header.Get(userIDHeader)
		if rawUserID == "" {
			log.Err(ErrMissingUserIDHeader).Send()
			http.Error(w, ErrMissingUserIDHeader.Error(), http.StatusUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(rawUserID, 10, 64)
		if err != nil || userID <= 0 {
			log.Err(ErrInvalidUserIDHeader).Str("user_id", rawUserID).Send()
			http.Error(w, ErrInvalidUserIDHeader.Error(), http.StatusUnauthorized)
			return
		}

		// Store the caller's ID in the context so that downstream handlers
		// can retrieve it without re-reading the header.
		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
