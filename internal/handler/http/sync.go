package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/utils"
	"github.com/ascentlog/crag-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) uploadBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.uploadBatch").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusUnauthorized)
		return
	}

	entityType := chi.URLParam(r, "entityType")

	var batchRequest models.UploadBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&batchRequest); err != nil {
		log.Err(err).Str("func", "*Handler.uploadBatch").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// The body may carry the owner id for audit purposes, but the caller
	// identity from the request context is authoritative.
	if batchRequest.UserID != 0 && batchRequest.UserID != userID {
		log.Error().Str("func", "*Handler.uploadBatch").
			Int64("user_id", userID).
			Int64("batch_user_id", batchRequest.UserID).
			Msg("batch owner does not match caller")
		http.Error(w, ErrIdentityMismatch.Error(), http.StatusForbidden)
		return
	}
	batchRequest.UserID = userID

	response, err := h.services.SyncService.ApplyBatch(ctx, entityType, batchRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.uploadBatch").
			Str("entity_type", entityType).
			Msg("error applying uploaded batch")
		http.Error(w, "error applying uploaded batch", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) downloadSince(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.downloadSince").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusUnauthorized)
		return
	}

	entityType := chi.URLParam(r, "entityType")

	// An absent since parameter means a full download from the zero watermark.
	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			log.Err(err).Str("func", "*Handler.downloadSince").
				Str("since", raw).
				Msg("invalid since parameter")
			http.Error(w, "invalid `since` query parameter", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	response, err := h.services.SyncService.ChangesSince(ctx, userID, entityType, since)
	if err != nil {
		log.Err(err).Str("func", "*Handler.downloadSince").
			Str("entity_type", entityType).
			Msg("error collecting changes")
		http.Error(w, "error collecting changes", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
