package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/utils"
	"github.com/ascentlog/crag-sync/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	// mu guards token: the periodic sync job reads it concurrently with
	// runtime token rotation via SetToken.
	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.ServerURL and
// configures the underlying HTTP client with the resolved base URL and request
// timeout. When adapterCfg.AuthToken is non-empty it is stored as the initial
// bearer token.
//
// Returns an error if adapterCfg.ServerURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter server url: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	a := &httpServerAdapter{client: client, logger: logger}
	a.SetToken(adapterCfg.AuthToken)

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently held
// by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// UploadBatch implements [ServerAdapter]. It sets req.Length and POSTs the
// batch to POST /api/sync/{entityType}/upload, then decodes the per-item
// outcomes. A non-2xx status maps to the matching sentinel error; in that
// case no outcome in the batch has been applied durably and the whole batch
// is retryable. Returns an error if the request, response mapping, or JSON
// decoding fails.
func (h *httpServerAdapter) UploadBatch(ctx context.Context, entityType string, req models.UploadBatchRequest) (models.UploadBatchResponse, error) {
	req.Length = len(req.Items)

	resp, err := h.authedRequest(ctx, req.UserID).
		SetHeader("Content-Type", "application/json").
		SetPathParam("entityType", entityType).
		SetBody(req).
		Post("/api/sync/{entityType}/upload")
	if err != nil {
		return models.UploadBatchResponse{}, fmt.Errorf("upload batch request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UploadBatchResponse{}, err
	}

	var out models.UploadBatchResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.UploadBatchResponse{}, fmt.Errorf("decode upload batch response: %w", err)
	}

	return out, nil
}

// DownloadSince implements [ServerAdapter]. It GETs
// GET /api/sync/{entityType}/download with the watermark passed as the
// RFC 3339 `since` query parameter, and decodes the changed snapshots
// together with the server time. Returns an error if the request, response
// mapping, or JSON decoding fails.
func (h *httpServerAdapter) DownloadSince(ctx context.Context, userID int64, entityType string, since time.Time) (models.DownloadResponse, error) {
	resp, err := h.authedRequest(ctx, userID).
		SetPathParam("entityType", entityType).
		SetQueryParam("since", since.UTC().Format(time.RFC3339Nano)).
		Get("/api/sync/{entityType}/download")
	if err != nil {
		return models.DownloadResponse{}, fmt.Errorf("download request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DownloadResponse{}, err
	}

	var out models.DownloadResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.DownloadResponse{}, fmt.Errorf("decode download response: %w", err)
	}

	return out, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context, userID int64) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("X-User-ID", strconv.FormatInt(userID, 10)).
		SetHeader("X-Trace-ID", utils.NewUUID())
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
