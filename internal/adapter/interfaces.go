// Package adapter provides transport-layer abstractions for communicating
// with the sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrServiceUnavailable] for
// 503).
package adapter

import (
	"context"
	"time"

	"github.com/ascentlog/crag-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent requests.
	// Tokens are issued out of band; the engine never inspects them.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// UploadBatch sends one network batch of queued mutations for a single
	// entity type and returns the per-item outcomes. The response is only an
	// error when the batch as a whole could not be processed; individual
	// item failures arrive as outcomes with a non-ok status.
	UploadBatch(ctx context.Context, entityType string, req models.UploadBatchRequest) (models.UploadBatchResponse, error)

	// DownloadSince fetches snapshots of the given entity type changed after
	// the since watermark, tombstones included, together with the server
	// time the response was computed at.
	DownloadSince(ctx context.Context, userID int64, entityType string, since time.Time) (models.DownloadResponse, error)
}
