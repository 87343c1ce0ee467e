package service

import (
	"context"
	"errors"

	"github.com/ascentlog/crag-sync/internal/adapter"
	"github.com/ascentlog/crag-sync/internal/repository"
	"github.com/ascentlog/crag-sync/internal/store"
	"github.com/ascentlog/crag-sync/models"
)

// Classify sorts a sync failure into the engine's error taxonomy. Unknown
// errors default to transient so a new failure mode keeps retrying instead
// of silently dead-lettering items.
func Classify(err error) models.ErrorClass {
	switch {
	case errors.Is(err, repository.ErrSerialization),
		errors.Is(err, adapter.ErrBadRequest),
		errors.Is(err, adapter.ErrForbidden),
		errors.Is(err, adapter.ErrNotFound):
		return models.ErrorClassPermanent

	case errors.Is(err, adapter.ErrConflict),
		errors.Is(err, store.ErrSnapshotConflict):
		return models.ErrorClassConflict

	case errors.Is(err, adapter.ErrUnauthorized),
		errors.Is(err, adapter.ErrRequestTimeout),
		errors.Is(err, adapter.ErrTooManyRequests),
		errors.Is(err, adapter.ErrInternalServerError),
		errors.Is(err, adapter.ErrBadGateway),
		errors.Is(err, adapter.ErrServiceUnavailable),
		errors.Is(err, store.ErrStorageUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return models.ErrorClassTransient

	default:
		return models.ErrorClassTransient
	}
}
