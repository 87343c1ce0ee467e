package http

import (
	"errors"
	"net/http"

	"github.com/ascentlog/crag-sync/internal/service"
	"github.com/ascentlog/crag-sync/internal/store"
	"github.com/ascentlog/crag-sync/internal/validators"
)

var errorStatusMap = map[error]int{
	validators.ErrInvalidUserID:    http.StatusBadRequest,
	validators.ErrEmptyItems:       http.StatusBadRequest,
	validators.ErrMissingItemID:    http.StatusBadRequest,
	validators.ErrMissingEntityID:  http.StatusBadRequest,
	validators.ErrInvalidOperation: http.StatusBadRequest,
	validators.ErrMissingPayload:   http.StatusBadRequest,
	validators.ErrMissingBatchID:   http.StatusBadRequest,
	validators.ErrUnsupportedType:  http.StatusBadRequest,
	validators.ErrUnknownField:     http.StatusBadRequest,

	service.ErrVersionIsNotSpecified: http.StatusBadRequest,

	store.ErrSnapshotConflict:   http.StatusConflict,
	store.ErrStorageUnavailable: http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrPreparingStatement:   http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
