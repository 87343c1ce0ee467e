package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ascentlog/crag-sync/internal/adapter"
	"github.com/ascentlog/crag-sync/internal/repository"
	"github.com/ascentlog/crag-sync/internal/store"
	"github.com/ascentlog/crag-sync/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want models.ErrorClass
	}{
		{"serialization", repository.ErrSerialization, models.ErrorClassPermanent},
		{"bad request", adapter.ErrBadRequest, models.ErrorClassPermanent},
		{"forbidden", adapter.ErrForbidden, models.ErrorClassPermanent},
		{"not found", adapter.ErrNotFound, models.ErrorClassPermanent},

		{"conflict", adapter.ErrConflict, models.ErrorClassConflict},
		{"snapshot conflict", store.ErrSnapshotConflict, models.ErrorClassConflict},

		{"unauthorized", adapter.ErrUnauthorized, models.ErrorClassTransient},
		{"request timeout", adapter.ErrRequestTimeout, models.ErrorClassTransient},
		{"too many requests", adapter.ErrTooManyRequests, models.ErrorClassTransient},
		{"internal server error", adapter.ErrInternalServerError, models.ErrorClassTransient},
		{"bad gateway", adapter.ErrBadGateway, models.ErrorClassTransient},
		{"service unavailable", adapter.ErrServiceUnavailable, models.ErrorClassTransient},
		{"storage unavailable", store.ErrStorageUnavailable, models.ErrorClassTransient},
		{"deadline exceeded", context.DeadlineExceeded, models.ErrorClassTransient},

		{"unknown defaults to transient", errors.New("wire cut"), models.ErrorClassTransient},
		{"wrapped permanent", fmt.Errorf("upload climb: %w", adapter.ErrNotFound), models.ErrorClassPermanent},
		{"wrapped transient", fmt.Errorf("download climb: %w", adapter.ErrBadGateway), models.ErrorClassTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
