package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ascentlog/crag-sync/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Helpers ----

// executeIdentity runs the identity middleware with the given X-User-ID
// header value and reports the recorder, the user id the downstream handler
// observed, and whether the downstream handler ran at all.
func executeIdentity(h *Handler, headerValue string) (*httptest.ResponseRecorder, int64, bool) {
	var gotUserID int64
	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		gotUserID, _ = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	middleware := h.identity(next)
	req := httptest.NewRequest(http.MethodGet, "/api/sync/climb/download", nil)
	if headerValue != "" {
		req.Header.Set("X-User-ID", headerValue)
	}

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)
	return rr, gotUserID, nextCalled
}

// ---- Tests ----

func TestIdentity_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		headerValue    string
		wantStatus     int
		wantNextCalled bool
		wantUserID     int64
	}{
		{
			name:           "valid positive id",
			headerValue:    "7",
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
			wantUserID:     7,
		},
		{
			name:           "large id",
			headerValue:    "9223372036854775807",
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
			wantUserID:     9223372036854775807,
		},
		{
			name:           "missing header",
			headerValue:    "",
			wantStatus:     http.StatusUnauthorized,
			wantNextCalled: false,
		},
		{
			name:           "not a number",
			headerValue:    "alice",
			wantStatus:     http.StatusUnauthorized,
			wantNextCalled: false,
		},
		{
			name:           "zero id",
			headerValue:    "0",
			wantStatus:     http.StatusUnauthorized,
			wantNextCalled: false,
		},
		{
			name:           "negative id",
			headerValue:    "-3",
			wantStatus:     http.StatusUnauthorized,
			wantNextCalled: false,
		},
		{
			name:           "overflowing id",
			headerValue:    "92233720368547758089",
			wantStatus:     http.StatusUnauthorized,
			wantNextCalled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()

			rr, gotUserID, nextCalled := executeIdentity(h, tt.headerValue)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.wantNextCalled {
				assert.Equal(t, tt.wantUserID, gotUserID)
			}
		})
	}
}

func TestIdentity_RejectionBodyNamesSentinel(t *testing.T) {
	h := newTestHandler()

	rr, _, _ := executeIdentity(h, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), ErrMissingUserIDHeader.Error())

	rr, _, _ = executeIdentity(h, "not-a-number")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), ErrInvalidUserIDHeader.Error())
}

func TestIdentity_AuthorizationHeaderPassesThrough(t *testing.T) {
	h := newTestHandler()

	var gotAuth string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})

	middleware := h.identity(next)
	req := httptest.NewRequest(http.MethodGet, "/api/sync/climb/download", nil)
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Authorization", "Bearer opaque-token")

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bearer opaque-token", gotAuth, "bearer token must reach the handler untouched")
}
