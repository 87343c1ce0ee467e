package server

import (
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_MissingAddress(t *testing.T) {
	srv, err := NewServer(http.NewServeMux(), config.ServerHTTP{}, logger.Nop())

	assert.Nil(t, srv)
	assert.ErrorIs(t, err, errAddressMissing)
}

func TestNewServer_ValidAddress(t *testing.T) {
	cfg := config.ServerHTTP{Address: "127.0.0.1:0", RequestTimeout: time.Second}

	srv, err := NewServer(http.NewServeMux(), cfg, logger.Nop())

	require.NoError(t, err)
	assert.NotNil(t, srv)
}

func TestServer_ShutdownBeforeRunIsSafe(t *testing.T) {
	cfg := config.ServerHTTP{Address: "127.0.0.1:0", RequestTimeout: time.Second}

	srv, err := NewServer(http.NewServeMux(), cfg, logger.Nop())
	require.NoError(t, err)

	assert.NotPanics(t, func() { srv.Shutdown() })
}

func TestHTTPServer_TimeoutsFromConfig(t *testing.T) {
	cfg := config.ServerHTTP{Address: "127.0.0.1:8099", RequestTimeout: 42 * time.Second}

	h := newHTTPServer(http.NewServeMux(), cfg, logger.Nop())

	assert.Equal(t, "127.0.0.1:8099", h.server.Addr)
	assert.Equal(t, 42*time.Second, h.server.ReadTimeout)
	assert.Equal(t, 42*time.Second, h.server.WriteTimeout)
}

func TestHTTPServer_ShutdownUnblocksRun(t *testing.T) {
	h := newHTTPServer(http.NewServeMux(), config.ServerHTTP{Address: "127.0.0.1:0"}, logger.Nop())

	// Shutdown first: ListenAndServe then returns ErrServerClosed right away
	// and RunServer must treat that as a clean stop.
	h.Shutdown()

	done := make(chan struct{})
	go func() {
		h.RunServer()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunServer did not return after Shutdown")
	}
}

func TestHTTPServer_ServesRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	// reserve a free loopback port for ListenAndServe
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := listener.Addr().String()
	require.NoError(t, listener.Close())

	h := newHTTPServer(mux, config.ServerHTTP{Address: address, RequestTimeout: 2 * time.Second}, logger.Nop())
	go h.RunServer()
	defer h.Shutdown()

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, getErr := http.Get("http://" + address + "/ping")
		if getErr != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, 20*time.Millisecond)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}
