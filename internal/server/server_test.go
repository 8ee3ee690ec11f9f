package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceshell/gui-service/internal/bus"
	"github.com/voiceshell/gui-service/internal/config"
	"github.com/voiceshell/gui-service/internal/gui"
	"github.com/voiceshell/gui-service/internal/logging"
	"github.com/voiceshell/gui-service/internal/namespace"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	loop := bus.NewLoopback()
	log := logging.NewNop()

	hub := gui.NewHub(loop, log, nil)
	manager := namespace.NewManager(loop, hub, config.NewRuntime(cfg.GUI),
		cfg.Server.Port, log)
	hub.SetStateProvider(manager)

	return New(cfg, hub, manager, nil, log)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	srv.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, false, status["connected"])
	assert.Equal(t, float64(0), status["clients"])
	assert.Equal(t, float64(0), status["namespaces"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	srv.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}
