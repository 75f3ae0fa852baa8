package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetrecs/logging"
	"tetrecs/room"
)

func TestMuxServesMetricsAndRooms(t *testing.T) {
	lb, err := logging.NewLogBackend(logging.LogConfig{DebugLevel: "off"})
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	mgr := room.NewManager(room.NewMetrics(reg), nil)
	defer mgr.Close()
	mgr.GetOrCreateRoom("ABC")

	srv := httptest.NewServer(newMux(mgr, reg, lb))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "tetrecs_rooms 1")

	resp, err = http.Get(srv.URL + "/rooms")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"code":"ABC","players":0}]`, string(body))

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
