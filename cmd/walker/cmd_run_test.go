package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmike/walker"
	prommon "github.com/osmike/walker/monitoring/prometheus"
)

func get(t *testing.T, srv *httptest.Server, path string) string {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRouter_HealthzAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := prommon.New(reg)
	require.NoError(t, err)

	s, err := walker.New(context.Background(), walker.Options[walkConfig]{
		Step:          func(context.Context, walkConfig) error { return nil },
		OnStateChange: func(active bool, _ walkConfig) { prom.ObserveState(active) },
	}, prom)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	srv := httptest.NewServer(newRouter(reg, s))
	t.Cleanup(srv.Close)

	assert.Equal(t, "idle\n", get(t, srv, "/healthz"))

	require.NoError(t, s.Start(walkConfig{Every: time.Hour}))
	assert.Equal(t, "walking\n", get(t, srv, "/healthz"))
	assert.Contains(t, get(t, srv, "/metrics"), "walker_active 1")

	s.Stop()
	assert.Equal(t, "idle\n", get(t, srv, "/healthz"))
	assert.Contains(t, get(t, srv, "/metrics"), "walker_active 0")
}

func TestReadCommands(t *testing.T) {
	ch := readCommands(context.Background(), strings.NewReader(" N \nq\n"))
	assert.Equal(t, "n", <-ch)
	assert.Equal(t, "q", <-ch)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestReadCommands_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := readCommands(ctx, strings.NewReader("n\nn\nn\n"))
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
