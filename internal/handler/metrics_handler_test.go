package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakstart/ledger-api/internal/service"
)

func TestMetricsHandlerHealth(t *testing.T) {
	h := NewMetricsHandler(nil, nil, nil)

	c, w := newTestContext(http.MethodGet, "/health", "")
	h.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(nil, map[string]DependencyCheck{
		"postgres": func(ctx context.Context) error { return nil },
	}, nil)

	c, w := newTestContext(http.MethodGet, "/ready", "")
	h.Ready(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"postgres":"ok"}}`, w.Body.String())
}

func TestMetricsHandlerReadyReportsUnavailableDependency(t *testing.T) {
	h := NewMetricsHandler(nil, map[string]DependencyCheck{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	}, nil)

	c, w := newTestContext(http.MethodGet, "/ready", "")
	h.Ready(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"postgres":"ok","redis":"unavailable"}}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordExport("csv")
	h := NewMetricsHandler(metrics, nil, nil)

	c, w := newTestContext(http.MethodGet, "/metrics", "")
	h.Prometheus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ledger_exports_total{format="csv"} 1`)
}

func TestMetricsHandlerPrometheusDisabled(t *testing.T) {
	h := NewMetricsHandler(nil, nil, nil)

	c, w := newTestContext(http.MethodGet, "/metrics", "")
	h.Prometheus(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
