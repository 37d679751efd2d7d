package jobmetrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, registry *prometheus.Registry) string {
	t.Helper()
	rr := httptest.NewRecorder()
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestTrackerRecordsOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	require.NoError(t, metrics.Track("sweep").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, metrics.Track("sweep").End(boom), boom)

	body := scrape(t, registry)
	assert.Contains(t, body, `krishi_jobs_total{job="sweep",status="success"} 1`)
	assert.Contains(t, body, `krishi_jobs_total{job="sweep",status="failure"} 1`)
	assert.Contains(t, body, `krishi_jobs_failures_total{job="sweep"} 1`)
	assert.Contains(t, body, `krishi_job_duration_seconds_count{job="sweep"} 2`)
}

func TestAddItemsIgnoresEmptyCounts(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.AddItems("sweep", "transitioned", 3)
	metrics.AddItems("sweep", "transitioned", 0)
	metrics.AddItems("sweep", "failed", -1)

	body := scrape(t, registry)
	assert.Contains(t, body, `krishi_job_items_total{job="sweep",outcome="transitioned"} 3`)
	assert.NotContains(t, body, `outcome="failed"`)
}

func TestNilMetricsTrackerIsNoop(t *testing.T) {
	var metrics *Metrics
	boom := errors.New("boom")
	assert.ErrorIs(t, metrics.Track("sweep").End(boom), boom)
	metrics.AddItems("sweep", "failed", 1)
}
