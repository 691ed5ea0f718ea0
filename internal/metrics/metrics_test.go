package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveCalculation("dscr", time.Now(), nil)
	m.ObserveCalculation("dscr", time.Now(), errors.New("invalid input"))
	m.ObserveCalculation("ltv", time.Now(), nil)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.calculations.WithLabelValues("dscr", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.calculations.WithLabelValues("dscr", "invalid_input")))

	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.analysisCache.WithLabelValues("miss")))

	m.EventPublished("kafka", errors.New("broker down"))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.eventsPublished.WithLabelValues("kafka", "error")))

	m.SetWebsocketClients(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.websocketClients))

	m.DealsPurged(4)
	m.DealsPurged(0)
	assert.Equal(t, float64(4), testutil.ToFloat64(m.dealsPurged))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, "/api/v1/calculations/dscr", "200", 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `underwriter_http_requests_total{method="POST",route="/api/v1/calculations/dscr",status="200"} 1`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCalculation("dscr", time.Now(), nil)
		m.ObserveRequest("GET", "/health", "200", time.Millisecond)
		m.SetWebsocketClients(1)
		m.EventPublished("kafka", nil)
		m.CacheLookup(true)
		m.DealsPurged(1)
	})
}
