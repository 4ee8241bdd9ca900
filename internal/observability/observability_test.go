package observability

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/couchcryptid/hazard-risk-service/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_InstallsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "warn", LogFormat: "json"})

	require.NotNil(t, logger)
	assert.Same(t, logger, slog.Default())
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestObserveUpstream(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObserveUpstream("firms", 0.2, nil)
	m.ObserveUpstream("firms", 0.3, errors.New("boom"))
	m.ObserveUpstream("power", 0.1, nil)

	assert.InDelta(t, 1, counterValue(t, m.UpstreamRequests.WithLabelValues("firms", "success")), 0)
	assert.InDelta(t, 1, counterValue(t, m.UpstreamRequests.WithLabelValues("firms", "error")), 0)
	assert.InDelta(t, 1, counterValue(t, m.UpstreamRequests.WithLabelValues("power", "success")), 0)
}

func TestObserveUpstream_NilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveUpstream("eonet", 1, nil) })
}

func TestMetrics_ReportsPublishedCountsHandOffs(t *testing.T) {
	m := NewMetricsForTesting()
	desc := m.ReportsPublished.WithLabelValues("success").Desc().String()
	assert.Contains(t, desc, "handed to the report publisher")
	assert.NotContains(t, desc, "written")
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
