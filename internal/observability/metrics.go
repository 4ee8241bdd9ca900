package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hazard_risk"

// Metrics holds the Prometheus counters, histograms, and gauges for the risk service.
type Metrics struct {
	// Analysis metrics.
	AnalysesTotal    *prometheus.CounterVec // labels: outcome={success,invalid,upstream,model,error}
	AnalysisDuration prometheus.Histogram
	RiskLevels       *prometheus.CounterVec // labels: hazard, level
	ReportsPublished *prometheus.CounterVec // labels: outcome={success,error}, hand-off to the sink
	AnalysisEnabled  prometheus.Gauge

	// Report publisher.
	PublisherRunning     prometheus.Gauge
	ReportsWritten       prometheus.Counter
	PublishBatchSize     prometheus.Histogram
	PublishBatchDuration prometheus.Histogram

	// Upstream NASA metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: source, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: source

	// Correlation output sizes.
	CorrelatedItems *prometheus.HistogramVec // labels: kind={fires,events}

	// GIBS tile cache.
	TileCache *prometheus.CounterVec // labels: result={hit,miss}

	// Hosted model.
	ModelRequests *prometheus.CounterVec // labels: outcome={success,error}
	ModelDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.RiskLevels,
		m.ReportsPublished,
		m.AnalysisEnabled,
		m.PublisherRunning,
		m.ReportsWritten,
		m.PublishBatchSize,
		m.PublishBatchDuration,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CorrelatedItems,
		m.TileCache,
		m.ModelRequests,
		m.ModelDuration,
	)
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Risk analyses by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete fetch-correlate-assess cycle.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		RiskLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_levels_total",
			Help:      "Assessed risk levels by hazard.",
		}, []string{"hazard", "level"}),
		ReportsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "Risk reports handed to the report publisher by outcome.",
		}, []string{"outcome"}),
		AnalysisEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "analysis_enabled",
			Help:      "1 when a hosted model is configured, 0 otherwise.",
		}),
		PublisherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_running",
			Help:      "1 when the report publisher is active, 0 when shut down.",
		}),
		ReportsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_written_total",
			Help:      "Total risk reports written to the report topic.",
		}),
		PublishBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_batch_size",
			Help:      "Number of reports per batch written to Kafka.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		PublishBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_batch_duration_seconds",
			Help:      "Duration of a successful batch write, retries included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "NASA API requests by source and outcome.",
		}, []string{"source", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "NASA API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		CorrelatedItems: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "correlated_items",
			Help:      "Number of nearby items kept after correlation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
		}, []string{"kind"}),
		TileCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_cache_total",
			Help:      "GIBS tile cache lookups by result.",
		}, []string{"result"}),
		ModelRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_requests_total",
			Help:      "Hosted model completions by outcome.",
		}, []string{"outcome"}),
		ModelDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_duration_seconds",
			Help:      "Hosted model completion duration in seconds.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
	}
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// ObserveUpstream records one NASA request for source.
func (m *Metrics) ObserveUpstream(source string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(source).Observe(seconds)
	if err != nil {
		m.UpstreamRequests.WithLabelValues(source, "error").Inc()
		return
	}
	m.UpstreamRequests.WithLabelValues(source, "success").Inc()
}
