package risk

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/couchcryptid/hazard-risk-service/internal/observability"
)

// --- mocks ---

type mockWeather struct {
	records []domain.WeatherRecord
	err     error
	calls   atomic.Int32
}

func (m *mockWeather) FetchHourly(_ context.Context, _ domain.GeoPoint) ([]domain.WeatherRecord, error) {
	m.calls.Add(1)
	return m.records, m.err
}

type mockFires struct {
	points []domain.FirePoint
	err    error
	calls  atomic.Int32
}

func (m *mockFires) FetchFirePoints(_ context.Context) ([]domain.FirePoint, error) {
	m.calls.Add(1)
	return m.points, m.err
}

type mockEvents struct {
	events []domain.HazardEvent
	err    error
	calls  atomic.Int32
}

func (m *mockEvents) FetchEvents(_ context.Context) ([]domain.HazardEvent, error) {
	m.calls.Add(1)
	return m.events, m.err
}

type mockModel struct {
	reply  string
	err    error
	system string
	user   string
	calls  int
}

func (m *mockModel) Complete(_ context.Context, system, user string) (string, error) {
	m.calls++
	m.system = system
	m.user = user
	return m.reply, m.err
}

func (m *mockModel) Model() string { return "mock-model" }

type mockSink struct {
	mu      sync.Mutex
	reports []domain.RiskReport
	err     error
}

func (m *mockSink) Publish(_ context.Context, r domain.RiskReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r)
	return m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

const validReply = `{
  "wildfire":  {"level": "High", "reasoning": "Active fires nearby under hot, dry conditions."},
  "heatwave":  {"level": "Medium", "reasoning": "Temperatures in the mid thirties."},
  "flood":     {"level": "Low", "reasoning": "No storm systems nearby."},
  "landslide": {"level": "Low", "reasoning": "No severe storms reported."}
}`
