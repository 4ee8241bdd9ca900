// Package risk assembles NASA evidence around a location and asks a hosted
// model to rate its hazards.
package risk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/couchcryptid/hazard-risk-service/internal/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Correlation bounds for the prompt context.
const (
	FireRadiusKm  = 200
	MaxFires      = 10
	EventRadiusKm = 500
	MaxEvents     = 10
)

// WeatherSource returns hourly weather at a point.
type WeatherSource interface {
	FetchHourly(ctx context.Context, point domain.GeoPoint) ([]domain.WeatherRecord, error)
}

// FireSource returns recent worldwide fire detections.
type FireSource interface {
	FetchFirePoints(ctx context.Context) ([]domain.FirePoint, error)
}

// EventSource returns open natural events.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]domain.HazardEvent, error)
}

// Model completes a system and user prompt with a JSON reply.
type Model interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Model() string
}

// ReportSink receives every completed report.
type ReportSink interface {
	Publish(ctx context.Context, report domain.RiskReport) error
}

// Sources groups the three evidence fetchers.
type Sources struct {
	Weather WeatherSource
	Fires   FireSource
	Events  EventSource
}

// Analyzer runs risk analyses. A nil Model disables analysis; a nil sink
// skips publishing.
type Analyzer struct {
	sources Sources
	model   Model
	sink    ReportSink
	policy  FetchPolicy
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(sources Sources, model Model, sink ReportSink, policy FetchPolicy, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	a := &Analyzer{
		sources: sources,
		model:   model,
		sink:    sink,
		policy:  policy,
		logger:  logger,
		metrics: metrics,
	}
	if model != nil {
		metrics.AnalysisEnabled.Set(1)
	} else {
		metrics.AnalysisEnabled.Set(0)
	}
	return a
}

// CheckReadiness reports an error when no model is configured.
func (a *Analyzer) CheckReadiness(_ context.Context) error {
	if a.model == nil {
		return errors.New("risk analysis disabled: LLM_API_KEY is not set")
	}
	return nil
}

// evidence is the gathered input for one analysis.
type evidence struct {
	weather []domain.WeatherRecord
	fires   []domain.FirePoint
	events  []domain.HazardEvent
}

// Analyze validates point, gathers weather, fires and events concurrently,
// correlates them to point and asks the model for a rating per hazard.
func (a *Analyzer) Analyze(ctx context.Context, point domain.GeoPoint) (domain.RiskReport, error) {
	start := time.Now()
	report, err := a.analyze(ctx, point)
	a.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	a.metrics.AnalysesTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		a.logger.Warn("risk analysis failed", "location", point.String(), "error", err)
		return domain.RiskReport{}, err
	}
	a.logger.Info("risk analysis complete",
		"id", report.ID,
		"location", point.String(),
		"highest", report.Highest(),
		"fires", report.NearbyFires,
		"events", report.NearbyEvents,
		"duration", time.Since(start),
	)
	return report, nil
}

func (a *Analyzer) analyze(ctx context.Context, point domain.GeoPoint) (domain.RiskReport, error) {
	if err := point.Validate(); err != nil {
		return domain.RiskReport{}, err
	}
	if a.model == nil {
		return domain.RiskReport{}, fmt.Errorf("%w: no model configured", domain.ErrModelUnavailable)
	}

	ev, err := a.gather(ctx, point)
	if err != nil {
		return domain.RiskReport{}, err
	}

	fires := domain.Correlate(point, ev.fires, domain.FirePointLocator, FireRadiusKm, MaxFires)
	events := domain.Correlate(point, ev.events, domain.HazardEventLocator, EventRadiusKm, MaxEvents)
	a.metrics.CorrelatedItems.WithLabelValues("fires").Observe(float64(len(fires)))
	a.metrics.CorrelatedItems.WithLabelValues("events").Observe(float64(len(events)))

	rc := domain.NewRiskContext(point, ev.weather, fires, events)
	rc.FireRadiusKm = FireRadiusKm
	rc.EventRadiusKm = EventRadiusKm
	userPrompt, err := rc.Render()
	if err != nil {
		return domain.RiskReport{}, fmt.Errorf("build prompt: %w", err)
	}

	reply, err := a.model.Complete(ctx, analysisSystemPrompt, userPrompt)
	if err != nil {
		return domain.RiskReport{}, err
	}
	assessments, err := domain.DecodeAssessments(reply)
	if err != nil {
		return domain.RiskReport{}, err
	}

	report := domain.RiskReport{
		ID:              uuid.NewString(),
		Location:        point,
		RiskAssessments: assessments,
		NearbyFires:     len(fires),
		NearbyEvents:    len(events),
		Model:           a.model.Model(),
		GeneratedAt:     domain.Now(),
	}
	a.recordLevels(assessments)
	a.publish(ctx, report)
	return report, nil
}

// gather fetches the three sources concurrently. Under PolicyStrict the
// first failure cancels the others.
func (a *Analyzer) gather(ctx context.Context, point domain.GeoPoint) (evidence, error) {
	var ev evidence
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w, err := a.sources.Weather.FetchHourly(gctx, point)
		if err != nil {
			return fmt.Errorf("fetch weather: %w", err)
		}
		ev.weather = w
		return nil
	})
	g.Go(func() error {
		f, err := a.sources.Fires.FetchFirePoints(gctx)
		if err != nil {
			if a.degrade(ctx, "fires", err) {
				return nil
			}
			return fmt.Errorf("fetch fires: %w", err)
		}
		ev.fires = f
		return nil
	})
	g.Go(func() error {
		e, err := a.sources.Events.FetchEvents(gctx)
		if err != nil {
			if a.degrade(ctx, "events", err) {
				return nil
			}
			return fmt.Errorf("fetch events: %w", err)
		}
		ev.events = e
		return nil
	})

	if err := g.Wait(); err != nil {
		return evidence{}, err
	}
	return ev, nil
}

// degrade reports whether a failed optional fetch may be replaced by an
// empty list. A cancelled parent context is never degraded.
func (a *Analyzer) degrade(ctx context.Context, source string, err error) bool {
	if a.policy != PolicyDegrade || ctx.Err() != nil {
		return false
	}
	a.logger.Warn("source unavailable, continuing without it", "source", source, "error", err)
	return true
}

func (a *Analyzer) recordLevels(r domain.RiskAssessments) {
	a.metrics.RiskLevels.WithLabelValues("wildfire", string(r.Wildfire.Level)).Inc()
	a.metrics.RiskLevels.WithLabelValues("heatwave", string(r.Heatwave.Level)).Inc()
	a.metrics.RiskLevels.WithLabelValues("flood", string(r.Flood.Level)).Inc()
	a.metrics.RiskLevels.WithLabelValues("landslide", string(r.Landslide.Level)).Inc()
}

// publish hands the report to the sink. Failures are logged; the caller
// still receives the report.
func (a *Analyzer) publish(ctx context.Context, report domain.RiskReport) {
	if a.sink == nil {
		return
	}
	if err := a.sink.Publish(ctx, report); err != nil {
		a.metrics.ReportsPublished.WithLabelValues("error").Inc()
		a.logger.Error("publish risk report", "id", report.ID, "error", err)
		return
	}
	a.metrics.ReportsPublished.WithLabelValues("success").Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, domain.ErrModelUnavailable), errors.Is(err, domain.ErrInvalidModelOutput):
		return "model"
	case errors.Is(err, domain.ErrUpstream), errors.Is(err, domain.ErrMissingAPIKey):
		return "upstream"
	default:
		return "error"
	}
}
