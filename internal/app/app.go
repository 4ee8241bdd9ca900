// Package app wires configuration into the service's components.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/couchcryptid/hazard-risk-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/hazard-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-risk-service/internal/adapter/llm"
	"github.com/couchcryptid/hazard-risk-service/internal/adapter/nasa"
	"github.com/couchcryptid/hazard-risk-service/internal/config"
	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/couchcryptid/hazard-risk-service/internal/observability"
	"github.com/couchcryptid/hazard-risk-service/internal/pipeline"
	"github.com/couchcryptid/hazard-risk-service/internal/risk"
	"github.com/couchcryptid/hazard-risk-service/internal/village"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/redis/go-redis/v9"
)

// App holds the wired components.
type App struct {
	Analyzer  *risk.Analyzer
	Advisor   *risk.ModelAdvisor
	Villages  *village.Repository
	Tiles     *nasa.CachedTiles
	Imagery   *nasa.ImageryClient
	Harmony   *nasa.HarmonyClient
	Publisher *pipeline.Publisher // nil when KAFKA_BROKERS is unset

	checks  map[string]sharedobs.ReadinessChecker
	closers []func() error
	logger  *slog.Logger
}

// Option adjusts how New wires components.
type Option func(*options)

type options struct {
	reportLoader pipeline.BatchLoader
}

// WithReportLoader sends published reports to l instead of Kafka. It
// enables publishing even when no brokers are configured.
func WithReportLoader(l pipeline.BatchLoader) Option {
	return func(o *options) { o.reportLoader = l }
}

// New builds every component from cfg. Close releases what it opened.
func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	policy, err := risk.ParseFetchPolicy(cfg.FetchPolicy)
	if err != nil {
		return nil, err
	}

	a := &App{
		checks: make(map[string]sharedobs.ReadinessChecker),
		logger: logger,
	}

	req := nasa.NewRequester(cfg.NASATimeout, cfg.NASARateLimit, logger, metrics)
	if cfg.NASAAPIKey == "" {
		logger.Warn("NASA_API_KEY is not set; weather, fire, imagery and tile requests will fail")
	}

	var tileCache nasa.TileCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rc := nasa.NewRedisCache(client, cfg.TileCacheTTL)
		tileCache = rc
		a.checks["redis"] = rc
		a.closers = append(a.closers, client.Close)
		logger.Info("tile cache: redis", "addr", cfg.RedisAddr, "ttl", cfg.TileCacheTTL)
	} else {
		tileCache = nasa.NewMemoryCache(cfg.TileCacheSize, cfg.TileCacheTTL, domain.Clock())
		logger.Info("tile cache: memory", "size", cfg.TileCacheSize, "ttl", cfg.TileCacheTTL)
	}
	a.Tiles = nasa.NewCachedTiles(nasa.NewGibsClient(req, cfg.GibsBaseURL, cfg.NASAAPIKey), tileCache, logger, metrics)
	a.Imagery = nasa.NewImageryClient(req, cfg.ImageryBaseURL, cfg.NASAAPIKey)
	a.Harmony = nasa.NewHarmonyClient(req, cfg.HarmonyBaseURL)

	// Interfaces stay nil rather than holding typed nil pointers.
	var model risk.Model
	if cfg.AnalysisEnabled() {
		model = llm.NewClient(llm.Config{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		}, logger, metrics)
		logger.Info("risk analysis enabled", "model", cfg.LLMModel, "fetch_policy", policy)
	} else {
		logger.Info("risk analysis disabled")
	}

	var sink risk.ReportSink
	if loader := o.reportLoader; loader != nil || cfg.KafkaEnabled() {
		if loader == nil {
			writer := kafkaadapter.NewWriter(cfg, logger)
			loader = writer
			a.closers = append(a.closers, writer.Close)
			logger.Info("report publishing enabled", "topic", cfg.KafkaReportTopic, "brokers", cfg.KafkaBrokers)
		}
		a.Publisher = pipeline.New(loader, logger, metrics, cfg.KafkaQueueSize, cfg.KafkaBatchSize)
		sink = a.Publisher
		a.checks["publisher"] = a.Publisher
	}

	a.Analyzer = risk.NewAnalyzer(risk.Sources{
		Weather: nasa.NewPowerClient(req, cfg.PowerBaseURL, cfg.NASAAPIKey),
		Fires:   nasa.NewFirmsClient(req, cfg.FirmsBaseURL, cfg.NASAAPIKey),
		Events:  nasa.NewEonetClient(req, cfg.EonetBaseURL),
	}, model, sink, policy, logger, metrics)
	a.checks["analysis"] = a.Analyzer
	a.Advisor = risk.NewModelAdvisor(model)
	a.Villages = village.NewRepository(village.Seed())

	return a, nil
}

// Services exposes the components the HTTP API needs.
func (a *App) Services() httpadapter.Services {
	return httpadapter.Services{
		Analyzer: a.Analyzer,
		Advisor:  a.Advisor,
		Villages: a.Villages,
		Tiles:    a.Tiles,
		Imagery:  a.Imagery,
		Harmony:  a.Harmony,
	}
}

// CheckReadiness fails when any component is not ready, including when no
// model is configured.
func (a *App) CheckReadiness(ctx context.Context) error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(a.checks)) {
		if err := a.checks[name].CheckReadiness(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Run blocks running background work until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.Publisher == nil {
		<-ctx.Done()
		return nil
	}
	return a.Publisher.Run(ctx)
}

// Close releases clients opened by New.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
