// Package httpadapter serves the risk service's JSON API alongside the
// health, readiness, and metrics endpoints.
package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/adapter/nasa"
	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/couchcryptid/hazard-risk-service/internal/village"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analyzer produces a risk report for a location.
type Analyzer interface {
	Analyze(ctx context.Context, point domain.GeoPoint) (domain.RiskReport, error)
}

// ModelAdvisor runs the model-administration flows.
type ModelAdvisor interface {
	QuickstartModel(ctx context.Context, description string) (domain.ModelConfiguration, error)
	SuggestUpdates(ctx context.Context, groundTruth, metrics, currentModel string) (domain.ModelSuggestion, error)
	DiffModels(ctx context.Context, previous, current string) (domain.ModelDiff, error)
}

// Villages answers village lookups.
type Villages interface {
	List() []domain.Village
	Get(id string) (domain.Village, error)
	Near(center domain.GeoPoint, radiusKm float64, limit int) ([]domain.Scored[domain.Village], error)
	Summary() village.Summary
}

// TileProxy resolves a GIBS tile path to tile bytes.
type TileProxy interface {
	ProxyPath(ctx context.Context, path string) (nasa.Tile, error)
}

// ImageryFetcher downloads Earth Imagery chips.
type ImageryFetcher interface {
	FetchImagery(ctx context.Context, r nasa.ImageryRequest) (nasa.Imagery, error)
}

// HarmonySubmitter submits Harmony subsetting jobs.
type HarmonySubmitter interface {
	SubmitJob(ctx context.Context, j nasa.HarmonyJob) (nasa.HarmonyJobResult, error)
}

// Services are the application components behind the API routes.
type Services struct {
	Analyzer Analyzer
	Advisor  ModelAdvisor
	Villages Villages
	Tiles    TileProxy
	Imagery  ImageryFetcher
	Harmony  HarmonySubmitter
}

// Server exposes the API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        Services
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewServer creates an HTTP server with every route registered.
func NewServer(addr string, ready sharedobs.ReadinessChecker, svc Services, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// Analysis waits on NASA and the hosted model.
			WriteTimeout: 3 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		svc:      svc,
		validate: newValidator(),
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/risk/analyze", s.handleAnalyze)

	mux.HandleFunc("GET /api/villages", s.handleListVillages)
	mux.HandleFunc("GET /api/villages/near", s.handleNearVillages)
	mux.HandleFunc("GET /api/villages/{id}", s.handleGetVillage)

	mux.HandleFunc("GET /api/gibs/{tile...}", s.handleTile)
	mux.HandleFunc("GET /api/imagery", s.handleImagery)
	mux.HandleFunc("POST /api/harmony/jobs", s.handleHarmonyJob)

	mux.HandleFunc("POST /api/models/quickstart", s.handleQuickstart)
	mux.HandleFunc("POST /api/models/suggest", s.handleSuggest)
	mux.HandleFunc("POST /api/models/diff", s.handleDiff)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
