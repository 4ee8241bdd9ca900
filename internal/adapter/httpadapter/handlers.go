package httpadapter

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/couchcryptid/hazard-risk-service/internal/village"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const (
	defaultNearRadiusKm = 100
	defaultNearLimit    = 10
)

type analyzeRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.bind(w, r, &req) {
		return
	}
	report, err := s.svc.Analyzer.Analyze(r.Context(), domain.GeoPoint{Lat: *req.Latitude, Lon: *req.Longitude})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

type villageListResponse struct {
	Villages []domain.Village `json:"villages"`
	Summary  village.Summary  `json:"summary"`
}

func (s *Server) handleListVillages(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, villageListResponse{
		Villages: s.svc.Villages.List(),
		Summary:  s.svc.Villages.Summary(),
	})
}

func (s *Server) handleGetVillage(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Villages.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, v)
}

type nearQuery struct {
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon      float64 `json:"lon" validate:"gte=-180,lte=180"`
	RadiusKm float64 `json:"radius_km" validate:"gte=0"`
	Limit    int     `json:"limit" validate:"gte=0,lte=100"`
}

type nearResponse struct {
	Center   domain.GeoPoint                 `json:"center"`
	RadiusKm float64                         `json:"radiusKm"`
	Villages []domain.Scored[domain.Village] `json:"villages"`
}

func (s *Server) handleNearVillages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		req nearQuery
		err error
	)
	if req.Lat, err = queryFloat(q, "lat", nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Lon, err = queryFloat(q, "lon", nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	radius := float64(defaultNearRadiusKm)
	if req.RadiusKm, err = queryFloat(q, "radius_km", &radius); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Limit, err = queryInt(q, "limit", defaultNearLimit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.check(w, &req) {
		return
	}

	center := domain.GeoPoint{Lat: req.Lat, Lon: req.Lon}
	near, err := s.svc.Villages.Near(center, req.RadiusKm, req.Limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, nearResponse{Center: center, RadiusKm: req.RadiusKm, Villages: near})
}

type quickstartRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

func (s *Server) handleQuickstart(w http.ResponseWriter, r *http.Request) {
	var req quickstartRequest
	if !s.bind(w, r, &req) {
		return
	}
	out, err := s.svc.Advisor.QuickstartModel(r.Context(), req.Prompt)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

type suggestRequest struct {
	GroundTruthData         string `json:"groundTruthData" validate:"required"`
	ModelPerformanceMetrics string `json:"modelPerformanceMetrics" validate:"required"`
	CurrentModelDescription string `json:"currentModelDescription" validate:"required"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !s.bind(w, r, &req) {
		return
	}
	out, err := s.svc.Advisor.SuggestUpdates(r.Context(), req.GroundTruthData, req.ModelPerformanceMetrics, req.CurrentModelDescription)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

type diffRequest struct {
	PreviousModelVersion string `json:"previousModelVersion" validate:"required"`
	CurrentModelVersion  string `json:"currentModelVersion" validate:"required"`
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if !s.bind(w, r, &req) {
		return
	}
	out, err := s.svc.Advisor.DiffModels(r.Context(), req.PreviousModelVersion, req.CurrentModelVersion)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

// queryFloat parses a float query parameter. A nil def makes it required.
func queryFloat(q url.Values, name string, def *float64) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		if def == nil {
			return 0, fmt.Errorf("query parameter %q is required", name)
		}
		return *def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be a number", name)
	}
	return v, nil
}

func queryInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer", name)
	}
	return v, nil
}
