package httpadapter

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/couchcryptid/hazard-risk-service/internal/adapter/nasa"
	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// handleTile proxies a GIBS tile. Upstream HTTP statuses are passed through
// so a missing tile is a 404 to the caller too.
func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	tile, err := s.svc.Tiles.ProxyPath(r.Context(), r.PathValue("tile"))
	if err != nil {
		var se *nasa.StatusError
		if errors.As(err, &se) {
			s.failWithStatus(w, r, se.StatusCode, err)
			return
		}
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", tile.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(tile.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(tile.Data)
}

type imageryQuery struct {
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `json:"lon" validate:"gte=-180,lte=180"`
	Date string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Dim  float64 `json:"dim" validate:"gte=0,lte=1"`
}

func (s *Server) handleImagery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := imageryQuery{Date: q.Get("date")}
	var err error
	if req.Lat, err = queryFloat(q, "lat", nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Lon, err = queryFloat(q, "lon", nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var zero float64
	if req.Dim, err = queryFloat(q, "dim", &zero); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.check(w, &req) {
		return
	}

	img, err := s.svc.Imagery.FetchImagery(r.Context(), nasa.ImageryRequest{
		Point: domain.GeoPoint{Lat: req.Lat, Lon: req.Lon},
		Date:  req.Date,
		Dim:   req.Dim,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, img)
}

type harmonyRequest struct {
	DatasetID  string    `json:"datasetId" validate:"required"`
	BBox       []float64 `json:"bbox" validate:"len=4"`
	OutputCRS  string    `json:"outputCrs"`
	MaxResults int       `json:"maxResults" validate:"gte=0,lte=100"`
}

func (s *Server) handleHarmonyJob(w http.ResponseWriter, r *http.Request) {
	var req harmonyRequest
	if !s.bind(w, r, &req) {
		return
	}
	job := nasa.HarmonyJob{
		DatasetID:  req.DatasetID,
		OutputCRS:  req.OutputCRS,
		MaxResults: req.MaxResults,
	}
	copy(job.BBox[:], req.BBox)

	res, err := s.svc.Harmony.SubmitJob(r.Context(), job)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, res)
}
