package nasa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
)

const (
	defaultHarmonyCRS        = "EPSG:4326"
	defaultHarmonyMaxResults = 10
)

// HarmonyJob describes a Harmony subsetting request. BBox is
// [minLon, minLat, maxLon, maxLat].
type HarmonyJob struct {
	DatasetID  string     `json:"datasetId"`
	BBox       [4]float64 `json:"bbox"`
	OutputCRS  string     `json:"outputCrs,omitempty"`
	MaxResults int        `json:"maxResults,omitempty"`
}

// HarmonyJobResult identifies a submitted job.
type HarmonyJobResult struct {
	JobID     string `json:"jobId"`
	StatusURL string `json:"statusUrl"`
}

// Validate checks the dataset and bounding box.
func (j HarmonyJob) Validate() error {
	if j.DatasetID == "" {
		return fmt.Errorf("%w: datasetId is required", domain.ErrInvalidArgument)
	}
	for _, v := range j.BBox {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bbox values must be finite", domain.ErrInvalidArgument)
		}
	}
	minLon, minLat, maxLon, maxLat := j.BBox[0], j.BBox[1], j.BBox[2], j.BBox[3]
	if minLon < -180 || maxLon > 180 || minLat < -90 || maxLat > 90 {
		return fmt.Errorf("%w: bbox outside [-180, -90, 180, 90]", domain.ErrInvalidArgument)
	}
	if minLon > maxLon || minLat > maxLat {
		return fmt.Errorf("%w: bbox minimums exceed maximums", domain.ErrInvalidArgument)
	}
	if j.MaxResults < 0 {
		return fmt.Errorf("%w: maxResults must not be negative", domain.ErrInvalidArgument)
	}
	return nil
}

// HarmonyClient submits jobs to the Harmony service API.
type HarmonyClient struct {
	req     *Requester
	baseURL string
}

// NewHarmonyClient creates a Harmony client.
func NewHarmonyClient(req *Requester, baseURL string) *HarmonyClient {
	return &HarmonyClient{req: req, baseURL: baseURL}
}

// SubmitJob posts j and returns the job id with its polling URL.
func (c *HarmonyClient) SubmitJob(ctx context.Context, j HarmonyJob) (HarmonyJobResult, error) {
	if err := j.Validate(); err != nil {
		return HarmonyJobResult{}, err
	}
	if j.OutputCRS == "" {
		j.OutputCRS = defaultHarmonyCRS
	}
	if j.MaxResults == 0 {
		j.MaxResults = defaultHarmonyMaxResults
	}

	var payload harmonyPayload
	payload.Source.Collection = j.DatasetID
	payload.Source.Spatial.BBox = j.BBox
	payload.Format.CRS = j.OutputCRS
	payload.MaxResults = j.MaxResults

	body, err := json.Marshal(payload)
	if err != nil {
		return HarmonyJobResult{}, fmt.Errorf("encode job: %w", err)
	}

	jobsURL := c.baseURL + "/harmony/api/service/jobs"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, jobsURL, bytes.NewReader(body))
	if err != nil {
		return HarmonyJobResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	p, err := c.req.Do(req, SourceHarmony, false)
	if err != nil {
		return HarmonyJobResult{}, err
	}

	var resp struct {
		JobID string `json:"jobID"`
	}
	if err := json.Unmarshal(p.Data, &resp); err != nil {
		return HarmonyJobResult{}, decodeError(SourceHarmony, err)
	}
	if resp.JobID == "" {
		return HarmonyJobResult{}, fmt.Errorf("%w: harmony did not return a jobID", domain.ErrUpstream)
	}

	return HarmonyJobResult{JobID: resp.JobID, StatusURL: jobsURL + "/" + resp.JobID}, nil
}

type harmonyPayload struct {
	Source struct {
		Collection string `json:"collection"`
		Spatial    struct {
			BBox [4]float64 `json:"bbox"`
		} `json:"spatial"`
	} `json:"source"`
	Format struct {
		CRS string `json:"crs"`
	} `json:"format"`
	MaxResults int `json:"maxResults"`
}
