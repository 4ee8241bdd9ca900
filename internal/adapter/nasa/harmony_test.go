package nasa

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarmonyClient_SubmitJob_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/harmony/api/service/jobs", r.URL.Path)
		assert.Equal(t, contentTypeJSON, r.Header.Get(headerContentType))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ASTGTM_NC.003", body["source"].(map[string]any)["collection"])
		assert.Equal(t, []any{-119.0, 33.5, -117.5, 34.5}, body["source"].(map[string]any)["spatial"].(map[string]any)["bbox"])
		assert.Equal(t, "EPSG:4326", body["format"].(map[string]any)["crs"])
		assert.Equal(t, 10.0, body["maxResults"])

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"jobID": "job-123", "status": "running"}`))
	}))
	defer srv.Close()

	c := NewHarmonyClient(testRequester(), srv.URL)
	got, err := c.SubmitJob(context.Background(), HarmonyJob{
		DatasetID: "ASTGTM_NC.003",
		BBox:      [4]float64{-119, 33.5, -117.5, 34.5},
	})
	require.NoError(t, err)

	assert.Equal(t, "job-123", got.JobID)
	assert.Equal(t, srv.URL+"/harmony/api/service/jobs/job-123", got.StatusURL)
}

func TestHarmonyClient_MissingJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "failed"}`))
	}))
	defer srv.Close()

	_, err := NewHarmonyClient(testRequester(), srv.URL).SubmitJob(context.Background(), HarmonyJob{DatasetID: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "jobID")
}

func TestHarmonyClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Earthdata login required"))
	}))
	defer srv.Close()

	_, err := NewHarmonyClient(testRequester(), srv.URL).SubmitJob(context.Background(), HarmonyJob{DatasetID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Earthdata login required")
}

func TestHarmonyJob_Validate(t *testing.T) {
	tests := map[string]HarmonyJob{
		"no dataset":       {BBox: [4]float64{0, 0, 1, 1}},
		"lon out of range": {DatasetID: "x", BBox: [4]float64{-181, 0, 1, 1}},
		"lat out of range": {DatasetID: "x", BBox: [4]float64{0, 0, 1, 91}},
		"inverted":         {DatasetID: "x", BBox: [4]float64{2, 0, 1, 1}},
		"nan":              {DatasetID: "x", BBox: [4]float64{math.NaN(), 0, 1, 1}},
		"negative max":     {DatasetID: "x", MaxResults: -1},
	}
	for name, job := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, job.Validate(), domain.ErrInvalidArgument)
		})
	}

	assert.NoError(t, HarmonyJob{DatasetID: "x", BBox: [4]float64{-180, -90, 180, 90}}.Validate())
}
