package nasa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eonetBody = `{
  "events": [
    {
      "id": "EONET_1",
      "title": "Park Fire",
      "categories": [{"id": "wildfires", "title": "Wildfires"}],
      "geometry": [
        {"type": "Polygon", "coordinates": [[[-121, 39], [-122, 39], [-122, 40], [-121, 39]]]},
        {"type": "Point", "coordinates": [-121.8, 39.8]}
      ]
    },
    {
      "id": "EONET_2",
      "title": "Iceberg A23A",
      "categories": [{"id": "seaLakeIce", "title": "Sea and Lake Ice"}],
      "geometry": [{"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}]
    },
    {
      "id": "EONET_3",
      "title": "Uncategorised",
      "categories": [],
      "geometry": [{"type": "Point", "coordinates": [10.5, 45.2]}]
    }
  ]
}`

func TestEonetClient_FetchEvents_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/events", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("status"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(eonetBody))
	}))
	defer srv.Close()

	c := NewEonetClient(testRequester(), srv.URL)
	got, err := c.FetchEvents(context.Background())
	require.NoError(t, err)

	want := []domain.HazardEvent{
		{ID: "EONET_1", Title: "Park Fire", Category: "Wildfires", Coordinates: []float64{-121.8, 39.8}},
		{ID: "EONET_3", Title: "Uncategorised", Category: "Unknown", Coordinates: []float64{10.5, 45.2}},
	}
	assert.Equal(t, want, got)
}

func TestEonetClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewEonetClient(testRequester(), srv.URL)
	_, err := c.FetchEvents(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestEonetClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := NewEonetClient(testRequester(), srv.URL)
	_, err := c.FetchEvents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
