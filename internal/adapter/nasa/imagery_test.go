package nasa

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageryClient_FetchImagery_Success(t *testing.T) {
	freezeClock(t, time.Date(2024, 8, 15, 10, 0, 0, 0, time.UTC))

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/planetary/earth/imagery":
			q := r.URL.Query()
			assert.Equal(t, "34.05", q.Get("lat"))
			assert.Equal(t, "-118.25", q.Get("lon"))
			assert.Equal(t, "2024-08-15", q.Get("date"))
			assert.Equal(t, "0.15", q.Get("dim"))
			assert.Equal(t, "True", q.Get("cloud_score"))
			assert.Equal(t, testAPIKey, q.Get("api_key"))
			w.Header().Set(headerContentType, contentTypeJSON)
			fmt.Fprintf(w, `{"url": %q, "cloud_score": 0.12}`, srv.URL+"/chips/abc.png")
		case "/chips/abc.png":
			w.Header().Set(headerContentType, "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewImageryClient(testRequester(), srv.URL, testAPIKey)
	got, err := c.FetchImagery(context.Background(), ImageryRequest{Point: domain.GeoPoint{Lat: 34.05, Lon: -118.25}})
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/chips/abc.png", got.ImageURL)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'}), got.ImageDataURI)
	require.NotNil(t, got.CloudScore)
	assert.InDelta(t, 0.12, *got.CloudScore, 1e-9)
}

func TestImageryClient_NoURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"date": "2024-08-15"}`))
	}))
	defer srv.Close()

	c := NewImageryClient(testRequester(), srv.URL, testAPIKey)
	_, err := c.FetchImagery(context.Background(), ImageryRequest{Date: "2024-08-15"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "no imagery")
}

func TestImageryClient_DownloadFails(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/planetary/earth/imagery" {
			fmt.Fprintf(w, `{"url": %q}`, srv.URL+"/missing.png")
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewImageryClient(testRequester(), srv.URL, testAPIKey)
	_, err := c.FetchImagery(context.Background(), ImageryRequest{Date: "2024-08-15", Dim: 0.3})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "download image")
}

func TestImageryClient_InvalidRequests(t *testing.T) {
	c := NewImageryClient(testRequester(), "http://unused", testAPIKey)
	tests := map[string]ImageryRequest{
		"latitude": {Point: domain.GeoPoint{Lat: 95}},
		"date":     {Date: "15/08/2024"},
		"dim":      {Dim: -1},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.FetchImagery(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestImageryClient_MissingAPIKey(t *testing.T) {
	c := NewImageryClient(testRequester(), "http://unused", "")
	_, err := c.FetchImagery(context.Background(), ImageryRequest{})
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}
