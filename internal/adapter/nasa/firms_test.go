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

const firmsCSV = `latitude,longitude,bright_ti4,scan,track,acq_date,acq_time,satellite,instrument,confidence,version
34.10,-118.20,330.5,0.4,0.4,2024-08-15,0912,N20,VIIRS,h,2.0NRT
bad,-118.00,310.2,0.4,0.4,2024-08-15,0912,N20,VIIRS,n,2.0NRT
-12.5,130.8,301.0,0.4,0.4,2024-08-15,0912,N20,VIIRS,l,2.0NRT
`

func TestFirmsClient_FetchFirePoints_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/area/csv/"+testAPIKey+"/VIIRS_NOAA20_NRT/world/1", r.URL.Path)
		w.Header().Set(headerContentType, "text/csv")
		_, _ = w.Write([]byte(firmsCSV))
	}))
	defer srv.Close()

	c := NewFirmsClient(testRequester(), srv.URL, testAPIKey)
	got, err := c.FetchFirePoints(context.Background())
	require.NoError(t, err)

	want := []domain.FirePoint{
		{Latitude: 34.10, Longitude: -118.20, Brightness: 330.5, Confidence: "h"},
		{Latitude: -12.5, Longitude: 130.8, Brightness: 301.0, Confidence: "l"},
	}
	assert.Equal(t, want, got)
}

func TestFirmsClient_MissingColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("lat,lon\n1,2\n"))
	}))
	defer srv.Close()

	c := NewFirmsClient(testRequester(), srv.URL, testAPIKey)
	_, err := c.FetchFirePoints(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "lat, lon")
}

func TestFirmsClient_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	c := NewFirmsClient(testRequester(), srv.URL, testAPIKey)
	got, err := c.FetchFirePoints(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFirmsClient_ShortRowsSkipped(t *testing.T) {
	body := "latitude,longitude,bright_ti4,confidence\n1,2\n3,4,300,n\n"
	got, err := parseFirmsCSV([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got[0].Latitude)
}

func TestFirmsClient_MissingAPIKey(t *testing.T) {
	c := NewFirmsClient(testRequester(), "http://unused", "")
	_, err := c.FetchFirePoints(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}
