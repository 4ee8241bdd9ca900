package nasa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const powerBody = `{
  "type": "Feature",
  "geometry": {"type": "Point", "coordinates": [-118.25, 34.05, 120.0]},
  "properties": {
    "parameter": {
      "T2M":   {"2024081501": 21.5, "2024081500": 22.1, "2024081502": -999},
      "RH2M":  {"2024081501": 60.0, "2024081500": 58.2, "2024081502": 61.0},
      "WS10M": {"2024081501": 3.1,  "2024081500": 2.9,  "2024081502": 3.3}
    }
  }
}`

func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestPowerClient_FetchHourly_Success(t *testing.T) {
	freezeClock(t, time.Date(2024, 8, 15, 10, 0, 0, 0, time.UTC))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/temporal/hourly/point", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "T2M,RH2M,WS10M", q.Get("parameters"))
		assert.Equal(t, "AG", q.Get("community"))
		assert.Equal(t, "34.05", q.Get("latitude"))
		assert.Equal(t, "-118.25", q.Get("longitude"))
		assert.Equal(t, "20240814", q.Get("start"))
		assert.Equal(t, "20240815", q.Get("end"))
		assert.Equal(t, "JSON", q.Get("format"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(powerBody))
	}))
	defer srv.Close()

	c := NewPowerClient(testRequester(), srv.URL, testAPIKey)
	got, err := c.FetchHourly(context.Background(), domain.GeoPoint{Lat: 34.05, Lon: -118.25})
	require.NoError(t, err)

	want := []domain.WeatherRecord{
		{Year: 2024, Month: 8, Day: 15, Hour: 0, T2M: 22.1, RH2M: 58.2, WS10M: 2.9},
		{Year: 2024, Month: 8, Day: 15, Hour: 1, T2M: 21.5, RH2M: 60.0, WS10M: 3.1},
	}
	assert.Equal(t, want, got)
}

func TestPowerClient_MissingAPIKey(t *testing.T) {
	c := NewPowerClient(testRequester(), "http://unused", "")
	_, err := c.FetchHourly(context.Background(), domain.GeoPoint{})
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestPowerClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewPowerClient(testRequester(), srv.URL, testAPIKey)
	_, err := c.FetchHourly(context.Background(), domain.GeoPoint{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "status 500")
}

func TestPowerClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"properties": {"parameter": {}}}`))
	}))
	defer srv.Close()

	c := NewPowerClient(testRequester(), srv.URL, testAPIKey)
	_, err := c.FetchHourly(context.Background(), domain.GeoPoint{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
