package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
)

// powerFillValue marks a missing POWER observation.
const powerFillValue = -999

// PowerClient fetches hourly point weather from NASA POWER.
type PowerClient struct {
	req     *Requester
	baseURL string
	apiKey  string
}

// NewPowerClient creates a POWER client.
func NewPowerClient(req *Requester, baseURL, apiKey string) *PowerClient {
	return &PowerClient{req: req, baseURL: baseURL, apiKey: apiKey}
}

// FetchHourly returns hourly T2M, RH2M and WS10M for yesterday and today at
// point, ordered by time.
func (c *PowerClient) FetchHourly(ctx context.Context, point domain.GeoPoint) ([]domain.WeatherRecord, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	today := domain.Now()
	yesterday := today.AddDate(0, 0, -1)
	params := url.Values{
		"parameters": {"T2M,RH2M,WS10M"},
		"community":  {"AG"},
		"longitude":  {strconv.FormatFloat(point.Lon, 'f', -1, 64)},
		"latitude":   {strconv.FormatFloat(point.Lat, 'f', -1, 64)},
		"start":      {yesterday.Format("20060102")},
		"end":        {today.Format("20060102")},
		"format":     {"JSON"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/temporal/hourly/point?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p, err := c.req.Do(req, SourcePower, false)
	if err != nil {
		return nil, err
	}

	var resp powerResponse
	if err := json.Unmarshal(p.Data, &resp); err != nil {
		return nil, decodeError(SourcePower, err)
	}
	return resp.records()
}

type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// records joins the per-parameter series on their YYYYMMDDHH keys.
func (r powerResponse) records() ([]domain.WeatherRecord, error) {
	t2m := r.Properties.Parameter["T2M"]
	rh2m := r.Properties.Parameter["RH2M"]
	ws10m := r.Properties.Parameter["WS10M"]
	if t2m == nil {
		return nil, decodeError(SourcePower, errors.New("missing T2M series"))
	}

	keys := make([]string, 0, len(t2m))
	for k := range t2m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]domain.WeatherRecord, 0, len(keys))
	for _, k := range keys {
		if len(k) != 10 {
			continue
		}
		t, rh, ws := t2m[k], rh2m[k], ws10m[k]
		if t == powerFillValue || rh == powerFillValue || ws == powerFillValue {
			continue
		}
		year, _ := strconv.Atoi(k[0:4])
		month, _ := strconv.Atoi(k[4:6])
		day, _ := strconv.Atoi(k[6:8])
		hour, _ := strconv.Atoi(k[8:10])
		out = append(out, domain.WeatherRecord{
			Year: year, Month: month, Day: day, Hour: hour,
			T2M: t, RH2M: rh, WS10M: ws,
		})
	}
	return out, nil
}
