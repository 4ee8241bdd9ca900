package nasa

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
)

const firmsSensor = "VIIRS_NOAA20_NRT"

// FirmsClient fetches the last day of worldwide active-fire detections.
type FirmsClient struct {
	req     *Requester
	baseURL string
	apiKey  string
}

// NewFirmsClient creates a FIRMS client.
func NewFirmsClient(req *Requester, baseURL, apiKey string) *FirmsClient {
	return &FirmsClient{req: req, baseURL: baseURL, apiKey: apiKey}
}

// FetchFirePoints returns every fire detected worldwide in the last 24 hours.
func (c *FirmsClient) FetchFirePoints(ctx context.Context) ([]domain.FirePoint, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	u := fmt.Sprintf("%s/api/area/csv/%s/%s/world/1", c.baseURL, url.PathEscape(c.apiKey), firmsSensor)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p, err := c.req.Do(req, SourceFirms, true)
	if err != nil {
		return nil, err
	}
	return parseFirmsCSV(p.Data)
}

func parseFirmsCSV(data []byte) ([]domain.FirePoint, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimSpace(data)))
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []domain.FirePoint{}, nil
	}
	if err != nil {
		return nil, decodeError(SourceFirms, err)
	}

	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	lat, okLat := idx["latitude"]
	lon, okLon := idx["longitude"]
	bright, okBright := idx["bright_ti4"]
	conf, okConf := idx["confidence"]
	if !okLat || !okLon || !okBright || !okConf {
		return nil, decodeError(SourceFirms, fmt.Errorf("required columns not found, headers: %s", strings.Join(header, ", ")))
	}
	width := max(lat, lon, bright, conf) + 1

	out := []domain.FirePoint{}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, decodeError(SourceFirms, err)
		}
		if len(rec) < width {
			continue
		}
		la, errLat := strconv.ParseFloat(rec[lat], 64)
		lo, errLon := strconv.ParseFloat(rec[lon], 64)
		if errLat != nil || errLon != nil {
			continue
		}
		b, _ := strconv.ParseFloat(rec[bright], 64)
		out = append(out, domain.FirePoint{
			Latitude:   la,
			Longitude:  lo,
			Brightness: b,
			Confidence: rec[conf],
		})
	}
	return out, nil
}
