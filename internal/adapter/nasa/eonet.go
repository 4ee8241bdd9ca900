package nasa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
)

// EonetClient lists open natural events. EONET needs no API key.
type EonetClient struct {
	req     *Requester
	baseURL string
}

// NewEonetClient creates an EONET client.
func NewEonetClient(req *Requester, baseURL string) *EonetClient {
	return &EonetClient{req: req, baseURL: baseURL}
}

// FetchEvents returns up to 50 open events that carry a Point geometry.
func (c *EonetClient) FetchEvents(ctx context.Context) ([]domain.HazardEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v3/events?status=open&limit=50", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p, err := c.req.Do(req, SourceEonet, false)
	if err != nil {
		return nil, err
	}

	var resp eonetResponse
	if err := json.Unmarshal(p.Data, &resp); err != nil {
		return nil, decodeError(SourceEonet, err)
	}

	out := make([]domain.HazardEvent, 0, len(resp.Events))
	for _, e := range resp.Events {
		coords, ok := e.firstPoint()
		if !ok {
			continue
		}
		category := "Unknown"
		if len(e.Categories) > 0 && e.Categories[0].Title != "" {
			category = e.Categories[0].Title
		}
		out = append(out, domain.HazardEvent{
			ID:          e.ID,
			Title:       e.Title,
			Category:    category,
			Coordinates: coords,
		})
	}
	return out, nil
}

// EONET API response types.

type eonetResponse struct {
	Events []eonetEvent `json:"events"`
}

type eonetEvent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Categories []struct {
		Title string `json:"title"`
	} `json:"categories"`
	Geometry []struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

// firstPoint returns the [lon, lat] of the first Point geometry. Polygon
// coordinates have a different shape and are never decoded.
func (e eonetEvent) firstPoint() ([]float64, bool) {
	for _, g := range e.Geometry {
		if g.Type != "Point" {
			continue
		}
		var coords []float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil || len(coords) < 2 {
			continue
		}
		return coords[:2], true
	}
	return nil, false
}
