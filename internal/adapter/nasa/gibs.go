package nasa

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
)

const (
	defaultTileFormat     = "jpg"
	defaultTileResolution = "500m"
)

// TileRequest addresses one GIBS WMTS tile in EPSG:3857.
type TileRequest struct {
	Layer      string `json:"layer"`
	Date       string `json:"date"`
	Zoom       int    `json:"zoom"`
	Y          int    `json:"y"`
	X          int    `json:"x"`
	Format     string `json:"format,omitempty"`
	Resolution string `json:"resolution,omitempty"`
}

// Normalize applies defaults and validates r.
func (r TileRequest) Normalize() (TileRequest, error) {
	if r.Format == "" {
		r.Format = defaultTileFormat
	}
	if r.Resolution == "" {
		r.Resolution = defaultTileResolution
	}
	switch {
	case r.Layer == "" || strings.ContainsAny(r.Layer, "/?#"):
		return r, fmt.Errorf("%w: invalid layer %q", domain.ErrInvalidArgument, r.Layer)
	case r.Zoom < 1 || r.Zoom > 20:
		return r, fmt.Errorf("%w: zoom %d outside [1, 20]", domain.ErrInvalidArgument, r.Zoom)
	case r.X < 0 || r.Y < 0:
		return r, fmt.Errorf("%w: tile x and y must be non-negative", domain.ErrInvalidArgument)
	case strings.ContainsAny(r.Format+r.Resolution, "/?#"):
		return r, fmt.Errorf("%w: invalid format or resolution", domain.ErrInvalidArgument)
	}
	if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
		return r, fmt.Errorf("%w: date %q is not YYYY-MM-DD", domain.ErrInvalidArgument, r.Date)
	}
	return r, nil
}

// Path is the tile path below /wmts/epsg3857/best/.
func (r TileRequest) Path() string {
	return fmt.Sprintf("%s/default/%s/%s/%d/%d/%d.%s", r.Layer, r.Date, r.Resolution, r.Zoom, r.Y, r.X, r.Format)
}

// ParseTilePath reads "{layer}/{date}/{resolution}/{z}/{y}/{x}.{format}".
// A "default" style segment after the layer is accepted too.
func ParseTilePath(path string) (TileRequest, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 7 && parts[1] == "default" {
		parts = append(parts[:1], parts[2:]...)
	}
	if len(parts) != 6 {
		return TileRequest{}, fmt.Errorf("%w: tile path %q", domain.ErrInvalidArgument, path)
	}
	last := parts[5]
	dot := strings.LastIndexByte(last, '.')
	if dot <= 0 {
		return TileRequest{}, fmt.Errorf("%w: tile path %q has no format", domain.ErrInvalidArgument, path)
	}

	z, errZ := strconv.Atoi(parts[3])
	y, errY := strconv.Atoi(parts[4])
	x, errX := strconv.Atoi(last[:dot])
	if errZ != nil || errY != nil || errX != nil {
		return TileRequest{}, fmt.Errorf("%w: tile path %q has non-numeric coordinates", domain.ErrInvalidArgument, path)
	}

	return TileRequest{
		Layer:      parts[0],
		Date:       parts[1],
		Resolution: parts[2],
		Zoom:       z,
		Y:          y,
		X:          x,
		Format:     last[dot+1:],
	}.Normalize()
}

// Tile is a downloaded map tile.
type Tile struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
	SourceURL   string `json:"sourceUrl"`
}

// DataURI encodes the tile as a base64 data URI.
func (t Tile) DataURI() string {
	return dataURI(t.ContentType, "image/jpeg", t.Data)
}

// TileFetcher downloads GIBS tiles.
type TileFetcher interface {
	FetchTile(ctx context.Context, r TileRequest) (Tile, error)
}

// GibsClient downloads tiles from the GIBS WMTS REST endpoint.
type GibsClient struct {
	req     *Requester
	baseURL string
	apiKey  string
}

// NewGibsClient creates a GIBS client.
func NewGibsClient(req *Requester, baseURL, apiKey string) *GibsClient {
	return &GibsClient{req: req, baseURL: baseURL, apiKey: apiKey}
}

// FetchTile downloads the tile addressed by r. SourceURL never includes the API key.
func (c *GibsClient) FetchTile(ctx context.Context, r TileRequest) (Tile, error) {
	r, err := r.Normalize()
	if err != nil {
		return Tile{}, err
	}
	if c.apiKey == "" {
		return Tile{}, domain.ErrMissingAPIKey
	}

	source := c.baseURL + "/wmts/epsg3857/best/" + r.Path()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source+"?"+url.Values{"api_key": {c.apiKey}}.Encode(), nil)
	if err != nil {
		return Tile{}, fmt.Errorf("create request: %w", err)
	}
	p, err := c.req.Do(req, SourceGibs, true)
	if err != nil {
		return Tile{}, err
	}

	ct := p.ContentType
	if ct == "" {
		ct = "image/" + r.Format
	}
	return Tile{Data: p.Data, ContentType: ct, SourceURL: source}, nil
}
