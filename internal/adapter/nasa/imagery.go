package nasa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
)

const defaultImageryDim = 0.15

// ImageryRequest selects an Earth Imagery chip. Date is YYYY-MM-DD and
// defaults to today; Dim is the chip width in degrees.
type ImageryRequest struct {
	Point domain.GeoPoint
	Date  string
	Dim   float64
}

// Imagery is a downloaded Landsat chip.
type Imagery struct {
	ImageURL     string   `json:"imageUrl"`
	ImageDataURI string   `json:"imageDataUri"`
	CloudScore   *float64 `json:"cloudScore,omitempty"`
}

// ImageryClient fetches satellite chips from the Earth Imagery API.
type ImageryClient struct {
	req     *Requester
	baseURL string
	apiKey  string
}

// NewImageryClient creates an Earth Imagery client.
func NewImageryClient(req *Requester, baseURL, apiKey string) *ImageryClient {
	return &ImageryClient{req: req, baseURL: baseURL, apiKey: apiKey}
}

// FetchImagery resolves the chip URL for r and downloads it as a data URI.
func (c *ImageryClient) FetchImagery(ctx context.Context, r ImageryRequest) (Imagery, error) {
	if err := r.Point.Validate(); err != nil {
		return Imagery{}, err
	}
	if r.Date == "" {
		r.Date = domain.Now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
		return Imagery{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", domain.ErrInvalidArgument, r.Date)
	}
	if r.Dim < 0 {
		return Imagery{}, fmt.Errorf("%w: dim must be positive", domain.ErrInvalidArgument)
	}
	if r.Dim == 0 {
		r.Dim = defaultImageryDim
	}
	if c.apiKey == "" {
		return Imagery{}, domain.ErrMissingAPIKey
	}

	params := url.Values{
		"lat":         {strconv.FormatFloat(r.Point.Lat, 'f', -1, 64)},
		"lon":         {strconv.FormatFloat(r.Point.Lon, 'f', -1, 64)},
		"date":        {r.Date},
		"dim":         {strconv.FormatFloat(r.Dim, 'f', -1, 64)},
		"cloud_score": {"True"},
		"api_key":     {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/planetary/earth/imagery?"+params.Encode(), nil)
	if err != nil {
		return Imagery{}, fmt.Errorf("create request: %w", err)
	}
	p, err := c.req.Do(req, SourceImagery, true)
	if err != nil {
		return Imagery{}, err
	}

	var meta imageryMetadata
	if err := json.Unmarshal(p.Data, &meta); err != nil {
		return Imagery{}, decodeError(SourceImagery, err)
	}
	if meta.URL == "" {
		return Imagery{}, fmt.Errorf("%w: no imagery for %s on %s", domain.ErrUpstream, r.Point, r.Date)
	}

	imgReq, err := http.NewRequestWithContext(ctx, http.MethodGet, meta.URL, nil)
	if err != nil {
		return Imagery{}, fmt.Errorf("create request: %w", err)
	}
	img, err := c.req.Do(imgReq, SourceImagery, false)
	if err != nil {
		return Imagery{}, fmt.Errorf("download image: %w", err)
	}

	return Imagery{
		ImageURL:     meta.URL,
		ImageDataURI: dataURI(img.ContentType, "image/jpeg", img.Data),
		CloudScore:   meta.CloudScore,
	}, nil
}

type imageryMetadata struct {
	URL        string   `json:"url"`
	CloudScore *float64 `json:"cloud_score"`
}

// dataURI encodes data as a base64 data URI, using fallback when the
// upstream sent no Content-Type.
func dataURI(contentType, fallback string, data []byte) string {
	if contentType == "" {
		contentType = fallback
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
