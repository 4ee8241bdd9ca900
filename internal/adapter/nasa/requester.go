// Package nasa holds the HTTP clients for the NASA data sources the risk
// analysis and map views draw on: POWER weather, FIRMS fires, EONET events,
// Earth Imagery chips, GIBS tiles and Harmony jobs.
package nasa

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/couchcryptid/hazard-risk-service/internal/observability"
	"golang.org/x/time/rate"
)

// Source labels used in errors, logs and metrics.
const (
	SourcePower   = "power"
	SourceFirms   = "firms"
	SourceEonet   = "eonet"
	SourceImagery = "imagery"
	SourceGibs    = "gibs"
	SourceHarmony = "harmony"
)

const maxBodyBytes = 32 << 20

// Payload is the body of a successful upstream response.
type Payload struct {
	Data        []byte
	ContentType string
}

// StatusError reports a non-200 upstream response. It matches domain.ErrUpstream.
type StatusError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Source, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return domain.ErrUpstream }

// Requester sends requests for every NASA client. Requests that carry the
// NASA API key share one rate limiter.
type Requester struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewRequester creates a Requester with the given per-request timeout and
// keyed request rate (requests per second).
func NewRequester(timeout time.Duration, perSecond float64, logger *slog.Logger, metrics *observability.Metrics) *Requester {
	burst := int(math.Ceil(perSecond))
	if burst < 1 {
		burst = 1
	}
	return &Requester{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:     logger,
		metrics:    metrics,
	}
}

// Do sends req and returns the body of a 200 response. keyed requests wait
// on the shared limiter first.
func (r *Requester) Do(req *http.Request, source string, keyed bool) (Payload, error) {
	if keyed {
		if err := r.limiter.Wait(req.Context()); err != nil {
			return Payload{}, fmt.Errorf("%s rate limit: %w", source, err)
		}
	}

	start := time.Now()
	p, err := r.do(req, source)
	elapsed := time.Since(start)
	r.metrics.ObserveUpstream(source, elapsed.Seconds(), err)
	r.logger.Debug("upstream request", "source", source, "duration", elapsed, "error", err)
	return p, err
}

func (r *Requester) do(req *http.Request, source string) (Payload, error) {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("%s request: %w: %w", source, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Payload{}, &StatusError{Source: source, StatusCode: resp.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Payload{}, fmt.Errorf("%s read body: %w: %w", source, domain.ErrUpstream, err)
	}
	return Payload{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

// decodeError wraps a malformed upstream body.
func decodeError(source string, err error) error {
	return fmt.Errorf("%s decode response: %w: %w", source, domain.ErrUpstream, err)
}
