package domain

import "errors"

var (
	// ErrInvalidArgument is returned for malformed queries, e.g. a latitude outside [-90, 90].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUpstream wraps failures talking to a third-party data source.
	ErrUpstream = errors.New("upstream request failed")

	// ErrMissingAPIKey is returned by NASA clients that require a key when none is configured.
	ErrMissingAPIKey = errors.New("NASA_API_KEY is not set")

	// ErrModelUnavailable wraps failures invoking the hosted model.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInvalidModelOutput is returned when the model's reply does not match the expected schema.
	ErrInvalidModelOutput = errors.New("invalid model output")
)
