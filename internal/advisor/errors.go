package advisor

import "errors"

var (
	// ErrMissingCredential means a required provider credential is absent.
	// Fatal, not retryable; surfaced verbatim to the operator.
	ErrMissingCredential = errors.New("required credential is not configured")

	// ErrNotFound means geocoding returned zero matches for a place name.
	ErrNotFound = errors.New("place not found")

	// ErrUpstreamUnavailable means a provider call failed or returned an
	// unusable response.
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

	// ErrEmptyResponse means the model call succeeded but produced no text.
	ErrEmptyResponse = errors.New("model returned no text")

	// ErrMissingCoordinates means a partial lat/lon pair reached the pipeline.
	ErrMissingCoordinates = errors.New("latitude and longitude must both be present")
)
