package canvas

import "errors"

// API error conditions.
// These errors are matched with errors.Is() to decide whether a failure
// is fatal (authentication at startup) or skippable (a single item).
var (
	// ErrUnauthorized is returned for HTTP 401 responses.
	// At startup this aborts the run; credentials are wrong.
	ErrUnauthorized = errors.New("canvas: unauthorized (check API key)")

	// ErrForbidden is returned for HTTP 403 responses.
	// Typically the API key lacks scope for the requested resource.
	ErrForbidden = errors.New("canvas: forbidden")

	// ErrNotFound is returned for HTTP 404 responses.
	ErrNotFound = errors.New("canvas: resource not found")

	// ErrInvalidBaseURL is returned when the configured API URL cannot
	// be parsed.
	ErrInvalidBaseURL = errors.New("canvas: invalid base URL")

	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("canvas: missing API key")
)
