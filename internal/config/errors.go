package config

import "errors"

// Configuration validation errors.
// Sentinel errors so callers can branch with errors.Is() while the
// messages stay readable on the terminal.
var (
	// ErrMissingAPIURL is returned when neither --api-url nor the
	// CANVAS_API_URL environment variable provides an instance URL.
	ErrMissingAPIURL = errors.New("missing API URL: set --api-url or CANVAS_API_URL")

	// ErrMissingAPIKey is returned when neither --api-key nor the
	// CANVAS_API_KEY environment variable provides a token.
	ErrMissingAPIKey = errors.New("missing API key: set --api-key or CANVAS_API_KEY")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidLogLevel is returned when --log-level is not one of
	// DEBUG, INFO, WARNING, ERROR, CRITICAL.
	ErrInvalidLogLevel = errors.New("invalid log level: use DEBUG, INFO, WARNING, ERROR, or CRITICAL")

	// ErrConfigNotFound is returned when an explicitly specified
	// configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
