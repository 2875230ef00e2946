// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the `fail()`
// helper and give clients a stable, machine-readable error taxonomy that
// supplements the human-readable messages. Codes are lowercase snake_case;
// generic codes mirror common HTTP status semantics, domain-specific ones
// cover business errors that status alone cannot convey.
//
// ErrCodeRateLimited and ErrCodeInternal name codes written by the middleware
// layer (rate limiter 429 and recovery 500 envelopes); middleware cannot
// import this package, so the envelope literals there must stay in sync with
// these values (covered by errors_test.go).
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeUnknownStatus    = "unknown_status"
	ErrCodeEventFailed      = "event_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
