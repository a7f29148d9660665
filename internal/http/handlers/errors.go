// Package handlers defines HTTP-layer error codes used across all endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// The webhook route deliberately uses almost none of these: Telegram retries
// on non-2xx, so webhook-side failures are acknowledged with 200 and plain
// text instead of an error envelope. The codes below apply to the operational
// surface (health, metrics, route fallbacks).

package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnhealthy        = "unhealthy"
)
