package http

import "errors"

// Sentinel errors used by the identity middleware when resolving the caller
// from the "X-User-ID" HTTP header. Callers can match against them with
// [errors.Is].
var (
	// ErrMissingUserIDHeader is returned when the incoming request does not
	// include an "X-User-ID" header at all.
	ErrMissingUserIDHeader = errors.New("missing `X-User-ID` header")

	// ErrInvalidUserIDHeader is returned when the "X-User-ID" header is
	// present but is not a positive integer.
	ErrInvalidUserIDHeader = errors.New("invalid `X-User-ID` header")

	// ErrIdentityMismatch is returned when an uploaded batch names an owner
	// that differs from the caller identity resolved by the middleware.
	ErrIdentityMismatch = errors.New("batch owner does not match caller identity")
)
