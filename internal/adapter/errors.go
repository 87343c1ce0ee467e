package adapter

import "errors"

// Sentinel errors mapped from HTTP response status codes. The sync engine
// classifies them into retryable and permanent failures, so every status the
// server can legitimately produce needs its own value.
var (
	// ErrBadRequest maps HTTP 400: the request was malformed and will not
	// succeed on retry.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized maps HTTP 401: the bearer token is missing, expired or
	// revoked.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrForbidden maps HTTP 403: the token is valid but does not grant
	// access to the requested resource.
	ErrForbidden = errors.New("access forbidden")

	// ErrNotFound maps HTTP 404: the requested route or entity does not
	// exist on the server.
	ErrNotFound = errors.New("resource not found")

	// ErrRequestTimeout maps HTTP 408: the server gave up waiting for the
	// request.
	ErrRequestTimeout = errors.New("request timeout")

	// ErrConflict maps HTTP 409: the server rejected the whole request due
	// to a version conflict.
	ErrConflict = errors.New("version conflict")

	// ErrTooManyRequests maps HTTP 429: the client is being rate limited.
	ErrTooManyRequests = errors.New("too many requests")

	// ErrInternalServerError maps HTTP 500.
	ErrInternalServerError = errors.New("internal server error")

	// ErrBadGateway maps HTTP 502.
	ErrBadGateway = errors.New("bad gateway")

	// ErrServiceUnavailable maps HTTP 503: the server is up but cannot serve
	// the request right now.
	ErrServiceUnavailable = errors.New("service unavailable")
)
