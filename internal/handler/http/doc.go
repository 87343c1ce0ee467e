// Package http implements the HTTP transport layer of the reference sync
// server.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as caller identity, request tracing,
// access logging, and response compression are handled in this package before
// requests reach the service layer.
//
// The server treats bearer tokens as opaque: identity is established from the
// X-User-ID header, and token issuance sits outside this module.
package http
