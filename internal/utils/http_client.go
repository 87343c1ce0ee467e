package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client, the HTTP client the sync transport is
// built on. Embedding *resty.Client exposes the full resty API while
// leaving room for application-specific helpers on the wrapper.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Get("http://localhost:8080/api/version")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an HTTPClient over a default-configured resty
// client. Base URL, auth token, and timeouts are left for the caller to
// set; the server adapter configures all three from its config.
//
// Each call returns an independent client with its own configuration,
// connection pool, and state, so two adapters never share cookies or
// headers.
//
// Returns:
//
//	*HTTPClient - a ready-to-use HTTP client
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().
//	    SetHeader("Accept", "application/json").
//	    Get(serverURL + "/api/sync/climb/download")
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
