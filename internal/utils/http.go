package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON marshals data and writes it as a JSON HTTP response.
//
// The "Content-Type" header is set to "application/json" and the given
// status code is written before the body. The sync handlers use it for
// every structured response: upload outcomes, change feeds, and error
// bodies alike.
//
// If marshaling fails the response degrades to a plain 500 and the
// wrapped marshal error is returned; nothing of the original body is
// written in that case.
//
// Parameters:
//
//	w          - the HTTP response writer to write the response to
//	data       - any value to serialize as JSON (struct, map, slice, nil, etc.)
//	statusCode - HTTP status code to set in the response (e.g. http.StatusOK)
//
// Returns:
//
//	int   - number of bytes written to the response body
//	error - non-nil if JSON marshaling fails
//
// Example usage:
//
//	WriteJSON(w, response, http.StatusOK)
//	WriteJSON(w, map[string]string{"error": "upload batch failed"}, http.StatusBadRequest)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}
