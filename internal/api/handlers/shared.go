// Package handlers contains the HTTP layer adapters: they parse requests,
// delegate to services and shape responses.
package handlers

import (
	"encoding/json"
	"net/http"
)

// parseJSON decodes a request body into the given type, rejecting unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&v)
	return v, err
}
