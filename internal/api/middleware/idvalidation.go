package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mike4330/stokapp-v2/internal/api/response"
	"github.com/mike4330/stokapp-v2/internal/validation"
)

// ValidateIDMiddleware validates that the id URL parameter is present and is
// a positive integer. Returns 400 Bad Request otherwise. Apply to routes that
// carry a ledger row ID in the path.
func ValidateIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if id == "" {
			response.RespondError(w, http.StatusBadRequest, "valid ID is required", "")
			return
		}
		if _, err := validation.ParseID(id); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid ID format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
