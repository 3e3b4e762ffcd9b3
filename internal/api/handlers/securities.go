package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mike4330/stokapp-v2/internal/api/response"
	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// SecurityHandler handles administrative HTTP requests on whole securities.
type SecurityHandler struct {
	securityService *service.SecurityService
}

// NewSecurityHandler creates a new SecurityHandler with the provided service dependency.
func NewSecurityHandler(securityService *service.SecurityService) *SecurityHandler {
	return &SecurityHandler{securityService: securityService}
}

// DeleteSecurity handles DELETE requests to remove every trace of a symbol.
// Refused while the symbol still has open lots.
//
// Endpoint: DELETE /api/securities/{symbol}
// Response: 200 OK with per-table deletion counts
// Error: 404 Not Found when nothing references the symbol
// Error: 409 Conflict when open lots still exist
func (h *SecurityHandler) DeleteSecurity(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	counts, err := h.securityService.DeleteSecurity(symbol)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSecurityHasPositions):
			response.RespondError(w, http.StatusConflict, apperrors.ErrSecurityHasPositions.Error(), "close or sell the open lots first")
		case errors.Is(err, apperrors.ErrSymbolNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), "")
		case errors.Is(err, apperrors.ErrInvalidSymbol):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), "")
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to delete security", err.Error())
		}
		return
	}
	response.RespondJSON(w, http.StatusOK, map[string]any{
		"symbol":  symbol,
		"deleted": counts,
	})
}
