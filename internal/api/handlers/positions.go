package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mike4330/stokapp-v2/internal/api/response"
	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// PositionHandler handles HTTP requests for the portfolio reports.
type PositionHandler struct {
	holdingsService *service.HoldingsService
}

// NewPositionHandler creates a new PositionHandler with the provided service dependency.
func NewPositionHandler(holdingsService *service.HoldingsService) *PositionHandler {
	return &PositionHandler{holdingsService: holdingsService}
}

// Holdings handles GET requests for the holdings report.
//
// Endpoint: GET /api/positions
// Response: 200 OK with array of holdings
func (h *PositionHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdingsService.GetHoldings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, holdings)
}

// Position handles GET requests for one symbol's detailed position.
//
// Endpoint: GET /api/positions/{symbol}
// Response: 200 OK with position detail
// Error: 404 Not Found when the symbol has no open position
func (h *PositionHandler) Position(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	position, err := h.holdingsService.GetPosition(symbol)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSymbolNotFound), errors.Is(err, apperrors.ErrPriceNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), "")
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		}
		return
	}
	response.RespondJSON(w, http.StatusOK, position)
}

// SectorAllocation handles GET requests for the sector allocation report.
//
// Endpoint: GET /api/positions/sectors
// Response: 200 OK with sector slices and the portfolio total
func (h *PositionHandler) SectorAllocation(w http.ResponseWriter, r *http.Request) {
	allocation, err := h.holdingsService.GetSectorAllocation()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSectors.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, allocation)
}

// Returns handles GET requests for the returns-by-security report.
//
// Endpoint: GET /api/positions/returns
// Response: 200 OK with array of per-symbol return percentages
func (h *PositionHandler) Returns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.holdingsService.GetReturnsBySecurity()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, returns)
}
