package handlers

import (
	"net/http"
	"strconv"

	"github.com/mike4330/stokapp-v2/internal/api/request"
	"github.com/mike4330/stokapp-v2/internal/api/response"
	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/service"
	"github.com/mike4330/stokapp-v2/internal/validation"
)

// LotHandler handles HTTP requests for open-lot endpoints.
type LotHandler struct {
	ledgerService   *service.LedgerService
	selectorService *service.LotSelectorService
}

// NewLotHandler creates a new LotHandler with the provided service dependencies.
func NewLotHandler(ledgerService *service.LedgerService, selectorService *service.LotSelectorService) *LotHandler {
	return &LotHandler{
		ledgerService:   ledgerService,
		selectorService: selectorService,
	}
}

// ListOpenLots handles GET requests for open lots, optionally filtered by symbol.
//
// Endpoint: GET /api/lots?symbol=XYZ
// Response: 200 OK with array of open lots
func (h *LotHandler) ListOpenLots(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")

	lots, err := h.ledgerService.ListOpenLots(symbol)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLots.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, lots)
}

// CloseLots handles POST requests to close a set of lots.
//
// Endpoint: POST /api/lots/close
// Response: 200 OK with {"closed_count": n}
// Error: 404 Not Found when no listed lot was open
func (h *LotHandler) CloseLots(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CloseLotsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateCloseLots(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	closed, err := h.ledgerService.CloseLots(req.LotIDs)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCloseLots.Error(), err.Error())
		return
	}
	if closed == 0 {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrLotNotFound.Error(), "no open lots matched the given ids")
		return
	}
	response.RespondJSON(w, http.StatusOK, map[string]int64{"closed_count": closed})
}

// PotentialLots handles GET requests for ranked sale candidates. Threshold
// query parameters default to the server's standard values.
//
// Endpoint: GET /api/lots/potential?profit_threshold=&lot_value_threshold=&overweight_threshold=
// Response: 200 OK with array of candidates ranked by profit percentage
func (h *LotHandler) PotentialLots(w http.ResponseWriter, r *http.Request) {
	profit := queryFloat(r, "profit_threshold", service.DefaultProfitThreshold)
	lotValue := queryFloat(r, "lot_value_threshold", service.DefaultLotValueThreshold)
	overweight := queryFloat(r, "overweight_threshold", service.DefaultOverweightThreshold)

	candidates, err := h.selectorService.FindPotentialLots(profit, lotValue, overweight)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLots.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, candidates)
}

// queryFloat reads a float query parameter, falling back on absence or junk.
func queryFloat(r *http.Request, key string, fallback float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
