package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mike4330/stokapp-v2/internal/api/response"
	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// DividendHandler handles HTTP requests for dividend analysis endpoints.
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler with the provided service dependency.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{dividendService: dividendService}
}

// Frequency handles GET requests for a symbol's payment cadence
// classification. The classifier always produces a best-guess structure, so
// this endpoint only fails on store errors.
//
// Endpoint: GET /api/dividends/{symbol}/frequency
// Response: 200 OK with the classification and its evidence
func (h *DividendHandler) Frequency(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	result, err := h.dividendService.ClassifyFrequency(symbol)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// History handles GET requests for a symbol's recorded dividend payments.
//
// Endpoint: GET /api/dividends/{symbol}/history
// Response: 200 OK with array of payments
// Error: 404 Not Found when the symbol has no dividend history
func (h *DividendHandler) History(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	payments, err := h.dividendService.History(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoDividendHistory) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrNoDividendHistory.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, payments)
}

// Forecast handles GET requests for a symbol's dividend forecast. The
// optional monthly query parameter overrides the classifier's cadence.
//
// Endpoint: GET /api/dividends/{symbol}/predictions?monthly=true
// Response: 200 OK with the forecast
// Error: 404 Not Found when the symbol has no dividend history in the window
func (h *DividendHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var monthly *bool
	if raw := r.URL.Query().Get("monthly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid monthly parameter", raw)
			return
		}
		monthly = &v
	}

	forecast, err := h.dividendService.Forecast(symbol, monthly)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoDividendHistory) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrNoDividendHistory.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, forecast)
}

// AllForecasts handles GET requests for forecasts across every symbol with
// dividend history.
//
// Endpoint: GET /api/dividends/predictions
// Response: 200 OK with array of forecasts
func (h *DividendHandler) AllForecasts(w http.ResponseWriter, r *http.Request) {
	forecasts, err := h.dividendService.ForecastAll()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, forecasts)
}
