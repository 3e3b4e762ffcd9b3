package handlers

import (
	"errors"
	"net/http"

	"github.com/mike4330/stokapp-v2/internal/api/response"
	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// RebalanceHandler handles HTTP requests for the rebalance engine.
type RebalanceHandler struct {
	rebalanceService *service.RebalanceService
}

// NewRebalanceHandler creates a new RebalanceHandler with the provided service dependency.
func NewRebalanceHandler(rebalanceService *service.RebalanceService) *RebalanceHandler {
	return &RebalanceHandler{rebalanceService: rebalanceService}
}

// Recompute handles POST requests to refresh overweight amounts on demand.
// The same computation runs on a schedule during market hours.
//
// Endpoint: POST /api/rebalance/recompute
// Response: 200 OK with run summary
// Error: 409 Conflict when the portfolio value is not positive (run aborted)
func (h *RebalanceHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	result, err := h.rebalanceService.RecomputeOverweights()
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidPortfolioValue) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrInvalidPortfolioValue.Error(), "rebalance run aborted, stored values unchanged")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateOverweight.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}
