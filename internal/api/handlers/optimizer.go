package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mike4330/stokapp-v2/internal/api/request"
	"github.com/mike4330/stokapp-v2/internal/api/response"
	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// OptimizerHandler handles HTTP requests for optimization runs.
type OptimizerHandler struct {
	optimizerService *service.OptimizerService
}

// NewOptimizerHandler creates a new OptimizerHandler with the provided service dependency.
func NewOptimizerHandler(optimizerService *service.OptimizerService) *OptimizerHandler {
	return &OptimizerHandler{optimizerService: optimizerService}
}

// StartRun handles POST requests to launch an optimization run. The run
// executes in the background; poll the returned task ID for results.
//
// Endpoint: POST /api/optimizer/run
// Response: 202 Accepted with the task
// Error: 400 Bad Request for fewer than 2 symbols
func (h *OptimizerHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.OptimizeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	task, err := h.optimizerService.StartOptimization(model.OptimizationRequest{
		Symbols:       req.Symbols,
		LookbackDays:  req.LookbackDays,
		Iterations:    req.Iterations,
		RiskAversion:  req.RiskAversion,
		MaxWeight:     req.MaxWeight,
		MinWeight:     req.MinWeight,
		TotalPortion:  req.TotalPortion,
		RoundDecimals: req.RoundDecimals,
	})
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to start optimization", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusAccepted, task)
}

// GetTask handles GET requests for an optimization task's state.
//
// Endpoint: GET /api/optimizer/tasks/{taskId}
// Response: 200 OK with the task
// Error: 404 Not Found for unknown task IDs
func (h *OptimizerHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")

	task, err := h.optimizerService.GetTask(taskID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTaskNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve task", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, task)
}
