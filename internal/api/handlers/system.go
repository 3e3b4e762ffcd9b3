package handlers

import (
	"net/http"

	"github.com/mike4330/stokapp-v2/internal/api/request"
	"github.com/mike4330/stokapp-v2/internal/api/response"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity.
//
// Endpoint: GET /api/system/health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// Version returns the application build version.
//
// Endpoint: GET /api/system/version
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, map[string]string{
		"version": h.systemService.CheckVersion(),
	})
}

// SetProviderToken stores the market data provider token.
//
// Endpoint: PUT /api/system/marketdata-token
// Response: 204 No Content
func (h *SystemHandler) SetProviderToken(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetTokenRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Token == "" {
		response.RespondError(w, http.StatusBadRequest, "token is required", "")
		return
	}

	if err := h.systemService.SetProviderToken(req.Token); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store token", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
