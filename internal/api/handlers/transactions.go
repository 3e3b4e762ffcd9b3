package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mike4330/stokapp-v2/internal/api/request"
	"github.com/mike4330/stokapp-v2/internal/api/response"
	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/service"
	"github.com/mike4330/stokapp-v2/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ListTransactions handles GET requests for ledger rows, newest first.
//
// Endpoint: GET /api/transactions?symbol=XYZ&limit=100
// Response: 200 OK with array of transactions
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(w, http.StatusBadRequest, "invalid limit parameter", raw)
			return
		}
		limit = n
	}

	transactions, err := h.transactionService.ListTransactions(symbol, limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests for a single ledger row.
//
// Endpoint: GET /api/transactions/{id}
// Response: 200 OK with the transaction
// Error: 404 Not Found if no row has the given ID
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := validation.ParseID(chi.URLParam(r, "id"))

	transaction, err := h.transactionService.GetTransaction(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to record a ledger entry.
//
// Endpoint: POST /api/transactions
// Response: 201 Created with the recorded transaction
// Error: 400 Bad Request if validation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	created, err := h.transactionService.CreateTransaction(model.Transaction{
		Date:    req.Date,
		Symbol:  req.Symbol,
		Type:    req.Type,
		Account: req.Account,
		Price:   req.Price,
		Units:   req.Units,
		Fee:     req.Fee,
		Note:    req.Note,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		}
		response.RespondError(w, status, "failed to create transaction", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusCreated, created)
}

// UpdateTransaction handles PUT requests to rewrite a ledger entry.
//
// Endpoint: PUT /api/transactions/{id}
// Response: 200 OK with the updated transaction
// Error: 404 Not Found if no row has the given ID
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := validation.ParseID(chi.URLParam(r, "id"))

	req, err := parseJSON[request.UpdateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateUpdateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	updated, err := h.transactionService.UpdateTransaction(model.Transaction{
		ID:             id,
		Date:           req.Date,
		Symbol:         req.Symbol,
		Type:           req.Type,
		Account:        req.Account,
		Price:          req.Price,
		Units:          req.Units,
		UnitsRemaining: req.UnitsRemaining,
		Gain:           req.Gain,
		Disposition:    req.Disposition,
		Fee:            req.Fee,
		Note:           req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), "")
		case isValidationError(err):
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to update transaction", err.Error())
		}
		return
	}
	response.RespondJSON(w, http.StatusOK, updated)
}

// DeleteTransaction handles DELETE requests for a ledger row.
//
// Endpoint: DELETE /api/transactions/{id}
// Response: 204 No Content
// Error: 404 Not Found if no row has the given ID
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := validation.ParseID(chi.URLParam(r, "id"))

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete transaction", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}

// isValidationError reports whether a service error maps to a 400 rather
// than a 500.
func isValidationError(err error) bool {
	return errors.Is(err, apperrors.ErrInvalidSymbol) ||
		errors.Is(err, apperrors.ErrInvalidDate) ||
		errors.Is(err, apperrors.ErrInvalidTransactionType) ||
		errors.Is(err, apperrors.ErrInvalidUnits) ||
		errors.Is(err, apperrors.ErrInvalidPrice) ||
		errors.Is(err, apperrors.ErrDataInconsistency)
}
