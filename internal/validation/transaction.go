package validation

import (
	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/api/request"
)

// ValidateCreateTransaction checks the required fields of a create request.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	if req.Symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	if req.Date == "" {
		return apperrors.ErrInvalidDate
	}
	if req.Type == "" {
		return apperrors.ErrInvalidTransactionType
	}
	if req.Units <= 0 {
		return apperrors.ErrInvalidUnits
	}
	if req.Price < 0 {
		return apperrors.ErrInvalidPrice
	}
	return nil
}

// ValidateUpdateTransaction checks the required fields of an update request.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	if req.Symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	if req.Date == "" {
		return apperrors.ErrInvalidDate
	}
	if req.Type == "" {
		return apperrors.ErrInvalidTransactionType
	}
	if req.Units <= 0 {
		return apperrors.ErrInvalidUnits
	}
	if req.Price < 0 {
		return apperrors.ErrInvalidPrice
	}
	return nil
}

// ValidateCloseLots checks that a close request names at least one lot.
func ValidateCloseLots(req request.CloseLotsRequest) error {
	if len(req.LotIDs) == 0 {
		return apperrors.ErrMissingRequiredField
	}
	for _, id := range req.LotIDs {
		if id <= 0 {
			return apperrors.ErrInvalidID
		}
	}
	return nil
}
