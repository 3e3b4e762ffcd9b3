package service

import (
	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// TransactionService handles ledger CRUD and enforces the units_remaining
// rules that keep the lot accounting consistent.
type TransactionService struct {
	txRepo *repository.TransactionRepository
	logger zerolog.Logger
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(txRepo *repository.TransactionRepository, logger zerolog.Logger) *TransactionService {
	return &TransactionService{txRepo: txRepo, logger: logger}
}

// validateTransaction checks the fields every ledger write must satisfy.
func validateTransaction(t model.Transaction) error {
	if t.Symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	if t.Date == "" {
		return apperrors.ErrInvalidDate
	}
	if _, err := repository.ParseTime(t.Date); err != nil {
		return apperrors.ErrInvalidDate
	}
	if t.Type == "" {
		return apperrors.ErrInvalidTransactionType
	}
	if t.Units <= 0 {
		return apperrors.ErrInvalidUnits
	}
	if t.Price < 0 {
		return apperrors.ErrInvalidPrice
	}
	return nil
}

// normalizeLotFields applies the type-dependent units_remaining rules: a new
// Buy opens fully unless told otherwise, a non-Buy never carries lot state.
func normalizeLotFields(t *model.Transaction) error {
	if t.Type == model.TypeBuy {
		if t.UnitsRemaining == nil {
			remaining := t.Units
			t.UnitsRemaining = &remaining
		}
		if *t.UnitsRemaining < 0 || *t.UnitsRemaining > t.Units {
			return apperrors.ErrDataInconsistency
		}
		return nil
	}
	t.UnitsRemaining = nil
	t.Disposition = nil
	return nil
}

// ListTransactions retrieves ledger rows, newest first, optionally filtered
// by symbol and limited in count.
func (s *TransactionService) ListTransactions(symbol string, limit int) ([]model.Transaction, error) {
	return s.txRepo.GetTransactions(symbol, limit)
}

// GetTransaction retrieves a single ledger row.
func (s *TransactionService) GetTransaction(id int64) (model.Transaction, error) {
	return s.txRepo.GetTransaction(id)
}

// CreateTransaction validates and records a new ledger row.
func (s *TransactionService) CreateTransaction(t model.Transaction) (model.Transaction, error) {
	if err := validateTransaction(t); err != nil {
		return model.Transaction{}, err
	}
	if err := normalizeLotFields(&t); err != nil {
		return model.Transaction{}, err
	}

	id, err := s.txRepo.CreateTransaction(t)
	if err != nil {
		return model.Transaction{}, err
	}
	t.ID = id

	s.logger.Info().
		Int64("id", id).
		Str("symbol", t.Symbol).
		Str("type", t.Type).
		Float64("units", t.Units).
		Msg("recorded transaction")
	return t, nil
}

// UpdateTransaction rewrites an existing ledger row. Changing the type to or
// from Buy re-applies the lot rules so a converted row cannot keep stale lot
// state.
func (s *TransactionService) UpdateTransaction(t model.Transaction) (model.Transaction, error) {
	if err := validateTransaction(t); err != nil {
		return model.Transaction{}, err
	}

	existing, err := s.txRepo.GetTransaction(t.ID)
	if err != nil {
		return model.Transaction{}, err
	}

	// A row that stays a Buy keeps its remaining units unless the caller
	// supplies new ones.
	if t.Type == model.TypeBuy && existing.Type == model.TypeBuy && t.UnitsRemaining == nil {
		t.UnitsRemaining = existing.UnitsRemaining
	}
	if err := normalizeLotFields(&t); err != nil {
		return model.Transaction{}, err
	}

	if err := s.txRepo.UpdateTransaction(t); err != nil {
		return model.Transaction{}, err
	}

	s.logger.Info().Int64("id", t.ID).Str("symbol", t.Symbol).Msg("updated transaction")
	return t, nil
}

// DeleteTransaction removes a ledger row.
func (s *TransactionService) DeleteTransaction(id int64) error {
	if err := s.txRepo.DeleteTransaction(id); err != nil {
		return err
	}
	s.logger.Info().Int64("id", id).Msg("deleted transaction")
	return nil
}
