package service

import (
	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// SecurityService handles administrative operations on a whole security,
// currently just retiring one from the system.
type SecurityService struct {
	txRepo       *repository.TransactionRepository
	securityRepo *repository.SecurityRepository
	logger       zerolog.Logger
}

// NewSecurityService creates a new SecurityService with the provided dependencies.
func NewSecurityService(
	txRepo *repository.TransactionRepository,
	securityRepo *repository.SecurityRepository,
	logger zerolog.Logger,
) *SecurityService {
	return &SecurityService{
		txRepo:       txRepo,
		securityRepo: securityRepo,
		logger:       logger,
	}
}

// DeleteSecurity removes every trace of a symbol across the symbol-keyed
// tables in one atomic cascade. Refused while the symbol still has open
// lots; sell or close them first.
func (s *SecurityService) DeleteSecurity(symbol string) (map[string]int64, error) {
	if symbol == "" {
		return nil, apperrors.ErrInvalidSymbol
	}

	pos, err := s.txRepo.GetNetPosition(symbol)
	if err != nil {
		return nil, err
	}
	if pos.Units > 0 {
		return nil, apperrors.ErrSecurityHasPositions
	}

	counts, err := s.securityRepo.DeleteCascade(symbol)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, apperrors.ErrSymbolNotFound
	}

	s.logger.Info().Str("symbol", symbol).Int64("rows", total).Msg("deleted security")
	return counts, nil
}
