package service

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// RebalanceService maintains the materialized overweight amounts and flags in
// the allocation model. Runs are idempotent recomputations from current
// ledger and price state, so a failed run can simply be retried.
type RebalanceService struct {
	txRepo    *repository.TransactionRepository
	priceRepo *repository.PriceRepository
	mptRepo   *repository.MPTRepository
	logger    zerolog.Logger
}

// NewRebalanceService creates a new RebalanceService with the provided dependencies.
func NewRebalanceService(
	txRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
	mptRepo *repository.MPTRepository,
	logger zerolog.Logger,
) *RebalanceService {
	return &RebalanceService{
		txRepo:    txRepo,
		priceRepo: priceRepo,
		mptRepo:   mptRepo,
		logger:    logger,
	}
}

// overweightFlag classifies a dollar deviation from target. The deadband sits
// below zero only: anything at or above zero is overweight.
func overweightFlag(overamt float64) string {
	switch {
	case overamt < -1:
		return model.FlagUnder
	case overamt < 0:
		return model.FlagHold
	default:
		return model.FlagOver
	}
}

// RecomputeOverweights recalculates overamt and flag for every symbol with a
// target allocation and commits the batch atomically. If the computed
// portfolio value is not positive the run aborts without touching stored
// state; stale values are safer than targets derived from garbage.
func (s *RebalanceService) RecomputeOverweights() (model.RebalanceResult, error) {
	positions, err := s.txRepo.GetNetPositions()
	if err != nil {
		return model.RebalanceResult{}, err
	}
	prices, err := s.priceRepo.GetPriceMap()
	if err != nil {
		return model.RebalanceResult{}, err
	}

	var total float64
	skipped := []string{}
	for symbol, pos := range positions {
		if pos.Units <= 0 {
			continue
		}
		price, found := prices[symbol]
		if !found {
			s.logger.Warn().Str("symbol", symbol).Msg("no current price, excluding from portfolio value")
			skipped = append(skipped, symbol)
			continue
		}
		total += pos.Units * price
	}
	sort.Strings(skipped)

	if total <= 0 {
		s.logger.Error().Float64("total", total).Msg("portfolio value not positive, aborting rebalance run")
		return model.RebalanceResult{}, apperrors.ErrInvalidPortfolioValue
	}

	targets, err := s.mptRepo.GetTargets()
	if err != nil {
		return model.RebalanceResult{}, err
	}

	symbols := make([]string, 0, len(targets))
	for symbol := range targets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	updates := make([]model.OverweightUpdate, 0, len(symbols))
	for _, symbol := range symbols {
		targetValue := round(targets[symbol] * total)
		if targetValue == 0 {
			continue
		}

		var positionValue float64
		if pos, held := positions[symbol]; held && pos.Units > 0 {
			price, found := prices[symbol]
			if !found {
				// Held but unpriced: leave the prior overamt/flag alone
				// rather than writing a value computed from nothing.
				continue
			}
			positionValue = pos.Units * price
		}

		overamt := round(positionValue - targetValue)
		updates = append(updates, model.OverweightUpdate{
			Symbol:  symbol,
			Overamt: overamt,
			Flag:    overweightFlag(overamt),
		})
	}

	if err := s.mptRepo.ApplyOverweightUpdates(updates); err != nil {
		return model.RebalanceResult{}, err
	}

	s.logger.Info().
		Float64("total_value", round(total)).
		Int("updated", len(updates)).
		Int("skipped", len(skipped)).
		Msg("rebalance run complete")

	return model.RebalanceResult{
		TotalValue:     round(total),
		UpdatedSymbols: len(updates),
		SkippedSymbols: skipped,
	}, nil
}
