package service

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// Default thresholds for the sale-candidate scan. Callers can override any of
// them per request.
const (
	DefaultProfitThreshold     = 0.6
	DefaultLotValueThreshold   = 1.0
	DefaultOverweightThreshold = 8.6
)

// LotSelectorService scans overweight symbols for profitable open lots and
// proposes them as sale candidates. The scan is read-only.
type LotSelectorService struct {
	txRepo    *repository.TransactionRepository
	priceRepo *repository.PriceRepository
	mptRepo   *repository.MPTRepository
	logger    zerolog.Logger

	now func() time.Time
}

// NewLotSelectorService creates a new LotSelectorService with the provided dependencies.
func NewLotSelectorService(
	txRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
	mptRepo *repository.MPTRepository,
	logger zerolog.Logger,
) *LotSelectorService {
	return &LotSelectorService{
		txRepo:    txRepo,
		priceRepo: priceRepo,
		mptRepo:   mptRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// FindPotentialLots returns the open lots of overweight symbols that clear
// the profit and materiality thresholds, ranked globally by profit percentage
// descending. Only appreciated lots qualify; breakeven and loss lots are
// never proposed here.
func (s *LotSelectorService) FindPotentialLots(profitThreshold, lotValueThreshold, overweightThreshold float64) ([]model.PotentialLot, error) {
	overweights, err := s.mptRepo.GetOverweightAmounts(overweightThreshold)
	if err != nil {
		return nil, err
	}

	prices, err := s.priceRepo.GetPriceMap()
	if err != nil {
		return nil, err
	}

	now := s.now()
	candidates := []model.PotentialLot{}

	for symbol, overamt := range overweights {
		currentPrice, found := prices[symbol]
		if !found {
			s.logger.Warn().Str("symbol", symbol).Msg("overweight symbol has no current price, skipping")
			continue
		}

		lots, err := s.txRepo.GetOpenLots(symbol)
		if err != nil {
			return nil, err
		}

		for _, lot := range lots {
			// No valid basis, or the lot has not appreciated.
			if lot.Price == 0 || lot.Price >= currentPrice {
				continue
			}

			units := lot.EffectiveUnits()
			currentValue := round(currentPrice * units)
			cost := lot.Price * units
			profit := round(currentValue - cost)
			if profit < profitThreshold || currentValue < lotValueThreshold {
				continue
			}

			term, ok := lotTerm(lot.Date, now)
			if !ok {
				s.logger.Warn().
					Int64("id", lot.ID).
					Str("date", lot.Date).
					Msg("unparseable lot date, defaulting to short-term")
			}

			candidates = append(candidates, model.PotentialLot{
				Account:      lot.Account,
				Symbol:       symbol,
				Date:         lot.Date,
				Units:        units,
				CurrentPrice: currentPrice,
				CurrentValue: currentValue,
				Profit:       profit,
				ProfitPct:    roundTo(profit/cost*100, 3),
				IsLongTerm:   term == model.TermLong,
				TargetDiff:   overamt,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ProfitPct > candidates[j].ProfitPct
	})
	return candidates, nil
}
