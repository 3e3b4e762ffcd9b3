package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// longTermCutoffDays is the holding period above which a lot becomes
// long-term. The comparison is strict: a lot held exactly 365 days is still
// short-term.
const longTermCutoffDays = 365

// LedgerService answers questions about open lots: what exists, what it cost,
// what it is worth now, and closes lots on request.
type LedgerService struct {
	txRepo    *repository.TransactionRepository
	priceRepo *repository.PriceRepository
	logger    zerolog.Logger

	// now is swapped out in tests to pin term classification.
	now func() time.Time
}

// NewLedgerService creates a new LedgerService with the provided dependencies.
func NewLedgerService(
	txRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
	logger zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		txRepo:    txRepo,
		priceRepo: priceRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// lotTerm classifies a lot's holding period from its purchase date string.
// Unparseable dates default to short-term; ok is false so callers can log it.
func lotTerm(dateStr string, now time.Time) (term string, ok bool) {
	purchased, err := repository.ParseTime(dateStr)
	if err != nil {
		return model.TermShort, false
	}
	if now.Sub(purchased) > longTermCutoffDays*24*time.Hour {
		return model.TermLong, true
	}
	return model.TermShort, true
}

// ListOpenLots retrieves the open Buy lots for a symbol, or for every symbol
// when symbol is empty. Lots of symbols with no current price keep their unit
// fields but carry nil value and P&L fields. A price of zero on the lot
// itself suppresses the percentage to avoid dividing by a zero basis.
func (s *LedgerService) ListOpenLots(symbol string) ([]model.OpenLot, error) {
	rows, err := s.txRepo.GetOpenLots(symbol)
	if err != nil {
		return nil, err
	}

	// One price map per call so every lot in the response is valued against
	// the same snapshot.
	prices, err := s.priceRepo.GetPriceMap()
	if err != nil {
		return nil, err
	}

	now := s.now()
	lots := make([]model.OpenLot, 0, len(rows))
	for _, row := range rows {
		term, ok := lotTerm(row.Date, now)
		if !ok {
			s.logger.Warn().
				Int64("id", row.ID).
				Str("date", row.Date).
				Msg("unparseable lot date, defaulting to short-term")
		}

		lot := model.OpenLot{
			ID:             row.ID,
			Account:        row.Account,
			Symbol:         row.Symbol,
			Date:           row.Date,
			Units:          row.Units,
			UnitsRemaining: row.UnitsRemaining,
			Price:          row.Price,
			Term:           term,
		}

		units := row.EffectiveUnits()
		basis := round(row.Price * units)
		lot.LotBasis = &basis

		if price, found := prices[row.Symbol]; found {
			current := round(price * units)
			profit := round(current - basis)
			lot.CurrentValue = &current
			lot.ProfitLoss = &profit
			if basis != 0 {
				pct := roundTo(profit/basis*100, 3)
				lot.PLPct = &pct
			}
		}

		lots = append(lots, lot)
	}
	return lots, nil
}

// CloseLots marks the given lots as sold and returns how many rows actually
// changed. Missing or already-closed IDs are excluded from the count rather
// than errored individually; a zero count is the caller's signal that nothing
// matched.
func (s *LedgerService) CloseLots(ids []int64) (int64, error) {
	closed, err := s.txRepo.CloseLots(ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info().
		Int("requested", len(ids)).
		Int64("closed", closed).
		Msg("closed lots")
	return closed, nil
}

// NetPosition sums a symbol's open lots into unit and cost totals. A symbol
// with no open lots yields zeros, which callers treat as "no holding".
func (s *LedgerService) NetPosition(symbol string) (model.NetPosition, error) {
	return s.txRepo.GetNetPosition(symbol)
}

// NetPositions sums every symbol's open lots, keyed by symbol.
func (s *LedgerService) NetPositions() (map[string]model.NetPosition, error) {
	return s.txRepo.GetNetPositions()
}
