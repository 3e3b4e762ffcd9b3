package service

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/config"
	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// HoldingsService builds the portfolio-level reports: holdings, per-symbol
// position detail, sector allocation and returns by security. All reports are
// re-derived from the store on every call.
type HoldingsService struct {
	txRepo    *repository.TransactionRepository
	priceRepo *repository.PriceRepository
	mptRepo   *repository.MPTRepository
	svRepo    *repository.SecurityValueRepository
	cfg       *config.Config
	logger    zerolog.Logger
}

// NewHoldingsService creates a new HoldingsService with the provided dependencies.
func NewHoldingsService(
	txRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
	mptRepo *repository.MPTRepository,
	svRepo *repository.SecurityValueRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *HoldingsService {
	return &HoldingsService{
		txRepo:    txRepo,
		priceRepo: priceRepo,
		mptRepo:   mptRepo,
		svRepo:    svRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

// GetHoldings returns one row per held symbol with current value, moving
// averages, intraday change and the materialized overweight amount. Symbols
// without a current price are skipped with a warning.
func (s *HoldingsService) GetHoldings() ([]model.Holding, error) {
	positions, err := s.txRepo.GetNetPositions()
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(positions))
	for symbol, pos := range positions {
		if pos.Units > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	holdings := make([]model.Holding, 0, len(symbols))
	for _, symbol := range symbols {
		pos := positions[symbol]

		quote, err := s.priceRepo.GetQuote(symbol)
		if err == apperrors.ErrPriceNotFound || (err == nil && quote.Price == nil) {
			s.logger.Warn().Str("symbol", symbol).Msg("held symbol has no current price, skipping")
			continue
		}
		if err != nil {
			return nil, err
		}
		price := *quote.Price

		h := model.Holding{
			Symbol:        symbol,
			Units:         pos.Units,
			CurrentPrice:  price,
			PositionValue: round(pos.Units * price),
			MA50:          quote.Mean50,
			MA200:         quote.Mean200,
		}

		gain := pos.Units*price - pos.TotalCost
		h.UnrealizedGain = round(gain)
		if pos.TotalCost != 0 {
			h.UnrealizedGainPercent = round(gain / pos.TotalCost * 100)
		}

		if rec, err := s.mptRepo.GetBySymbol(symbol); err == nil {
			h.Overamt = rec.Overamt
		} else if err != apperrors.ErrSymbolNotFound {
			return nil, err
		}

		if !s.cfg.IsStaticPrice(symbol) {
			latest, err := s.svRepo.GetLatest(symbol)
			if err != nil {
				return nil, err
			}
			if latest != nil && latest.Close != nil && *latest.Close != 0 {
				change := price - *latest.Close
				h.PriceChange = round(change)
				h.PriceChangePct = round(change / *latest.Close * 100)
			}
		}

		holdings = append(holdings, h)
	}
	return holdings, nil
}

// GetPosition returns the detailed view of one held symbol, including cost
// basis, realized P&L and lifetime dividend income.
func (s *HoldingsService) GetPosition(symbol string) (model.Position, error) {
	pos, err := s.txRepo.GetNetPosition(symbol)
	if err != nil {
		return model.Position{}, err
	}
	if pos.Units <= 0 {
		return model.Position{}, apperrors.ErrSymbolNotFound
	}

	quote, err := s.priceRepo.GetQuote(symbol)
	if err != nil {
		return model.Position{}, err
	}
	var price float64
	if quote.Price != nil {
		price = *quote.Price
	}

	p := model.Position{
		Symbol:        symbol,
		Units:         pos.Units,
		CurrentPrice:  price,
		PositionValue: round(pos.Units * price),
		MA50:          quote.Mean50,
		MA200:         quote.Mean200,
		CostBasis:     round(pos.TotalCost),
	}

	gain := pos.Units*price - pos.TotalCost
	p.UnrealizedGain = round(gain)
	if pos.TotalCost != 0 {
		p.UnrealizedGainPercent = round(gain / pos.TotalCost * 100)
	}

	if rec, err := s.mptRepo.GetBySymbol(symbol); err == nil {
		if rec.Sector != nil {
			p.Sector = normalizeSector(*rec.Sector)
		}
		if rec.DivYield != nil {
			p.DividendYield = *rec.DivYield
			p.AnnualDividend = round(*rec.DivYield / 100 * pos.Units * price)
		}
	} else if err != apperrors.ErrSymbolNotFound {
		return model.Position{}, err
	}

	realized, err := s.txRepo.GetRealizedPL(symbol)
	if err != nil {
		return model.Position{}, err
	}
	p.RealizedPL = round(realized)

	dividends, err := s.txRepo.GetTotalDividends(symbol)
	if err != nil {
		return model.Position{}, err
	}
	p.TotalDividends = round(dividends)

	return p, nil
}

// normalizeSector collapses provider spelling variants into one label.
func normalizeSector(sector string) string {
	if strings.EqualFold(sector, "Health Care") {
		return "Healthcare"
	}
	return sector
}

// GetSectorAllocation groups current position values by sector. Unclassified
// symbols land in "Unknown"; symbols without a price are skipped with a
// warning so one stale quote does not sink the report.
func (s *HoldingsService) GetSectorAllocation() (model.SectorAllocation, error) {
	positions, err := s.txRepo.GetNetPositions()
	if err != nil {
		return model.SectorAllocation{}, err
	}
	prices, err := s.priceRepo.GetPriceMap()
	if err != nil {
		return model.SectorAllocation{}, err
	}
	sectors, err := s.mptRepo.GetSectors()
	if err != nil {
		return model.SectorAllocation{}, err
	}

	values := map[string]float64{}
	var total float64
	for symbol, pos := range positions {
		if pos.Units <= 0 {
			continue
		}
		price, found := prices[symbol]
		if !found {
			s.logger.Warn().Str("symbol", symbol).Msg("held symbol has no current price, excluding from sector allocation")
			continue
		}

		sector := normalizeSector(sectors[symbol])
		if sector == "" {
			sector = "Unknown"
		}
		value := pos.Units * price
		values[sector] += value
		total += value
	}

	allocation := model.SectorAllocation{
		Sectors:    []model.SectorSlice{},
		TotalValue: round(total),
	}
	for sector, value := range values {
		slice := model.SectorSlice{
			Sector: sector,
			Value:  round(value),
		}
		if total > 0 {
			slice.Percentage = round(value / total * 100)
		}
		allocation.Sectors = append(allocation.Sectors, slice)
	}
	sort.Slice(allocation.Sectors, func(i, j int) bool {
		return allocation.Sectors[i].Value > allocation.Sectors[j].Value
	})
	return allocation, nil
}

// GetReturnsBySecurity computes a total-return percentage per held symbol:
// unrealized plus realized plus dividends, over current cost basis.
func (s *HoldingsService) GetReturnsBySecurity() ([]model.SecurityReturn, error) {
	positions, err := s.txRepo.GetNetPositions()
	if err != nil {
		return nil, err
	}
	prices, err := s.priceRepo.GetPriceMap()
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(positions))
	for symbol, pos := range positions {
		if pos.Units > 0 && pos.TotalCost > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	returns := make([]model.SecurityReturn, 0, len(symbols))
	for _, symbol := range symbols {
		pos := positions[symbol]
		price, found := prices[symbol]
		if !found {
			s.logger.Warn().Str("symbol", symbol).Msg("held symbol has no current price, excluding from returns report")
			continue
		}

		realized, err := s.txRepo.GetRealizedPL(symbol)
		if err != nil {
			return nil, err
		}
		dividends, err := s.txRepo.GetTotalDividends(symbol)
		if err != nil {
			return nil, err
		}

		totalGain := (pos.Units*price - pos.TotalCost) + realized + dividends
		returns = append(returns, model.SecurityReturn{
			Symbol:        symbol,
			ReturnPercent: round(totalGain / pos.TotalCost * 100),
		})
	}

	sort.Slice(returns, func(i, j int) bool {
		return returns[i].ReturnPercent > returns[j].ReturnPercent
	})
	return returns, nil
}
