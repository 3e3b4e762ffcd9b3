package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mike4330/stokapp-v2/internal/config"
	"github.com/mike4330/stokapp-v2/internal/marketdata"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// priceFetchConcurrency caps concurrent provider requests per run.
const priceFetchConcurrency = 5

// lateUpdateSymbols are mutual funds whose NAV posts after the close; their
// morning quotes still carry yesterday's value, so the daily run skips them
// once the session is underway.
var lateUpdateSymbols = map[string]bool{
	"FNBGX": true,
	"FAGIX": true,
	"FDGFX": true,
}

// PriceUpdateJob refreshes every tracked symbol's current price from the
// provider. Symbol failures are logged and skipped; one dead ticker must not
// starve the rest of the book.
type PriceUpdateJob struct {
	client    marketdata.Client
	priceRepo *repository.PriceRepository
	market    config.MarketConfig
	logger    zerolog.Logger

	now func() time.Time
}

// NewPriceUpdateJob creates the job with the provided dependencies.
func NewPriceUpdateJob(
	client marketdata.Client,
	priceRepo *repository.PriceRepository,
	market config.MarketConfig,
	logger zerolog.Logger,
) *PriceUpdateJob {
	return &PriceUpdateJob{
		client:    client,
		priceRepo: priceRepo,
		market:    market,
		logger:    logger,
		now:       time.Now,
	}
}

// Name implements scheduler.Job.
func (j *PriceUpdateJob) Name() string { return "price-update" }

// Run implements scheduler.Job.
func (j *PriceUpdateJob) Run() error {
	symbols, err := j.priceRepo.GetSymbols()
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(j.market.Timezone)
	if err != nil {
		loc = time.UTC
	}
	afterTen := j.now().In(loc).Hour() >= 10

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(priceFetchConcurrency)

	var updated atomic.Int64
	for _, symbol := range symbols {
		if afterTen && lateUpdateSymbols[symbol] {
			continue
		}

		symbol := symbol
		g.Go(func() error {
			quote, err := j.client.GetQuote(ctx, symbol)
			if err != nil {
				j.logger.Warn().Str("symbol", symbol).Err(err).Msg("price fetch failed, keeping prior value")
				return nil
			}
			if err := j.priceRepo.UpsertPrice(symbol, quote.Price, j.now()); err != nil {
				return err
			}
			updated.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	j.logger.Info().
		Int("symbols", len(symbols)).
		Int64("updated", updated.Load()).
		Msg("price update run complete")
	return nil
}
