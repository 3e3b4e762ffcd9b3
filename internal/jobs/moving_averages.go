package jobs

import (
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// Moving average window lengths in trading days.
const (
	maShortWindow = 50
	maLongWindow  = 200
)

// MovingAverageJob recomputes each tracked symbol's 50 and 200 day moving
// averages from stored daily closes and writes them onto the quote row.
type MovingAverageJob struct {
	svRepo    *repository.SecurityValueRepository
	priceRepo *repository.PriceRepository
	logger    zerolog.Logger
}

// NewMovingAverageJob creates the job with the provided dependencies.
func NewMovingAverageJob(
	svRepo *repository.SecurityValueRepository,
	priceRepo *repository.PriceRepository,
	logger zerolog.Logger,
) *MovingAverageJob {
	return &MovingAverageJob{
		svRepo:    svRepo,
		priceRepo: priceRepo,
		logger:    logger,
	}
}

// Name implements scheduler.Job.
func (j *MovingAverageJob) Name() string { return "moving-averages" }

// Run implements scheduler.Job.
func (j *MovingAverageJob) Run() error {
	symbols, err := j.svRepo.GetTrackedSymbols()
	if err != nil {
		return err
	}

	var updated int
	for _, symbol := range symbols {
		closes, err := j.svRepo.GetRecentCloses(symbol, maLongWindow)
		if err != nil {
			return err
		}
		if len(closes) < maShortWindow {
			j.logger.Debug().Str("symbol", symbol).Int("closes", len(closes)).Msg("not enough history for moving averages")
			continue
		}

		mean50 := stat.Mean(closes[:maShortWindow], nil)
		mean200 := stat.Mean(closes, nil)

		err = j.priceRepo.UpdateMovingAverages(symbol, mean50, mean200)
		if err == apperrors.ErrPriceNotFound {
			continue
		}
		if err != nil {
			return err
		}
		updated++
	}

	j.logger.Info().Int("updated", updated).Msg("moving average run complete")
	return nil
}
