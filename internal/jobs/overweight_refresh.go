// Package jobs holds the scheduled maintenance tasks: overweight refresh,
// price updates and moving-average recomputation.
package jobs

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/config"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// OverweightRefreshJob recomputes the materialized overweight amounts during
// market hours. Outside the session the run is a no-op; the stored values
// only move when prices do.
type OverweightRefreshJob struct {
	rebalance *service.RebalanceService
	market    config.MarketConfig
	logger    zerolog.Logger

	now func() time.Time
}

// NewOverweightRefreshJob creates the job with the provided dependencies.
func NewOverweightRefreshJob(rebalance *service.RebalanceService, market config.MarketConfig, logger zerolog.Logger) *OverweightRefreshJob {
	return &OverweightRefreshJob{
		rebalance: rebalance,
		market:    market,
		logger:    logger,
		now:       time.Now,
	}
}

// Name implements scheduler.Job.
func (j *OverweightRefreshJob) Name() string { return "overweight-refresh" }

// Run implements scheduler.Job.
func (j *OverweightRefreshJob) Run() error {
	if !j.marketOpen() {
		j.logger.Debug().Msg("market closed, skipping overweight refresh")
		return nil
	}
	_, err := j.rebalance.RecomputeOverweights()
	return err
}

// marketOpen reports whether the current time falls inside the configured
// weekday session.
func (j *OverweightRefreshJob) marketOpen() bool {
	loc, err := time.LoadLocation(j.market.Timezone)
	if err != nil {
		loc = time.UTC
	}
	now := j.now().In(loc)

	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return now.Hour() >= j.market.OpenHour && now.Hour() < j.market.CloseHour
}
