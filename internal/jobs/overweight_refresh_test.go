package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/config"
	"github.com/mike4330/stokapp-v2/internal/repository"
	"github.com/mike4330/stokapp-v2/internal/service"
	"github.com/mike4330/stokapp-v2/internal/testutil"
)

func newRefreshJob(t *testing.T, at time.Time) *OverweightRefreshJob {
	t.Helper()

	db := testutil.SetupTestDB(t)
	rebalance := service.NewRebalanceService(
		repository.NewTransactionRepository(db),
		repository.NewPriceRepository(db),
		repository.NewMPTRepository(db),
		zerolog.Nop(),
	)

	job := NewOverweightRefreshJob(rebalance, config.MarketConfig{
		OpenHour:  9,
		CloseHour: 16,
		Timezone:  "UTC",
	}, zerolog.Nop())
	job.now = func() time.Time { return at }
	return job
}

// TestOverweightRefreshJob_MarketGate tests the session gate.
//
// WHY: The refresh runs every five minutes around the clock; the gate is
// what keeps it from churning stored state on stale overnight prices. An
// empty database makes the outcome observable: a gated run is a silent
// no-op, an executed run fails on the zero portfolio value.
func TestOverweightRefreshJob_MarketGate(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		runs bool
	}{
		{"weekday during session", time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC), true},
		{"weekday before open", time.Date(2025, time.June, 2, 8, 59, 0, 0, time.UTC), false},
		{"weekday at close", time.Date(2025, time.June, 2, 16, 0, 0, 0, time.UTC), false},
		{"saturday during session hours", time.Date(2025, time.June, 7, 10, 0, 0, 0, time.UTC), false},
		{"sunday during session hours", time.Date(2025, time.June, 8, 10, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := newRefreshJob(t, tc.at)

			err := job.Run()
			if tc.runs {
				if !errors.Is(err, apperrors.ErrInvalidPortfolioValue) {
					t.Errorf("Expected the refresh to execute and fail on an empty ledger, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Expected a gated no-op, got %v", err)
			}
		})
	}
}
