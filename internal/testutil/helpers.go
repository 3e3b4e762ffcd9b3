package testutil

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mike4330/stokapp-v2/internal/config"
	"github.com/mike4330/stokapp-v2/internal/repository"
	"github.com/mike4330/stokapp-v2/internal/service"
)

// TestConfig returns a config with deterministic lists so tests never depend
// on the deployment defaults.
func TestConfig() *config.Config {
	return &config.Config{
		Market: config.MarketConfig{
			OpenHour:           9,
			CloseHour:          16,
			Timezone:           "America/New_York",
			StaticPriceSymbols: []string{"STATIC"},
		},
		Dividends: config.DividendConfig{
			LongHistorySymbols: []string{"LONGHIST"},
			TrackedTickers:     []string{"DIV1", "DIV2"},
			MonthlyTickers:     []string{"MONTHLY"},
		},
	}
}

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(
		repository.NewTransactionRepository(db),
		repository.NewPriceRepository(db),
		zerolog.Nop(),
	)
}

func NewTestLotSelectorService(t *testing.T, db *sql.DB) *service.LotSelectorService {
	t.Helper()

	return service.NewLotSelectorService(
		repository.NewTransactionRepository(db),
		repository.NewPriceRepository(db),
		repository.NewMPTRepository(db),
		zerolog.Nop(),
	)
}

func NewTestRebalanceService(t *testing.T, db *sql.DB) *service.RebalanceService {
	t.Helper()

	return service.NewRebalanceService(
		repository.NewTransactionRepository(db),
		repository.NewPriceRepository(db),
		repository.NewMPTRepository(db),
		zerolog.Nop(),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		repository.NewTransactionRepository(db),
		zerolog.Nop(),
	)
}

func NewTestDividendService(t *testing.T, db *sql.DB) *service.DividendService {
	t.Helper()

	return service.NewDividendService(
		repository.NewTransactionRepository(db),
		TestConfig(),
		zerolog.Nop(),
	)
}

func NewTestHoldingsService(t *testing.T, db *sql.DB) *service.HoldingsService {
	t.Helper()

	return service.NewHoldingsService(
		repository.NewTransactionRepository(db),
		repository.NewPriceRepository(db),
		repository.NewMPTRepository(db),
		repository.NewSecurityValueRepository(db),
		TestConfig(),
		zerolog.Nop(),
	)
}

func NewTestOptimizerService(t *testing.T, db *sql.DB) *service.OptimizerService {
	t.Helper()

	return service.NewOptimizerService(
		repository.NewSecurityValueRepository(db),
		service.NewInMemoryTaskStore(),
		zerolog.Nop(),
	)
}

func NewTestSecurityService(t *testing.T, db *sql.DB) *service.SecurityService {
	t.Helper()

	return service.NewSecurityService(
		repository.NewTransactionRepository(db),
		repository.NewSecurityRepository(db),
		zerolog.Nop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	svc, err := service.NewSystemService(db, repository.NewSettingRepository(db), "")
	if err != nil {
		t.Fatalf("Failed to create system service: %v", err)
	}
	return svc
}
