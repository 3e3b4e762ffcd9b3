package service_test

import (
	"testing"
	"time"

	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/service"
	"github.com/mike4330/stokapp-v2/internal/testutil"
)

func defaultScan(t *testing.T, svc *service.LotSelectorService) []model.PotentialLot {
	t.Helper()

	lots, err := svc.FindPotentialLots(
		service.DefaultProfitThreshold,
		service.DefaultLotValueThreshold,
		service.DefaultOverweightThreshold,
	)
	if err != nil {
		t.Fatalf("FindPotentialLots() returned unexpected error: %v", err)
	}
	return lots
}

// TestLotSelectorService_FindPotentialLots tests the sale-candidate scan.
//
// WHY: The selector proposes real sell decisions. A lot proposed at a loss,
// or from a symbol that is not actually overweight, is a bad trade; the skip
// rules are the product.
func TestLotSelectorService_FindPotentialLots(t *testing.T) {
	t.Run("proposes profitable lots of overweight symbols", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLotSelectorService(t, db)
		svc.SetClock(func() time.Time {
			return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		})

		testutil.SetOverweight(t, db, "AAPL", 10.0, model.FlagOver)
		testutil.InsertPrice(t, db, "AAPL", 60.0)
		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)

		lots := defaultScan(t, svc)
		if len(lots) != 1 {
			t.Fatalf("Expected 1 candidate, got %d", len(lots))
		}

		lot := lots[0]
		if lot.CurrentValue != 6000.0 {
			t.Errorf("Expected current value 6000.00, got %v", lot.CurrentValue)
		}
		if lot.Profit != 1000.0 {
			t.Errorf("Expected profit 1000.00, got %v", lot.Profit)
		}
		if lot.ProfitPct != 20.0 {
			t.Errorf("Expected profit percent 20.0, got %v", lot.ProfitPct)
		}
		if !lot.IsLongTerm {
			t.Error("Expected a lot bought over a year ago to be long-term")
		}
		if lot.TargetDiff != 10.0 {
			t.Errorf("Expected target diff 10.00, got %v", lot.TargetDiff)
		}
	})

	t.Run("ignores symbols at or below the overweight threshold", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLotSelectorService(t, db)

		// Exactly at the threshold: excluded, the comparison is strict.
		testutil.SetOverweight(t, db, "AAPL", service.DefaultOverweightThreshold, model.FlagOver)
		testutil.InsertPrice(t, db, "AAPL", 60.0)
		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)

		// Underweight symbols never qualify regardless of amount.
		testutil.SetOverweight(t, db, "MSFT", 500.0, model.FlagUnder)
		testutil.InsertPrice(t, db, "MSFT", 60.0)
		testutil.InsertBuy(t, db, "MSFT", "2024-01-15", 50.0, 100)

		if lots := defaultScan(t, svc); len(lots) != 0 {
			t.Errorf("Expected no candidates, got %d", len(lots))
		}
	})

	t.Run("skips lots that have not appreciated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLotSelectorService(t, db)

		testutil.SetOverweight(t, db, "AAPL", 10.0, model.FlagOver)
		testutil.InsertPrice(t, db, "AAPL", 60.0)

		// Breakeven, underwater and zero-basis lots all stay out.
		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 60.0, 100)
		testutil.InsertBuy(t, db, "AAPL", "2024-02-15", 70.0, 100)
		testutil.InsertBuy(t, db, "AAPL", "2024-03-15", 0.0, 100)

		if lots := defaultScan(t, svc); len(lots) != 0 {
			t.Errorf("Expected no candidates, got %d", len(lots))
		}
	})

	t.Run("skips overweight symbols without a price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLotSelectorService(t, db)

		testutil.SetOverweight(t, db, "MISS", 10.0, model.FlagOver)
		testutil.InsertBuy(t, db, "MISS", "2024-01-15", 50.0, 100)

		if lots := defaultScan(t, svc); len(lots) != 0 {
			t.Errorf("Expected no candidates, got %d", len(lots))
		}
	})

	t.Run("applies profit and lot value thresholds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLotSelectorService(t, db)

		testutil.SetOverweight(t, db, "AAPL", 10.0, model.FlagOver)
		testutil.InsertPrice(t, db, "AAPL", 1.05)

		// Profit is 0.50, below the 0.60 default.
		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 1.0, 10)

		if lots := defaultScan(t, svc); len(lots) != 0 {
			t.Errorf("Expected no candidates below the profit threshold, got %d", len(lots))
		}
	})

	t.Run("ranks candidates globally by profit percentage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLotSelectorService(t, db)

		testutil.SetOverweight(t, db, "AAPL", 10.0, model.FlagOver)
		testutil.InsertPrice(t, db, "AAPL", 60.0)
		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100) // 20%

		testutil.SetOverweight(t, db, "MSFT", 20.0, model.FlagOver)
		testutil.InsertPrice(t, db, "MSFT", 60.0)
		testutil.InsertBuy(t, db, "MSFT", "2024-01-15", 40.0, 100) // 50%

		lots := defaultScan(t, svc)
		if len(lots) != 2 {
			t.Fatalf("Expected 2 candidates, got %d", len(lots))
		}
		if lots[0].Symbol != "MSFT" || lots[1].Symbol != "AAPL" {
			t.Errorf("Expected order [MSFT AAPL], got [%s %s]", lots[0].Symbol, lots[1].Symbol)
		}
	})
}
