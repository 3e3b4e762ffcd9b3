package service_test

import (
	"errors"
	"testing"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/testutil"
)

// TestHoldingsService_GetHoldings tests the holdings report.
//
// WHY: The report joins ledger, prices, allocation state and daily history.
// A symbol missing from any one source must degrade per the partial-data
// policy (skip or omit fields), never sink the whole report.
func TestHoldingsService_GetHoldings(t *testing.T) {
	t.Run("reports held symbols with valuation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)

		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
		testutil.InsertPrice(t, db, "AAPL", 60.0)

		holdings, err := svc.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}

		h := holdings[0]
		if h.PositionValue != 6000.0 {
			t.Errorf("Expected position value 6000.00, got %v", h.PositionValue)
		}
		if h.UnrealizedGain != 1000.0 {
			t.Errorf("Expected unrealized gain 1000.00, got %v", h.UnrealizedGain)
		}
		if h.UnrealizedGainPercent != 20.0 {
			t.Errorf("Expected unrealized gain percent 20.0, got %v", h.UnrealizedGainPercent)
		}
	})

	t.Run("skips held symbols without a price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)

		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
		testutil.InsertPrice(t, db, "AAPL", 60.0)
		testutil.InsertBuy(t, db, "MISS", "2024-01-15", 50.0, 100)

		holdings, err := svc.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 || holdings[0].Symbol != "AAPL" {
			t.Errorf("Expected only AAPL in the report, got %v", holdings)
		}
	})

	t.Run("reports intraday change against the last close", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)

		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
		testutil.InsertPrice(t, db, "AAPL", 60.0)
		testutil.InsertClose(t, db, "AAPL", "2024-06-01", 55.0)
		testutil.InsertClose(t, db, "AAPL", "2024-06-02", 50.0)

		holdings, err := svc.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].PriceChange != 10.0 {
			t.Errorf("Expected price change 10.00 against latest close, got %v", holdings[0].PriceChange)
		}
		if holdings[0].PriceChangePct != 20.0 {
			t.Errorf("Expected price change percent 20.0, got %v", holdings[0].PriceChangePct)
		}
	})

	t.Run("suppresses intraday change for static-price symbols", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)

		// STATIC is on the test config's static-price list.
		testutil.InsertBuy(t, db, "STATIC", "2024-01-15", 50.0, 100)
		testutil.InsertPrice(t, db, "STATIC", 60.0)
		testutil.InsertClose(t, db, "STATIC", "2024-06-01", 55.0)

		holdings, err := svc.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].PriceChange != 0 {
			t.Errorf("Expected zero price change for static symbol, got %v", holdings[0].PriceChange)
		}
	})
}

// TestHoldingsService_GetPosition tests the per-symbol detail view.
func TestHoldingsService_GetPosition(t *testing.T) {
	t.Run("includes realized results and dividend income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)

		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
		testutil.InsertPrice(t, db, "AAPL", 60.0)
		testutil.InsertSell(t, db, "AAPL", "2024-03-01", 58.0, 20, 160)
		testutil.InsertDividend(t, db, "AAPL", "2024-03-15", 0.25, 100)

		pos, err := svc.GetPosition("AAPL")
		if err != nil {
			t.Fatalf("GetPosition() returned unexpected error: %v", err)
		}
		if pos.RealizedPL != 160.0 {
			t.Errorf("Expected realized P&L 160.00, got %v", pos.RealizedPL)
		}
		if pos.TotalDividends != 25.0 {
			t.Errorf("Expected total dividends 25.00, got %v", pos.TotalDividends)
		}
	})

	t.Run("returns not found for unheld symbols", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)

		_, err := svc.GetPosition("GHOST")
		if !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
	})
}

// TestHoldingsService_GetSectorAllocation tests sector grouping.
func TestHoldingsService_GetSectorAllocation(t *testing.T) {
	t.Run("groups position values by sector", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)

		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
		testutil.InsertPrice(t, db, "AAPL", 60.0)
		testutil.SetOverweight(t, db, "AAPL", 0, "O")
		testutil.InsertSector(t, db, "AAPL", "Technology")

		testutil.InsertBuy(t, db, "XOM", "2024-01-15", 40.0, 50)
		testutil.InsertPrice(t, db, "XOM", 80.0)

		allocation, err := svc.GetSectorAllocation()
		if err != nil {
			t.Fatalf("GetSectorAllocation() returned unexpected error: %v", err)
		}

		if allocation.TotalValue != 10000.0 {
			t.Errorf("Expected total value 10000.00, got %v", allocation.TotalValue)
		}
		if len(allocation.Sectors) != 2 {
			t.Fatalf("Expected 2 sectors, got %d", len(allocation.Sectors))
		}

		// Sorted by value descending: Technology 6000, Unknown 4000.
		if allocation.Sectors[0].Sector != "Technology" || allocation.Sectors[0].Value != 6000.0 {
			t.Errorf("Unexpected leading sector: %+v", allocation.Sectors[0])
		}
		if allocation.Sectors[1].Sector != "Unknown" || allocation.Sectors[1].Value != 4000.0 {
			t.Errorf("Unexpected trailing sector: %+v", allocation.Sectors[1])
		}
	})

	t.Run("normalizes sector spelling variants", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)

		testutil.InsertBuy(t, db, "JNJ", "2024-01-15", 50.0, 100)
		testutil.InsertPrice(t, db, "JNJ", 60.0)
		testutil.SetOverweight(t, db, "JNJ", 0, "O")
		testutil.InsertSector(t, db, "JNJ", "Health Care")

		allocation, err := svc.GetSectorAllocation()
		if err != nil {
			t.Fatalf("GetSectorAllocation() returned unexpected error: %v", err)
		}
		if len(allocation.Sectors) != 1 || allocation.Sectors[0].Sector != "Healthcare" {
			t.Errorf("Expected Health Care normalized to Healthcare, got %v", allocation.Sectors)
		}
	})
}

// TestHoldingsService_GetReturnsBySecurity tests the total-return report.
func TestHoldingsService_GetReturnsBySecurity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestHoldingsService(t, db)

	// Unrealized 1000 + realized 160 + dividends 40 over cost 5000 = 24%.
	testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
	testutil.InsertPrice(t, db, "AAPL", 60.0)
	testutil.InsertSell(t, db, "AAPL", "2024-03-01", 58.0, 20, 160)
	testutil.InsertDividend(t, db, "AAPL", "2024-03-15", 0.40, 100)

	returns, err := svc.GetReturnsBySecurity()
	if err != nil {
		t.Fatalf("GetReturnsBySecurity() returned unexpected error: %v", err)
	}
	if len(returns) != 1 {
		t.Fatalf("Expected 1 security, got %d", len(returns))
	}
	if returns[0].ReturnPercent != 24.0 {
		t.Errorf("Expected return 24.0%%, got %v", returns[0].ReturnPercent)
	}
}
