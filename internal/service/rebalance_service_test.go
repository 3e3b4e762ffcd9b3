package service_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/service"
	"github.com/mike4330/stokapp-v2/internal/testutil"
)

// TestOverweightFlag tests the deviation classifier boundaries.
//
// WHY: The flag drives which symbols the sale-candidate scan even looks at.
// The deadband sits below zero only: a position exactly on target is already
// flagged overweight, and the hold band is exactly [-1, 0).
func TestOverweightFlag(t *testing.T) {
	cases := []struct {
		overamt float64
		want    string
	}{
		{overamt: 0, want: model.FlagOver},
		{overamt: 250.5, want: model.FlagOver},
		{overamt: -0.5, want: model.FlagHold},
		{overamt: -1.0, want: model.FlagHold},
		{overamt: -1.01, want: model.FlagUnder},
		{overamt: -1000, want: model.FlagUnder},
	}

	for _, tc := range cases {
		if got := service.OverweightFlag(tc.overamt); got != tc.want {
			t.Errorf("OverweightFlag(%v) = %q, want %q", tc.overamt, got, tc.want)
		}
	}
}

func readOverweight(t *testing.T, db *sql.DB, symbol string) (sql.NullFloat64, sql.NullString) {
	t.Helper()

	var overamt sql.NullFloat64
	var flag sql.NullString
	err := db.QueryRow(`SELECT overamt, flag FROM mpt WHERE symbol = ?`, symbol).Scan(&overamt, &flag)
	if err != nil {
		t.Fatalf("Failed to read overweight state for %s: %v", symbol, err)
	}
	return overamt, flag
}

// TestRebalanceService_RecomputeOverweights tests the rebalance run.
//
// WHY: overamt and flag are materialized state that every other allocation
// feature reads. The run must derive them from ledger and price state alone,
// and a run on garbage inputs must abort without overwriting good data.
func TestRebalanceService_RecomputeOverweights(t *testing.T) {
	t.Run("writes the deviation from target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		// Total portfolio value 100,000: AAPL 9,000 and VTI 91,000.
		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 80.0, 90)
		testutil.InsertPrice(t, db, "AAPL", 100.0)
		testutil.InsertBuy(t, db, "VTI", "2024-01-15", 90.0, 910)
		testutil.InsertPrice(t, db, "VTI", 100.0)

		testutil.InsertTarget(t, db, "AAPL", 0.10)
		testutil.InsertTarget(t, db, "VTI", 0.90)

		result, err := svc.RecomputeOverweights()
		if err != nil {
			t.Fatalf("RecomputeOverweights() returned unexpected error: %v", err)
		}

		if result.TotalValue != 100000.0 {
			t.Errorf("Expected total value 100000.00, got %v", result.TotalValue)
		}
		if result.UpdatedSymbols != 2 {
			t.Errorf("Expected 2 updated symbols, got %d", result.UpdatedSymbols)
		}

		overamt, flag := readOverweight(t, db, "AAPL")
		if !overamt.Valid || overamt.Float64 != -1000.0 {
			t.Errorf("Expected AAPL overamt -1000.00, got %v", overamt)
		}
		if flag.String != model.FlagUnder {
			t.Errorf("Expected AAPL flag %q, got %q", model.FlagUnder, flag.String)
		}

		overamt, flag = readOverweight(t, db, "VTI")
		if !overamt.Valid || overamt.Float64 != 1000.0 {
			t.Errorf("Expected VTI overamt 1000.00, got %v", overamt)
		}
		if flag.String != model.FlagOver {
			t.Errorf("Expected VTI flag %q, got %q", model.FlagOver, flag.String)
		}
	})

	t.Run("is idempotent without state changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 80.0, 100)
		testutil.InsertPrice(t, db, "AAPL", 100.0)
		testutil.InsertTarget(t, db, "AAPL", 0.5)

		if _, err := svc.RecomputeOverweights(); err != nil {
			t.Fatalf("First RecomputeOverweights() returned unexpected error: %v", err)
		}
		firstOveramt, firstFlag := readOverweight(t, db, "AAPL")

		if _, err := svc.RecomputeOverweights(); err != nil {
			t.Fatalf("Second RecomputeOverweights() returned unexpected error: %v", err)
		}
		secondOveramt, secondFlag := readOverweight(t, db, "AAPL")

		if firstOveramt != secondOveramt || firstFlag != secondFlag {
			t.Errorf("Expected identical state after repeat run, got %v/%v then %v/%v",
				firstOveramt, firstFlag, secondOveramt, secondFlag)
		}
	})

	t.Run("aborts when the portfolio value is not positive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		// A position exists but has no price, so the computed total is zero.
		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 80.0, 100)
		testutil.InsertTarget(t, db, "AAPL", 0.5)
		testutil.SetOverweight(t, db, "AAPL", 42.0, model.FlagOver)

		_, err := svc.RecomputeOverweights()
		if !errors.Is(err, apperrors.ErrInvalidPortfolioValue) {
			t.Fatalf("Expected ErrInvalidPortfolioValue, got %v", err)
		}

		// The aborted run must not have touched stored state.
		overamt, flag := readOverweight(t, db, "AAPL")
		if !overamt.Valid || overamt.Float64 != 42.0 || flag.String != model.FlagOver {
			t.Errorf("Expected prior state preserved after abort, got %v/%v", overamt, flag)
		}
	})

	t.Run("keeps prior state for held but unpriced symbols", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 80.0, 100)
		testutil.InsertPrice(t, db, "AAPL", 100.0)
		testutil.InsertTarget(t, db, "AAPL", 0.5)

		testutil.InsertBuy(t, db, "MISS", "2024-01-15", 10.0, 10)
		testutil.InsertTarget(t, db, "MISS", 0.5)
		testutil.SetOverweight(t, db, "MISS", 42.0, model.FlagOver)

		result, err := svc.RecomputeOverweights()
		if err != nil {
			t.Fatalf("RecomputeOverweights() returned unexpected error: %v", err)
		}

		if len(result.SkippedSymbols) != 1 || result.SkippedSymbols[0] != "MISS" {
			t.Errorf("Expected MISS in skipped symbols, got %v", result.SkippedSymbols)
		}

		overamt, flag := readOverweight(t, db, "MISS")
		if !overamt.Valid || overamt.Float64 != 42.0 || flag.String != model.FlagOver {
			t.Errorf("Expected prior MISS state preserved, got %v/%v", overamt, flag)
		}
	})

	t.Run("skips symbols whose target value rounds to zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 80.0, 100)
		testutil.InsertPrice(t, db, "AAPL", 100.0)
		testutil.InsertTarget(t, db, "AAPL", 0.5)
		testutil.InsertTarget(t, db, "ZERO", 0.0)

		result, err := svc.RecomputeOverweights()
		if err != nil {
			t.Fatalf("RecomputeOverweights() returned unexpected error: %v", err)
		}
		if result.UpdatedSymbols != 1 {
			t.Errorf("Expected only 1 updated symbol, got %d", result.UpdatedSymbols)
		}

		overamt, _ := readOverweight(t, db, "ZERO")
		if overamt.Valid {
			t.Errorf("Expected ZERO to stay untouched, got overamt %v", overamt.Float64)
		}
	})
}
